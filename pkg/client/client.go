// Package client is a typed Go client for the DIY project API. It mirrors the
// web client's data views: the list is fetched once and searched locally, the
// detail view derives its cost total from the fetched record.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/makerstash/diy-backend/internal/projects/domain"
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu     sync.Mutex
	cached []domain.Project
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// List fetches all projects and remembers the result for local searching.
func (c *Client) List(ctx context.Context) ([]domain.Project, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/projects", nil)
	if err != nil {
		return nil, err
	}

	var items []domain.Project
	if err := c.do(req, http.StatusOK, &items); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cached = items
	c.mu.Unlock()

	return items, nil
}

// Search filters the cached list without a server round trip; the list is
// fetched first if nothing is cached yet. Matching is a case-insensitive
// substring on the title plus an exact difficulty filter.
func (c *Client) Search(ctx context.Context, term string, difficulty domain.Difficulty) ([]domain.Project, error) {
	c.mu.Lock()
	cached := c.cached
	c.mu.Unlock()

	if cached == nil {
		var err error
		if cached, err = c.List(ctx); err != nil {
			return nil, err
		}
	}
	return domain.Filter(cached, term, difficulty), nil
}

func (c *Client) Get(ctx context.Context, id string) (*domain.Project, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/projects/"+id, nil)
	if err != nil {
		return nil, err
	}

	var p domain.Project
	if err := c.do(req, http.StatusOK, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Create(ctx context.Context, np domain.NewProject) (*domain.Project, error) {
	payload := map[string]any{
		"title":       np.Title,
		"description": np.Description,
		"difficulty":  np.Difficulty,
		"materials":   np.Materials,
		"steps":       np.Steps,
		"imageUrl":    np.ImageURL,
	}
	if np.CulturalContext != "" {
		payload["culturalContext"] = np.CulturalContext
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal project: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/projects", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var p domain.Project
	if err := c.do(req, http.StatusCreated, &p); err != nil {
		return nil, err
	}

	c.invalidate()
	return &p, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/projects/"+id, nil)
	if err != nil {
		return err
	}

	if err := c.do(req, http.StatusOK, nil); err != nil {
		return err
	}

	c.invalidate()
	return nil
}

// UploadImage sends one image through the upload side channel and returns the
// path/URL to embed as a project's imageUrl.
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="projectImage"; filename=%q`, filename))
	hdr.Set("Content-Type", contentType)

	part, err := w.CreatePart(hdr)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out struct {
		Message  string `json:"message"`
		FilePath string `json:"filePath"`
	}
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return "", err
	}
	return out.FilePath, nil
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		if resp.StatusCode == http.StatusNotFound {
			return domain.ErrNotFound
		}
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("api error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}
