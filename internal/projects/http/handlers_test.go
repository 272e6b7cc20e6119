package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makerstash/diy-backend/internal/projects/domain"
)

type fakeStore struct {
	projects map[string]domain.Project
	order    []string
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{projects: make(map[string]domain.Project)}
}

func (f *fakeStore) Create(ctx context.Context, np domain.NewProject) (*domain.Project, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if err := np.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := domain.Project{
		ID:              uuid.NewString(),
		Title:           np.Title,
		Description:     np.Description,
		Difficulty:      domain.Difficulty(np.Difficulty),
		Materials:       np.Materials,
		Steps:           np.Steps,
		ImageURL:        np.ImageURL,
		CulturalContext: np.CulturalContext,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if p.Materials == nil {
		p.Materials = []domain.Material{}
	}
	if p.Steps == nil {
		p.Steps = []string{}
	}
	f.projects[p.ID] = p
	f.order = append([]string{p.ID}, f.order...)
	return &p, nil
}

func (f *fakeStore) List(ctx context.Context) ([]domain.Project, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]domain.Project, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.projects[id])
	}
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidID
	}
	p, ok := f.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrInvalidID
	}
	if _, ok := f.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.projects, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) ListImageURLs(ctx context.Context) ([]string, error) {
	return nil, nil
}

func setupRouter(store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r.Group("/api/projects"), store)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func birdhousePayload() map[string]any {
	return map[string]any{
		"title":       "Birdhouse",
		"description": "A simple birdhouse",
		"difficulty":  "Easy",
		"materials": []map[string]any{
			{"item": "Wood", "cost": 5, "quantity": 2},
		},
		"steps":    []string{"Cut wood", "Assemble"},
		"imageUrl": "http://x/y.png",
	}
}

func TestListProjects(t *testing.T) {
	t.Run("empty catalog returns 200 with empty array", func(t *testing.T) {
		r := setupRouter(newFakeStore())

		rr := doJSON(t, r, "GET", "/api/projects", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		store := newFakeStore()
		store.failWith = errors.New("db down")
		r := setupRouter(store)

		rr := doJSON(t, r, "GET", "/api/projects", nil)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestCreateProject(t *testing.T) {
	t.Run("valid payload returns 201 with stored record", func(t *testing.T) {
		r := setupRouter(newFakeStore())

		rr := doJSON(t, r, "POST", "/api/projects", birdhousePayload())
		require.Equal(t, http.StatusCreated, rr.Code)

		var p domain.Project
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "Birdhouse", p.Title)
		assert.Equal(t, domain.DifficultyEasy, p.Difficulty)
		assert.InDelta(t, 10.00, p.TotalCost(), 1e-9)
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("unknown difficulty is rejected, not stored", func(t *testing.T) {
		store := newFakeStore()
		r := setupRouter(store)

		payload := birdhousePayload()
		payload["difficulty"] = "Extreme"

		rr := doJSON(t, r, "POST", "/api/projects", payload)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, store.projects)
	})

	t.Run("missing title is rejected", func(t *testing.T) {
		r := setupRouter(newFakeStore())

		payload := birdhousePayload()
		payload["title"] = "  "

		rr := doJSON(t, r, "POST", "/api/projects", payload)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		r := setupRouter(newFakeStore())

		req, err := http.NewRequest("POST", "/api/projects", bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetProject(t *testing.T) {
	store := newFakeStore()
	r := setupRouter(store)

	created, err := store.Create(context.Background(), domain.NewProject{
		Title:       "Birdhouse",
		Description: "desc",
		Difficulty:  "Easy",
	})
	require.NoError(t, err)

	t.Run("known id returns the record", func(t *testing.T) {
		rr := doJSON(t, r, "GET", "/api/projects/"+created.ID, nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var p domain.Project
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
		assert.Equal(t, created.ID, p.ID)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		rr := doJSON(t, r, "GET", "/api/projects/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		rr := doJSON(t, r, "GET", "/api/projects/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeleteProject(t *testing.T) {
	store := newFakeStore()
	r := setupRouter(store)

	created, err := store.Create(context.Background(), domain.NewProject{
		Title:       "Birdhouse",
		Description: "desc",
		Difficulty:  "Easy",
	})
	require.NoError(t, err)

	t.Run("delete returns confirmation", func(t *testing.T) {
		rr := doJSON(t, r, "DELETE", "/api/projects/"+created.ID, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Project deleted")
	})

	t.Run("repeat delete fails with 404", func(t *testing.T) {
		rr := doJSON(t, r, "DELETE", "/api/projects/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("never-created id fails with 404", func(t *testing.T) {
		rr := doJSON(t, r, "DELETE", "/api/projects/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
