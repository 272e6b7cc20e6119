package domain

import (
	"fmt"
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty validates s against the enumerated difficulty levels.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("%w: difficulty must be one of Easy, Medium, Hard", ErrValidation)
	}
}

// Material is one line item of a project's cost estimate.
type Material struct {
	Item     string  `json:"item"`
	Cost     float64 `json:"cost"`
	Quantity int     `json:"quantity"`
}

// Project is a DIY tutorial record. JSON names follow the public wire format
// (camelCase), which clients depend on.
type Project struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Difficulty      Difficulty `json:"difficulty"`
	Materials       []Material `json:"materials"`
	Steps           []string   `json:"steps"`
	ImageURL        string     `json:"imageUrl,omitempty"`
	CulturalContext string     `json:"culturalContext,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// NewProject carries the client-settable fields of a create request.
type NewProject struct {
	Title           string
	Description     string
	Difficulty      string
	Materials       []Material
	Steps           []string
	ImageURL        string
	CulturalContext string
}

// Validate checks the payload before it reaches the store. Title, description
// and a valid difficulty are required; materials and steps may be empty but
// must be well formed when present.
func (n *NewProject) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(n.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if _, err := ParseDifficulty(n.Difficulty); err != nil {
		return err
	}
	for i, m := range n.Materials {
		if strings.TrimSpace(m.Item) == "" {
			return fmt.Errorf("%w: materials[%d]: item is required", ErrValidation, i)
		}
		if m.Cost < 0 {
			return fmt.Errorf("%w: materials[%d]: cost must not be negative", ErrValidation, i)
		}
		if m.Quantity <= 0 {
			return fmt.Errorf("%w: materials[%d]: quantity must be positive", ErrValidation, i)
		}
	}
	for i, s := range n.Steps {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: steps[%d]: step must not be empty", ErrValidation, i)
		}
	}
	return nil
}

// TotalCost sums cost×quantity over the materials. A nil or empty list totals
// zero; the sum is independent of material order.
func TotalCost(materials []Material) float64 {
	var total float64
	for _, m := range materials {
		total += m.Cost * float64(m.Quantity)
	}
	return total
}

// TotalCost is the detail-view cost estimate for the project.
func (p *Project) TotalCost() float64 {
	return TotalCost(p.Materials)
}

// Filter applies the list view's predicates: a case-insensitive substring
// match on the title and an exact difficulty match. Empty arguments match
// every project.
func Filter(projects []Project, searchTerm string, difficulty Difficulty) []Project {
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if term != "" && !strings.Contains(strings.ToLower(p.Title), term) {
			continue
		}
		if difficulty != "" && p.Difficulty != difficulty {
			continue
		}
		out = append(out, p)
	}
	return out
}
