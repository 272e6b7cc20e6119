package http

import "github.com/makerstash/diy-backend/internal/projects/domain"

type materialReq struct {
	Item     string  `json:"item"`
	Cost     float64 `json:"cost"`
	Quantity int     `json:"quantity"`
}

type createReq struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Difficulty      string        `json:"difficulty"`
	Materials       []materialReq `json:"materials"`
	Steps           []string      `json:"steps"`
	ImageURL        string        `json:"imageUrl"`
	CulturalContext string        `json:"culturalContext"`
}

func (r *createReq) toDomain() domain.NewProject {
	materials := make([]domain.Material, 0, len(r.Materials))
	for _, m := range r.Materials {
		materials = append(materials, domain.Material{
			Item:     m.Item,
			Cost:     m.Cost,
			Quantity: m.Quantity,
		})
	}
	return domain.NewProject{
		Title:           r.Title,
		Description:     r.Description,
		Difficulty:      r.Difficulty,
		Materials:       materials,
		Steps:           r.Steps,
		ImageURL:        r.ImageURL,
		CulturalContext: r.CulturalContext,
	}
}
