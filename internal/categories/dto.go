package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
)

// CategoryDTO is the category payload returned to clients.
type CategoryDTO struct {
	ID          uuid.UUID      `json:"id"`
	ParentID    *uuid.UUID     `json:"parent_id,omitempty"`
	Parent      *ParentSummary `json:"parent,omitempty"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description *string        `json:"description,omitempty"`
	IsVisible   bool           `json:"is_visible"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty"`
}

// ParentSummary is the slice of the parent shown next to a category.
type ParentSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

func NewCategoryDTO(category *models.Category) *CategoryDTO {
	dto := &CategoryDTO{
		ID:          category.ID,
		ParentID:    category.ParentID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		IsVisible:   category.IsVisible,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
	if category.Parent != nil {
		dto.Parent = &ParentSummary{
			ID:   category.Parent.ID,
			Name: category.Parent.Name,
			Slug: category.Parent.Slug,
		}
	}
	if category.DeletedAt.Valid {
		deletedAt := category.DeletedAt.Time
		dto.DeletedAt = &deletedAt
	}
	return dto
}
