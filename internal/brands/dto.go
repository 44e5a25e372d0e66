package brands

import (
	"time"

	"github.com/google/uuid"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
)

// BrandDTO is the brand payload returned to clients.
type BrandDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	URL         string     `json:"url"`
	PrimaryHex  string     `json:"primary_hex"`
	IsVisible   bool       `json:"is_visible"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func NewBrandDTO(brand *models.Brand) *BrandDTO {
	dto := &BrandDTO{
		ID:          brand.ID,
		Name:        brand.Name,
		Slug:        brand.Slug,
		URL:         brand.URL,
		PrimaryHex:  brand.PrimaryHex,
		IsVisible:   brand.IsVisible,
		Description: brand.Description,
		CreatedAt:   brand.CreatedAt,
		UpdatedAt:   brand.UpdatedAt,
	}
	if brand.DeletedAt.Valid {
		deletedAt := brand.DeletedAt.Time
		dto.DeletedAt = &deletedAt
	}
	return dto
}
