package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/money"
)

// ProductDTO is the product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID         `json:"id"`
	BrandID     uuid.UUID         `json:"brand_id"`
	Brand       *BrandSummary     `json:"brand,omitempty"`
	Categories  []CategorySummary `json:"categories"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	SKU         string            `json:"sku"`
	Image       *string           `json:"image,omitempty"`
	Description *string           `json:"description,omitempty"`
	Quantity    int               `json:"quantity"`
	Price       string            `json:"price"`
	IsVisible   bool              `json:"is_visible"`
	IsFeatured  bool              `json:"is_featured"`
	Type        enums.ProductType `json:"type"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   *time.Time        `json:"deleted_at,omitempty"`
}

type BrandSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          product.ID,
		BrandID:     product.BrandID,
		Categories:  make([]CategorySummary, 0, len(product.Categories)),
		Name:        product.Name,
		Slug:        product.Slug,
		SKU:         product.SKU,
		Image:       product.Image,
		Description: product.Description,
		Quantity:    product.Quantity,
		Price:       money.Format(product.Price),
		IsVisible:   product.IsVisible,
		IsFeatured:  product.IsFeatured,
		Type:        product.Type,
		PublishedAt: product.PublishedAt,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Brand != nil {
		dto.Brand = &BrandSummary{ID: product.Brand.ID, Name: product.Brand.Name, Slug: product.Brand.Slug}
	}
	for _, category := range product.Categories {
		dto.Categories = append(dto.Categories, CategorySummary{ID: category.ID, Name: category.Name, Slug: category.Slug})
	}
	if product.DeletedAt.Valid {
		deletedAt := product.DeletedAt.Time
		dto.DeletedAt = &deletedAt
	}
	return dto
}
