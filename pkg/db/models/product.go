package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"
)

// Product is a sellable catalog entry.
type Product struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	BrandID     uuid.UUID         `gorm:"column:brand_id;type:uuid;not null"`
	Brand       *Brand            `gorm:"foreignKey:BrandID"`
	Categories  []Category        `gorm:"many2many:category_product;joinForeignKey:ProductID;joinReferences:CategoryID"`
	Name        string            `gorm:"column:name;not null"`
	Slug        string            `gorm:"column:slug;not null"`
	SKU         string            `gorm:"column:sku;not null"`
	Image       *string           `gorm:"column:image"`
	Description *string           `gorm:"column:description"`
	Quantity    int               `gorm:"column:quantity;not null"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(10,2);not null"`
	IsVisible   bool              `gorm:"column:is_visible;not null;default:false"`
	IsFeatured  bool              `gorm:"column:is_featured;not null;default:false"`
	Type        enums.ProductType `gorm:"column:type;not null;default:'deliverable'"`
	PublishedAt *time.Time        `gorm:"column:published_at"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   gorm.DeletedAt    `gorm:"column:deleted_at;index"`
}

func (Product) TableName() string { return "products" }

// CategoryProduct is a row of the product/category join table.
type CategoryProduct struct {
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
}

func (CategoryProduct) TableName() string { return "category_product" }
