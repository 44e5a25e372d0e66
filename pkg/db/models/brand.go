package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Brand is a manufacturer or label products are sold under.
type Brand struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name        string         `gorm:"column:name;not null"`
	Slug        string         `gorm:"column:slug;not null"`
	URL         string         `gorm:"column:url;not null"`
	PrimaryHex  string         `gorm:"column:primary_hex;not null"`
	IsVisible   bool           `gorm:"column:is_visible;not null"`
	Description *string        `gorm:"column:description"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Brand) TableName() string { return "brands" }
