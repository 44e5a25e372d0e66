package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a node in the catalog tree. ParentID is a plain reference;
// a category does not own its parent or children.
type Category struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	ParentID    *uuid.UUID     `gorm:"column:parent_id;type:uuid"`
	Parent      *Category      `gorm:"foreignKey:ParentID"`
	Name        string         `gorm:"column:name;not null"`
	Slug        string         `gorm:"column:slug;not null"`
	Description *string        `gorm:"column:description"`
	IsVisible   bool           `gorm:"column:is_visible;not null;default:false"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Category) TableName() string { return "categories" }
