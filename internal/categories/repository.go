package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/pagination"
)

// Repository persists categories and their product links.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error
}

func (r *Repository) Save(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error
}

// FindByID loads a category with its parent. Trashed categories are only
// returned when withTrashed is set.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID, withTrashed bool) (*models.Category, error) {
	q := r.db.WithContext(ctx).Preload("Parent")
	if withTrashed {
		q = q.Unscoped()
	}
	var category models.Category
	if err := q.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ParentOf returns the parent id of a live category, or nil for a root.
func (r *Repository) ParentOf(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Select("id", "parent_id").First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return category.ParentID, nil
}

// ExistingIDs returns which of ids belong to live categories.
func (r *Repository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var found []uuid.UUID
	if len(ids) == 0 {
		return found, nil
	}
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

// Taken reports whether another category, trashed or not, already uses value.
func (r *Repository) Taken(ctx context.Context, column, value string, exclude *uuid.UUID) (bool, error) {
	return db.ValueTaken(ctx, r.db, &models.Category{}, column, value, exclude)
}

// SoftDelete trashes the category, drops its product links and detaches its
// children.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx)
	res := tx.Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil || res.RowsAffected == 0 {
		return res.RowsAffected, res.Error
	}
	if err := tx.Where("category_id = ?", id).Delete(&models.CategoryProduct{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Unscoped().Model(&models.Category{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

func (r *Repository) Restore(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().
		Model(&models.Category{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	return res.RowsAffected, res.Error
}

// Count returns the number of live categories.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListQuery narrows a category listing.
type ListQuery struct {
	Search   string
	Visible  *bool
	ParentID *uuid.UUID
	Trashed  enums.TrashedFilter
	Page     pagination.Params
}

func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Category, error) {
	scope, err := pagination.Scope("categories", query.Page)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Preload("Parent")
	switch query.Trashed {
	case enums.TrashedWith:
		q = q.Unscoped()
	case enums.TrashedOnly:
		q = q.Unscoped().Where("categories.deleted_at IS NOT NULL")
	}
	if query.Search != "" {
		like := "%" + query.Search + "%"
		q = q.Where(
			"(LOWER(categories.name) LIKE LOWER(?) OR categories.slug LIKE LOWER(?) OR LOWER(categories.description) LIKE LOWER(?))",
			like, like, like,
		)
	}
	if query.Visible != nil {
		q = q.Where("categories.is_visible = ?", *query.Visible)
	}
	if query.ParentID != nil {
		q = q.Where("categories.parent_id = ?", *query.ParentID)
	}

	var rows []models.Category
	if err := q.Scopes(scope).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
