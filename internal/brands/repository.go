package brands

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

// Repository persists brands.
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

func (r *Repository) Create(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

// Save writes every column of an existing brand.
func (r *Repository) Save(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(brand).Error
}

// FindByID loads a brand. Trashed brands are only returned when withTrashed is set.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID, withTrashed bool) (*models.Brand, error) {
	q := r.db.WithContext(ctx)
	if withTrashed {
		q = q.Unscoped()
	}
	var brand models.Brand
	if err := q.First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Brand{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Taken reports whether another brand, trashed or not, already uses value.
func (r *Repository) Taken(ctx context.Context, column, value string, exclude *uuid.UUID) (bool, error) {
	return db.ValueTaken(ctx, r.db, &models.Brand{}, column, value, exclude)
}

func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Brand{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *Repository) Restore(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Unscoped().
		Model(&models.Brand{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	return res.RowsAffected, res.Error
}

// ListQuery narrows a brand listing.
type ListQuery struct {
	Search  string
	Visible *bool
	Trashed enums.TrashedFilter
	Page    pagination.Params
}

func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Brand, error) {
	scope, err := pagination.Scope("brands", query.Page)
	if err != nil {
		return nil, err
	}

	q := applyTrashed(r.db.WithContext(ctx), query.Trashed)
	if query.Search != "" {
		like := "%" + query.Search + "%"
		q = q.Where("(LOWER(brands.name) LIKE LOWER(?) OR LOWER(brands.description) LIKE LOWER(?))", like, like)
	}
	if query.Visible != nil {
		q = q.Where("brands.is_visible = ?", *query.Visible)
	}

	var rows []models.Brand
	if err := q.Scopes(scope).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func applyTrashed(q *gorm.DB, filter enums.TrashedFilter) *gorm.DB {
	switch filter {
	case enums.TrashedWith:
		return q.Unscoped()
	case enums.TrashedOnly:
		return q.Unscoped().Where("deleted_at IS NOT NULL")
	default:
		return q
	}
}
