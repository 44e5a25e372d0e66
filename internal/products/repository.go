package products

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

// Repository persists products and their category links.
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

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

// FindByID loads the product with its brand and categories.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Categories", func(q *gorm.DB) *gorm.DB { return q.Order("categories.name ASC") }).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// LockByID loads the bare product row and holds a write lock on it until the
// surrounding transaction ends. Concurrent updates of one product serialize here.
func (r *Repository) LockByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Taken reports whether another product, trashed or not, already uses value.
func (r *Repository) Taken(ctx context.Context, column, value string, exclude *uuid.UUID) (bool, error) {
	return db.ValueTaken(ctx, r.db, &models.Product{}, column, value, exclude)
}

// ReplaceCategories swaps the product's category links for categoryIDs.
func (r *Repository) ReplaceCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.CategoryProduct{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]models.CategoryProduct, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		links = append(links, models.CategoryProduct{CategoryID: categoryID, ProductID: productID})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

// SoftDelete trashes the product and removes its category links.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx)
	res := tx.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil || res.RowsAffected == 0 {
		return res.RowsAffected, res.Error
	}
	if err := tx.Where("product_id = ?", id).Delete(&models.CategoryProduct{}).Error; err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// BrandExists reports whether a live brand has the given id.
func (r *Repository) BrandExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Brand{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistingCategoryIDs returns which of ids belong to live categories.
func (r *Repository) ExistingCategoryIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var found []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

// ListQuery narrows a product listing.
type ListQuery struct {
	Search     string
	Visible    *bool
	BrandID    *uuid.UUID
	CategoryID *uuid.UUID
	Trashed    enums.TrashedFilter
	Page       pagination.Params
}

func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Product, error) {
	scope, err := pagination.Scope("products", query.Page)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Model(&models.Product{}).Preload("Brand")
	switch query.Trashed {
	case enums.TrashedWith:
		q = q.Unscoped()
	case enums.TrashedOnly:
		q = q.Unscoped().Where("products.deleted_at IS NOT NULL")
	}
	if query.Search != "" {
		like := "%" + query.Search + "%"
		q = q.Where(
			"(LOWER(products.name) LIKE LOWER(?) OR LOWER(products.description) LIKE LOWER(?) OR products.brand_id IN (?))",
			like, like,
			r.db.Model(&models.Brand{}).Select("id").Where("LOWER(name) LIKE LOWER(?)", like),
		)
	}
	if query.Visible != nil {
		q = q.Where("products.is_visible = ?", *query.Visible)
	}
	if query.BrandID != nil {
		q = q.Where("products.brand_id = ?", *query.BrandID)
	}
	if query.CategoryID != nil {
		q = q.Where(
			"products.id IN (?)",
			r.db.Model(&models.CategoryProduct{}).Select("product_id").Where("category_id = ?", *query.CategoryID),
		)
	}

	var rows []models.Product
	if err := q.Scopes(scope).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
