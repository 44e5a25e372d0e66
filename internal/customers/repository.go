package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/pagination"
)

// Repository persists customers.
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

func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *Repository) Save(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) EmailTaken(ctx context.Context, email string, exclude *uuid.UUID) (bool, error) {
	return db.ValueTaken(ctx, r.db, &models.Customer{}, "email", email, exclude)
}

// Delete removes the customer with every order it placed, trashed orders
// included, and their items. Must run inside a transaction.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx)
	orderIDs := tx.Unscoped().Model(&models.Order{}).Select("id").Where("customer_id = ?", id)
	if err := tx.Where("order_id IN (?)", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Unscoped().Where("customer_id = ?", id).Delete(&models.Order{}).Error; err != nil {
		return 0, err
	}
	res := tx.Delete(&models.Customer{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

type ListQuery struct {
	Search string
	Page   pagination.Params
}

func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Customer, error) {
	scope, err := pagination.Scope("customers", query.Page)
	if err != nil {
		return nil, err
	}
	q := r.db.WithContext(ctx).Model(&models.Customer{})
	if query.Search != "" {
		like := "%" + query.Search + "%"
		q = q.Where("(LOWER(customers.name) LIKE LOWER(?) OR LOWER(customers.email) LIKE LOWER(?))", like, like)
	}
	var rows []models.Customer
	if err := q.Scopes(scope).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
