package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts the order row followed by its items.
func (r *repository) Create(ctx context.Context, order *models.Order) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	if len(order.Items) == 0 {
		return nil
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return tx.Omit(clause.Associations).Create(&order.Items).Error
}

func (r *repository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("order_items.created_at ASC").Order("order_items.id ASC") }).
		Preload("Items.Product", func(q *gorm.DB) *gorm.DB { return q.Unscoped() }).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// NumberExists checks every order, trashed ones included.
func (r *repository) NumberExists(ctx context.Context, number string) (bool, error) {
	return db.ValueTaken(ctx, r.db, &models.Order{}, "number", number, nil)
}

func (r *repository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return tx.Omit(clause.Associations).Create(&items).Error
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *repository) Restore(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Order{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	return res.RowsAffected, res.Error
}

// ListQuery narrows an order listing.
type ListQuery struct {
	Search     string
	Status     *enums.OrderStatus
	CustomerID *uuid.UUID
	Trashed    enums.TrashedFilter
	Page       pagination.Params
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]models.Order, error) {
	scope, err := pagination.Scope("orders", query.Page)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Customer").Preload("Items")
	switch query.Trashed {
	case enums.TrashedWith:
		q = q.Unscoped()
	case enums.TrashedOnly:
		q = q.Unscoped().Where("orders.deleted_at IS NOT NULL")
	}
	if query.Search != "" {
		q = q.Where("LOWER(orders.number) LIKE LOWER(?)", "%"+query.Search+"%")
	}
	if query.Status != nil {
		q = q.Where("orders.status = ?", *query.Status)
	}
	if query.CustomerID != nil {
		q = q.Where("orders.customer_id = ?", *query.CustomerID)
	}

	var rows []models.Order
	if err := q.Scopes(scope).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ProductPrices returns the current price of every live product in ids.
func (r *repository) ProductPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Select("id", "price").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	prices := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		prices[row.ID] = row.Price
	}
	return prices, nil
}
