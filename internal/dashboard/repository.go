package dashboard

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"
)

// Repository runs the read-only aggregate queries behind the dashboard.
// Trashed rows are never counted.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreatedAtBetween plucks created_at of every live row of model in [start, end].
func (r *Repository) CreatedAtBetween(ctx context.Context, model any, start, end time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := r.db.WithContext(ctx).
		Model(model).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Pluck("created_at", &stamps).Error
	return stamps, err
}

// OrderStatusTotals returns the number of orders per status. Statuses with no
// orders are absent.
func (r *Repository) OrderStatusTotals(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	var rows []struct {
		Status enums.OrderStatus
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[enums.OrderStatus]int64, len(rows))
	for _, row := range rows {
		totals[row.Status] = row.Total
	}
	return totals, nil
}

func (r *Repository) CountOrdersWithStatus(ctx context.Context, status enums.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *Repository) Count(ctx context.Context, model any) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Count(&count).Error
	return count, err
}
