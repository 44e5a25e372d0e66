package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"
	pkgerrors "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/errors"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
)

// Service computes dashboard widgets and navigation badges. Nothing is
// cached; every call reads the store.
type Service interface {
	MonthlyProductCounts(ctx context.Context, mode WindowMode) ([]Bucket, error)
	MonthlyOrderCounts(ctx context.Context, mode WindowMode) ([]Bucket, error)
	OrderStatusCounts(ctx context.Context) ([]StatusCount, error)
	Stats(ctx context.Context) (*Stats, error)
	ProcessingOrderBadge(ctx context.Context) (Badge, error)
	CategoryCount(ctx context.Context) (int64, error)
	PendingOrderCount(ctx context.Context) (int64, error)
	Navigation(ctx context.Context) (*Navigation, error)
}

// StatusCount is one slice of the order status chart.
type StatusCount struct {
	Status enums.OrderStatus `json:"status"`
	Count  int64             `json:"count"`
}

// Stats backs the overview cards.
type Stats struct {
	TotalProducts  int64 `json:"total_products"`
	PendingOrders  int64 `json:"pending_orders"`
	TotalCustomers int64 `json:"total_customers"`
}

type service struct {
	repo  *Repository
	logg  *logger.Logger
	clock func() time.Time
}

// NewService builds the dashboard service. A nil clock uses time.Now.
func NewService(repo *Repository, logg *logger.Logger, clock func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &service{repo: repo, logg: logg, clock: clock}, nil
}

func (s *service) MonthlyProductCounts(ctx context.Context, mode WindowMode) ([]Bucket, error) {
	return s.monthly(ctx, &models.Product{}, "products", mode)
}

func (s *service) MonthlyOrderCounts(ctx context.Context, mode WindowMode) ([]Bucket, error) {
	return s.monthly(ctx, &models.Order{}, "orders", mode)
}

func (s *service) monthly(ctx context.Context, model any, table string, mode WindowMode) ([]Bucket, error) {
	now := s.clock().UTC()
	start, end := Window(now, mode)
	stamps, err := s.repo.CreatedAtBetween(ctx, model, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load "+table+" timestamps")
	}
	return BuildMonthly(now, mode, stamps), nil
}

// OrderStatusCounts lists every status in declaration order, zero-filled.
func (s *service) OrderStatusCounts(ctx context.Context) ([]StatusCount, error) {
	totals, err := s.repo.OrderStatusTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count orders by status")
	}
	statuses := enums.OrderStatuses()
	out := make([]StatusCount, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, StatusCount{Status: status, Count: totals[status]})
	}
	return out, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalProducts, err = s.repo.Count(gctx, &models.Product{})
		return err
	})
	g.Go(func() (err error) {
		stats.PendingOrders, err = s.repo.CountOrdersWithStatus(gctx, enums.OrderStatusPending)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalCustomers, err = s.repo.Count(gctx, &models.Customer{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load dashboard stats")
	}
	return &stats, nil
}

func (s *service) ProcessingOrderBadge(ctx context.Context) (Badge, error) {
	count, err := s.repo.CountOrdersWithStatus(ctx, enums.OrderStatusProcessing)
	if err != nil {
		return Badge{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count processing orders")
	}
	return Badge{Count: count, Color: BadgeColorFor(count)}, nil
}

func (s *service) CategoryCount(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx, &models.Category{})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count categories")
	}
	return count, nil
}

func (s *service) PendingOrderCount(ctx context.Context) (int64, error) {
	count, err := s.repo.CountOrdersWithStatus(ctx, enums.OrderStatusPending)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count pending orders")
	}
	return count, nil
}

func (s *service) Navigation(ctx context.Context) (*Navigation, error) {
	var nav Navigation
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		nav.ProcessingOrders, err = s.ProcessingOrderBadge(gctx)
		return err
	})
	g.Go(func() (err error) {
		nav.Categories, err = s.CategoryCount(gctx)
		return err
	})
	g.Go(func() (err error) {
		nav.PendingOrders, err = s.PendingOrderCount(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logg.Error(ctx, "navigation badges failed", err)
		return nil, err
	}
	return &nav, nil
}
