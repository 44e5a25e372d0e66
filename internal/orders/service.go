package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"
	pkgerrors "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/errors"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/metrics"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/money"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/pagination"
)

const entity = "order"

const (
	minItemQuantity = 1
	maxItemQuantity = 100
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order aggregate operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*OrderDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*OrderDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, input ListInput) (*pagination.Page[OrderDTO], error)
}

// ItemInput is one requested order line. The unit price is never taken from
// the caller.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateInput holds the payload to place an order. An empty Status means
// pending.
type CreateInput struct {
	CustomerID    uuid.UUID
	Status        string
	ShippingPrice *string
	Notes         *string
	Items         []ItemInput
}

// UpdateInput holds optional mutation values. A non-nil Items replaces the
// whole item set; an empty ShippingPrice clears it.
type UpdateInput struct {
	Status        *string
	ShippingPrice *string
	Notes         *string
	Items         *[]ItemInput
}

type ListInput struct {
	Search     string
	Status     string
	CustomerID *uuid.UUID
	Trashed    enums.TrashedFilter
	Page       pagination.Params
}

type service struct {
	repo    Repository
	tx      txRunner
	numbers *NumberGenerator
	logg    *logger.Logger
	metrics *metrics.CommandMetrics
}

// NewService constructs an order service. recorder may be nil.
func NewService(repo Repository, tx txRunner, numbers *NumberGenerator, logg *logger.Logger, recorder *metrics.CommandMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if numbers == nil {
		return nil, fmt.Errorf("number generator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, numbers: numbers, logg: logg, metrics: recorder}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (out *OrderDTO, err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "create", started, err) }(time.Now())

	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.ValidationFailed("customer_id", "is required")
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}
	status, err := parseStatus(input.Status)
	if err != nil {
		return nil, err
	}
	shipping, err := parseShipping(input.ShippingPrice)
	if err != nil {
		return nil, err
	}

	// The number lookup and the insert race with concurrent creations; a
	// unique violation on number reruns the transaction with what is left
	// of the attempt budget.
	remaining := s.numbers.Attempts()
	drawn := 0
	var order *models.Order
	for {
		order = &models.Order{
			CustomerID:    input.CustomerID,
			Status:        status,
			ShippingPrice: shipping,
			Notes:         normalizeOptional(input.Notes),
		}
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)
			if err := ensureCustomer(ctx, txRepo, input.CustomerID); err != nil {
				return err
			}
			items, err := snapshotItems(ctx, txRepo, input.Items)
			if err != nil {
				return err
			}
			number, used, err := s.numbers.Draw(ctx, remaining, txRepo.NumberExists)
			remaining -= used
			drawn += used
			if err != nil {
				return err
			}
			order.Number = number
			order.Items = items
			return txRepo.Create(ctx, order)
		})
		if err == nil {
			break
		}
		if db.IsUniqueViolation(err, "number") {
			s.logg.Warn(ctx, "order number collided at insert, retrying")
			if remaining > 0 {
				continue
			}
			err = pkgerrors.NumberGenerationExhausted(s.numbers.Attempts())
		}
		if drawn > 0 {
			s.metrics.ObserveNumberAttempts(drawn)
		}
		return nil, db.MapWriteError(err, entity, "", "insert order")
	}
	s.metrics.ObserveNumberAttempts(drawn)

	s.logg.Info(s.logg.WithEntity(ctx, entity, order.ID.String()), "order created")
	return s.Get(ctx, order.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (out *OrderDTO, err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "update", started, err) }(time.Now())

	if input.Items != nil {
		if err := validateItems(*input.Items); err != nil {
			return nil, err
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := txRepo.LockByID(ctx, id)
		if err != nil {
			return db.MapReadError(err, entity, id, "load order")
		}

		if input.Status != nil {
			if strings.TrimSpace(*input.Status) == "" {
				return pkgerrors.ValidationFailed("status", "must not be empty")
			}
			next, err := parseStatus(*input.Status)
			if err != nil {
				return err
			}
			if !order.Status.CanTransitionTo(next) {
				return pkgerrors.ValidationFailed("status", fmt.Sprintf("cannot move from %s to %s", order.Status, next))
			}
			order.Status = next
		}
		if input.ShippingPrice != nil {
			shipping, err := parseShipping(input.ShippingPrice)
			if err != nil {
				return err
			}
			order.ShippingPrice = shipping
		}
		if input.Notes != nil {
			order.Notes = normalizeOptional(input.Notes)
		}
		if err := txRepo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order")
		}

		if input.Items == nil {
			return nil
		}
		items, err := snapshotItems(ctx, txRepo, *input.Items)
		if err != nil {
			return err
		}
		if err := txRepo.ReplaceItems(ctx, order.ID, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace order items")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithEntity(ctx, entity, id.String()), "order updated")
	return s.Get(ctx, id)
}

// Delete trashes the order. Its items stay until the order is purged.
func (s *service) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "delete", started, err) }(time.Now())

	affected, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order")
	}
	if affected == 0 {
		return pkgerrors.NotFound(entity, id.String())
	}
	s.logg.Info(s.logg.WithEntity(ctx, entity, id.String()), "order trashed")
	return nil
}

func (s *service) Restore(ctx context.Context, id uuid.UUID) (out *OrderDTO, err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "restore", started, err) }(time.Now())

	if _, err := s.repo.Restore(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore order")
	}
	dto, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithEntity(ctx, entity, id.String()), "order restored")
	return dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapReadError(err, entity, id, "load order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*pagination.Page[OrderDTO], error) {
	if _, err := pagination.ParseCursor(input.Page.Cursor); err != nil {
		return nil, pkgerrors.ValidationFailed("cursor", "is invalid")
	}
	query := ListQuery{
		Search:     strings.TrimSpace(input.Search),
		CustomerID: input.CustomerID,
		Trashed:    input.Trashed,
		Page:       input.Page,
	}
	if raw := strings.TrimSpace(input.Status); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return nil, pkgerrors.ValidationFailed("status", "is not a known order status")
		}
		query.Status = &status
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewOrderDTO(&rows[i]))
	}
	page := pagination.Cut(dtos, input.Page.Limit, func(o OrderDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	return &page, nil
}

// validateItems checks every line before anything is written.
func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return pkgerrors.ValidationFailed("items", "must contain at least one item")
	}
	for i, item := range items {
		if item.ProductID == uuid.Nil {
			return pkgerrors.ValidationFailed(fmt.Sprintf("items[%d].product_id", i), "is required")
		}
		if item.Quantity < minItemQuantity || item.Quantity > maxItemQuantity {
			return pkgerrors.ValidationFailed(
				fmt.Sprintf("items[%d].quantity", i),
				fmt.Sprintf("must be between %d and %d", minItemQuantity, maxItemQuantity),
			)
		}
	}
	return nil
}

// snapshotItems copies each product's current price onto its line.
func snapshotItems(ctx context.Context, repo Repository, inputs []ItemInput) ([]models.OrderItem, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, item := range inputs {
		ids = append(ids, item.ProductID)
	}
	prices, err := repo.ProductPrices(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product prices")
	}

	items := make([]models.OrderItem, 0, len(inputs))
	for _, input := range inputs {
		price, ok := prices[input.ProductID]
		if !ok {
			return nil, pkgerrors.NotFound("product", input.ProductID.String())
		}
		items = append(items, models.OrderItem{
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
			UnitPrice: price,
		})
	}
	return items, nil
}

func ensureCustomer(ctx context.Context, repo Repository, id uuid.UUID) error {
	ok, err := repo.CustomerExists(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check customer")
	}
	if !ok {
		return pkgerrors.NotFound("customer", id.String())
	}
	return nil
}

func parseStatus(raw string) (enums.OrderStatus, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return enums.OrderStatusPending, nil
	}
	status, err := enums.ParseOrderStatus(value)
	if err != nil {
		return "", pkgerrors.ValidationFailed("status", "is not a known order status")
	}
	return status, nil
}

func parseShipping(raw *string) (*decimal.Decimal, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	amount, err := money.ParsePrice(*raw)
	if err != nil {
		return nil, pkgerrors.ValidationFailed("shipping_price", err.Error())
	}
	return &amount, nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
