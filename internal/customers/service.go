package customers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
	pkgerrors "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/errors"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/metrics"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/pagination"
)

const entity = "customer"

var validate = validator.New()

// Service exposes customer management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CustomerDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CustomerDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	List(ctx context.Context, input ListInput) (*pagination.Page[CustomerDTO], error)
}

// CreateInput holds the payload to create a customer. DateOfBirth uses
// DateLayout.
type CreateInput struct {
	Name        string
	Email       string
	Phone       *string
	DateOfBirth *string
	Address     *string
	ZipCode     *string
	City        *string
}

type UpdateInput struct {
	Name        *string
	Email       *string
	Phone       *string
	DateOfBirth *string
	Address     *string
	ZipCode     *string
	City        *string
}

type ListInput struct {
	Search string
	Page   pagination.Params
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
	metrics  *metrics.CommandMetrics
}

// NewService constructs a customer service instance. recorder may be nil.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger, recorder *metrics.CommandMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg, metrics: recorder}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (out *CustomerDTO, err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "create", started, err) }(time.Now())

	customer := &models.Customer{
		Phone:   normalizeOptional(input.Phone),
		Address: normalizeOptional(input.Address),
		ZipCode: normalizeOptional(input.ZipCode),
		City:    normalizeOptional(input.City),
	}
	if err := applyName(customer, input.Name); err != nil {
		return nil, err
	}
	if err := applyEmail(customer, input.Email); err != nil {
		return nil, err
	}
	if err := applyDateOfBirth(customer, input.DateOfBirth); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailTaken(ctx, customer.Email, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check customer email")
	}
	if taken {
		return nil, pkgerrors.DuplicateValue(entity, "email")
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, db.MapWriteError(err, entity, "", "insert customer")
	}

	s.logg.Info(s.logg.WithEntity(ctx, entity, customer.ID.String()), "customer created")
	return NewCustomerDTO(customer), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (out *CustomerDTO, err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "update", started, err) }(time.Now())

	var updated *models.Customer
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		customer, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return db.MapReadError(err, entity, id, "load customer")
		}
		if input.Name != nil {
			if err := applyName(customer, *input.Name); err != nil {
				return err
			}
		}
		if input.Email != nil {
			if err := applyEmail(customer, *input.Email); err != nil {
				return err
			}
			taken, err := txRepo.EmailTaken(ctx, customer.Email, &customer.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check customer email")
			}
			if taken {
				return pkgerrors.DuplicateValue(entity, "email")
			}
		}
		if input.DateOfBirth != nil {
			if err := applyDateOfBirth(customer, input.DateOfBirth); err != nil {
				return err
			}
		}
		if input.Phone != nil {
			customer.Phone = normalizeOptional(input.Phone)
		}
		if input.Address != nil {
			customer.Address = normalizeOptional(input.Address)
		}
		if input.ZipCode != nil {
			customer.ZipCode = normalizeOptional(input.ZipCode)
		}
		if input.City != nil {
			customer.City = normalizeOptional(input.City)
		}
		if err := txRepo.Save(ctx, customer); err != nil {
			return db.MapWriteError(err, entity, "", "update customer")
		}
		updated = customer
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithEntity(ctx, entity, id.String()), "customer updated")
	return NewCustomerDTO(updated), nil
}

// Delete permanently removes the customer together with their orders.
func (s *service) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "delete", started, err) }(time.Now())

	var affected int64
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		affected, err = s.repo.WithTx(tx).Delete(ctx, id)
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete customer")
	}
	if affected == 0 {
		return pkgerrors.NotFound(entity, id.String())
	}
	s.logg.Info(s.logg.WithEntity(ctx, entity, id.String()), "customer deleted")
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapReadError(err, entity, id, "load customer")
	}
	return NewCustomerDTO(customer), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*pagination.Page[CustomerDTO], error) {
	if _, err := pagination.ParseCursor(input.Page.Cursor); err != nil {
		return nil, pkgerrors.ValidationFailed("cursor", "is invalid")
	}
	rows, err := s.repo.List(ctx, ListQuery{Search: strings.TrimSpace(input.Search), Page: input.Page})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list customers")
	}
	dtos := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewCustomerDTO(&rows[i]))
	}
	page := pagination.Cut(dtos, input.Page.Limit, func(c CustomerDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	})
	return &page, nil
}

func applyName(customer *models.Customer, raw string) error {
	name := strings.TrimSpace(raw)
	if name == "" {
		return pkgerrors.ValidationFailed("name", "is required")
	}
	if len(name) > 255 {
		return pkgerrors.ValidationFailed("name", "must be at most 255 characters")
	}
	customer.Name = name
	return nil
}

func applyEmail(customer *models.Customer, raw string) error {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return pkgerrors.ValidationFailed("email", "is required")
	}
	if err := validate.Var(email, "email,max=255"); err != nil {
		return pkgerrors.ValidationFailed("email", "must be a valid email address")
	}
	customer.Email = email
	return nil
}

func applyDateOfBirth(customer *models.Customer, raw *string) error {
	value := normalizeOptional(raw)
	if value == nil {
		customer.DateOfBirth = nil
		return nil
	}
	parsed, err := time.Parse(DateLayout, *value)
	if err != nil {
		return pkgerrors.ValidationFailed("date_of_birth", "must be a date like 1990-01-31")
	}
	customer.DateOfBirth = &parsed
	return nil
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
