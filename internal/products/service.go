package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"
	pkgerrors "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/errors"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/metrics"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/money"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/pagination"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/slug"
)

const entity = "product"

const maxQuantity = 100

// QuantityMode selects the lower bound applied to stock quantity.
type QuantityMode string

const (
	// QuantityStrict requires at least one unit in stock.
	QuantityStrict QuantityMode = "strict"
	// QuantityRelaxed allows an empty stock.
	QuantityRelaxed QuantityMode = "relaxed"
)

func (m QuantityMode) min() int {
	if m == QuantityRelaxed {
		return 0
	}
	return 1
}

// Service exposes product management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, input ListInput) (*pagination.Page[ProductDTO], error)
}

// CreateInput holds the payload to create a product. Price is the raw amount
// as typed by the admin. An empty Type means deliverable.
type CreateInput struct {
	BrandID      uuid.UUID
	CategoryIDs  []uuid.UUID
	Name         string
	SKU          string
	Image        *string
	Description  *string
	Quantity     int
	QuantityMode QuantityMode
	Price        string
	IsVisible    bool
	IsFeatured   bool
	Type         string
	PublishedAt  *time.Time
}

// UpdateInput holds optional mutation values. A non-nil CategoryIDs replaces
// the whole category set.
type UpdateInput struct {
	BrandID      *uuid.UUID
	CategoryIDs  *[]uuid.UUID
	Name         *string
	SKU          *string
	Image        *string
	Description  *string
	Quantity     *int
	QuantityMode QuantityMode
	Price        *string
	IsVisible    *bool
	IsFeatured   *bool
	Type         *string
	PublishedAt  *time.Time
}

type ListInput struct {
	Search     string
	Visible    *bool
	BrandID    *uuid.UUID
	CategoryID *uuid.UUID
	Trashed    enums.TrashedFilter
	Page       pagination.Params
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
	metrics  *metrics.CommandMetrics
}

// NewService constructs a product service instance. recorder may be nil.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger, recorder *metrics.CommandMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg, metrics: recorder}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (out *ProductDTO, err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "create", started, err) }(time.Now())

	product := &models.Product{
		BrandID:     input.BrandID,
		Image:       normalizeOptional(input.Image),
		Description: normalizeOptional(input.Description),
		IsVisible:   input.IsVisible,
		IsFeatured:  input.IsFeatured,
		PublishedAt: input.PublishedAt,
	}
	if err := applyName(product, input.Name); err != nil {
		return nil, err
	}
	if err := applySKU(product, input.SKU); err != nil {
		return nil, err
	}
	if err := applyPrice(product, input.Price); err != nil {
		return nil, err
	}
	if err := applyQuantity(product, input.Quantity, input.QuantityMode); err != nil {
		return nil, err
	}
	if err := applyType(product, input.Type); err != nil {
		return nil, err
	}
	if input.BrandID == uuid.Nil {
		return nil, pkgerrors.ValidationFailed("brand_id", "is required")
	}
	categoryIDs, err := normalizeCategoryIDs(input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := ensureReferences(ctx, txRepo, &product.BrandID, categoryIDs); err != nil {
			return err
		}
		if err := ensureUnique(ctx, txRepo, product, nil); err != nil {
			return err
		}
		if err := txRepo.Create(ctx, product); err != nil {
			return db.MapWriteError(err, entity, product.Slug, "insert product")
		}
		if err := txRepo.ReplaceCategories(ctx, product.ID, categoryIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: link product categories")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithEntity(ctx, entity, product.ID.String()), "product created")
	return s.Get(ctx, product.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (out *ProductDTO, err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "update", started, err) }(time.Now())

	var categoryIDs []uuid.UUID
	if input.CategoryIDs != nil {
		categoryIDs, err = normalizeCategoryIDs(*input.CategoryIDs)
		if err != nil {
			return nil, err
		}
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		product, err := txRepo.LockByID(ctx, id)
		if err != nil {
			return db.MapReadError(err, entity, id, "load product")
		}

		if input.Name != nil {
			if err := applyName(product, *input.Name); err != nil {
				return err
			}
		}
		if input.SKU != nil {
			if err := applySKU(product, *input.SKU); err != nil {
				return err
			}
		}
		if input.Price != nil {
			if err := applyPrice(product, *input.Price); err != nil {
				return err
			}
		}
		if input.Quantity != nil {
			if err := applyQuantity(product, *input.Quantity, input.QuantityMode); err != nil {
				return err
			}
		}
		if input.Type != nil {
			if err := applyType(product, *input.Type); err != nil {
				return err
			}
		}
		if input.BrandID != nil {
			product.BrandID = *input.BrandID
		}
		if input.Image != nil {
			product.Image = normalizeOptional(input.Image)
		}
		if input.Description != nil {
			product.Description = normalizeOptional(input.Description)
		}
		if input.IsVisible != nil {
			product.IsVisible = *input.IsVisible
		}
		if input.IsFeatured != nil {
			product.IsFeatured = *input.IsFeatured
		}
		if input.PublishedAt != nil {
			product.PublishedAt = input.PublishedAt
		}

		// Only a newly assigned brand has to be live.
		if err := ensureReferences(ctx, txRepo, input.BrandID, categoryIDs); err != nil {
			return err
		}
		if err := ensureUnique(ctx, txRepo, product, &product.ID); err != nil {
			return err
		}
		if err := txRepo.Save(ctx, product); err != nil {
			return db.MapWriteError(err, entity, product.Slug, "update product")
		}
		if input.CategoryIDs != nil {
			if err := txRepo.ReplaceCategories(ctx, product.ID, categoryIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace product categories")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithEntity(ctx, entity, id.String()), "product updated")
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "delete", started, err) }(time.Now())

	var affected int64
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		affected, err = s.repo.WithTx(tx).SoftDelete(ctx, id)
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	if affected == 0 {
		return pkgerrors.NotFound(entity, id.String())
	}
	s.logg.Info(s.logg.WithEntity(ctx, entity, id.String()), "product trashed")
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapReadError(err, entity, id, "load product")
	}
	return NewProductDTO(product), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*pagination.Page[ProductDTO], error) {
	if _, err := pagination.ParseCursor(input.Page.Cursor); err != nil {
		return nil, pkgerrors.ValidationFailed("cursor", "is invalid")
	}
	rows, err := s.repo.List(ctx, ListQuery{
		Search:     strings.TrimSpace(input.Search),
		Visible:    input.Visible,
		BrandID:    input.BrandID,
		CategoryID: input.CategoryID,
		Trashed:    input.Trashed,
		Page:       input.Page,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewProductDTO(&rows[i]))
	}
	page := pagination.Cut(dtos, input.Page.Limit, func(p ProductDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	return &page, nil
}

// ensureReferences checks the brand and the categories, each only when given.
func ensureReferences(ctx context.Context, repo *Repository, brandID *uuid.UUID, categoryIDs []uuid.UUID) error {
	if brandID != nil {
		ok, err := repo.BrandExists(ctx, *brandID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check brand")
		}
		if !ok {
			return pkgerrors.NotFound("brand", brandID.String())
		}
	}
	if len(categoryIDs) == 0 {
		return nil
	}

	found, err := repo.ExistingCategoryIDs(ctx, categoryIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check categories")
	}
	present := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	for _, id := range categoryIDs {
		if _, ok := present[id]; !ok {
			return pkgerrors.NotFound("category", id.String())
		}
	}
	return nil
}

func ensureUnique(ctx context.Context, repo *Repository, product *models.Product, exclude *uuid.UUID) error {
	taken, err := repo.Taken(ctx, "slug", product.Slug, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check product slug")
	}
	if taken {
		return pkgerrors.DuplicateSlug(entity, product.Slug)
	}
	taken, err = repo.Taken(ctx, "sku", product.SKU, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check product sku")
	}
	if taken {
		return pkgerrors.DuplicateValue(entity, "sku")
	}
	return nil
}

// normalizeCategoryIDs drops duplicates and keeps the first-seen order.
func normalizeCategoryIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, pkgerrors.ValidationFailed("category_ids", "must not contain empty ids")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, pkgerrors.ValidationFailed("category_ids", "must contain at least one category")
	}
	return out, nil
}

func applyName(product *models.Product, raw string) error {
	name := strings.TrimSpace(raw)
	if name == "" {
		return pkgerrors.ValidationFailed("name", "is required")
	}
	if len(name) > 255 {
		return pkgerrors.ValidationFailed("name", "must be at most 255 characters")
	}
	derived := slug.Make(name)
	if derived == "" {
		return pkgerrors.ValidationFailed("name", "must contain at least one letter or digit")
	}
	product.Name = name
	product.Slug = derived
	return nil
}

func applySKU(product *models.Product, raw string) error {
	sku := strings.TrimSpace(raw)
	if sku == "" {
		return pkgerrors.ValidationFailed("sku", "is required")
	}
	if len(sku) > 255 {
		return pkgerrors.ValidationFailed("sku", "must be at most 255 characters")
	}
	product.SKU = sku
	return nil
}

func applyPrice(product *models.Product, raw string) error {
	price, err := money.ParsePrice(raw)
	if err != nil {
		return pkgerrors.ValidationFailed("price", err.Error())
	}
	product.Price = price
	return nil
}

func applyQuantity(product *models.Product, quantity int, mode QuantityMode) error {
	lower := mode.min()
	if quantity < lower || quantity > maxQuantity {
		return pkgerrors.ValidationFailed("quantity", fmt.Sprintf("must be between %d and %d", lower, maxQuantity))
	}
	product.Quantity = quantity
	return nil
}

func applyType(product *models.Product, raw string) error {
	value := strings.TrimSpace(raw)
	if value == "" {
		product.Type = enums.ProductTypeDeliverable
		return nil
	}
	parsed, err := enums.ParseProductType(value)
	if err != nil {
		return pkgerrors.ValidationFailed("type", "must be downloadable or deliverable")
	}
	product.Type = parsed
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
