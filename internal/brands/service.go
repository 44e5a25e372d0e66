package brands

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
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
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/pagination"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/slug"
)

const entity = "brand"

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Service exposes brand management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*BrandDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*BrandDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*BrandDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*BrandDTO, error)
	List(ctx context.Context, input ListInput) (*pagination.Page[BrandDTO], error)
}

// CreateInput holds the payload to create a brand. IsVisible defaults to true.
type CreateInput struct {
	Name        string
	URL         string
	PrimaryHex  string
	IsVisible   *bool
	Description *string
}

// UpdateInput holds optional mutation values for a brand.
type UpdateInput struct {
	Name        *string
	URL         *string
	PrimaryHex  *string
	IsVisible   *bool
	Description *string
}

// ListInput filters a brand listing.
type ListInput struct {
	Search  string
	Visible *bool
	Trashed enums.TrashedFilter
	Page    pagination.Params
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
	metrics  *metrics.CommandMetrics
}

// NewService constructs a brand service instance. recorder may be nil.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger, recorder *metrics.CommandMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("brand repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg, metrics: recorder}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (out *BrandDTO, err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "create", started, err) }(time.Now())

	brand := &models.Brand{IsVisible: true}
	if input.IsVisible != nil {
		brand.IsVisible = *input.IsVisible
	}
	if err := applyName(brand, input.Name); err != nil {
		return nil, err
	}
	if err := applyURL(brand, input.URL); err != nil {
		return nil, err
	}
	if err := applyHex(brand, input.PrimaryHex); err != nil {
		return nil, err
	}
	brand.Description = normalizeOptional(input.Description)

	if err := s.ensureUnique(ctx, s.repo, brand, nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, brand); err != nil {
		return nil, db.MapWriteError(err, entity, brand.Slug, "insert brand")
	}

	s.logg.Info(s.logg.WithEntity(ctx, entity, brand.ID.String()), "brand created")
	return NewBrandDTO(brand), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (out *BrandDTO, err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "update", started, err) }(time.Now())

	var updated *models.Brand
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		brand, err := txRepo.FindByID(ctx, id, false)
		if err != nil {
			return db.MapReadError(err, entity, id, "load brand")
		}

		if input.Name != nil {
			if err := applyName(brand, *input.Name); err != nil {
				return err
			}
		}
		if input.URL != nil {
			if err := applyURL(brand, *input.URL); err != nil {
				return err
			}
		}
		if input.PrimaryHex != nil {
			if err := applyHex(brand, *input.PrimaryHex); err != nil {
				return err
			}
		}
		if input.IsVisible != nil {
			brand.IsVisible = *input.IsVisible
		}
		if input.Description != nil {
			brand.Description = normalizeOptional(input.Description)
		}

		if err := s.ensureUnique(ctx, txRepo, brand, &brand.ID); err != nil {
			return err
		}
		if err := txRepo.Save(ctx, brand); err != nil {
			return db.MapWriteError(err, entity, brand.Slug, "update brand")
		}
		updated = brand
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithEntity(ctx, entity, id.String()), "brand updated")
	return NewBrandDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "delete", started, err) }(time.Now())

	affected, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete brand")
	}
	if affected == 0 {
		return pkgerrors.NotFound(entity, id.String())
	}
	s.logg.Info(s.logg.WithEntity(ctx, entity, id.String()), "brand trashed")
	return nil
}

func (s *service) Restore(ctx context.Context, id uuid.UUID) (out *BrandDTO, err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "restore", started, err) }(time.Now())

	if _, err := s.repo.Restore(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore brand")
	}
	brand, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, db.MapReadError(err, entity, id, "load brand")
	}
	s.logg.Info(s.logg.WithEntity(ctx, entity, id.String()), "brand restored")
	return NewBrandDTO(brand), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BrandDTO, error) {
	brand, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, db.MapReadError(err, entity, id, "load brand")
	}
	return NewBrandDTO(brand), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*pagination.Page[BrandDTO], error) {
	if _, err := pagination.ParseCursor(input.Page.Cursor); err != nil {
		return nil, pkgerrors.ValidationFailed("cursor", "is invalid")
	}
	rows, err := s.repo.List(ctx, ListQuery{
		Search:  strings.TrimSpace(input.Search),
		Visible: input.Visible,
		Trashed: input.Trashed,
		Page:    input.Page,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list brands")
	}

	dtos := make([]BrandDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewBrandDTO(&rows[i]))
	}
	page := pagination.Cut(dtos, input.Page.Limit, func(b BrandDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: b.CreatedAt, ID: b.ID}
	})
	return &page, nil
}

// ensureUnique checks name, slug and url against every stored brand so the
// caller gets a precise error before the insert hits the unique indexes.
func (s *service) ensureUnique(ctx context.Context, repo *Repository, brand *models.Brand, exclude *uuid.UUID) error {
	checks := []struct {
		column string
		value  string
	}{
		{column: "name", value: brand.Name},
		{column: "slug", value: brand.Slug},
		{column: "url", value: brand.URL},
	}
	for _, check := range checks {
		taken, err := repo.Taken(ctx, check.column, check.value, exclude)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check brand "+check.column)
		}
		if !taken {
			continue
		}
		if check.column == "slug" {
			return pkgerrors.DuplicateSlug(entity, brand.Slug)
		}
		return pkgerrors.DuplicateValue(entity, check.column)
	}
	return nil
}

func applyName(brand *models.Brand, raw string) error {
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
	brand.Name = name
	brand.Slug = derived
	return nil
}

func applyURL(brand *models.Brand, raw string) error {
	value := strings.TrimSpace(raw)
	if value == "" {
		return pkgerrors.ValidationFailed("url", "is required")
	}
	parsed, err := url.ParseRequestURI(value)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return pkgerrors.ValidationFailed("url", "must be an absolute http(s) URL")
	}
	if len(value) > 255 {
		return pkgerrors.ValidationFailed("url", "must be at most 255 characters")
	}
	brand.URL = value
	return nil
}

func applyHex(brand *models.Brand, raw string) error {
	value := strings.TrimSpace(raw)
	if value == "" {
		return pkgerrors.ValidationFailed("primary_hex", "is required")
	}
	if !hexColorPattern.MatchString(value) {
		return pkgerrors.ValidationFailed("primary_hex", "must be a hex colour like #1a2b3c")
	}
	brand.PrimaryHex = strings.ToLower(value)
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
