package categories

import (
	"context"
	"errors"
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
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/pagination"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/slug"
)

const entity = "category"

// MaxDepth bounds the ancestor walk used to reject cycles.
const MaxDepth = 64

// Service exposes category management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	List(ctx context.Context, input ListInput) (*pagination.Page[CategoryDTO], error)
	Count(ctx context.Context) (int64, error)
}

type CreateInput struct {
	Name        string
	ParentID    *uuid.UUID
	Description *string
	IsVisible   bool
}

// UpdateInput holds optional mutation values. DetachParent turns the category
// into a root and wins over ParentID.
type UpdateInput struct {
	Name         *string
	ParentID     *uuid.UUID
	DetachParent bool
	Description  *string
	IsVisible    *bool
}

type ListInput struct {
	Search   string
	Visible  *bool
	ParentID *uuid.UUID
	Trashed  enums.TrashedFilter
	Page     pagination.Params
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
	metrics  *metrics.CommandMetrics
}

// NewService constructs a category service instance. recorder may be nil.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger, recorder *metrics.CommandMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg, metrics: recorder}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (out *CategoryDTO, err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "create", started, err) }(time.Now())

	category := &models.Category{IsVisible: input.IsVisible}
	if err := applyName(category, input.Name); err != nil {
		return nil, err
	}
	category.Description = normalizeOptional(input.Description)

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if input.ParentID != nil {
			if err := ensureParentExists(ctx, txRepo, *input.ParentID); err != nil {
				return err
			}
			category.ParentID = input.ParentID
		}
		if err := ensureSlugFree(ctx, txRepo, category.Slug, nil); err != nil {
			return err
		}
		if err := txRepo.Create(ctx, category); err != nil {
			return db.MapWriteError(err, entity, category.Slug, "insert category")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithEntity(ctx, entity, category.ID.String()), "category created")
	return s.Get(ctx, category.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (out *CategoryDTO, err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "update", started, err) }(time.Now())

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		category, err := txRepo.FindByID(ctx, id, false)
		if err != nil {
			return db.MapReadError(err, entity, id, "load category")
		}
		category.Parent = nil

		if input.Name != nil {
			if err := applyName(category, *input.Name); err != nil {
				return err
			}
		}
		if input.Description != nil {
			category.Description = normalizeOptional(input.Description)
		}
		if input.IsVisible != nil {
			category.IsVisible = *input.IsVisible
		}

		switch {
		case input.DetachParent:
			category.ParentID = nil
		case input.ParentID != nil:
			if err := ensureParentExists(ctx, txRepo, *input.ParentID); err != nil {
				return err
			}
			if err := ensureAcyclic(ctx, txRepo, id, *input.ParentID); err != nil {
				return err
			}
			category.ParentID = input.ParentID
		}

		if err := ensureSlugFree(ctx, txRepo, category.Slug, &category.ID); err != nil {
			return err
		}
		if err := txRepo.Save(ctx, category); err != nil {
			return db.MapWriteError(err, entity, category.Slug, "update category")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithEntity(ctx, entity, id.String()), "category updated")
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "delete", started, err) }(time.Now())

	var affected int64
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.WithTx(tx).SoftDelete(ctx, id)
		affected = n
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	if affected == 0 {
		return pkgerrors.NotFound(entity, id.String())
	}
	s.logg.Info(s.logg.WithEntity(ctx, entity, id.String()), "category trashed")
	return nil
}

func (s *service) Restore(ctx context.Context, id uuid.UUID) (out *CategoryDTO, err error) {
	defer func(started time.Time) { s.metrics.Observe(entity, "restore", started, err) }(time.Now())

	if _, err := s.repo.Restore(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore category")
	}
	out, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithEntity(ctx, entity, id.String()), "category restored")
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, db.MapReadError(err, entity, id, "load category")
	}
	return NewCategoryDTO(category), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*pagination.Page[CategoryDTO], error) {
	if _, err := pagination.ParseCursor(input.Page.Cursor); err != nil {
		return nil, pkgerrors.ValidationFailed("cursor", "is invalid")
	}
	rows, err := s.repo.List(ctx, ListQuery{
		Search:   strings.TrimSpace(input.Search),
		Visible:  input.Visible,
		ParentID: input.ParentID,
		Trashed:  input.Trashed,
		Page:     input.Page,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}

	dtos := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewCategoryDTO(&rows[i]))
	}
	page := pagination.Cut(dtos, input.Page.Limit, func(c CategoryDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	})
	return &page, nil
}

func (s *service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count categories")
	}
	return count, nil
}

func ensureParentExists(ctx context.Context, repo *Repository, parentID uuid.UUID) error {
	found, err := repo.ExistingIDs(ctx, []uuid.UUID{parentID})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load parent category")
	}
	if len(found) == 0 {
		return pkgerrors.NotFound(entity, parentID.String())
	}
	return nil
}

// ensureAcyclic rejects parentID when it is id itself or one of id's
// descendants, found by walking parentID's ancestors.
func ensureAcyclic(ctx context.Context, repo *Repository, id, parentID uuid.UUID) error {
	current := &parentID
	for depth := 0; current != nil; depth++ {
		if *current == id {
			return pkgerrors.ValidationFailed("parent_id", "would create a cycle")
		}
		if depth >= MaxDepth {
			return pkgerrors.ValidationFailed("parent_id", "would create a cycle")
		}
		next, err := repo.ParentOf(ctx, *current)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: walk category ancestors")
		}
		current = next
	}
	return nil
}

func ensureSlugFree(ctx context.Context, repo *Repository, value string, exclude *uuid.UUID) error {
	taken, err := repo.Taken(ctx, "slug", value, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check category slug")
	}
	if taken {
		return pkgerrors.DuplicateSlug(entity, value)
	}
	return nil
}

func applyName(category *models.Category, raw string) error {
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
	category.Name = name
	category.Slug = derived
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
