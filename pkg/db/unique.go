package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/errors"
)

// ValueTaken reports whether a row of model other than exclude already holds
// value in column. Soft-deleted rows count, since the unique index covers them.
func ValueTaken(ctx context.Context, conn *gorm.DB, model any, column string, value any, exclude *uuid.UUID) (bool, error) {
	q := conn.WithContext(ctx).Unscoped().Model(model).Where(column+" = ?", value)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MapWriteError turns unique violations raised by an insert or update into
// typed conflicts. Anything else is surfaced as a dependency failure with the
// driver error preserved.
func MapWriteError(err error, entity, slug, action string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	if v, ok := AsUniqueViolation(err); ok {
		switch v.Column {
		case "slug":
			return pkgerrors.DuplicateSlug(entity, slug)
		case "":
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, entity+" conflicts with an existing record")
		default:
			return pkgerrors.DuplicateValue(entity, v.Column)
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: "+action)
}

// MapReadError converts a missing row into NotFound and wraps other failures.
func MapReadError(err error, entity string, id uuid.UUID, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NotFound(entity, id.String())
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: "+action)
}
