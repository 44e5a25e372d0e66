package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgerrors "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/errors"
)

type softModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	DeletedAt gorm.DeletedAt
}

func TestValueTakenCountsTrashedRows(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, conn.AutoMigrate(&softModel{}))
	ctx := context.Background()

	row := softModel{ID: uuid.New(), Name: "acme"}
	require.NoError(t, conn.Create(&row).Error)
	require.NoError(t, conn.Delete(&row).Error)

	taken, err := ValueTaken(ctx, conn, &softModel{}, "name", "acme", nil)
	require.NoError(t, err)
	require.True(t, taken)

	taken, err = ValueTaken(ctx, conn, &softModel{}, "name", "acme", &row.ID)
	require.NoError(t, err)
	require.False(t, taken)
}

func TestMapWriteError(t *testing.T) {
	slugErr := MapWriteError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_brands_slug", TableName: "brands"}, "brand", "acme", "insert brand")
	require.True(t, pkgerrors.IsCode(slugErr, pkgerrors.CodeDuplicateSlug))

	urlErr := MapWriteError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_brands_url", TableName: "brands"}, "brand", "acme", "insert brand")
	require.True(t, pkgerrors.IsCode(urlErr, pkgerrors.CodeDuplicateValue))
	require.Equal(t, pkgerrors.EntityDetails{Entity: "brand", Field: "url"}, pkgerrors.As(urlErr).Details())

	cause := errors.New("connection reset")
	depErr := MapWriteError(cause, "brand", "acme", "insert brand")
	require.True(t, pkgerrors.IsCode(depErr, pkgerrors.CodeDependency))
	require.ErrorIs(t, depErr, cause)

	typed := pkgerrors.NotFound("brand", "x")
	require.Same(t, typed, MapWriteError(typed, "brand", "", "insert brand"))

	require.NoError(t, MapWriteError(nil, "brand", "", "insert brand"))
}

func TestMapReadError(t *testing.T) {
	id := uuid.New()
	err := MapReadError(gorm.ErrRecordNotFound, "order", id, "load order")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	err = MapReadError(errors.New("timeout"), "order", id, "load order")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}
