package categories

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/dbtest"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"
	pkgerrors "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/errors"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), client, logger.New(logger.Options{Output: io.Discard}), nil)
	require.NoError(t, err)
	return svc, client.DB()
}

func mustCreate(t *testing.T, svc Service, name string, parent *uuid.UUID) *CategoryDTO {
	t.Helper()
	category, err := svc.Create(context.Background(), CreateInput{Name: name, ParentID: parent})
	require.NoError(t, err)
	return category
}

func TestCreateWithParent(t *testing.T) {
	svc, _ := newTestService(t)

	root := mustCreate(t, svc, "Electronics", nil)
	child := mustCreate(t, svc, "Smart Phones", &root.ID)

	require.Equal(t, "smart-phones", child.Slug)
	require.Equal(t, root.ID, *child.ParentID)
	require.NotNil(t, child.Parent)
	require.Equal(t, "Electronics", child.Parent.Name)
}

func TestCreateMissingParentIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	missing := uuid.New()

	_, err := svc.Create(context.Background(), CreateInput{Name: "Orphan", ParentID: &missing})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
	require.Equal(t, pkgerrors.EntityDetails{Entity: "category", ID: missing.String()}, pkgerrors.As(err).Details())
}

func TestCreateDuplicateSlug(t *testing.T) {
	svc, _ := newTestService(t)
	mustCreate(t, svc, "Shoes", nil)

	_, err := svc.Create(context.Background(), CreateInput{Name: "SHOES"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDuplicateSlug))
}

func TestUpdateRejectsCycles(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a := mustCreate(t, svc, "A", nil)
	b := mustCreate(t, svc, "B", &a.ID)
	c := mustCreate(t, svc, "C", &b.ID)

	_, err := svc.Update(ctx, a.ID, UpdateInput{ParentID: &c.ID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
	require.Equal(t, "parent_id", pkgerrors.As(err).Details().(pkgerrors.FieldDetails).Field)

	_, err = svc.Update(ctx, a.ID, UpdateInput{ParentID: &a.ID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	moved, err := svc.Update(ctx, c.ID, UpdateInput{ParentID: &a.ID})
	require.NoError(t, err)
	require.Equal(t, a.ID, *moved.ParentID)

	root, err := svc.Update(ctx, b.ID, UpdateInput{DetachParent: true})
	require.NoError(t, err)
	require.Nil(t, root.ParentID)
}

func TestUpdateRenameRecomputesSlug(t *testing.T) {
	svc, _ := newTestService(t)
	category := mustCreate(t, svc, "Old", nil)

	name := "Brand New"
	updated, err := svc.Update(context.Background(), category.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "brand-new", updated.Slug)
}

func TestDeleteDetachesChildrenAndLinks(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	parent := mustCreate(t, svc, "Parent", nil)
	child := mustCreate(t, svc, "Child", &parent.ID)
	productID := seedLinkedProduct(t, conn, parent.ID)

	require.NoError(t, svc.Delete(ctx, parent.ID))

	var links int64
	require.NoError(t, conn.Model(&models.CategoryProduct{}).Where("category_id = ?", parent.ID).Count(&links).Error)
	require.Zero(t, links)

	var products int64
	require.NoError(t, conn.Model(&models.Product{}).Where("id = ?", productID).Count(&products).Error)
	require.EqualValues(t, 1, products, "product must survive category deletion")

	got, err := svc.Get(ctx, child.ID)
	require.NoError(t, err)
	require.Nil(t, got.ParentID)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	restored, err := svc.Restore(ctx, parent.ID)
	require.NoError(t, err)
	require.Nil(t, restored.DeletedAt)

	err = svc.Delete(ctx, uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListSearchAndFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, "Clothing", nil)
	_, err := svc.Create(ctx, CreateInput{Name: "Winter Coats", ParentID: &root.ID, IsVisible: true})
	require.NoError(t, err)
	desc := "coats and jackets"
	_, err = svc.Create(ctx, CreateInput{Name: "Outerwear", Description: &desc})
	require.NoError(t, err)

	page, err := svc.List(ctx, ListInput{Search: "coat"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	visible := true
	page, err = svc.List(ctx, ListInput{Visible: &visible})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Winter Coats", page.Items[0].Name)

	page, err = svc.List(ctx, ListInput{ParentID: &root.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	page, err = svc.List(ctx, ListInput{Trashed: enums.TrashedOnly})
	require.NoError(t, err)
	require.Empty(t, page.Items)
}

func seedLinkedProduct(t *testing.T, conn *gorm.DB, categoryID uuid.UUID) uuid.UUID {
	t.Helper()
	brand := &models.Brand{Name: "Seed", Slug: "seed", URL: "https://seed.example.com", PrimaryHex: "#000000", IsVisible: true}
	require.NoError(t, conn.Create(brand).Error)
	product := &models.Product{
		BrandID:  brand.ID,
		Name:     "Seeded",
		Slug:     "seeded",
		SKU:      "SEED-1",
		Quantity: 1,
		Price:    decimal.RequireFromString("1.00"),
		Type:     enums.ProductTypeDeliverable,
	}
	require.NoError(t, conn.Omit("Categories", "Brand").Create(product).Error)
	require.NoError(t, conn.Create(&models.CategoryProduct{CategoryID: categoryID, ProductID: product.ID}).Error)
	return product.ID
}
