package products

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/dbtest"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"
	pkgerrors "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/errors"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/pagination"
)

type fixture struct {
	svc      Service
	conn     *gorm.DB
	brand    models.Brand
	shoes    models.Category
	clothing models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), client, logger.New(logger.Options{Output: io.Discard}), nil)
	require.NoError(t, err)

	f := &fixture{svc: svc, conn: client.DB()}
	f.brand = models.Brand{Name: "Acme", Slug: "acme", URL: "https://acme.example.com", PrimaryHex: "#ff0000", IsVisible: true}
	require.NoError(t, f.conn.Create(&f.brand).Error)
	f.shoes = models.Category{Name: "Shoes", Slug: "shoes"}
	require.NoError(t, f.conn.Create(&f.shoes).Error)
	f.clothing = models.Category{Name: "Clothing", Slug: "clothing"}
	require.NoError(t, f.conn.Create(&f.clothing).Error)
	return f
}

func (f *fixture) input(name, sku string) CreateInput {
	return CreateInput{
		BrandID:     f.brand.ID,
		CategoryIDs: []uuid.UUID{f.shoes.ID},
		Name:        name,
		SKU:         sku,
		Quantity:    10,
		Price:       "12.34",
	}
}

func (f *fixture) linkCount(t *testing.T, productID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.conn.Model(&models.CategoryProduct{}).Where("product_id = ?", productID).Count(&count).Error)
	return count
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)

	in := f.input("Running Shoe", "RS-1")
	in.CategoryIDs = []uuid.UUID{f.shoes.ID, f.clothing.ID, f.shoes.ID}
	product, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	require.Equal(t, "running-shoe", product.Slug)
	require.Equal(t, "12.34", product.Price)
	require.Equal(t, enums.ProductTypeDeliverable, product.Type)
	require.NotNil(t, product.Brand)
	require.Equal(t, "Acme", product.Brand.Name)
	require.Len(t, product.Categories, 2)
	require.EqualValues(t, 2, f.linkCount(t, product.ID))
}

func TestCreatePriceValidation(t *testing.T) {
	tests := []struct {
		price   string
		wantErr bool
	}{
		{price: "12.34"},
		{price: "12.345", wantErr: true},
		{price: "1234567", wantErr: true},
		{price: "abc", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.price, func(t *testing.T) {
			f := newFixture(t)
			in := f.input("Priced", "P-1")
			in.Price = tc.price
			_, err := f.svc.Create(context.Background(), in)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
			require.Equal(t, "price", pkgerrors.As(err).Details().(pkgerrors.FieldDetails).Field)
		})
	}
}

func TestCreateQuantityBounds(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		mode     QuantityMode
		wantErr  bool
	}{
		{name: "strict zero", quantity: 0, mode: QuantityStrict, wantErr: true},
		{name: "default zero", quantity: 0, wantErr: true},
		{name: "relaxed zero", quantity: 0, mode: QuantityRelaxed},
		{name: "upper bound", quantity: 100},
		{name: "above upper bound", quantity: 101, wantErr: true},
		{name: "relaxed above upper bound", quantity: 101, mode: QuantityRelaxed, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			in := f.input("Stocked", "S-1")
			in.Quantity = tc.quantity
			in.QuantityMode = tc.mode
			_, err := f.svc.Create(context.Background(), in)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
			require.Equal(t, "quantity", pkgerrors.As(err).Details().(pkgerrors.FieldDetails).Field)
		})
	}
}

func TestCreateRejectsBadReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.input("Nameless Brand", "NB-1")
	in.BrandID = uuid.New()
	_, err := f.svc.Create(ctx, in)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
	require.Equal(t, "brand", pkgerrors.As(err).Details().(pkgerrors.EntityDetails).Entity)

	missing := uuid.New()
	in = f.input("Ghost Category", "GC-1")
	in.CategoryIDs = []uuid.UUID{f.shoes.ID, missing}
	_, err = f.svc.Create(ctx, in)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "got %v", err)
	require.Equal(t, pkgerrors.EntityDetails{Entity: "category", ID: missing.String()}, pkgerrors.As(err).Details())

	in = f.input("No Category", "NC-1")
	in.CategoryIDs = nil
	_, err = f.svc.Create(ctx, in)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	in = f.input("Bad Type", "BT-1")
	in.Type = "service"
	_, err = f.svc.Create(ctx, in)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	var count int64
	require.NoError(t, f.conn.Model(&models.Product{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.input("Sandal", "SD-1"))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.input("SANDAL", "SD-2"))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDuplicateSlug), "got %v", err)

	_, err = f.svc.Create(ctx, f.input("Boot", "SD-1"))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDuplicateValue), "got %v", err)
	require.Equal(t, "sku", pkgerrors.As(err).Details().(pkgerrors.EntityDetails).Field)
}

func TestUpdateReplacesCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product, err := f.svc.Create(ctx, f.input("Jacket", "J-1"))
	require.NoError(t, err)

	ids := []uuid.UUID{f.clothing.ID}
	price := "99.90"
	name := "Rain Jacket"
	updated, err := f.svc.Update(ctx, product.ID, UpdateInput{CategoryIDs: &ids, Price: &price, Name: &name})
	require.NoError(t, err)
	require.Equal(t, "rain-jacket", updated.Slug)
	require.Equal(t, "99.90", updated.Price)
	require.Len(t, updated.Categories, 1)
	require.Equal(t, f.clothing.ID, updated.Categories[0].ID)

	empty := []uuid.UUID{}
	_, err = f.svc.Update(ctx, product.ID, UpdateInput{CategoryIDs: &empty})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	require.EqualValues(t, 1, f.linkCount(t, product.ID))

	_, err = f.svc.Update(ctx, uuid.New(), UpdateInput{Name: &name})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestConcurrentCategoryReplacementNeverEmpties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product, err := f.svc.Create(ctx, f.input("Hat", "H-1"))
	require.NoError(t, err)

	sets := [][]uuid.UUID{{f.shoes.ID}, {f.clothing.ID}, {f.shoes.ID, f.clothing.ID}}
	const rounds = 30
	var wg sync.WaitGroup
	errs := make(chan error, 2*rounds)
	for i := 0; i < rounds; i++ {
		ids := sets[i%len(sets)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Update(ctx, product.ID, UpdateInput{CategoryIDs: &ids})
			errs <- err
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := f.svc.Get(ctx, product.ID)
			if err == nil && len(got.Categories) == 0 {
				errs <- pkgerrors.New(pkgerrors.CodeInternal, "observed a product without categories")
				return
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.NotZero(t, f.linkCount(t, product.ID))
}

func TestUpdateSurvivesTrashedBrand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product, err := f.svc.Create(ctx, f.input("Beanie", "BN-1"))
	require.NoError(t, err)
	require.NoError(t, f.conn.Delete(&f.brand).Error)

	visible := true
	updated, err := f.svc.Update(ctx, product.ID, UpdateInput{IsVisible: &visible})
	require.NoError(t, err)
	require.True(t, updated.IsVisible)
	require.Equal(t, f.brand.ID, updated.BrandID)

	_, err = f.svc.Update(ctx, product.ID, UpdateInput{BrandID: &f.brand.ID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteRemovesLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product, err := f.svc.Create(ctx, f.input("Scarf", "SC-1"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, product.ID))
	require.Zero(t, f.linkCount(t, product.ID))

	var categories int64
	require.NoError(t, f.conn.Model(&models.Category{}).Count(&categories).Error)
	require.EqualValues(t, 2, categories)

	_, err = f.svc.Get(ctx, product.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	err = f.svc.Delete(ctx, product.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	page, err := f.svc.List(ctx, ListInput{Trashed: enums.TrashedOnly})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := models.Brand{Name: "Zenith", Slug: "zenith", URL: "https://zenith.example.com", PrimaryHex: "#00ff00", IsVisible: true}
	require.NoError(t, f.conn.Create(&other).Error)

	_, err := f.svc.Create(ctx, f.input("Trail Runner", "TR-1"))
	require.NoError(t, err)

	in := f.input("Wool Sweater", "WS-1")
	in.BrandID = other.ID
	in.CategoryIDs = []uuid.UUID{f.clothing.ID}
	in.IsVisible = true
	_, err = f.svc.Create(ctx, in)
	require.NoError(t, err)

	page, err := f.svc.List(ctx, ListInput{Search: "zenith"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Wool Sweater", page.Items[0].Name)

	page, err = f.svc.List(ctx, ListInput{Search: "trail"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	visible := true
	page, err = f.svc.List(ctx, ListInput{Visible: &visible})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	page, err = f.svc.List(ctx, ListInput{BrandID: &f.brand.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Trail Runner", page.Items[0].Name)

	page, err = f.svc.List(ctx, ListInput{CategoryID: &f.clothing.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Wool Sweater", page.Items[0].Name)

	_, err = f.svc.List(ctx, ListInput{Page: pagination.Params{Cursor: "!!"}})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
