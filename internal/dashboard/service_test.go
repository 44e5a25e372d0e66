package dashboard

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/dbtest"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
)

var fixedNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

type seeder struct {
	t        *testing.T
	conn     *gorm.DB
	brand    models.Brand
	customer models.Customer
	n        int
}

func newTestService(t *testing.T) (Service, *seeder) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), logger.New(logger.Options{Output: io.Discard}), func() time.Time { return fixedNow })
	require.NoError(t, err)

	s := &seeder{t: t, conn: client.DB()}
	s.brand = models.Brand{Name: "Acme", Slug: "acme", URL: "https://acme.example.com", PrimaryHex: "#000000", IsVisible: true}
	require.NoError(t, s.conn.Create(&s.brand).Error)
	s.customer = models.Customer{Name: "Buyer", Email: "buyer@example.com"}
	require.NoError(t, s.conn.Create(&s.customer).Error)
	return svc, s
}

func (s *seeder) product(createdAt time.Time) *models.Product {
	s.t.Helper()
	s.n++
	p := &models.Product{
		BrandID:   s.brand.ID,
		Name:      fmt.Sprintf("Product %d", s.n),
		Slug:      fmt.Sprintf("product-%d", s.n),
		SKU:       fmt.Sprintf("SKU-%d", s.n),
		Quantity:  1,
		Price:     decimal.RequireFromString("1.00"),
		Type:      enums.ProductTypeDeliverable,
		CreatedAt: createdAt,
	}
	require.NoError(s.t, s.conn.Omit("Categories", "Brand").Create(p).Error)
	return p
}

func (s *seeder) order(status enums.OrderStatus, createdAt time.Time) *models.Order {
	s.t.Helper()
	s.n++
	o := &models.Order{
		CustomerID: s.customer.ID,
		Number:     fmt.Sprintf("ORD-%d", 1_000_000+s.n),
		Status:     status,
		CreatedAt:  createdAt,
	}
	require.NoError(s.t, s.conn.Omit("Items", "Customer").Create(o).Error)
	return o
}

func TestMonthlyProductCounts(t *testing.T) {
	svc, seed := newTestService(t)
	ctx := context.Background()

	seed.product(time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC))
	seed.product(time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC))
	seed.product(time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC))
	seed.product(time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC))
	trashed := seed.product(time.Date(2026, time.April, 21, 0, 0, 0, 0, time.UTC))
	require.NoError(t, seed.conn.Delete(trashed).Error)

	buckets, err := svc.MonthlyProductCounts(ctx, WindowYear)
	require.NoError(t, err)
	require.Len(t, buckets, MonthsInWindow)
	require.EqualValues(t, 1, buckets[1].Count)
	require.Equal(t, "Mar", buckets[2].Label)
	require.Zero(t, buckets[2].Count)
	require.EqualValues(t, 2, buckets[3].Count)

	buckets, err = svc.MonthlyProductCounts(ctx, WindowRolling)
	require.NoError(t, err)
	require.Equal(t, "Jul", buckets[0].Label)
	require.Equal(t, "Jun", buckets[11].Label)
	var total int64
	for _, b := range buckets {
		total += b.Count
	}
	require.EqualValues(t, 3, total)
}

func TestMonthlyOrderCounts(t *testing.T) {
	svc, seed := newTestService(t)

	seed.order(enums.OrderStatusPending, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC))
	seed.order(enums.OrderStatusCompleted, time.Date(2026, time.June, 14, 0, 0, 0, 0, time.UTC))

	buckets, err := svc.MonthlyOrderCounts(context.Background(), WindowRolling)
	require.NoError(t, err)
	require.EqualValues(t, 2, buckets[11].Count)
}

func TestOrderStatusCountsZeroFilled(t *testing.T) {
	svc, seed := newTestService(t)

	seed.order(enums.OrderStatusPending, fixedNow)
	seed.order(enums.OrderStatusPending, fixedNow)
	seed.order(enums.OrderStatusCompleted, fixedNow)

	counts, err := svc.OrderStatusCounts(context.Background())
	require.NoError(t, err)
	require.Equal(t, []StatusCount{
		{Status: enums.OrderStatusPending, Count: 2},
		{Status: enums.OrderStatusProcessing, Count: 0},
		{Status: enums.OrderStatusCompleted, Count: 1},
		{Status: enums.OrderStatusDeclined, Count: 0},
	}, counts)
}

func TestNavigationBadges(t *testing.T) {
	svc, seed := newTestService(t)
	ctx := context.Background()

	var first *models.Order
	for i := 0; i < 101; i++ {
		o := seed.order(enums.OrderStatusProcessing, fixedNow)
		if first == nil {
			first = o
		}
	}
	seed.order(enums.OrderStatusPending, fixedNow)
	trashed := seed.order(enums.OrderStatusPending, fixedNow)
	require.NoError(t, seed.conn.Delete(trashed).Error)
	require.NoError(t, seed.conn.Create(&models.Category{Name: "Shoes", Slug: "shoes"}).Error)

	nav, err := svc.Navigation(ctx)
	require.NoError(t, err)
	require.Equal(t, Badge{Count: 101, Color: enums.BadgeColorWarning}, nav.ProcessingOrders)
	require.EqualValues(t, 1, nav.Categories)
	require.EqualValues(t, 1, nav.PendingOrders)

	require.NoError(t, seed.conn.Model(first).Update("status", enums.OrderStatusCompleted).Error)
	badge, err := svc.ProcessingOrderBadge(ctx)
	require.NoError(t, err)
	require.Equal(t, Badge{Count: 100, Color: enums.BadgeColorPrimary}, badge)
}

func TestStats(t *testing.T) {
	svc, seed := newTestService(t)

	seed.product(fixedNow)
	seed.product(fixedNow)
	seed.order(enums.OrderStatusPending, fixedNow)
	seed.order(enums.OrderStatusDeclined, fixedNow)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, &Stats{TotalProducts: 2, PendingOrders: 1, TotalCustomers: 1}, stats)
}
