package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/api/controllers"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/api/middleware"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/brands"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/categories"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/customers"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/dashboard"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/orders"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/internal/products"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/config"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/redis"
)

// NewRouter mounts the health checks, the metrics endpoint and the admin API.
// redisClient may be nil; idempotent replay is then off and write limits
// fall back to in-process counters.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	metricsHandler http.Handler,
	brandService brands.Service,
	categoryService categories.Service,
	productService products.Service,
	customerService customers.Service,
	orderService orders.Service,
	dashboardService dashboard.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.SecureHeaders(cfg.App.IsProd()),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	writePolicy := middleware.NewWriteRateLimitPolicy("writes", cfg.HTTP.RateLimitWindow, cfg.HTTP.WriteLimit)
	writeLimiter := middleware.WriteRateLimit(writePolicy, nil, logg)
	var (
		idempotencyStore redis.IdempotencyStore
		redisPinger      controllers.Pinger
	)
	if redisClient != nil {
		idempotencyStore = redisClient
		redisPinger = redisClient
		writeLimiter = middleware.WriteRateLimit(writePolicy, redisClient, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisPinger,
		}))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(writeLimiter)
		r.Use(middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL, logg))

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", controllers.ListBrands(brandService, logg))
			r.Post("/", controllers.CreateBrand(brandService, logg))
			r.Get("/{id}", controllers.GetBrand(brandService, logg))
			r.Patch("/{id}", controllers.UpdateBrand(brandService, logg))
			r.Delete("/{id}", controllers.DeleteBrand(brandService, logg))
			r.Post("/{id}/restore", controllers.RestoreBrand(brandService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(categoryService, logg))
			r.Post("/", controllers.CreateCategory(categoryService, logg))
			r.Get("/{id}", controllers.GetCategory(categoryService, logg))
			r.Patch("/{id}", controllers.UpdateCategory(categoryService, logg))
			r.Delete("/{id}", controllers.DeleteCategory(categoryService, logg))
			r.Post("/{id}/restore", controllers.RestoreCategory(categoryService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Get("/{id}", controllers.GetProduct(productService, logg))
			r.Patch("/{id}", controllers.UpdateProduct(productService, logg))
			r.Delete("/{id}", controllers.DeleteProduct(productService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(customerService, logg))
			r.Post("/", controllers.CreateCustomer(customerService, logg))
			r.Get("/{id}", controllers.GetCustomer(customerService, logg))
			r.Patch("/{id}", controllers.UpdateCustomer(customerService, logg))
			r.Delete("/{id}", controllers.DeleteCustomer(customerService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(orderService, logg))
			r.Post("/", controllers.CreateOrder(orderService, logg))
			r.Get("/{id}", controllers.GetOrder(orderService, logg))
			r.Patch("/{id}", controllers.UpdateOrder(orderService, logg))
			r.Delete("/{id}", controllers.DeleteOrder(orderService, logg))
			r.Post("/{id}/restore", controllers.RestoreOrder(orderService, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/products-per-month", controllers.ProductsPerMonth(dashboardService, logg))
			r.Get("/orders-per-month", controllers.OrdersPerMonth(dashboardService, logg))
			r.Get("/order-status", controllers.OrderStatusCounts(dashboardService, logg))
			r.Get("/stats", controllers.DashboardStats(dashboardService, logg))
			r.Get("/navigation", controllers.Navigation(dashboardService, logg))
		})
	})

	return r
}
