package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daajin/poultrystore-backend/api/controllers"
	"github.com/daajin/poultrystore-backend/api/middleware"
	"github.com/daajin/poultrystore-backend/internal/auth"
	"github.com/daajin/poultrystore-backend/internal/cart"
	"github.com/daajin/poultrystore-backend/internal/catalog"
	"github.com/daajin/poultrystore-backend/internal/customers"
	"github.com/daajin/poultrystore-backend/internal/dashboard"
	"github.com/daajin/poultrystore-backend/internal/inventory"
	"github.com/daajin/poultrystore-backend/internal/invoices"
	"github.com/daajin/poultrystore-backend/internal/orders"
	"github.com/daajin/poultrystore-backend/internal/products"
	"github.com/daajin/poultrystore-backend/pkg/auth/session"
	"github.com/daajin/poultrystore-backend/pkg/config"
	"github.com/daajin/poultrystore-backend/pkg/db"
	"github.com/daajin/poultrystore-backend/pkg/enums"
	"github.com/daajin/poultrystore-backend/pkg/logger"
	"github.com/daajin/poultrystore-backend/pkg/metrics"
	"github.com/daajin/poultrystore-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager *session.Manager
	Registry       *prometheus.Registry

	AuthService      auth.Service
	CatalogService   catalog.Service
	ProductService   products.Service
	CartService      cart.Service
	OrderService     orders.Service
	InventoryService inventory.Service
	CustomerService  customers.Service
	DashboardService dashboard.Service
	InvoiceService   invoices.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
	)

	if deps.Registry != nil {
		httpMetrics := metrics.NewHTTPMetrics(deps.Registry)
		r.Use(httpMetrics.Middleware)
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.AuthRateLimitPolicy{
		Name:       "login",
		Window:     cfg.AuthRateLimit.LoginWindow,
		IPLimit:    cfg.AuthRateLimit.LoginIPLimit,
		EmailLimit: cfg.AuthRateLimit.LoginEmailLimit,
	}
	registerPolicy := middleware.AuthRateLimitPolicy{
		Name:       "register",
		Window:     cfg.AuthRateLimit.RegisterWindow,
		IPLimit:    cfg.AuthRateLimit.RegisterIPLimit,
		EmailLimit: cfg.AuthRateLimit.RegisterEmailLimit,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public storefront surface. No session required.
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
				Post("/login", controllers.AuthLogin(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
				Post("/register", controllers.AuthRegister(deps.AuthService, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.StorefrontProducts(deps.ProductService, logg))
			r.Get("/{slug}", controllers.StorefrontProductBySlug(deps.ProductService, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.StorefrontCategories(deps.CatalogService, logg))
			r.Get("/{slug}", controllers.StorefrontCategoryBySlug(deps.CatalogService, logg))
		})

		// Authenticated customer surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))

			r.Post("/auth/logout", controllers.AuthLogout(deps.AuthService, logg))
			r.Get("/auth/me", controllers.AuthMe(deps.AuthService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.CartService, logg))
				r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
				r.Put("/items/{productID}", controllers.CartSetQuantity(deps.CartService, logg))
				r.Delete("/items/{productID}", controllers.CartRemoveItem(deps.CartService, logg))
				r.Delete("/", controllers.CartClear(deps.CartService, logg))
				r.Post("/merge", controllers.CartMerge(deps.CartService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderCheckout(deps.OrderService, logg))
				r.Get("/", controllers.MyOrders(deps.OrderService, logg))
				r.Get("/{orderID}", controllers.MyOrderDetail(deps.OrderService, logg))
				r.Get("/{orderID}/invoice", controllers.MyOrderInvoice(deps.InvoiceService, deps.OrderService, logg))
				r.Post("/{orderID}/invoice/save", controllers.MyOrderInvoiceSave(deps.InvoiceService, deps.OrderService, logg))
			})

			// Back-office surface.
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, string(enums.UserRoleAdmin)))

				r.Get("/dashboard", controllers.AdminDashboard(deps.DashboardService, logg))

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.AdminListProducts(deps.ProductService, logg))
					r.Post("/", controllers.AdminCreateProduct(deps.ProductService, logg))
					r.Get("/{productID}", controllers.AdminGetProduct(deps.ProductService, logg))
					r.Put("/{productID}", controllers.AdminUpdateProduct(deps.ProductService, logg))
					r.Delete("/{productID}", controllers.AdminDeleteProduct(deps.ProductService, logg))
					r.Post("/{productID}/duplicate", controllers.AdminDuplicateProduct(deps.ProductService, logg))
					r.Patch("/{productID}/published", controllers.AdminToggleProductFlag(deps.ProductService, "published", logg))
					r.Patch("/{productID}/featured", controllers.AdminToggleProductFlag(deps.ProductService, "featured", logg))
					r.Patch("/{productID}/in-stock", controllers.AdminToggleProductFlag(deps.ProductService, "in_stock", logg))
				})

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", controllers.AdminListCategories(deps.CatalogService, logg))
					r.Post("/", controllers.AdminCreateCategory(deps.CatalogService, logg))
					r.Get("/{categoryID}", controllers.AdminGetCategory(deps.CatalogService, logg))
					r.Put("/{categoryID}", controllers.AdminUpdateCategory(deps.CatalogService, logg))
					r.Delete("/{categoryID}", controllers.AdminDeleteCategory(deps.CatalogService, logg))
				})

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.AdminListOrders(deps.OrderService, logg))
					r.Get("/{orderID}", controllers.AdminOrderDetail(deps.OrderService, logg))
					r.Patch("/{orderID}/status", controllers.AdminUpdateOrderStatus(deps.OrderService, logg))
					r.Patch("/{orderID}/payment-status", controllers.AdminUpdatePaymentStatus(deps.OrderService, logg))
					r.Get("/{orderID}/invoice", controllers.AdminOrderInvoice(deps.InvoiceService, logg))
				})

				r.Route("/inventory", func(r chi.Router) {
					r.Get("/levels", controllers.AdminInventoryLevels(deps.InventoryService, logg))
					r.Get("/low-stock", controllers.AdminInventoryLowStock(deps.InventoryService, logg))
					r.Post("/transactions", controllers.AdminRecordInventoryTransaction(deps.InventoryService, logg))
					r.Route("/products/{productID}", func(r chi.Router) {
						r.Get("/level", controllers.AdminInventoryLevel(deps.InventoryService, logg))
						r.Get("/transactions", controllers.AdminListInventoryTransactions(deps.InventoryService, logg))
						r.Put("/thresholds", controllers.AdminSetInventoryThresholds(deps.InventoryService, logg))
					})
				})

				r.Route("/customers", func(r chi.Router) {
					r.Get("/", controllers.AdminListCustomers(deps.CustomerService, logg))
					r.Get("/{customerID}", controllers.AdminCustomerDetail(deps.CustomerService, logg))
				})
			})
		})
	})

	return r
}
