package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medlinkvn/dms-backend/api/controllers"
	"github.com/medlinkvn/dms-backend/api/middleware"
	authsvc "github.com/medlinkvn/dms-backend/internal/auth"
	"github.com/medlinkvn/dms-backend/internal/catalog"
	"github.com/medlinkvn/dms-backend/internal/customers"
	"github.com/medlinkvn/dms-backend/internal/orders"
	"github.com/medlinkvn/dms-backend/pkg/config"
	"github.com/medlinkvn/dms-backend/pkg/db"
	"github.com/medlinkvn/dms-backend/pkg/logger"
	"github.com/medlinkvn/dms-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     *redis.Client
	Auth      authsvc.Service
	Catalog   catalog.Service
	Customers customers.Service
	Orders    orders.Service
	Metrics   prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		checks := map[string]func() error{}
		if deps.DB != nil {
			checks["database"] = func() error { return deps.DB.Ping(context.Background()) }
		}
		if deps.Redis != nil {
			checks["redis"] = func() error { return deps.Redis.Ping(context.Background()) }
		}
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, checks, logg))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Catalog, logg))
			r.Get("/{productID}", controllers.ProductGet(deps.Catalog, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(deps.Customers, logg))
			r.Get("/{customerID}", controllers.CustomerGet(deps.Customers, logg))
			r.Route("/{customerID}/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.Orders, logg))
				r.Put("/", controllers.CartUpdateQuantity(deps.Orders, logg))
				r.Delete("/", controllers.CartClear(deps.Orders, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Post("/", controllers.OrderSubmit(deps.Orders, logg))
			r.Get("/{orderID}", controllers.OrderGet(deps.Orders, logg))
			r.Put("/{orderID}", controllers.OrderRevise(deps.Orders, logg))
			r.Post("/{orderID}/edit", controllers.OrderStartEdit(deps.Orders, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Catalog, logg))
			r.Post("/", controllers.AdminProductCreate(deps.Catalog, logg))
			r.Patch("/{productID}", controllers.AdminProductUpdate(deps.Catalog, logg))
		})
		r.Post("/orders/{orderID}/status", controllers.OrderStatus(deps.Orders, logg))
		r.Get("/orders/{orderID}", controllers.OrderGet(deps.Orders, logg))
	})

	return r
}
