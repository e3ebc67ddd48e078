package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/pkg/auth/session"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/redis"
)

type sessionManager interface {
	New() *session.Session
	Load(ctx context.Context, id string) (*session.Session, error)
	Save(ctx context.Context, s *session.Session) error
}

type redisStore interface {
	redis.IdempotencyStore
	middleware.RateLimiterStore
}

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Dependencies are the collaborators the HTTP surface is built from. Redis
// and the metrics registry are optional; without Redis the rate limits and
// idempotency replay are disabled.
type Dependencies struct {
	DB       controllers.Pinger
	Redis    redisStore
	Sessions sessionManager
	Users    userLookup
	Registry *prometheus.Registry

	Catalog  catalog.Service
	Cart     cart.Service
	Checkout checkout.Service
	Orders   orders.Service
	Auth     auth.Service
	Register auth.RegisterService
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	var httpMetrics *metrics.HTTPMetrics
	if deps.Registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(deps.Registry)
	}

	r.Use(
		middleware.Recoverer(logg),
		chimw.RealIP,
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginIdentifierLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterIdentifierLimit,
	)

	var (
		rateStore        middleware.RateLimiterStore
		idempotencyStore redis.IdempotencyStore
	)
	if deps.Redis != nil {
		rateStore = deps.Redis
		idempotencyStore = deps.Redis
	}

	readiness := map[string]controllers.Pinger{}
	if deps.DB != nil {
		readiness["database"] = deps.DB
	}
	if deps.Redis != nil {
		if pinger, ok := deps.Redis.(controllers.Pinger); ok {
			readiness["redis"] = pinger
		}
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})

	if cfg.Metrics.Enabled && deps.Registry != nil {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, deps.Sessions, logg))

		r.Get("/", controllers.CatalogHome(deps.Catalog, logg))
		r.Get("/products", controllers.CatalogProductList(deps.Catalog, logg))
		r.Get("/products/{slug}", controllers.CatalogProductDetail(deps.Catalog, logg))
		r.Get("/categories/{categorySlug}/products", controllers.CatalogProductList(deps.Catalog, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartView(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Get("/count", controllers.CartCount(deps.Cart, logg))
			r.Post("/items", controllers.CartAdd(deps.Cart, logg))
			r.Put("/items/{productId}", controllers.CartUpdate(deps.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemove(deps.Cart, logg))
		})

		r.Get("/checkout", controllers.CheckoutPreview(deps.Cart, logg))
		r.With(middleware.Idempotency(idempotencyStore, cfg.Checkout.IdempotencyTTL, logg)).
			Post("/checkout", controllers.CheckoutPlaceOrder(deps.Checkout, deps.Cart, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).Post("/register", controllers.AuthRegister(deps.Register, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
			r.With(middleware.RequireAuth(logg)).Get("/me", controllers.AuthMe(deps.Auth, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireStaff(deps.Users, logg))

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.AdminCategoryList(deps.Catalog, logg))
				r.Post("/", controllers.AdminCategoryCreate(deps.Catalog, logg))
				r.Put("/{categoryId}", controllers.AdminCategoryUpdate(deps.Catalog, logg))
				r.Delete("/{categoryId}", controllers.AdminCategoryDelete(deps.Catalog, logg))
			})
			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminProductList(deps.Catalog, logg))
				r.Post("/", controllers.AdminProductCreate(deps.Catalog, logg))
				r.Get("/{productId}", controllers.AdminProductGet(deps.Catalog, logg))
				r.Put("/{productId}", controllers.AdminProductUpdate(deps.Catalog, logg))
				r.Delete("/{productId}", controllers.AdminProductDelete(deps.Catalog, logg))
			})
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrderList(deps.Orders, logg))
				r.Get("/{orderId}", controllers.AdminOrderDetail(deps.Orders, logg))
				r.Patch("/{orderId}/paid", controllers.AdminOrderSetPaid(deps.Orders, logg))
			})
		})
	})

	return r
}
