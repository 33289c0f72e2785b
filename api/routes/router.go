package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/minishop-backend/api/controllers"
	"github.com/angelmondragon/minishop-backend/api/controllers/admin"
	"github.com/angelmondragon/minishop-backend/api/controllers/storefront"
	"github.com/angelmondragon/minishop-backend/api/middleware"
	"github.com/angelmondragon/minishop-backend/internal/carts"
	"github.com/angelmondragon/minishop-backend/internal/offers"
	"github.com/angelmondragon/minishop-backend/internal/orders"
	"github.com/angelmondragon/minishop-backend/internal/products"
	"github.com/angelmondragon/minishop-backend/internal/stores"
	"github.com/angelmondragon/minishop-backend/internal/tenants"
	"github.com/angelmondragon/minishop-backend/internal/upsells"
	"github.com/angelmondragon/minishop-backend/pkg/config"
	"github.com/angelmondragon/minishop-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/minishop-backend/pkg/redis"
)

// Cache is the redis surface the HTTP layer needs.
type Cache interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(parts ...string) string
	Ping(ctx context.Context) error
}

// Params wires the router collaborators.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Cache    Cache
	Gatherer prometheus.Gatherer
	Tenants  tenants.Resolver
	Stores   stores.Service
	Products products.Service
	Orders   orders.Service
	Offers   offers.Service
	Upsells  upsells.Service
	Carts    carts.Service
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Cache))
	})

	if cfg.FeatureFlags.Metrics && p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	checkoutPolicy := middleware.NewRateLimitPolicy("checkout", cfg.Checkout.RateLimitWindow, cfg.Checkout.RateLimitPerIP)
	idempotent := middleware.Idempotency(p.Cache, cfg.Checkout.IdempotencyTTL, logg)

	r.Route("/api/store/{slug}", func(r chi.Router) {
		r.Use(middleware.StoreTenant(p.Tenants, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(checkoutPolicy, p.Cache, logg))
			r.With(idempotent).Post("/order", storefront.CreateOrder(p.Orders, logg))
			r.With(idempotent).Post("/order/{orderId}/upsell-item", storefront.AddUpsellItem(p.Orders, logg))
			r.Post("/cart/capture", storefront.CaptureCart(p.Carts, logg))
		})

		r.Get("/config", storefront.StoreConfig(p.Stores, logg))
		r.Get("/products", storefront.ListProducts(p.Products, logg))
		r.Get("/products/{productSlug}", storefront.ProductDetail(p.Products, logg))
		r.Get("/upsells/{productId}", storefront.EligibleUpsells(p.Upsells, logg))
		r.Post("/upsells/{upsellId}/impression", storefront.UpsellImpression(p.Upsells, logg))
		r.Get("/quantity-offers/{productId}", storefront.QuantityOffer(p.Offers, logg))
		r.Post("/quantity-offers/{offerId}/impression", storefront.OfferImpression(p.Offers, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.JWT, p.Tenants, logg))

		r.Get("/store-config", admin.StoreConfig(p.Stores, logg))
		r.Put("/store-config", admin.UpdateStoreConfig(p.Stores, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", admin.ListProducts(p.Products, logg))
			r.Post("/", admin.CreateProduct(p.Products, logg))
			r.Get("/{productId}", admin.ProductDetail(p.Products, logg))
			r.Put("/{productId}", admin.UpdateProduct(p.Products, logg))
			r.Delete("/{productId}", admin.DeleteProduct(p.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", admin.ListOrders(p.Orders, logg))
			r.Get("/{orderId}", admin.OrderDetail(p.Orders, logg))
			r.Put("/{orderId}/status", admin.UpdateOrderStatus(p.Orders, logg))
			r.Put("/{orderId}/notes", admin.UpdateOrderNotes(p.Orders, logg))
		})

		r.Route("/quantity-offers", func(r chi.Router) {
			r.Get("/", admin.ListOffers(p.Offers, logg))
			r.Post("/", admin.CreateOffer(p.Offers, logg))
			r.Put("/{offerId}", admin.UpdateOffer(p.Offers, logg))
			r.Patch("/{offerId}/active", admin.SetOfferActive(p.Offers, logg))
			r.Delete("/{offerId}", admin.DeleteOffer(p.Offers, logg))
		})

		r.Route("/upsells", func(r chi.Router) {
			r.Get("/config", admin.UpsellConfig(p.Upsells, logg))
			r.Put("/config", admin.UpdateUpsellConfig(p.Upsells, logg))
			r.Get("/", admin.ListUpsells(p.Upsells, logg))
			r.Post("/", admin.CreateUpsell(p.Upsells, logg))
			r.Get("/{upsellId}", admin.UpsellDetail(p.Upsells, logg))
			r.Put("/{upsellId}", admin.UpdateUpsell(p.Upsells, logg))
			r.Post("/{upsellId}/duplicate", admin.DuplicateUpsell(p.Upsells, logg))
			r.Patch("/{upsellId}/active", admin.SetUpsellActive(p.Upsells, logg))
			r.Delete("/{upsellId}", admin.DeleteUpsell(p.Upsells, logg))
		})

		r.Route("/carts", func(r chi.Router) {
			r.Get("/", admin.ListCarts(p.Carts, logg))
			r.Put("/{cartId}/status", admin.UpdateCartStatus(p.Carts, logg))
		})
	})

	return r
}
