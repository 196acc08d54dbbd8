package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karimfahmy/sofra-backend/api/controllers"
	"github.com/karimfahmy/sofra-backend/api/handlers"
	"github.com/karimfahmy/sofra-backend/api/middleware"
	cartsvc "github.com/karimfahmy/sofra-backend/internal/cart"
	checkoutsvc "github.com/karimfahmy/sofra-backend/internal/checkout"
	"github.com/karimfahmy/sofra-backend/internal/delivery"
	"github.com/karimfahmy/sofra-backend/internal/menu"
	ordersvc "github.com/karimfahmy/sofra-backend/internal/orders"
	"github.com/karimfahmy/sofra-backend/pkg/config"
	"github.com/karimfahmy/sofra-backend/pkg/db"
	"github.com/karimfahmy/sofra-backend/pkg/logger"
	"github.com/karimfahmy/sofra-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService ordersvc.Service,
	menuRepo *menu.Repository,
	locationRepo *delivery.LocationRepository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", handlers.HealthLive(cfg))
		r.Get("/ready", handlers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/menu", controllers.MenuList(menuRepo, logg))
		r.Get("/delivery/locations", controllers.DeliveryLocationList(locationRepo, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Post("/checkout", controllers.CheckoutSubmit(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(ordersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Post("/orders/{orderId}/status", controllers.AdminOrderStatusUpdate(ordersService, logg))
	})

	return r
}
