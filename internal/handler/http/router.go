package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/apper-canvas/shopsync/internal/service"
	"github.com/apper-canvas/shopsync/pkg/health"
	"github.com/apper-canvas/shopsync/pkg/middleware"
)

// Services bundles the service dependencies for the router.
type Services struct {
	Cart     *service.CartService
	Invoice  *service.InvoiceService
	Order    *service.OrderService
	Checkout *service.CheckoutService
	Settings *service.SettingsService
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(svcs Services, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(CORS)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("shopsync"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(svcs.Cart, logger)
	invoiceHandler := NewInvoiceHandler(svcs.Invoice, logger)
	orderHandler := NewOrderHandler(svcs.Order, logger)
	checkoutHandler := NewCheckoutHandler(svcs.Checkout, logger)
	settingsHandler := NewSettingsHandler(svcs.Settings, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(UserIDFromHeader)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.SetQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.Checkout)

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", invoiceHandler.List)
			r.Post("/", invoiceHandler.Create)

			r.Get("/{invoiceId}", invoiceHandler.Get)
			r.Patch("/{invoiceId}", invoiceHandler.Update)
			r.Put("/{invoiceId}/status", invoiceHandler.UpdateStatus)
			r.Delete("/{invoiceId}", invoiceHandler.Delete)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.List)
			r.Get("/{orderId}", orderHandler.Get)
			r.Put("/{orderId}/status", orderHandler.UpdateStatus)
		})

		r.Route("/settings/invoice", func(r chi.Router) {
			r.Get("/", settingsHandler.Get)
			r.Put("/", settingsHandler.Save)
			r.Delete("/", settingsHandler.Reset)
		})
	})

	return r
}
