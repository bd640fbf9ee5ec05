// Package handler exposes the bistro REST API. Routing uses chi; domain
// errors are mapped to status codes here and nowhere else.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/metric"

	"github.com/marcelldechant/bistro/internal/domain/order"
	"github.com/marcelldechant/bistro/internal/domain/product"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// Receipt controls how monetary values are rendered on receipts.
	Receipt order.ReceiptFormat
}

// Handler serves the bistro HTTP API, delegating business logic to the order
// service and the product repository.
type Handler struct {
	products     product.Repository
	orderService *order.Service
	receipt      order.ReceiptFormat
	ordersPlaced metric.Int64Counter
}

// NewHandler constructs a Handler with the required domain dependencies.
// The meter may be nil in tests; order placement is then not counted.
func NewHandler(
	cfg Config,
	products product.Repository,
	orderService *order.Service,
	meter metric.Meter,
) (*Handler, error) {
	h := &Handler{
		products:     products,
		orderService: orderService,
		receipt:      cfg.Receipt,
	}

	if meter != nil {
		var err error
		h.ordersPlaced, err = meter.Int64Counter("bistro.orders.placed",
			metric.WithDescription("Number of successfully placed orders"))
		if err != nil {
			return nil, err
		}
	}

	return h, nil
}

// Routes returns the API router mounted under /api/v1.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.CreateOrder)
			r.Get("/{id}", h.GetOrder)
			r.Get("/{id}/receipt", h.GetReceipt)
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{id}", h.GetProduct)
		})
	})

	return r
}
