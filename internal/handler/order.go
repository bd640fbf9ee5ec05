package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/marcelldechant/bistro/internal/domain/order"
)

type createOrderRequest struct {
	TableNumber int                      `json:"tableNumber"`
	Items       []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type orderItemResponse struct {
	ID         int64   `json:"id"`
	ProductID  int64   `json:"productId"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

type orderResponse struct {
	ID          int64               `json:"id"`
	TableNumber int                 `json:"tableNumber"`
	OrderItems  []orderItemResponse `json:"orderItems"`
	Subtotal    float64             `json:"subtotal"`
	Discount    float64             `json:"discount"`
	Total       float64             `json:"total"`
	HappyHour   bool                `json:"happyHour"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// CreateOrder places a new order for a table.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]order.ItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.ItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	o, err := h.orderService.CreateOrder(r.Context(), order.CreateOrderRequest{
		TableNumber: req.TableNumber,
		Items:       items,
	})
	if err != nil {
		h.mapOrderError(w, r, err)
		return
	}

	if h.ordersPlaced != nil {
		h.ordersPlaced.Add(r.Context(), 1,
			metric.WithAttributes(attribute.Bool("happy_hour", o.HappyHour)))
	}

	writeJSON(w, r, http.StatusCreated, toOrderResponse(o))
}

// GetOrder returns a stored order by its id.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	o, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		h.mapOrderError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toOrderResponse(o))
}

// GetReceipt renders the plain-text receipt for a stored order.
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	receipt, err := h.orderService.Receipt(r.Context(), id, h.receipt)
	if err != nil {
		h.mapOrderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(receipt))
}

func orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

// mapOrderError translates domain errors to HTTP status codes. The response
// message is the error's own text; unclassified failures become a generic 500.
func (h *Handler) mapOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		dupErr *order.DuplicateProductError
		iqErr  *order.InvalidQuantityError
		pnfErr *order.ProductNotFoundError
		nfErr  *order.NotFoundError
	)

	switch {
	case errors.Is(err, order.ErrNoItems):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.As(err, &iqErr):
		writeError(w, r, http.StatusBadRequest, iqErr.Error())
	case errors.As(err, &dupErr):
		writeError(w, r, http.StatusConflict, dupErr.Error())
	case errors.As(err, &pnfErr):
		writeError(w, r, http.StatusNotFound, pnfErr.Error())
	case errors.As(err, &nfErr):
		writeError(w, r, http.StatusNotFound, nfErr.Error())
	default:
		writeInternalError(w, r, err)
	}
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Name:       item.ProductName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.InexactFloat64(),
			TotalPrice: item.TotalPrice.InexactFloat64(),
		}
	}

	return orderResponse{
		ID:          o.ID,
		TableNumber: o.TableNumber,
		OrderItems:  items,
		Subtotal:    o.Subtotal.InexactFloat64(),
		Discount:    o.Discount.InexactFloat64(),
		Total:       o.Total.InexactFloat64(),
		HappyHour:   o.HappyHour,
		CreatedAt:   o.CreatedAt,
	}
}
