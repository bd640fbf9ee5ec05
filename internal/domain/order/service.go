package order

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/marcelldechant/bistro/internal/domain/product"
)

// CreateOrderRequest holds the input for placing an order.
type CreateOrderRequest struct {
	TableNumber int
	Items       []ItemRequest
}

// Service encapsulates order placement and retrieval business logic.
type Service struct {
	products product.Repository
	orders   Repository
	pricer   *Pricer
}

// NewService creates an order Service with the required domain dependencies.
func NewService(products product.Repository, orders Repository, pricer *Pricer) *Service {
	return &Service{
		products: products,
		orders:   orders,
		pricer:   pricer,
	}
}

// CreateOrder builds priced line items from the request, computes totals with
// the happy-hour policy, persists the order, and returns it with assigned ids.
// Order creation is all-or-nothing: any validation failure leaves nothing
// persisted, and domain errors propagate to the caller unchanged.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	items, err := BuildLineItems(ctx, s.products, req.Items)
	if err != nil {
		return nil, err
	}

	pricing := s.pricer.Price(items)

	o := &Order{
		TableNumber: req.TableNumber,
		Items:       items,
		Subtotal:    pricing.Subtotal,
		Discount:    pricing.Discount,
		Total:       pricing.Total,
		HappyHour:   pricing.HappyHour,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// GetOrder returns a stored order by id. It fails with *NotFoundError when no
// order with that id exists.
func (s *Service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		var nfErr *NotFoundError
		if errors.As(err, &nfErr) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	return o, nil
}

// Receipt renders the plain-text receipt for a stored order.
func (s *Service) Receipt(ctx context.Context, id int64, format ReceiptFormat) (string, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return "", err
	}
	return FormatReceipt(o, format), nil
}
