package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNoItems is returned when an order is submitted without any line items.
var ErrNoItems = errors.New("order must contain at least one item")

// DuplicateProductError indicates the same product was requested more than
// once within a single order.
type DuplicateProductError struct {
	ProductID int64
}

func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("duplicate product %d in order is not allowed", e.ProductID)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID int64
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %d", e.ProductID)
}

// ProductNotFoundError indicates a requested product does not exist in the catalog.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found with id: %d", e.ProductID)
}

// NotFoundError indicates a requested order does not exist.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order not found with id: %d", e.ID)
}

// LineItem is one priced row of an order. The product name and unit price are
// snapshotted from the catalog at order-creation time; TotalPrice is computed
// once as UnitPrice * Quantity and never recalculated.
type LineItem struct {
	ID          int64
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// Order is a finalized customer order. It is assembled in a single step and
// read-only afterwards; the HappyHour flag records whether the discount window
// was active at creation time and is never recomputed.
type Order struct {
	ID          int64
	TableNumber int
	Items       []LineItem
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	HappyHour   bool
	CreatedAt   time.Time
}

// Repository defines persistence operations for orders. Create assigns the
// order id and line item ids atomically.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
}
