package product

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Validation errors for product creation.
var (
	ErrBlankName    = errors.New("product name is mandatory")
	ErrNameLength   = errors.New("product name must be between 2 and 100 characters")
	ErrInvalidPrice = errors.New("product price must be positive with at most 5 integer and 2 fraction digits")
)

// Product represents a catalog item available for ordering. The price is the
// current menu price; orders snapshot it into their line items, so later
// catalog changes never affect existing orders.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) error
}

// maxPrice is the largest representable menu price: 5 integer digits.
var maxPrice = decimal.RequireFromString("99999.99")

// New validates the given name and price and returns an unpersisted Product.
// The name is trimmed; the price keeps at most two fraction digits.
func New(name string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrBlankName
	}
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return nil, ErrNameLength
	}
	if !price.IsPositive() || price.Exponent() < -2 || price.GreaterThan(maxPrice) {
		return nil, ErrInvalidPrice
	}

	return &Product{
		Name:  name,
		Price: price,
	}, nil
}
