package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/marcelldechant/bistro/internal/domain/product"
)

// ItemRequest is one requested (product, quantity) pair of an incoming order.
type ItemRequest struct {
	ProductID int64
	Quantity  int
}

// BuildLineItems resolves the requested items against the catalog and returns
// priced line items with the unit price snapshotted from the current product.
//
// Validation order: the request must be non-empty, then product ids must be
// unique across the whole request, then each item is checked in input order
// for a positive quantity before its catalog lookup. The first offending item
// fails the whole build.
func BuildLineItems(ctx context.Context, catalog product.Repository, requested []ItemRequest) ([]LineItem, error) {
	if len(requested) == 0 {
		return nil, ErrNoItems
	}

	seen := make(map[int64]struct{}, len(requested))
	for _, req := range requested {
		if _, dup := seen[req.ProductID]; dup {
			return nil, &DuplicateProductError{ProductID: req.ProductID}
		}
		seen[req.ProductID] = struct{}{}
	}

	items := make([]LineItem, 0, len(requested))
	for _, req := range requested {
		if req.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: req.ProductID, Quantity: req.Quantity}
		}

		p, err := catalog.GetByID(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return nil, &ProductNotFoundError{ProductID: req.ProductID}
			}
			return nil, errors.Wrapf(err, "get product %d", req.ProductID)
		}

		qty := decimal.NewFromInt(int64(req.Quantity))
		items = append(items, LineItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    req.Quantity,
			UnitPrice:   p.Price,
			TotalPrice:  p.Price.Mul(qty),
		})
	}

	return items, nil
}
