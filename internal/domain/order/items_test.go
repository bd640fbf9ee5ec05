package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelldechant/bistro/internal/domain/product"
)

// --- Mock implementations ---

type mockCatalog struct {
	byID    map[int64]*product.Product
	lookups int
	getErr  error
}

func (m *mockCatalog) List(_ context.Context) ([]product.Product, error) {
	return nil, nil
}

func (m *mockCatalog) GetByID(_ context.Context, id int64) (*product.Product, error) {
	m.lookups++
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockCatalog) Create(_ context.Context, _ *product.Product) error {
	return nil
}

// --- Helpers ---

func newCatalog(products ...product.Product) *mockCatalog {
	byID := make(map[int64]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return &mockCatalog{byID: byID}
}

func testProduct(id int64, name, price string) product.Product {
	return product.Product{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
}

// --- Tests ---

func TestBuildLineItems_Empty(t *testing.T) {
	_, err := BuildLineItems(context.Background(), newCatalog(), nil)
	require.ErrorIs(t, err, ErrNoItems)
}

func TestBuildLineItems_SnapshotsPriceAndName(t *testing.T) {
	catalog := newCatalog(
		testProduct(1, "pizza", "6.00"),
		testProduct(2, "cola", "2.50"),
	)

	items, err := BuildLineItems(context.Background(), catalog, []ItemRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 2},
	})

	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "pizza", items[0].ProductName)
	assert.True(t, decimal.RequireFromString("6.00").Equal(items[0].UnitPrice))
	assert.True(t, decimal.RequireFromString("6.00").Equal(items[0].TotalPrice))

	assert.Equal(t, "cola", items[1].ProductName)
	assert.Equal(t, 2, items[1].Quantity)
	assert.True(t, decimal.RequireFromString("2.50").Equal(items[1].UnitPrice))
	assert.True(t, decimal.RequireFromString("5.00").Equal(items[1].TotalPrice))
}

func TestBuildLineItems_PreservesInputOrder(t *testing.T) {
	catalog := newCatalog(
		testProduct(1, "pizza", "6.00"),
		testProduct(2, "cola", "2.50"),
		testProduct(3, "fries", "3.20"),
	)

	items, err := BuildLineItems(context.Background(), catalog, []ItemRequest{
		{ProductID: 3, Quantity: 1},
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 1},
	})

	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, int64(3), items[0].ProductID)
	assert.Equal(t, int64(1), items[1].ProductID)
	assert.Equal(t, int64(2), items[2].ProductID)
}

func TestBuildLineItems_DuplicateProduct(t *testing.T) {
	catalog := newCatalog(testProduct(5, "espresso", "1.80"))

	_, err := BuildLineItems(context.Background(), catalog, []ItemRequest{
		{ProductID: 5, Quantity: 1},
		{ProductID: 5, Quantity: 2},
	})

	var dupErr *DuplicateProductError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, int64(5), dupErr.ProductID)
	// Duplicates are rejected before any catalog lookup happens.
	assert.Zero(t, catalog.lookups)
}

func TestBuildLineItems_DuplicateReportedBeforeQuantityCheck(t *testing.T) {
	catalog := newCatalog(testProduct(5, "espresso", "1.80"))

	_, err := BuildLineItems(context.Background(), catalog, []ItemRequest{
		{ProductID: 5, Quantity: -1},
		{ProductID: 5, Quantity: 2},
	})

	var dupErr *DuplicateProductError
	require.ErrorAs(t, err, &dupErr)
}

func TestBuildLineItems_InvalidQuantity(t *testing.T) {
	catalog := newCatalog(
		testProduct(1, "pizza", "6.00"),
		testProduct(2, "cola", "2.50"),
	)

	for _, qty := range []int{0, -1} {
		_, err := BuildLineItems(context.Background(), catalog, []ItemRequest{
			{ProductID: 1, Quantity: 1},
			{ProductID: 2, Quantity: qty},
		})

		var iqErr *InvalidQuantityError
		require.ErrorAs(t, err, &iqErr)
		assert.Equal(t, int64(2), iqErr.ProductID)
	}
}

func TestBuildLineItems_ProductNotFound(t *testing.T) {
	catalog := newCatalog(testProduct(1, "pizza", "6.00"))

	_, err := BuildLineItems(context.Background(), catalog, []ItemRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 999, Quantity: 1},
	})

	var pnfErr *ProductNotFoundError
	require.ErrorAs(t, err, &pnfErr)
	assert.Equal(t, int64(999), pnfErr.ProductID)
}

func TestBuildLineItems_QuantityCheckedBeforeLookup(t *testing.T) {
	catalog := newCatalog()

	// Product 999 does not exist, but the invalid quantity is reported first.
	_, err := BuildLineItems(context.Background(), catalog, []ItemRequest{
		{ProductID: 999, Quantity: 0},
	})

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Zero(t, catalog.lookups)
}
