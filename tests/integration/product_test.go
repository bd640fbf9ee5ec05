//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/v1/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != seededProducts {
		t.Fatalf("expected %d products, got %d", seededProducts, len(products))
	}
}

func TestListProducts_Fields(t *testing.T) {
	resp := doGet(t, "/api/v1/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)

	var pizza *productResponse
	for i := range products {
		if products[i].Name == "Pizza Margherita" {
			pizza = &products[i]
			break
		}
	}

	if pizza == nil {
		t.Fatal("product 'Pizza Margherita' not found")
	}
	if pizza.ID == 0 {
		t.Error("id is zero")
	}
	if pizza.Price != 8.5 {
		t.Errorf("price: got %v, want 8.5", pizza.Price)
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, "/api/v1/products/1")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	product := decodeJSON[productResponse](t, resp)
	if product.ID != 1 {
		t.Errorf("id: got %d, want 1", product.ID)
	}
	if product.Name == "" {
		t.Error("name is empty")
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/v1/products/9999")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	errResp := decodeJSON[errorResponse](t, resp)
	if errResp.StatusCode != 404 {
		t.Errorf("error statusCode: got %d, want 404", errResp.StatusCode)
	}
	if errResp.Path != "/api/v1/products/9999" {
		t.Errorf("error path: got %q", errResp.Path)
	}
}

func TestCreateProduct(t *testing.T) {
	resp := doPost(t, "/api/v1/products", map[string]any{
		"name":  "Espresso",
		"price": "2.20",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	product := decodeJSON[productResponse](t, resp)
	if product.ID == 0 {
		t.Error("id is zero")
	}
	if product.Name != "Espresso" {
		t.Errorf("name: got %q, want %q", product.Name, "Espresso")
	}
	if product.Price != 2.2 {
		t.Errorf("price: got %v, want 2.2", product.Price)
	}
}

func TestCreateProduct_Invalid(t *testing.T) {
	resp := doPost(t, "/api/v1/products", map[string]any{
		"name":  "X",
		"price": "1.00",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
