package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"fooddash/models"
)

type fakeStore struct {
	products []models.Product
	err      error
	calls    int
}

func (f *fakeStore) ListAvailableProducts(ctx context.Context) ([]models.Product, error) {
	f.calls++
	return f.products, f.err
}

func TestLoad(t *testing.T) {
	store := &fakeStore{products: []models.Product{
		{ID: 1, Name: "Burger", Price: decimal.NewFromInt(150), Rating: "4.8 ★ (120)"},
		{ID: 2, Name: "Fries", Price: decimal.NewFromInt(80)},
	}}
	c := New(store)
	c.Load(context.Background())

	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}

	p, ok := c.FindByID(2)
	if !ok {
		t.Fatal("product 2 not found")
	}
	if p.Rating != models.DefaultRating {
		t.Errorf("rating = %q, want default %q", p.Rating, models.DefaultRating)
	}

	products := c.Products()
	if products[0].ID != 1 || products[1].ID != 2 {
		t.Errorf("store order not preserved: %v", products)
	}
}

func TestLoadFailureLeavesCatalogEmpty(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	c := New(store)
	c.Load(context.Background())

	if c.Len() != 0 {
		t.Errorf("len = %d, want 0 after failed load", c.Len())
	}
	if store.calls != 1 {
		t.Errorf("store calls = %d, want 1 (no automatic retry)", store.calls)
	}
	if _, ok := c.FindByID(1); ok {
		t.Error("FindByID should report absent on an empty catalog")
	}
}

func TestLoadReplacesPreviousProducts(t *testing.T) {
	store := &fakeStore{products: []models.Product{{ID: 1, Name: "Burger"}}}
	c := New(store)
	c.Load(context.Background())

	store.products = []models.Product{{ID: 7, Name: "Pizza"}}
	c.Load(context.Background())

	if _, ok := c.FindByID(1); ok {
		t.Error("old product survived a reload")
	}
	if _, ok := c.FindByID(7); !ok {
		t.Error("new product missing after reload")
	}
}
