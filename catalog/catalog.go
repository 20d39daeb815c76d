package catalog

import (
	"context"

	"github.com/sirupsen/logrus"

	"fooddash/models"
)

// Store is the product source, normally the Postgres-backed store.
type Store interface {
	ListAvailableProducts(ctx context.Context) ([]models.Product, error)
}

// Catalog holds the products available for ordering, loaded once per process.
// A failed load leaves it empty so the menu renders empty instead of crashing;
// there is no automatic retry.
type Catalog struct {
	store    Store
	products []models.Product
	byID     map[int64]models.Product
}

func New(store Store) *Catalog {
	return &Catalog{store: store, byID: make(map[int64]models.Product)}
}

// Load replaces the product list from the store.
func (c *Catalog) Load(ctx context.Context) {
	products, err := c.store.ListAvailableProducts(ctx)
	if err != nil {
		logrus.WithError(err).Error("catalog: failed to load products")
		return
	}

	byID := make(map[int64]models.Product, len(products))
	for i, p := range products {
		if p.Rating == "" {
			products[i].Rating = models.DefaultRating
			p.Rating = models.DefaultRating
		}
		byID[p.ID] = p
	}
	c.products = products
	c.byID = byID
}

// Products returns the menu in store order (creation time ascending).
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// FindByID reports whether the product is on the menu.
func (c *Catalog) FindByID(id int64) (models.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *Catalog) Len() int {
	return len(c.products)
}
