package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fooddash/models"
	"fooddash/pricing"
)

// Catalog is the lookup the cart needs from the menu catalog.
type Catalog interface {
	FindByID(productID int64) (models.Product, bool)
}

// Renderer receives a fresh cart snapshot after every mutation.
// submitEnabled follows the render rule: enabled iff the cart is non-empty.
type Renderer interface {
	RenderCart(lines []models.CartLine, breakdown models.Breakdown, submitEnabled bool)
}

// Notifier shows a transient toast to the user.
type Notifier interface {
	Show(kind models.NotifyKind, message string)
}

// Store owns the cart for one session. It is not safe for concurrent use;
// the session serializes commands onto it.
type Store struct {
	lines    []models.CartLine
	catalog  Catalog
	renderer Renderer
	notifier Notifier
}

func New(catalog Catalog, renderer Renderer, notifier Notifier) *Store {
	return &Store{catalog: catalog, renderer: renderer, notifier: notifier}
}

// AddItem puts one unit of the product in the cart. An unknown product id is
// a caller bug and is ignored without a toast. Adding a product already in
// the cart bumps its quantity instead of creating a second line.
func (s *Store) AddItem(productID int64) {
	product, ok := s.catalog.FindByID(productID)
	if !ok {
		return
	}

	found := false
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.lines = append(s.lines, models.CartLine{ProductID: productID, Quantity: 1})
	}

	s.render()
	s.notifier.Show(models.NotifySuccess, fmt.Sprintf("%s added to cart!", product.Name))
}

// RemoveItem drops the line for productID. No-op if absent, no toast either way.
func (s *Store) RemoveItem(productID int64) {
	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	s.lines = kept
	s.render()
}

// UpdateQuantity applies a delta to an existing line. A resulting quantity of
// zero or below removes the line. No-op if the line is absent.
func (s *Store) UpdateQuantity(productID int64, delta int) {
	for i := range s.lines {
		if s.lines[i].ProductID != productID {
			continue
		}
		if s.lines[i].Quantity+delta <= 0 {
			s.RemoveItem(productID)
			return
		}
		s.lines[i].Quantity += delta
		s.render()
		return
	}
}

// Clear empties the cart. Used after a successful order.
func (s *Store) Clear() {
	s.lines = nil
	s.render()
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []models.CartLine {
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Breakdown recomputes pricing from the current catalog prices. Never cached.
func (s *Store) Breakdown() models.Breakdown {
	return pricing.Compute(s.lines, func(id int64) (decimal.Decimal, bool) {
		product, ok := s.catalog.FindByID(id)
		return product.Price, ok
	})
}

// Items snapshots the cart as order items, freezing names and prices.
func (s *Store) Items() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(s.lines))
	for _, line := range s.lines {
		product, ok := s.catalog.FindByID(line.ProductID)
		if !ok {
			continue
		}
		items = append(items, models.OrderItem{
			Name:  product.Name,
			Price: product.Price,
			Qty:   line.Quantity,
		})
	}
	return items
}

// ItemCount is the total unit count across lines, for the cart badge.
func (s *Store) ItemCount() int {
	n := 0
	for _, line := range s.lines {
		n += line.Quantity
	}
	return n
}

func (s *Store) IsEmpty() bool {
	return len(s.lines) == 0
}

func (s *Store) render() {
	s.renderer.RenderCart(s.Lines(), s.Breakdown(), !s.IsEmpty())
}
