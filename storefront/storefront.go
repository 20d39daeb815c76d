// Package storefront wires the cart/pricing core to its external
// collaborators. Persistence, auth, and rendering are capabilities the core
// consumes; concrete bindings live in store/, auth/, bot/ and httpapi/.
package storefront

import (
	"context"

	"fooddash/cart"
	"fooddash/models"
	"fooddash/order"
)

// DataStore is the hosted backend the storefront delegates persistence to.
type DataStore interface {
	// ListAvailableProducts returns the menu ordered by creation time ascending.
	ListAvailableProducts(ctx context.Context) ([]models.Product, error)
	InsertOrder(ctx context.Context, payload models.OrderPayload) error
	// ListOrders returns past orders, newest first.
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// AuthSession is the result of a session check against the auth backend.
type AuthSession struct {
	Authenticated bool
	Role          string
	Name          string
	Email         string
}

// AuthProvider fronts the external auth backend. Session issuance (magic
// link, OAuth, admin login) happens entirely on that side; this core only
// checks and drops sessions.
type AuthProvider interface {
	CheckSession(ctx context.Context, token string) (AuthSession, error)
	Logout(ctx context.Context, token string) error
}

// Renderer is the full rendering surface a UI binding provides. The core
// never constructs markup; it hands over immutable snapshots.
type Renderer interface {
	cart.Renderer
	order.Renderer
	RenderMenu(products []models.Product)
	RenderOrderHistory(orders []models.Order)
}

// Notifier shows transient toasts. Bindings own the display interval
// (ToastDuration visible, ToastExit for the dismiss transition).
type Notifier = cart.Notifier
