package httpapi

import (
	"context"
	"sync"

	"fooddash/catalog"
	"fooddash/models"
)

// collector implements Renderer and Notifier for the HTTP binding. Render
// calls land in a buffer the handler serializes after the command; toasts
// queue up until a response drains them (the page owns the 3.5s dismissal).
type collector struct {
	catalog *catalog.Catalog

	mu            sync.Mutex
	notifications []notificationView
}

func newCollector(cat *catalog.Catalog) *collector {
	return &collector{catalog: cat}
}

func (c *collector) RenderCart(lines []models.CartLine, b models.Breakdown, submitEnabled bool) {
	// handlers read the cart straight off the session after the command, so
	// the push render is a no-op for HTTP
}

func (c *collector) RenderMenu(products []models.Product) {}

func (c *collector) RenderOrderHistory(orders []models.Order) {}

// SetSubmitInProgress has nothing to disable over HTTP: a request is already
// in flight, and the submitter's own guard blocks a concurrent duplicate.
func (c *collector) SetSubmitInProgress(inProgress bool) {}

func (c *collector) Show(kind models.NotifyKind, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = append(c.notifications, notificationView{
		Kind:    string(kind),
		Message: message,
	})
}

func (c *collector) drainNotifications() []notificationView {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.notifications
	c.notifications = nil
	if out == nil {
		out = []notificationView{}
	}
	return out
}

func withSession(ctx context.Context, env *sessionEnv) context.Context {
	return context.WithValue(ctx, sessionContextKey, env)
}

func sessionFromContext(ctx context.Context) *sessionEnv {
	env, _ := ctx.Value(sessionContextKey).(*sessionEnv)
	return env
}
