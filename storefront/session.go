package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"fooddash/cart"
	"fooddash/catalog"
	"fooddash/models"
	"fooddash/order"
)

// Toast display timing, shared by the Notifier bindings.
const (
	ToastDuration = 3500 * time.Millisecond
	ToastExit     = 300 * time.Millisecond
)

// Session is one customer's storefront: a cart, a submitter, and a view onto
// the shared catalog. Created on the user's first event, discarded on logout
// or teardown; the cart is deliberately never persisted. The core itself is
// single-threaded, so every command takes the session lock to keep the
// "one logical thread of control" model under concurrent HTTP handlers.
type Session struct {
	ID string

	mu        sync.Mutex
	catalog   *catalog.Catalog
	cart      *cart.Store
	submitter *order.Submitter
	store     DataStore
	renderer  Renderer
	notifier  Notifier
}

func NewSession(id string, cat *catalog.Catalog, store DataStore, renderer Renderer, notifier Notifier) *Session {
	c := cart.New(cat, renderer, notifier)
	return &Session{
		ID:        id,
		catalog:   cat,
		cart:      c,
		submitter: order.New(c, store, renderer, notifier),
		store:     store,
		renderer:  renderer,
		notifier:  notifier,
	}
}

// ShowMenu renders the catalog as loaded at startup.
func (s *Session) ShowMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer.RenderMenu(s.catalog.Products())
}

func (s *Session) AddItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.AddItem(productID)
}

func (s *Session) RemoveItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.RemoveItem(productID)
}

func (s *Session) UpdateQuantity(productID int64, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.UpdateQuantity(productID, delta)
}

func (s *Session) SetDetails(d models.DeliveryDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitter.SetDetails(d)
}

func (s *Session) Details() models.DeliveryDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitter.Details()
}

func (s *Session) SubmitOrder(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitter.Submit(ctx)
}

// Cart returns the current lines, breakdown and unit count as one snapshot.
func (s *Session) Cart() ([]models.CartLine, models.Breakdown, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines(), s.cart.Breakdown(), s.cart.ItemCount()
}

func (s *Session) CartIsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.IsEmpty()
}

// ShowHistory fetches past orders and renders them. A store failure degrades
// to an error toast; nothing is cached.
func (s *Session) ShowHistory(ctx context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		logrus.WithError(err).WithField("session", s.ID).Error("storefront: failed to load order history")
		s.notifier.Show(models.NotifyError, "Error loading orders. Please try again later.")
		return nil, err
	}
	s.renderer.RenderOrderHistory(orders)
	return orders, nil
}

// Manager owns the live sessions, keyed by session id (HTTP) or chat id
// (Telegram).
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	catalog  *catalog.Catalog
	store    DataStore
}

func NewManager(cat *catalog.Catalog, store DataStore) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		catalog:  cat,
		store:    store,
	}
}

// Get returns the live session for id, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// GetOrCreate returns the session for id, creating it with the given UI
// binding on first sight. The binding of an existing session is kept.
func (m *Manager) GetOrCreate(id string, renderer Renderer, notifier Notifier) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := NewSession(id, m.catalog, m.store, renderer, notifier)
	m.sessions[id] = s
	return s
}

// End discards the session and its cart.
func (m *Manager) End(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
