package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fooddash/cart"
	"fooddash/models"
)

// Store is the order sink, normally the Postgres-backed store.
type Store interface {
	InsertOrder(ctx context.Context, payload models.OrderPayload) error
}

// Renderer receives the in-flight affordance transitions around a submission.
type Renderer interface {
	SetSubmitInProgress(inProgress bool)
}

// State of the submitter. Succeeded and Failed are reported through the
// Submit return value; between calls the submitter is always Idle.
type State int

const (
	Idle State = iota
	Submitting
)

var (
	ErrMissingDetails = errors.New("delivery details incomplete")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInFlight       = errors.New("a submission is already in flight")
)

// Submitter turns the current cart plus delivery details into an order and
// hands it to the store. Validation failures and store errors surface as
// toasts; nothing here is fatal.
type Submitter struct {
	cart     *cart.Store
	store    Store
	renderer Renderer
	notifier cart.Notifier

	details models.DeliveryDetails
	state   State
}

func New(c *cart.Store, store Store, renderer Renderer, notifier cart.Notifier) *Submitter {
	return &Submitter{cart: c, store: store, renderer: renderer, notifier: notifier}
}

// SetDetails records the delivery form. Cleared only by a successful order.
func (s *Submitter) SetDetails(d models.DeliveryDetails) {
	s.details = d
}

func (s *Submitter) Details() models.DeliveryDetails {
	return s.details
}

func (s *Submitter) State() State {
	return s.state
}

// Submit runs the Idle -> Submitting -> outcome -> Idle cycle. Preconditions
// fail fast with an error toast and no state change. The submit affordance is
// disabled for the duration of the store call and unconditionally restored,
// so a store panic or error can never leave the UI stuck in Submitting.
func (s *Submitter) Submit(ctx context.Context) error {
	if s.state == Submitting {
		return ErrInFlight
	}

	name := strings.TrimSpace(s.details.Name)
	phone := strings.TrimSpace(s.details.Phone)
	address := strings.TrimSpace(s.details.Address)
	if name == "" || phone == "" || address == "" {
		s.notifier.Show(models.NotifyError, "Please fill in all delivery details.")
		return ErrMissingDetails
	}
	if s.cart.IsEmpty() {
		s.notifier.Show(models.NotifyError, "Your cart is empty. Add items first!")
		return ErrEmptyCart
	}

	payload := models.OrderPayload{
		CustomerName: name,
		Phone:        phone,
		Address:      address,
		Items:        s.cart.Items(),
		TotalAmount:  s.cart.Breakdown().Total,
	}

	s.state = Submitting
	s.renderer.SetSubmitInProgress(true)
	defer func() {
		s.state = Idle
		s.renderer.SetSubmitInProgress(false)
	}()

	if err := s.store.InsertOrder(ctx, payload); err != nil {
		// cart and form stay untouched so the user can retry as-is
		s.notifier.Show(models.NotifyError, "Failed to place order. Please try again.")
		return fmt.Errorf("insert order: %w", err)
	}

	s.cart.Clear()
	s.details = models.DeliveryDetails{}
	s.notifier.Show(models.NotifySuccess, "Order placed successfully! 🎉")
	return nil
}
