package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fooddash/catalog"
	"fooddash/models"
	"fooddash/storefront"
)

type stubAuth struct {
	loggedOut []string
}

func (a *stubAuth) CheckSession(ctx context.Context, token string) (storefront.AuthSession, error) {
	if token == "valid" {
		return storefront.AuthSession{Authenticated: true, Role: "customer", Name: "Asha", Email: "asha@example.com"}, nil
	}
	return storefront.AuthSession{}, nil
}

func (a *stubAuth) Logout(ctx context.Context, token string) error {
	a.loggedOut = append(a.loggedOut, token)
	return nil
}

type stubBackend struct {
	insertErr error
	orders    []models.Order
}

func (b *stubBackend) ListAvailableProducts(ctx context.Context) ([]models.Product, error) {
	return []models.Product{
		{ID: 1, Name: "Burger", Price: decimal.NewFromInt(150), Rating: "4.8 ★ (240)"},
		{ID: 2, Name: "Fries", Price: decimal.NewFromInt(80)},
	}, nil
}

func (b *stubBackend) InsertOrder(ctx context.Context, p models.OrderPayload) error {
	if b.insertErr != nil {
		return b.insertErr
	}
	b.orders = append([]models.Order{{
		ID:           int64(len(b.orders) + 1),
		CustomerName: p.CustomerName,
		Items:        p.Items,
		TotalAmount:  p.TotalAmount,
		CreatedAt:    time.Now(),
	}}, b.orders...)
	return nil
}

func (b *stubBackend) ListOrders(ctx context.Context) ([]models.Order, error) {
	return b.orders, nil
}

func newTestServer(t *testing.T, backend *stubBackend) (*httptest.Server, *stubAuth) {
	t.Helper()
	cat := catalog.New(backend)
	cat.Load(context.Background())
	authStub := &stubAuth{}
	srv := NewServer(storefront.NewManager(cat, backend), authStub, cat)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, authStub
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]json.RawMessage
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp, decoded
}

func cartFromResponse(t *testing.T, decoded map[string]json.RawMessage) cartBodyView {
	t.Helper()
	var cv cartBodyView
	if err := json.Unmarshal(decoded["cart"], &cv); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	return cv
}

func TestRequiresAuth(t *testing.T) {
	ts, _ := newTestServer(t, &stubBackend{})

	resp, _ := doJSON(t, "GET", ts.URL+"/api/menu", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}

	resp, _ = doJSON(t, "GET", ts.URL+"/api/menu", "wrong", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestMenuAndCartFlow(t *testing.T) {
	ts, _ := newTestServer(t, &stubBackend{})

	resp, decoded := doJSON(t, "GET", ts.URL+"/api/menu", "valid", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("menu status = %d", resp.StatusCode)
	}
	var products []productView
	if err := json.Unmarshal(decoded["products"], &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) != 2 || products[0].Price != "150.00" {
		t.Errorf("unexpected products: %+v", products)
	}

	// add twice, expect one merged line
	_, _ = doJSON(t, "POST", ts.URL+"/api/cart/items", "valid", map[string]int64{"product_id": 1})
	_, decoded = doJSON(t, "POST", ts.URL+"/api/cart/items", "valid", map[string]int64{"product_id": 1})
	cv := cartFromResponse(t, decoded)
	if len(cv.Items) != 1 || cv.Items[0].Qty != 2 {
		t.Fatalf("unexpected cart: %+v", cv)
	}
	if cv.Subtotal != "300.00" || cv.Tax != "15.00" || cv.DeliveryFee != "40.00" || cv.Total != "355.00" {
		t.Errorf("unexpected breakdown: %+v", cv)
	}
	if !cv.SubmitEnabled {
		t.Error("submit should be enabled")
	}

	// quantity delta down to zero removes the line
	_, decoded = doJSON(t, "PATCH", ts.URL+"/api/cart/items/1", "valid", map[string]int{"delta": -2})
	cv = cartFromResponse(t, decoded)
	if len(cv.Items) != 0 || cv.SubmitEnabled {
		t.Errorf("cart should be empty with submit disabled: %+v", cv)
	}
	if cv.Total != "0.00" || cv.DeliveryFee != "0.00" {
		t.Errorf("empty cart should cost nothing: %+v", cv)
	}
}

func TestPlaceOrder(t *testing.T) {
	backend := &stubBackend{}
	ts, _ := newTestServer(t, backend)

	_, _ = doJSON(t, "POST", ts.URL+"/api/cart/items", "valid", map[string]int64{"product_id": 1})
	_, _ = doJSON(t, "POST", ts.URL+"/api/cart/items", "valid", map[string]int64{"product_id": 1})
	_, _ = doJSON(t, "POST", ts.URL+"/api/cart/items", "valid", map[string]int64{"product_id": 2})

	resp, decoded := doJSON(t, "POST", ts.URL+"/api/orders", "valid", map[string]string{
		"name": "Asha", "phone": "98765", "address": "12 MG Road",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	cv := cartFromResponse(t, decoded)
	if len(cv.Items) != 0 {
		t.Error("cart should be cleared after a successful order")
	}
	if len(backend.orders) != 1 || !backend.orders[0].TotalAmount.Equal(decimal.NewFromInt(439)) {
		t.Errorf("unexpected stored orders: %+v", backend.orders)
	}

	resp, decoded = doJSON(t, "GET", ts.URL+"/api/orders", "valid", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("orders status = %d", resp.StatusCode)
	}
	var orders []orderView
	if err := json.Unmarshal(decoded["orders"], &orders); err != nil {
		t.Fatalf("decode orders: %v", err)
	}
	if len(orders) != 1 || orders[0].TotalAmount != "439.00" {
		t.Errorf("unexpected order history: %+v", orders)
	}
}

func TestPlaceOrderValidationAndFailure(t *testing.T) {
	backend := &stubBackend{}
	ts, _ := newTestServer(t, backend)

	// empty cart
	resp, _ := doJSON(t, "POST", ts.URL+"/api/orders", "valid", map[string]string{
		"name": "Asha", "phone": "98765", "address": "12 MG Road",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty cart status = %d, want 400", resp.StatusCode)
	}

	// missing details
	_, _ = doJSON(t, "POST", ts.URL+"/api/cart/items", "valid", map[string]int64{"product_id": 1})
	resp, decoded := doJSON(t, "POST", ts.URL+"/api/orders", "valid", map[string]string{"name": "  "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing details status = %d, want 400", resp.StatusCode)
	}
	var notes []notificationView
	if err := json.Unmarshal(decoded["notifications"], &notes); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	found := false
	for _, n := range notes {
		if n.Kind == "error" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an error notification, got %+v", notes)
	}

	// store failure keeps the cart
	backend.insertErr = errors.New("store down")
	resp, decoded = doJSON(t, "POST", ts.URL+"/api/orders", "valid", map[string]string{
		"name": "Asha", "phone": "98765", "address": "12 MG Road",
	})
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("store failure status = %d, want 502", resp.StatusCode)
	}
	cv := cartFromResponse(t, decoded)
	if len(cv.Items) != 1 {
		t.Errorf("cart must survive a failed submission: %+v", cv)
	}
}

func TestLogoutDiscardsSession(t *testing.T) {
	ts, authStub := newTestServer(t, &stubBackend{})

	_, _ = doJSON(t, "POST", ts.URL+"/api/cart/items", "valid", map[string]int64{"product_id": 1})

	resp, _ := doJSON(t, "POST", ts.URL+"/api/logout", "valid", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", resp.StatusCode)
	}
	if len(authStub.loggedOut) != 1 {
		t.Error("auth provider should see the logout")
	}

	// stub auth still accepts the token; the cart must be a fresh one
	_, decoded := doJSON(t, "GET", ts.URL+"/api/cart", "valid", nil)
	cv := cartFromResponse(t, decoded)
	if len(cv.Items) != 0 {
		t.Error("cart must not survive logout")
	}
}
