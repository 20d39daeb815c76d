// Package httpapi exposes the storefront command interface as a JSON API for
// the browser frontend. Handlers translate requests into session commands and
// reply with the snapshots the core emits; no markup is built here.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"fooddash/catalog"
	"fooddash/order"
	"fooddash/storefront"
)

type contextKey string

const sessionContextKey = contextKey("session")

type Server struct {
	sessions *storefront.Manager
	auth     storefront.AuthProvider
	catalog  *catalog.Catalog

	collectorsMu sync.Mutex
	collectors   map[string]*collector
}

func NewServer(sessions *storefront.Manager, auth storefront.AuthProvider, cat *catalog.Catalog) *Server {
	return &Server{
		sessions:   sessions,
		auth:       auth,
		catalog:    cat,
		collectors: make(map[string]*collector),
	}
}

// collectorFor returns the one collector bound to a session key, so every
// request for that session sees the same buffered snapshot and toast queue.
func (s *Server) collectorFor(key string) *collector {
	s.collectorsMu.Lock()
	defer s.collectorsMu.Unlock()
	if c, ok := s.collectors[key]; ok {
		return c
	}
	c := newCollector(s.catalog)
	s.collectors[key] = c
	return c
}

func (s *Server) dropCollector(key string) {
	s.collectorsMu.Lock()
	defer s.collectorsMu.Unlock()
	delete(s.collectors, key)
}

// Router builds the API routes. Everything except the health check sits
// behind the session middleware.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/menu", s.getMenu).Methods("GET")
	api.HandleFunc("/cart", s.getCart).Methods("GET")
	api.HandleFunc("/cart/items", s.addCartItem).Methods("POST")
	api.HandleFunc("/cart/items/{id}", s.updateCartItem).Methods("PATCH")
	api.HandleFunc("/cart/items/{id}", s.removeCartItem).Methods("DELETE")
	api.HandleFunc("/orders", s.placeOrder).Methods("POST")
	api.HandleFunc("/orders", s.getOrders).Methods("GET")
	api.HandleFunc("/logout", s.logout).Methods("POST")
	return router
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		logrus.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Debug("http request")
		next.ServeHTTP(w, r)
	})
}

type sessionEnv struct {
	session   *storefront.Session
	collector *collector
	token     string
}

// authMiddleware checks the bearer token against the AuthProvider and binds
// the caller to their storefront session, keyed by account email.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		authSession, err := s.auth.CheckSession(r.Context(), token)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "session check failed")
			return
		}
		if !authSession.Authenticated {
			httpError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		col := s.collectorFor(authSession.Email)
		session := s.sessions.GetOrCreate(authSession.Email, col, col)
		env := &sessionEnv{session: session, collector: col, token: token}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), env)))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func (s *Server) getMenu(w http.ResponseWriter, r *http.Request) {
	env := sessionFromContext(r.Context())
	env.session.ShowMenu()
	writeJSON(w, http.StatusOK, map[string]any{
		"products":      productViews(s.catalog.Products()),
		"notifications": env.collector.drainNotifications(),
	})
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	s.respondCart(w, r, http.StatusOK)
}

func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID int64 `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpError(w, http.StatusBadRequest, "invalid input")
		return
	}
	env := sessionFromContext(r.Context())
	env.session.AddItem(body.ProductID)
	s.respondCart(w, r, http.StatusOK)
}

func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var body struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpError(w, http.StatusBadRequest, "invalid input")
		return
	}
	env := sessionFromContext(r.Context())
	env.session.UpdateQuantity(id, body.Delta)
	s.respondCart(w, r, http.StatusOK)
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	env := sessionFromContext(r.Context())
	env.session.RemoveItem(id)
	s.respondCart(w, r, http.StatusOK)
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpError(w, http.StatusBadRequest, "invalid input")
		return
	}

	env := sessionFromContext(r.Context())
	env.session.SetDetails(deliveryDetails(body.Name, body.Phone, body.Address))

	err := env.session.SubmitOrder(r.Context())
	switch {
	case err == nil:
		s.respondCart(w, r, http.StatusCreated)
	case errors.Is(err, order.ErrMissingDetails), errors.Is(err, order.ErrEmptyCart):
		s.respondCart(w, r, http.StatusBadRequest)
	case errors.Is(err, order.ErrInFlight):
		httpError(w, http.StatusConflict, "a submission is already in flight")
	default:
		logrus.WithError(err).Error("httpapi: order submission failed")
		s.respondCart(w, r, http.StatusBadGateway)
	}
}

func (s *Server) getOrders(w http.ResponseWriter, r *http.Request) {
	env := sessionFromContext(r.Context())
	orders, err := env.session.ShowHistory(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":         "failed to load orders",
			"notifications": env.collector.drainNotifications(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orders":        orderViews(orders),
		"notifications": env.collector.drainNotifications(),
	})
}

// logout drops the auth session and discards the storefront session with its
// cart, per the session lifecycle.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	env := sessionFromContext(r.Context())
	if err := s.auth.Logout(r.Context(), env.token); err != nil {
		httpError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	s.sessions.End(env.session.ID)
	s.dropCollector(env.session.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondCart(w http.ResponseWriter, r *http.Request, status int) {
	env := sessionFromContext(r.Context())
	lines, breakdown, count := env.session.Cart()
	writeJSON(w, status, map[string]any{
		"cart":          cartView(s.catalog, lines, breakdown, count),
		"notifications": env.collector.drainNotifications(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
