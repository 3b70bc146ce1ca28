package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/feriavaleria/storefront/internal/cart"
	"github.com/feriavaleria/storefront/pkg/logger"
)

func cartRouter(store *cart.Store) http.Handler {
	h := NewCartHandler(store, logger.New("error"))
	r := chi.NewRouter()
	r.Post("/api/cart/session", h.StartSession)
	r.Delete("/api/cart/session", h.EndSession)
	r.Get("/api/cart", h.GetCart)
	r.Post("/api/cart/items", h.AddItem)
	r.Delete("/api/cart/items/{productId}", h.RemoveItem)
	r.Delete("/api/cart", h.ClearCart)
	return r
}

func doCart(t *testing.T, router http.Handler, method, path, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func cartItems(t *testing.T, rr *httptest.ResponseRecorder) []int64 {
	t.Helper()
	var resp struct {
		Items []int64 `json:"items"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.Items
}

func TestCartHandler_FullFlow(t *testing.T) {
	store := cart.NewStore()
	router := cartRouter(store)

	// Start a session
	rr := doCart(t, router, http.MethodPost, "/api/cart/session", "", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("start session status = %d, want 201", rr.Code)
	}
	var session struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.SessionID == "" {
		t.Fatal("empty session id")
	}

	// Add two items, one twice
	for _, body := range []string{`{"id":4}`, `{"id":7}`, `{"id":4}`} {
		rr = doCart(t, router, http.MethodPost, "/api/cart/items", session.SessionID, body)
		if rr.Code != http.StatusOK {
			t.Fatalf("add item status = %d, want 200", rr.Code)
		}
	}
	if items := cartItems(t, rr); len(items) != 2 || items[0] != 4 || items[1] != 7 {
		t.Errorf("items = %v, want [4 7]", items)
	}

	// Remove one
	rr = doCart(t, router, http.MethodDelete, "/api/cart/items/4", session.SessionID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("remove item status = %d, want 200", rr.Code)
	}
	if items := cartItems(t, rr); len(items) != 1 || items[0] != 7 {
		t.Errorf("items after remove = %v, want [7]", items)
	}

	// Clear
	rr = doCart(t, router, http.MethodDelete, "/api/cart", session.SessionID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d, want 204", rr.Code)
	}
	rr = doCart(t, router, http.MethodGet, "/api/cart", session.SessionID, "")
	if items := cartItems(t, rr); len(items) != 0 {
		t.Errorf("items after clear = %v, want empty", items)
	}

	// End the session
	rr = doCart(t, router, http.MethodDelete, "/api/cart/session", session.SessionID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("end session status = %d, want 204", rr.Code)
	}
	rr = doCart(t, router, http.MethodGet, "/api/cart", session.SessionID, "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after end status = %d, want 404", rr.Code)
	}
}

func TestCartHandler_MissingSession(t *testing.T) {
	router := cartRouter(cart.NewStore())

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"get cart", http.MethodGet, "/api/cart"},
		{"add item", http.MethodPost, "/api/cart/items"},
		{"remove item", http.MethodDelete, "/api/cart/items/1"},
		{"clear cart", http.MethodDelete, "/api/cart"},
		{"end session", http.MethodDelete, "/api/cart/session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doCart(t, router, tt.method, tt.path, "", `{"id":1}`)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func TestCartHandler_UnknownSession(t *testing.T) {
	router := cartRouter(cart.NewStore())

	rr := doCart(t, router, http.MethodGet, "/api/cart", "not-a-session", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestCartHandler_ConcurrentRequestsSameSession(t *testing.T) {
	// A double-click or a second browser tab sends simultaneous
	// requests with the same session id; run with -race.
	store := cart.NewStore()
	router := cartRouter(store)
	sessionID := store.Start()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(id int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"id":%d}`, id+1)
			rr := doCart(t, router, http.MethodPost, "/api/cart/items", sessionID, body)
			if rr.Code != http.StatusOK {
				t.Errorf("add item status = %d, want 200", rr.Code)
			}
		}(i)
	}
	wg.Wait()

	c, err := store.Get(sessionID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Len() != workers {
		t.Errorf("Len() = %d, want %d", c.Len(), workers)
	}
}

func TestCartHandler_AddItemBadBody(t *testing.T) {
	store := cart.NewStore()
	router := cartRouter(store)
	sessionID := store.Start()

	for _, body := range []string{`{`, `{"id":0}`, `{"id":-3}`} {
		rr := doCart(t, router, http.MethodPost, "/api/cart/items", sessionID, body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rr.Code)
		}
	}
}
