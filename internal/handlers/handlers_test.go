package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diewo77/clientpath/auth"
	"github.com/diewo77/clientpath/internal/models"
	"github.com/diewo77/clientpath/internal/storage/memory"
	"github.com/go-chi/chi/v5"
)

// testNow is a Tuesday morning.
var testNow = time.Date(2030, 1, 15, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	t      *testing.T
	store  *memory.Store
	api    *API
	router http.Handler
	alice  uint
	bob    uint
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New(memory.WithClock(func() time.Time { return testNow }))
	ctx := context.Background()
	alice := &models.User{Username: "alice", Password: "x", Email: "alice@example.com", FullName: "Alice"}
	bob := &models.User{Username: "bob", Password: "x", Email: "bob@example.com", FullName: "Bob"}
	if err := store.CreateUser(ctx, alice); err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if err := store.CreateUser(ctx, bob); err != nil {
		t.Fatalf("create bob: %v", err)
	}

	api := NewAPI(store, nil)
	clock := func() time.Time { return testNow }
	api.Invoices.now = clock
	api.Contracts.now = clock
	api.Proposals.now = clock
	api.Meetings.now = clock
	api.Dashboard.now = clock

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware)
		api.PublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			api.Routes(r)
		})
	})
	return &testEnv{t: t, store: store, api: api, router: r, alice: alice.ID, bob: bob.ID}
}

// do sends a JSON request as uid. A zero uid sends no identity.
func (e *testEnv) do(uid uint, method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			e.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != 0 {
		req = req.WithContext(auth.WithUserID(req.Context(), uid))
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// expect asserts the status code and decodes the body into out when given.
func (e *testEnv) expect(rr *httptest.ResponseRecorder, status int, out any) {
	e.t.Helper()
	if rr.Code != status {
		e.t.Fatalf("expected %d got %d body=%s", status, rr.Code, rr.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			e.t.Fatalf("decode body: %v body=%s", err, rr.Body.String())
		}
	}
}

type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func (e *testEnv) expectError(rr *httptest.ResponseRecorder, status int, code string) errorBody {
	e.t.Helper()
	var body errorBody
	e.expect(rr, status, &body)
	if body.Error != code {
		e.t.Fatalf("expected error %q got %q body=%s", code, body.Error, rr.Body.String())
	}
	return body
}

func (e *testEnv) createClient(uid uint, name string) models.Client {
	e.t.Helper()
	var c models.Client
	e.expect(e.do(uid, http.MethodPost, "/api/clients", map[string]any{
		"name":        name,
		"email":       "contact@example.com",
		"companyName": name + " Ltd",
		"address":     "1 Main St",
		"city":        "Springfield",
	}), http.StatusCreated, &c)
	return c
}

func (e *testEnv) createInvoice(uid, clientID uint, total float64) models.Invoice {
	e.t.Helper()
	var inv models.Invoice
	e.expect(e.do(uid, http.MethodPost, "/api/invoices", map[string]any{
		"clientId":  clientID,
		"issueDate": "2030-01-10",
		"dueDate":   "2030-02-10",
		"status":    "pending",
		"subtotal":  total,
		"total":     total,
		"items":     []map[string]any{{"description": "Website Design", "quantity": 1, "unitPrice": total}},
	}), http.StatusCreated, &inv)
	return inv
}

func TestRequiresUser(t *testing.T) {
	e := newEnv(t)
	e.expectError(e.do(0, http.MethodGet, "/api/clients", nil), http.StatusUnauthorized, "unauthorized")
}

func TestInvalidJSONAndID(t *testing.T) {
	e := newEnv(t)
	e.expectError(e.do(e.alice, http.MethodPost, "/api/clients", "{not json"), http.StatusBadRequest, "invalid_json")
	e.expectError(e.do(e.alice, http.MethodGet, "/api/clients/abc", nil), http.StatusBadRequest, "invalid_id")
	e.expectError(e.do(e.alice, http.MethodGet, "/api/clients/0", nil), http.StatusBadRequest, "invalid_id")
}
