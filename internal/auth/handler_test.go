package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

type fakeAdministratorStore struct {
	admins []Administrator
}

func (f *fakeAdministratorStore) Get(ctx context.Context, id int64) (*Administrator, error) {
	for i := range f.admins {
		if f.admins[i].ID == id {
			return &f.admins[i], nil
		}
	}
	return nil, ErrAdministratorNotFound
}

func (f *fakeAdministratorStore) List(ctx context.Context, page int) ([]Administrator, error) {
	return f.admins, nil
}

func (f *fakeAdministratorStore) Create(ctx context.Context, email, password string, role Role) (*Administrator, error) {
	for _, a := range f.admins {
		if a.Email == email {
			return nil, ErrEmailTaken
		}
	}
	a := Administrator{ID: int64(len(f.admins) + 1), Email: email, Role: role}
	f.admins = append(f.admins, a)
	return &a, nil
}

type fakeGuard struct {
	locked    bool
	failures  []string
	successes []string
}

func (g *fakeGuard) Locked(ctx context.Context, email string) (bool, error) { return g.locked, nil }

func (g *fakeGuard) Failed(ctx context.Context, email string) error {
	g.failures = append(g.failures, email)
	return nil
}

func (g *fakeGuard) Succeeded(ctx context.Context, email string) {
	g.successes = append(g.successes, email)
}

func newTestHandler(secret string) (*Handler, *fakeGuard) {
	guard := &fakeGuard{}
	return &Handler{
		Service: NewService(newFakeCredentialStore(), secret),
		Store: &fakeAdministratorStore{admins: []Administrator{
			{ID: 1, Email: "admin@test.com", Role: RoleAdmin},
		}},
		Guard:  guard,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, guard
}

func (h *Handler) routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/administrators/login", h.Login)
	r.Get("/administrators", h.List)
	r.Get("/administrators/{id}", h.Get)
	r.Post("/administrators", h.Create)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoginHandler(t *testing.T) {
	h, guard := newTestHandler("test-secret")
	routes := h.routes()

	rec := do(t, routes, http.MethodPost, "/administrators/login", `{"email":"admin@test.com","password":"123456"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Email != "admin@test.com" || resp.Role != RoleAdmin || resp.Token == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(guard.successes) != 1 {
		t.Fatalf("successful login not reported to guard")
	}

	rec = do(t, routes, http.MethodPost, "/administrators/login", `{"email":"Admin@Test.com ","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d", rec.Code)
	}
	rec = do(t, routes, http.MethodPost, "/administrators/login", `{"email":"admin@test.com","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d", rec.Code)
	}
	// failures are counted under the email exactly as the credential lookup sees it
	if !reflect.DeepEqual(guard.failures, []string{"Admin@Test.com ", "admin@test.com"}) {
		t.Fatalf("guard failures = %q", guard.failures)
	}

	if rec := do(t, routes, http.MethodPost, "/administrators/login", `{"email":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", rec.Code)
	}
}

func TestLoginHandlerLockedOut(t *testing.T) {
	h, guard := newTestHandler("test-secret")
	guard.locked = true
	rec := do(t, h.routes(), http.MethodPost, "/administrators/login", `{"email":"admin@test.com","password":"123456"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
}

func TestLoginHandlerWithoutGuardOrKey(t *testing.T) {
	h, _ := newTestHandler("")
	h.Guard = nil
	rec := do(t, h.routes(), http.MethodPost, "/administrators/login", `{"email":"admin@test.com","password":"123456"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCreateAdministratorHandler(t *testing.T) {
	h, _ := newTestHandler("test-secret")
	routes := h.routes()

	rec := do(t, routes, http.MethodPost, "/administrators", `{"email":" editor@test.com ","password":"pw","role":"editor"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/administrators/2" {
		t.Fatalf("Location = %q", loc)
	}
	var created map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created["email"] != "editor@test.com" || created["role"] != "Editor" {
		t.Fatalf("created = %v", created)
	}
	for _, k := range []string{"password", "password_hash", "PasswordHash"} {
		if _, ok := created[k]; ok {
			t.Fatalf("response leaks %s", k)
		}
	}

	rec = do(t, routes, http.MethodPost, "/administrators", `{"email":"","password":"","role":"owner"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status = %d", rec.Code)
	}
	var verr struct {
		Messages []string `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &verr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"email must not be empty", "password must not be empty", "role must be one of Adm, Editor"}
	if !reflect.DeepEqual(verr.Messages, want) {
		t.Fatalf("messages = %q, want %q", verr.Messages, want)
	}

	rec = do(t, routes, http.MethodPost, "/administrators", `{"email":"admin@test.com","password":"pw","role":"Adm"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), ErrEmailTaken.Error()) {
		t.Fatalf("duplicate status = %d body %s", rec.Code, rec.Body.String())
	}
}

func TestGetAdministratorHandler(t *testing.T) {
	h, _ := newTestHandler("test-secret")
	routes := h.routes()

	if rec := do(t, routes, http.MethodGet, "/administrators/1", ""); rec.Code != http.StatusOK {
		t.Fatalf("existing status = %d", rec.Code)
	}
	if rec := do(t, routes, http.MethodGet, "/administrators/42", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d", rec.Code)
	}
	if rec := do(t, routes, http.MethodGet, "/administrators/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", rec.Code)
	}
	if rec := do(t, routes, http.MethodGet, "/administrators?page=1", ""); rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
}
