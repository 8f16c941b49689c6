package vehicles

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

type fakeRepo struct {
	rows    map[int64]Vehicle
	next    int64
	updates int
}

func newFakeRepo(vs ...Vehicle) *fakeRepo {
	f := &fakeRepo{rows: map[int64]Vehicle{}}
	for _, v := range vs {
		f.rows[v.ID] = v
		if v.ID > f.next {
			f.next = v.ID
		}
	}
	return f
}

func (f *fakeRepo) Create(ctx context.Context, v *Vehicle) error {
	f.next++
	v.ID = f.next
	f.rows[v.ID] = *v
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, id int64) (*Vehicle, error) {
	v, ok := f.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (f *fakeRepo) List(ctx context.Context, flt Filter) ([]Vehicle, error) {
	out := []Vehicle{}
	for _, v := range f.rows {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, v *Vehicle) error {
	if _, ok := f.rows[v.ID]; !ok {
		return ErrNotFound
	}
	f.updates++
	f.rows[v.ID] = *v
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func newTestRouter(repo Repository) http.Handler {
	h := &Handler{Store: repo, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	r := chi.NewRouter()
	r.Post("/vehicles", h.Create)
	r.Get("/vehicles", h.List)
	r.Get("/vehicles/{id}", h.Get)
	r.Put("/vehicles/{id}", h.Update)
	r.Delete("/vehicles/{id}", h.Delete)
	return r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateVehicleHandler(t *testing.T) {
	repo := newFakeRepo()
	routes := newTestRouter(repo)

	rec := serve(routes, http.MethodPost, "/vehicles", `{"name":" Civic ","brand":"Honda","year":2020}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/vehicles/1" {
		t.Fatalf("Location = %q", loc)
	}
	var v Vehicle
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v != (Vehicle{ID: 1, Name: "Civic", Brand: "Honda", Year: 2020}) {
		t.Fatalf("created = %+v", v)
	}

	rec = serve(routes, http.MethodPost, "/vehicles", `{"name":"","brand":"","year":1900}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status = %d", rec.Code)
	}
	var verr struct {
		Messages []string `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &verr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(verr.Messages) != 3 {
		t.Fatalf("messages = %q", verr.Messages)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("invalid vehicle was stored")
	}

	if rec := serve(routes, http.MethodPost, "/vehicles", `not json`); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", rec.Code)
	}
}

func TestUpdateVehicleHandler(t *testing.T) {
	repo := newFakeRepo(Vehicle{ID: 7, Name: "Gol", Brand: "VW", Year: 2010})
	routes := newTestRouter(repo)

	// a missing id wins over an invalid body
	if rec := serve(routes, http.MethodPut, "/vehicles/8", `{"name":""}`); rec.Code != http.StatusNotFound {
		t.Fatalf("missing id status = %d", rec.Code)
	}

	rec := serve(routes, http.MethodPut, "/vehicles/7", `{"name":"Gol","brand":"VW","year":1949}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status = %d", rec.Code)
	}
	if repo.updates != 0 {
		t.Fatalf("invalid update reached the store")
	}

	rec = serve(routes, http.MethodPut, "/vehicles/7", `{"name":"Polo","brand":"VW","year":2021}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := repo.rows[7]; got.Name != "Polo" || got.Year != 2021 {
		t.Fatalf("stored = %+v", got)
	}
}

func TestGetAndDeleteVehicleHandler(t *testing.T) {
	repo := newFakeRepo(Vehicle{ID: 1, Name: "Uno", Brand: "Fiat", Year: 1990})
	routes := newTestRouter(repo)

	if rec := serve(routes, http.MethodGet, "/vehicles/1", ""); rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if rec := serve(routes, http.MethodGet, "/vehicles/x", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", rec.Code)
	}
	if rec := serve(routes, http.MethodGet, "/vehicles?page=1&brand=fiat", ""); rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	rec := serve(routes, http.MethodDelete, "/vehicles/1", "")
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("delete status = %d body %q", rec.Code, rec.Body.String())
	}
	if rec := serve(routes, http.MethodDelete, "/vehicles/1", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rec.Code)
	}
	if rec := serve(routes, http.MethodGet, "/vehicles/1", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted status = %d", rec.Code)
	}
}
