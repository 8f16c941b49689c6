package vehicles

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ViniciusCazuza/minimal-api/internal/render"
)

// Repository is the persistence the vehicle endpoints use.
type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	Get(ctx context.Context, id int64) (*Vehicle, error)
	List(ctx context.Context, f Filter) ([]Vehicle, error)
	Update(ctx context.Context, v *Vehicle) error
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	Store  Repository
	Logger *slog.Logger
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePayload(w, r)
	if !ok {
		return
	}
	if msgs := Validate(p); len(msgs) > 0 {
		render.Messages(w, msgs)
		return
	}
	v := &Vehicle{Name: strings.TrimSpace(p.Name), Brand: strings.TrimSpace(p.Brand), Year: p.Year}
	if err := h.Store.Create(r.Context(), v); err != nil {
		h.Logger.Error("create vehicle", "err", err)
		render.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.Logger.Info("vehicle created", "id", v.ID)
	w.Header().Set("Location", "/vehicles/"+strconv.FormatInt(v.ID, 10))
	render.JSON(w, http.StatusCreated, v)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{
		Name:  q.Get("name"),
		Brand: q.Get("brand"),
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		f.Page = p
	}
	list, err := h.Store.List(r.Context(), f)
	if err != nil {
		h.Logger.Error("list vehicles", "err", err)
		render.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	render.JSON(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := h.Store.Get(r.Context(), id)
	if !h.checkLookup(w, "get vehicle", id, err) {
		return
	}
	render.JSON(w, http.StatusOK, v)
}

// Update loads the vehicle before validating so a missing id answers 404
// whatever the body holds.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := h.Store.Get(r.Context(), id)
	if !h.checkLookup(w, "get vehicle", id, err) {
		return
	}
	p, ok := decodePayload(w, r)
	if !ok {
		return
	}
	if msgs := Validate(p); len(msgs) > 0 {
		render.Messages(w, msgs)
		return
	}
	v.Name = strings.TrimSpace(p.Name)
	v.Brand = strings.TrimSpace(p.Brand)
	v.Year = p.Year
	if !h.checkLookup(w, "update vehicle", id, h.Store.Update(r.Context(), v)) {
		return
	}
	render.JSON(w, http.StatusOK, v)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !h.checkLookup(w, "delete vehicle", id, h.Store.Delete(r.Context(), id)) {
		return
	}
	h.Logger.Info("vehicle deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// checkLookup writes the error response for err and reports whether the
// handler may continue.
func (h *Handler) checkLookup(w http.ResponseWriter, op string, id int64, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrNotFound):
		render.Error(w, http.StatusNotFound, "vehicle not found")
	default:
		h.Logger.Error(op, "id", id, "err", err)
		render.Error(w, http.StatusInternalServerError, "internal error")
	}
	return false
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func decodePayload(w http.ResponseWriter, r *http.Request) (Payload, bool) {
	var p Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid JSON body")
		return p, false
	}
	return p, true
}
