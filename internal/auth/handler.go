package auth

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

// AdministratorStore is the persistence the administrator endpoints use.
type AdministratorStore interface {
	Get(ctx context.Context, id int64) (*Administrator, error)
	List(ctx context.Context, page int) ([]Administrator, error)
	Create(ctx context.Context, email, password string, role Role) (*Administrator, error)
}

// LoginGuard throttles repeated failed logins for one email.
type LoginGuard interface {
	Locked(ctx context.Context, email string) (bool, error)
	Failed(ctx context.Context, email string) error
	Succeeded(ctx context.Context, email string)
}

type Handler struct {
	Service *Service
	Store   AdministratorStore
	Guard   LoginGuard
	Logger  *slog.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Token string `json:"token"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	// same key the credential lookup matches on
	guardKey := req.Email

	if h.Guard != nil {
		locked, err := h.Guard.Locked(r.Context(), guardKey)
		if err != nil {
			h.Logger.Warn("login guard lookup", "err", err)
		}
		if locked {
			render.Error(w, http.StatusTooManyRequests, "too many failed logins, try again later")
			return
		}
	}

	admin, token, err := h.Service.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		h.Logger.Info("login rejected", "email", req.Email)
		if h.Guard != nil {
			if err := h.Guard.Failed(r.Context(), guardKey); err != nil {
				h.Logger.Warn("login guard record failure", "err", err)
			}
		}
		render.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	case errors.Is(err, ErrTokenIssuance):
		h.Logger.Error("login token issuance", "email", req.Email, "err", err)
		render.Error(w, http.StatusUnauthorized, "unable to issue token")
		return
	case err != nil:
		h.Logger.Error("login", "err", err)
		render.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if h.Guard != nil {
		h.Guard.Succeeded(r.Context(), guardKey)
	}
	h.Logger.Info("login", "email", admin.Email, "role", admin.Role)
	render.JSON(w, http.StatusOK, LoginResponse{
		Email: admin.Email,
		Role:  admin.Role,
		Token: token,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	admins, err := h.Store.List(r.Context(), page)
	if err != nil {
		h.Logger.Error("list administrators", "err", err)
		render.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	render.JSON(w, http.StatusOK, admins)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid id")
		return
	}
	admin, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, ErrAdministratorNotFound) {
		render.Error(w, http.StatusNotFound, "administrator not found")
		return
	}
	if err != nil {
		h.Logger.Error("get administrator", "id", id, "err", err)
		render.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	render.JSON(w, http.StatusOK, admin)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msgs := ValidateAdministrator(req); len(msgs) > 0 {
		render.Messages(w, msgs)
		return
	}
	role, _ := ParseRole(req.Role)

	admin, err := h.Store.Create(r.Context(), strings.TrimSpace(req.Email), req.Password, role)
	if errors.Is(err, ErrEmailTaken) {
		render.Messages(w, []string{ErrEmailTaken.Error()})
		return
	}
	if err != nil {
		h.Logger.Error("create administrator", "err", err)
		render.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Logger.Info("administrator created", "id", admin.ID, "role", admin.Role)
	w.Header().Set("Location", "/administrators/"+strconv.FormatInt(admin.ID, 10))
	render.JSON(w, http.StatusCreated, admin)
}
