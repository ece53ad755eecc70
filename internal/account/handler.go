package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Handler exposes HTTP endpoints over the account service. It is the stand-in
// for the management form: it consumes only the service's public operations
// and never sees a credential digest.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	svc := NewService(db, nil, logger)
	return &Handler{svc: svc, logger: logger}
}

// NewHandlerWithService wires an existing service, mainly for tests.
func NewHandlerWithService(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// CreateRequest request body for the create endpoint.
type CreateRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Secret string `json:"secret"`
	Role   string `json:"role"`
}

// CreateResponse response body containing the new account id.
type CreateResponse struct {
	ID int64 `json:"id"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	id, err := h.svc.Create(r.Context(), req.Name, req.Email, req.Secret, req.Role)
	if err != nil {
		h.writeError(w, "create account", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, CreateResponse{ID: id})
}

// List returns all accounts, optionally filtered by a role query parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role != "" {
		profiles, err := h.svc.ListByRole(r.Context(), role)
		if err != nil {
			h.writeError(w, "list accounts", err)
			return
		}
		h.writeJSON(w, http.StatusOK, profiles)
		return
	}
	profiles, err := h.svc.List(r.Context())
	if err != nil {
		h.writeError(w, "list accounts", err)
		return
	}
	h.writeJSON(w, http.StatusOK, profiles)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "account not found"})
		return
	}
	profile, err := h.svc.FindByID(r.Context(), id)
	if err != nil {
		h.writeError(w, "get account", err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// UpdateRequest request body for the partial-update endpoint. Blank fields
// are left untouched.
type UpdateRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Secret string `json:"secret"`
	Role   string `json:"role"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "account not found"})
		return
	}
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	in := UpdateInput{Name: req.Name, Email: req.Email, Secret: req.Secret, Role: req.Role}
	if err := h.svc.Update(r.Context(), id, in); err != nil {
		h.writeError(w, "update account", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "account not found"})
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, "delete account", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// LoginRequest login payload.
type LoginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

// Login verifies credentials and returns the digest-free profile. No session
// or token is issued.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	profile, err := h.svc.Authenticate(r.Context(), req.Email, req.Secret)
	if err != nil {
		h.writeError(w, "login", err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// StatsResponse reports the account totals shown on the form footer.
type StatsResponse struct {
	Total     int64 `json:"total"`
	Admins    int   `json:"admins"`
	Operators int   `json:"operators"`
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	admins, err := h.svc.ListByRole(r.Context(), "admin")
	if err != nil {
		h.writeError(w, "account stats", err)
		return
	}
	operators, err := h.svc.ListByRole(r.Context(), "operator")
	if err != nil {
		h.writeError(w, "account stats", err)
		return
	}
	h.writeJSON(w, http.StatusOK, StatsResponse{
		Total:     h.svc.Count(r.Context()),
		Admins:    len(admins),
		Operators: len(operators),
	})
}

// writeError maps service failures onto HTTP statuses. Storage errors are the
// only class logged at error level; the rest are expected outcomes.
func (h *Handler) writeError(w http.ResponseWriter, action string, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": verr.Error()})
	case errors.Is(err, ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "account not found"})
	case errors.Is(err, ErrEmailTaken):
		h.writeJSON(w, http.StatusConflict, map[string]string{"error": "email already in use"})
	case errors.Is(err, ErrNothingToUpdate):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "nothing to update"})
	case errors.Is(err, ErrInvalidCredentials):
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	default:
		h.logger.Errorw(action+" failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": action + " failed"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
