package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/abdidvp/hexagonal/internal/application"
	"github.com/abdidvp/hexagonal/internal/domain"
)

// Handler translates HTTP requests into UserService calls.
type Handler struct {
	svc    *application.UserService
	logger *slog.Logger
}

func NewHandler(svc *application.UserService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes adds the users API to mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /users", h.handleListUsers)
	mux.HandleFunc("POST /users", h.handleCreateUser)
	mux.HandleFunc("GET /users/by-email/{email}", h.handleGetUserByEmail)
	mux.HandleFunc("GET /users/{id}", h.handleGetUser)
	mux.HandleFunc("PATCH /users/{id}", h.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{id}", h.handleDeleteUser)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.svc.Register(r.Context(), req.Email, req.Name)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	w.Header().Set("Location", "/users/"+user.ID.String())
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseUserID(r.PathValue("id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	user, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) handleGetUserByEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetByEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseUserID(r.PathValue("id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req updateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == nil && req.Email == nil {
		writeError(w, http.StatusBadRequest, string(domain.KindValidation), "name or email is required")
		return
	}

	var user domain.User
	if req.Email != nil {
		if user, err = h.svc.UpdateEmail(r.Context(), id, *req.Email); err != nil {
			h.handleError(w, r, err)
			return
		}
	}
	if req.Name != nil {
		if user, err = h.svc.UpdateName(r.Context(), id, *req.Name); err != nil {
			h.handleError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseUserID(r.PathValue("id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toListResponse(users))
}

// maxBodyBytes caps request bodies accepted by the JSON endpoints.
const maxBodyBytes = 1 << 20

// decodeBody reports false after writing the error response itself.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, string(domain.KindValidation), "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, string(domain.KindValidation), "invalid request body")
	return false
}
