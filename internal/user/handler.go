package user

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Create(dto CreateUserDTO) (*User, error)
	Invite(dto InviteUserDTO) (*User, error)
	GetByID(userID int64) (*User, error)
	GetAll(limit, offset int) ([]*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	authUser, ok := auth.UserFromContext(r.Context())
	if !ok || authUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(authUser.ID)
	if err != nil {
		h.writeServiceError(w, err, "failed to load current user")
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// CreateUser handles POST /users (admin only)
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Create(dto)
	if err != nil {
		h.writeServiceError(w, err, "create user failed")
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

// InviteUser handles POST /users/invite (admin only)
func (h *Handler) InviteUser(w http.ResponseWriter, r *http.Request) {
	var dto InviteUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Invite(dto)
	if err != nil {
		h.writeServiceError(w, err, "invite user failed")
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

// ListUsers handles GET /users (admin only)
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	users, err := h.Service.GetAll(limit, offset)
	if err != nil {
		h.Logger.Error("list users failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, logMsg string) {
	h.Logger.Error(logMsg, "error", err)

	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteAppError(w, appErr)
		return
	}

	switch err {
	case ErrEmailTaken:
		h.WriteAppError(w, internal.NewConflictError("email already in use", internal.ErrCodeEmailTaken))
	case ErrNotFound:
		h.WriteAppError(w, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound))
	default:
		h.WriteAppError(w, internal.NewInternalError("internal server error", err))
	}
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	return limit, offset
}
