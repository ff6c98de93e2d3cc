package leave

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

type ServiceAPI interface {
	CreateLeave(requesterID int64, dto CreateLeaveDTO) (*LeaveRequest, error)
	ApproveLeave(leaveID, approverID int64) (*LeaveRequest, error)
	RejectLeave(leaveID, approverID int64, reason string) (*LeaveRequest, error)
	GetMyLeaves(requesterID int64, limit, offset int) ([]*LeaveRequest, error)
	GetPendingLeaves(limit, offset int) ([]*LeaveRequest, error)
	GetAllLeaves(limit, offset int) ([]*LeaveRequest, error)
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

// CreateLeave handles POST /leaves
func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	authUser, ok := auth.UserFromContext(r.Context())
	if !ok || authUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateLeaveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.CreateLeave(authUser.ID, dto)
	if err != nil {
		h.writeLeaveError(w, err, "create leave failed")
		return
	}

	h.WriteJSON(w, http.StatusCreated, req)
}

// GetMyLeaves handles GET /leaves/my
func (h *Handler) GetMyLeaves(w http.ResponseWriter, r *http.Request) {
	authUser, ok := auth.UserFromContext(r.Context())
	if !ok || authUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := paginationParams(r)

	leaves, err := h.Service.GetMyLeaves(authUser.ID, limit, offset)
	if err != nil {
		h.Logger.Error("list my leaves failed", "error", err, "user_id", authUser.ID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"leaves": leaves,
	})
}

// GetPendingLeaves handles GET /leaves/pending (manager)
func (h *Handler) GetPendingLeaves(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	leaves, err := h.Service.GetPendingLeaves(limit, offset)
	if err != nil {
		h.Logger.Error("list pending leaves failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"leaves": leaves,
	})
}

// GetAllLeaves handles GET /leaves/all (admin)
func (h *Handler) GetAllLeaves(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	leaves, err := h.Service.GetAllLeaves(limit, offset)
	if err != nil {
		h.Logger.Error("list all leaves failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"leaves": leaves,
	})
}

// ApproveLeave handles PATCH /leaves/{id}/approve (manager)
func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	authUser, ok := auth.UserFromContext(r.Context())
	if !ok || authUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	leaveID, err := leaveIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid leave id")
		return
	}

	req, err := h.Service.ApproveLeave(leaveID, authUser.ID)
	if err != nil {
		h.writeLeaveError(w, err, "approve leave failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

// RejectLeave handles PATCH /leaves/{id}/reject (manager)
func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	authUser, ok := auth.UserFromContext(r.Context())
	if !ok || authUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	leaveID, err := leaveIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid leave id")
		return
	}

	var dto RejectLeaveDTO
	if r.Body != nil {
		// Reason is optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	req, err := h.Service.RejectLeave(leaveID, authUser.ID, dto.Reason)
	if err != nil {
		h.writeLeaveError(w, err, "reject leave failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) writeLeaveError(w http.ResponseWriter, err error, logMsg string) {
	h.Logger.Error(logMsg, "error", err)
	h.WriteAppError(w, leaveAppError(err))
}

// leaveAppError maps domain sentinels onto the structured error taxonomy.
func leaveAppError(err error) *internal.AppError {
	switch err {
	case ErrInvalidDate:
		return internal.NewValidationError("invalid date", internal.ErrCodeInvalidDate)
	case ErrInvalidRange:
		return internal.NewValidationError("end date must not be before start date", internal.ErrCodeInvalidRange)
	case ErrLeaveNotFound:
		return internal.NewNotFoundError("leave request not found", internal.ErrCodeLeaveNotFound)
	case ErrRequesterNotFound:
		return internal.NewNotFoundError("requester not found", internal.ErrCodeUserNotFound)
	case ErrInsufficientBalance:
		return internal.NewUnprocessableError("insufficient leave balance", internal.ErrCodeInsufficientBalance)
	case ErrNegativeBalance:
		return internal.NewUnprocessableError("approval would make balance negative", internal.ErrCodeNegativeBalance)
	case ErrOverlappingRequest:
		return internal.NewConflictError("overlapping leave request exists", internal.ErrCodeOverlappingRequest)
	case ErrAlreadyApproved:
		return internal.NewConflictError("leave request already approved", internal.ErrCodeAlreadyApproved)
	case ErrAlreadyRejected:
		return internal.NewConflictError("leave request already rejected", internal.ErrCodeAlreadyRejected)
	case ErrNotPending:
		return internal.NewConflictError("leave request is not pending", internal.ErrCodeNotPending)
	default:
		return internal.NewInternalError("internal server error", err)
	}
}

func leaveIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
