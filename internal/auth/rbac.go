package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
)

// RBACAuthorization guards routes by role. Roles are fixed (ADMIN, MANAGER,
// STAFF) so checks are plain comparisons against the user in context.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

func (ra *RBACAuthorization) requireRoles(next http.Handler, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || user == nil {
			ra.logger.Warn("authorization check failed: user not found in context")
			ra.writeAppError(w, internal.NewUnauthorizedError("unauthorized", internal.ErrCodeMissingUser))
			return
		}

		if !user.HasAnyRole(roles...) {
			ra.logger.WarnContext(r.Context(), "access denied: insufficient role",
				"user_id", user.ID,
				"user_role", user.Role,
				"required_roles", roles)
			ra.writeAppError(w, internal.NewForbiddenError("insufficient role", internal.ErrCodeInsufficientRole))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (ra *RBACAuthorization) writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	w.Header().Set("Content-Type", "application/json")
	status, body := appErr.ToHTTPResponse()
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ra.logger.Error("failed to encode error response", "error", err)
	}
}

// RequireManager admits managers and admins.
func (ra *RBACAuthorization) RequireManager() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.requireRoles(next, RoleManager, RoleAdmin)
	}
}

// RequireAdmin admits admins only.
func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.requireRoles(next, RoleAdmin)
	}
}
