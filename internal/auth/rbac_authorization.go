package auth

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/timesheet-tracker/internal"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/transport"
)

// RBACAuthorization gates routes on the caller's role. It must run after
// AuthMiddleware.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

func (ra *RBACAuthorization) RequireRole(roles ...coreuser.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := internal.ActorFromContext(r.Context())
			if !ok {
				ra.Logger.Warn("authorization check failed: actor not found in context")
				ra.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken), "unauthorized")
				return
			}

			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			ra.Logger.WarnContext(r.Context(), "access denied: insufficient role",
				"user_id", actor.ID,
				"role", actor.Role,
				"required_roles", roles)
			ra.HandleServiceError(w, internal.NewForbiddenError(fmt.Sprintf("requires role %v", roles), internal.ErrCodeInsufficientRole), "forbidden")
		})
	}
}

func (ra *RBACAuthorization) RequireAdmin(next http.Handler) http.Handler {
	return ra.RequireRole(coreuser.RoleAdmin)(next)
}

func (ra *RBACAuthorization) RequireTeamLeader(next http.Handler) http.Handler {
	return ra.RequireRole(coreuser.RoleTeamLeader)(next)
}

// RequireManager admits admins and team leaders.
func (ra *RBACAuthorization) RequireManager(next http.Handler) http.Handler {
	return ra.RequireRole(coreuser.RoleAdmin, coreuser.RoleTeamLeader)(next)
}
