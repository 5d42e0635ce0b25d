package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/timesheet-tracker/internal"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/transport"
	"github.com/frahmantamala/timesheet-tracker/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	Authorize(ctx context.Context, accessToken string) (*coreuser.Actor, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// Login handles POST /auth/login. The username is logged on failure, the
// password never is.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.Logger.WarnContext(r.Context(), "login failed", "username", dto.Username, "error", err)
		h.HandleServiceError(w, err, "login failed")
		return
	}

	h.Logger.InfoContext(r.Context(), "login succeeded", "username", dto.Username)
	h.WriteJSON(w, http.StatusOK, tokens)
}

// RefreshToken handles POST /auth/refresh and returns a rotated pair.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err, "invalid request body")
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.Logger.WarnContext(r.Context(), "token refresh failed", "error", err)
		h.HandleServiceError(w, err, "token refresh failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// AuthMiddleware puts the bearer token's actor on the request context and
// tags the request logger with the user id and role.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := h.actorFor(r)
		if err != nil {
			h.Logger.WarnContext(r.Context(), "request rejected", "path", r.URL.Path, "error", err)
			h.HandleServiceError(w, err, "unauthorized")
			return
		}

		ctx := internal.ContextWithActor(r.Context(), actor)
		ctx = logger.With(ctx, "user_id", actor.ID, "role", string(actor.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) actorFor(r *http.Request) (*coreuser.Actor, error) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		return nil, internal.NewUnauthorizedError("missing authorization token", internal.ErrCodeInvalidToken)
	}
	return h.Service.Authorize(r.Context(), token)
}
