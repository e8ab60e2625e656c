package httppresentation

import (
	"context"
	"net/http"
	"strings"

	"github.com/BiharaCD/beverage-OS/internal/observability"
	"github.com/BiharaCD/beverage-OS/internal/observability/logctx"
	"github.com/BiharaCD/beverage-OS/internal/pkg/apperr"
)

type userKey struct{}

func contextWithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// userFromContext returns the id of the authenticated caller, or "".
func userFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}

// withAuth requires "Authorization: Bearer <token>" and binds the caller's id to the
// context and to the request logger.
func (h *Handler) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeDomainError(w, r, apperr.Unauthorized("No token, authorization denied"))
			return
		}
		if h.opts.Tokens == nil {
			writeDomainError(w, r, apperr.Unauthorized("Token is not valid"))
			return
		}
		userID, err := h.opts.Tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			writeDomainError(w, r, apperr.Unauthorized("Token is not valid"))
			return
		}

		ctx := contextWithUser(r.Context(), userID)
		ctx = logctx.Enrich(ctx, h.log, observability.F("user_id", userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
