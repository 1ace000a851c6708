package http

import (
	"net/http"

	"github.com/MKhiriev/vaultscribe/internal/utils"
)

// auth is an HTTP middleware that enforces bearer session authentication.
//
// It extracts the token from the "Authorization: Bearer <token>" header,
// resolves it with [service.AuthService.ValidateSession] and stores the
// account and the token in the request context (see [utils.WithAccount])
// before delegating to the next handler.
//
// Missing, malformed, unknown and expired tokens are all answered with
// HTTP 401 Unauthorized.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, r, ErrEmptyAuthorizationHeader)
			return
		}

		token, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			writeError(w, r, ErrInvalidAuthorizationHeader)
			return
		}

		ctx := r.Context()
		account, err := h.services.AuthService.ValidateSession(ctx, token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithAccount(ctx, account, token)))
	})
}
