// Package auth guards the admin API with bearer tokens.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "ubersystem/pkg/domain"
	"ubersystem/pkg/platform/middleware/request"
	"ubersystem/pkg/requestcontext"
)

// JWTValidator verifies a bearer token.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// AccountChecker reports whether a token's account may still act. Tokens
// outlive account deletion otherwise.
type AccountChecker interface {
	AccountExists(ctx context.Context, accountID id.AccountID) (bool, error)
}

// JWTClaims are the claims the middleware needs from a validated token.
type JWTClaims struct {
	AccountID id.AccountID
	JTI       string
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth rejects requests without a valid admin bearer token and puts
// the account on the context for the tracking actor lookup. accounts may be
// nil.
func RequireAuth(validator JWTValidator, accounts AccountChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := request.GetRequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			if accounts != nil {
				exists, err := accounts.AccountExists(ctx, claims.AccountID)
				if err != nil {
					logger.ErrorContext(ctx, "failed to check token account",
						"error", err,
						"request_id", requestID,
					)
					writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to validate token")
					return
				}
				if !exists {
					logger.WarnContext(ctx, "unauthorized access - account gone",
						"account_id", claims.AccountID.String(),
						"jti", claims.JTI,
						"request_id", requestID,
					)
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Account no longer exists")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithAccountID(ctx, claims.AccountID)))
		})
	}
}
