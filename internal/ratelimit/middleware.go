package ratelimit

//go:generate mockgen -source=middleware.go -destination=mocks/mocks.go -package=mocks Window

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"ubersystem/pkg/platform/httputil"
	"ubersystem/pkg/requestcontext"
)

// Window counts one request against key.
type Window interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// Policy is how many requests one client may make per Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

type rateLimitedResponse struct {
	Error      string `json:"error"`
	Message    string `json:"error_description"`
	RetryAfter int    `json:"retry_after"`
}

// Middleware limits signed-in requests per account and anonymous ones per
// client IP. A broken store lets requests through.
func Middleware(store Window, policy Policy, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := clientKey(ctx)

			result, err := store.Allow(ctx, key, policy.Limit, policy.Window)
			if err != nil {
				logger.ErrorContext(ctx, "failed to check rate limit", "key", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
			if !result.Allowed {
				retry := result.RetryAfter(time.Now())
				logger.WarnContext(ctx, "rate limit exceeded", "key", key)
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				httputil.WriteJSON(w, http.StatusTooManyRequests, rateLimitedResponse{
					Error:      "rate_limit_exceeded",
					Message:    "Too many requests. Please try again later.",
					RetryAfter: retry,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(ctx context.Context) string {
	if accountID := requestcontext.AccountID(ctx); !accountID.IsNil() {
		return "account:" + accountID.String()
	}
	return "ip:" + requestcontext.ClientIP(ctx)
}
