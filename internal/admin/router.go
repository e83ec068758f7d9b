// Package admin holds what every admin API router shares: the middleware
// stack, bearer authentication and per-area access checks.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	accountmodels "ubersystem/internal/accounts/models"
	"ubersystem/internal/platform/metrics"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/platform/httputil"
	"ubersystem/pkg/platform/middleware/auth"
	"ubersystem/pkg/platform/middleware/metadata"
	"ubersystem/pkg/platform/middleware/request"
	"ubersystem/pkg/platform/middleware/requesttime"
	"ubersystem/pkg/requestcontext"
)

const requestTimeout = 30 * time.Second

// AccessChecker answers whether a token's account still exists and which
// areas it may use.
type AccessChecker interface {
	AccountExists(ctx context.Context, accountID id.AccountID) (bool, error)
	HasAccess(ctx context.Context, accountID id.AccountID, level accountmodels.AccessLevel) (bool, error)
}

// Deps is passed to every handler's constructor.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Tokens   auth.JWTValidator
	Accounts AccessChecker

	// Limiter, when set, runs right after authentication.
	Limiter func(http.Handler) http.Handler
}

// Middlewares is the standard stack for an admin route group. Requests
// pass only with a valid token for an account holding level.
func (d Deps) Middlewares(level accountmodels.AccessLevel) []func(http.Handler) http.Handler {
	mws := []func(http.Handler) http.Handler{
		request.Recovery(d.Logger),
		request.RequestID,
		metadata.ClientMetadata,
		requesttime.Middleware,
		request.Logger(d.Logger),
		request.Timeout(requestTimeout),
		request.ContentTypeJSON,
	}
	if d.Metrics != nil {
		mws = append(mws, request.LatencyMiddleware(d.Metrics))
	}
	mws = append(mws, auth.RequireAuth(d.Tokens, d.Accounts, d.Logger))
	if d.Limiter != nil {
		mws = append(mws, d.Limiter)
	}
	return append(mws, RequireAccess(d.Accounts, level, d.Logger))
}

// RequireAccess refuses accounts without level. It must run after
// RequireAuth.
func RequireAccess(checker AccessChecker, level accountmodels.AccessLevel, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			accountID := requestcontext.AccountID(ctx)
			if accountID.IsNil() {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "not signed in"))
				return
			}
			if checker == nil {
				next.ServeHTTP(w, r)
				return
			}
			ok, err := checker.HasAccess(ctx, accountID, level)
			if err != nil {
				logger.ErrorContext(ctx, "failed to check access",
					"account_id", accountID.String(),
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				httputil.WriteError(w, err)
				return
			}
			if !ok {
				logger.WarnContext(ctx, "access denied",
					"account_id", accountID.String(),
					"area", level.String(),
					"request_id", request.GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.Newf(dErrors.CodeForbidden, "%s access is required", level.String()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PathID reads a positive integer URL parameter.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "invalid %s %q", name, raw)
	}
	return n, nil
}

// Fail writes err as the response. Internal errors are logged at error
// level since their message never reaches the client.
func (d Deps) Fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	ctx := r.Context()
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		d.Logger.ErrorContext(ctx, msg,
			"error", err,
			"request_id", request.GetRequestID(ctx),
		)
	} else {
		d.Logger.WarnContext(ctx, msg,
			"error", err.Error(),
			"request_id", request.GetRequestID(ctx),
		)
	}
	httputil.WriteError(w, err)
}
