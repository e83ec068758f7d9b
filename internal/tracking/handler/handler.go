// Package handler serves the tracking history.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	accountmodels "ubersystem/internal/accounts/models"
	"ubersystem/internal/admin"
	"ubersystem/internal/tracking/feed"
	"ubersystem/internal/tracking/models"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/platform/httputil"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

type Service interface {
	List(ctx context.Context, filter models.Filter) ([]*models.Tracking, error)
}

type Handler struct {
	tracking Service
	deps     admin.Deps
}

func New(tracking Service, deps admin.Deps) *Handler {
	return &Handler{tracking: tracking, deps: deps}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.deps.Middlewares(accountmodels.AccessPeople)...)
		r.Get("/admin/tracking", h.handleList)
	})
}

// handleList returns history newest first. after_id keeps only rows newer
// than the given one, for clients polling for changes.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.deps.Fail(w, r, err, "invalid tracking query")
		return
	}
	rows, err := h.tracking.List(r.Context(), filter)
	if err != nil {
		h.deps.Fail(w, r, err, "failed to list tracking rows")
		return
	}
	out := make([]feed.Message, len(rows))
	for i, row := range rows {
		out[i] = feed.NewMessage(row)
	}
	httputil.WriteJSON(w, http.StatusOK, admin.NewListResponse(out))
}

func parseFilter(r *http.Request) (models.Filter, error) {
	q := r.URL.Query()
	filter := models.Filter{Model: q.Get("model"), Limit: defaultLimit}
	if v := q.Get("fk_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return models.Filter{}, dErrors.Newf(dErrors.CodeBadRequest, "invalid fk_id %q", v)
		}
		if filter.Model == "" {
			return models.Filter{}, dErrors.New(dErrors.CodeBadRequest, "fk_id needs a model")
		}
		filter.FKID = n
	}
	if v := q.Get("after_id"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return models.Filter{}, dErrors.Newf(dErrors.CodeBadRequest, "invalid after_id %q", v)
		}
		filter.AfterID = id.TrackingID(n)
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return models.Filter{}, dErrors.Newf(dErrors.CodeBadRequest, "invalid limit %q", v)
		}
		filter.Limit = min(n, maxLimit)
	}
	return filter, nil
}
