// Package handler serves the registration admin API: attendees, groups and
// payments.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	accountmodels "ubersystem/internal/accounts/models"
	"ubersystem/internal/admin"
	"ubersystem/internal/registration/models"
	"ubersystem/internal/registration/service"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/platform/httputil"
)

type Service interface {
	GetAttendee(ctx context.Context, attendeeID id.AttendeeID) (*models.Attendee, error)
	SaveAttendee(ctx context.Context, a *models.Attendee) error
	DeleteAttendee(ctx context.Context, attendeeID id.AttendeeID) error
	TotalCost(ctx context.Context, p models.Priceable) int
	Roster(ctx context.Context, groupID id.GroupID) (models.GroupRoster, error)
	SaveGroup(ctx context.Context, g *models.Group) error
	AssignGroupBadges(ctx context.Context, groupID id.GroupID, n int) error
	MarkGroupPaid(ctx context.Context, groupID id.GroupID) (int, error)
	MarkAttendeePaid(ctx context.Context, attendeeID id.AttendeeID) (int, error)
	Reconcile(ctx context.Context, itemIDs string, reportedTotal float64) (service.Reconciliation, error)
}

type Handler struct {
	registration Service
	deps         admin.Deps
}

func New(registration Service, deps admin.Deps) *Handler {
	return &Handler{registration: registration, deps: deps}
}

// Register mounts the routes. Payments need the money area; everything
// else needs the people area.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.deps.Middlewares(accountmodels.AccessPeople)...)

		r.Post("/admin/attendees", h.handleCreateAttendee)
		r.Get("/admin/attendees/{id}", h.handleGetAttendee)
		r.Put("/admin/attendees/{id}", h.handleUpdateAttendee)
		r.Delete("/admin/attendees/{id}", h.handleDeleteAttendee)

		r.Post("/admin/groups", h.handleCreateGroup)
		r.Get("/admin/groups/{id}", h.handleGetGroup)
		r.Put("/admin/groups/{id}", h.handleUpdateGroup)
		r.Post("/admin/groups/{id}/badges", h.handleAssignBadges)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.deps.Middlewares(accountmodels.AccessMoney)...)

		r.Post("/admin/attendees/{id}/paid", h.handleAttendeePaid)
		r.Post("/admin/groups/{id}/paid", h.handleGroupPaid)
		r.Post("/admin/payments/reconcile", h.handleReconcile)
	})
}

type attendeeResponse struct {
	*models.Attendee
	FullName  string `json:"full_name"`
	BadgeName string `json:"badge_label"`
	TotalCost int    `json:"total_cost"`
}

type groupResponse struct {
	*models.Group
	Members            []*models.Attendee `json:"members"`
	LeaderID           id.AttendeeID      `json:"leader_id,omitempty"`
	Badges             int                `json:"badges"`
	BadgesPurchased    int                `json:"badges_purchased"`
	UnregisteredBadges int                `json:"unregistered_badges"`
	TotalCost          int                `json:"total_cost"`
}

type assignBadgesRequest struct {
	Badges int `json:"badges"`
}

type paidResponse struct {
	AmountNewlyPaid int `json:"amount_newly_paid"`
}

type reconcileRequest struct {
	ItemNumber    string  `json:"item_number"`
	ReportedTotal float64 `json:"reported_total"`
}

type reconcileResponse struct {
	service.Reconciliation
	Attendees []id.AttendeeID `json:"attendee_ids"`
	Groups    []id.GroupID    `json:"group_ids"`
}

func (h *Handler) attendeeResponse(ctx context.Context, a *models.Attendee) attendeeResponse {
	return attendeeResponse{
		Attendee:  a,
		FullName:  a.FullName(),
		BadgeName: a.BadgeLabel(),
		TotalCost: h.registration.TotalCost(ctx, a),
	}
}

func (h *Handler) handleCreateAttendee(w http.ResponseWriter, r *http.Request) {
	var a models.Attendee
	if err := httputil.DecodeJSON(r, &a); err != nil {
		h.deps.Fail(w, r, err, "invalid attendee")
		return
	}
	a.ID = 0
	if err := h.registration.SaveAttendee(r.Context(), &a); err != nil {
		h.deps.Fail(w, r, err, "failed to create attendee")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, h.attendeeResponse(r.Context(), &a))
}

func (h *Handler) handleGetAttendee(w http.ResponseWriter, r *http.Request) {
	attendeeID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	a, err := h.registration.GetAttendee(r.Context(), id.AttendeeID(attendeeID))
	if err != nil {
		h.deps.Fail(w, r, err, "failed to load attendee")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.attendeeResponse(r.Context(), a))
}

func (h *Handler) handleUpdateAttendee(w http.ResponseWriter, r *http.Request) {
	attendeeID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var a models.Attendee
	if err := httputil.DecodeJSON(r, &a); err != nil {
		h.deps.Fail(w, r, err, "invalid attendee")
		return
	}
	a.ID = id.AttendeeID(attendeeID)
	if err := h.registration.SaveAttendee(r.Context(), &a); err != nil {
		h.deps.Fail(w, r, err, "failed to update attendee")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.attendeeResponse(r.Context(), &a))
}

func (h *Handler) handleDeleteAttendee(w http.ResponseWriter, r *http.Request) {
	attendeeID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.registration.DeleteAttendee(r.Context(), id.AttendeeID(attendeeID)); err != nil {
		h.deps.Fail(w, r, err, "failed to delete attendee")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var g models.Group
	if err := httputil.DecodeJSON(r, &g); err != nil {
		h.deps.Fail(w, r, err, "invalid group")
		return
	}
	g.ID = 0
	if err := h.registration.SaveGroup(r.Context(), &g); err != nil {
		h.deps.Fail(w, r, err, "failed to create group")
		return
	}
	h.writeRoster(w, r, g.ID, http.StatusCreated)
}

func (h *Handler) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	h.writeRoster(w, r, id.GroupID(groupID), http.StatusOK)
}

func (h *Handler) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var g models.Group
	if err := httputil.DecodeJSON(r, &g); err != nil {
		h.deps.Fail(w, r, err, "invalid group")
		return
	}
	g.ID = id.GroupID(groupID)
	if err := h.registration.SaveGroup(r.Context(), &g); err != nil {
		h.deps.Fail(w, r, err, "failed to update group")
		return
	}
	h.writeRoster(w, r, g.ID, http.StatusOK)
}

func (h *Handler) handleAssignBadges(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req assignBadgesRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.deps.Fail(w, r, err, "invalid badge count")
		return
	}
	if req.Badges < 0 {
		h.deps.Fail(w, r, dErrors.New(dErrors.CodeValidation, "badges cannot be negative"), "invalid badge count")
		return
	}
	if err := h.registration.AssignGroupBadges(r.Context(), id.GroupID(groupID), req.Badges); err != nil {
		h.deps.Fail(w, r, err, "failed to assign group badges")
		return
	}
	h.writeRoster(w, r, id.GroupID(groupID), http.StatusOK)
}

func (h *Handler) writeRoster(w http.ResponseWriter, r *http.Request, groupID id.GroupID, status int) {
	ctx := r.Context()
	roster, err := h.registration.Roster(ctx, groupID)
	if err != nil {
		h.deps.Fail(w, r, err, "failed to load group")
		return
	}
	resp := groupResponse{
		Group:              roster.Group,
		Members:            roster.Members,
		Badges:             roster.Badges(),
		BadgesPurchased:    roster.BadgesPurchased(),
		UnregisteredBadges: roster.UnregisteredBadges(),
		TotalCost:          h.registration.TotalCost(ctx, roster),
	}
	if resp.Members == nil {
		resp.Members = []*models.Attendee{}
	}
	if leader := roster.Leader(); leader != nil {
		resp.LeaderID = leader.ID
	}
	httputil.WriteJSON(w, status, resp)
}

func (h *Handler) handleAttendeePaid(w http.ResponseWriter, r *http.Request) {
	attendeeID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	amount, err := h.registration.MarkAttendeePaid(r.Context(), id.AttendeeID(attendeeID))
	if err != nil {
		h.deps.Fail(w, r, err, "failed to mark attendee paid")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, paidResponse{AmountNewlyPaid: amount})
}

func (h *Handler) handleGroupPaid(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	amount, err := h.registration.MarkGroupPaid(r.Context(), id.GroupID(groupID))
	if err != nil {
		h.deps.Fail(w, r, err, "failed to mark group paid")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, paidResponse{AmountNewlyPaid: amount})
}

func (h *Handler) handleReconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.deps.Fail(w, r, err, "invalid payment")
		return
	}
	rec, err := h.registration.Reconcile(r.Context(), req.ItemNumber, req.ReportedTotal)
	if err != nil {
		h.deps.Fail(w, r, err, "failed to reconcile payment")
		return
	}
	if rec.Mismatch {
		h.deps.Logger.WarnContext(r.Context(), "payment total mismatch",
			"item_number", req.ItemNumber,
			"expected", rec.Expected,
			"reported", rec.Reported,
		)
	}
	httputil.WriteJSON(w, http.StatusOK, reconcileResponse{
		Reconciliation: rec,
		Attendees:      rec.Items.Attendees,
		Groups:         rec.Items.Groups,
	})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	n, err := admin.PathID(r, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return n, true
}
