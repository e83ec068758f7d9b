// Package handler serves the staffing admin API.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	accountmodels "ubersystem/internal/accounts/models"
	"ubersystem/internal/admin"
	regmodels "ubersystem/internal/registration/models"
	"ubersystem/internal/staffing/models"
	"ubersystem/internal/staffing/service"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/platform/httputil"
)

// Service is the staffing service as the API uses it.
type Service interface {
	PossibleJobs(ctx context.Context, attendeeID id.AttendeeID) ([]*models.Job, error)
	Hours(ctx context.Context, attendeeID id.AttendeeID) (service.AttendeeHours, error)
	GetJob(ctx context.Context, jobID id.JobID) (*models.Job, error)
	ListJobs(ctx context.Context) ([]*models.Job, error)
	SaveJob(ctx context.Context, j *models.Job) error
	DeleteJob(ctx context.Context, jobID id.JobID) error
	AssignShift(ctx context.Context, jobID id.JobID, attendeeID id.AttendeeID) (*models.Shift, error)
	MarkWorked(ctx context.Context, shiftID id.ShiftID, status models.WorkedStatus) error
	Unassign(ctx context.Context, shiftID id.ShiftID) error
	AvailableStaffers(ctx context.Context, jobID id.JobID) ([]*regmodels.Attendee, error)
}

type Handler struct {
	staffing Service
	deps     admin.Deps
}

func New(staffing Service, deps admin.Deps) *Handler {
	return &Handler{staffing: staffing, deps: deps}
}

// Register mounts the staffing routes. All of them need the people area.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.deps.Middlewares(accountmodels.AccessPeople)...)

		r.Get("/admin/attendees/{id}/possible-jobs", h.handlePossibleJobs)
		r.Get("/admin/attendees/{id}/hours", h.handleHours)

		r.Get("/admin/jobs", h.handleListJobs)
		r.Post("/admin/jobs", h.handleCreateJob)
		r.Get("/admin/jobs/{id}", h.handleGetJob)
		r.Put("/admin/jobs/{id}", h.handleUpdateJob)
		r.Delete("/admin/jobs/{id}", h.handleDeleteJob)
		r.Get("/admin/jobs/{id}/available-staffers", h.handleAvailableStaffers)
		r.Post("/admin/jobs/{id}/shifts", h.handleAssignShift)

		r.Post("/admin/shifts/{id}/worked", h.handleMarkWorked)
		r.Delete("/admin/shifts/{id}", h.handleUnassign)
	})
}

type assignShiftRequest struct {
	AttendeeID id.AttendeeID `json:"attendee_id"`
}

type markWorkedRequest struct {
	Status models.WorkedStatus `json:"status"`
}

// stafferResponse is the slice of an attendee the staffing screens show.
type stafferResponse struct {
	ID            id.AttendeeID     `json:"id"`
	Name          string            `json:"name"`
	Badge         string            `json:"badge"`
	Trusted       bool              `json:"trusted"`
	AssignedDepts regmodels.DeptSet `json:"assigned_depts"`
}

func toStaffer(a *regmodels.Attendee) stafferResponse {
	return stafferResponse{
		ID:            a.ID,
		Name:          a.LastFirst(),
		Badge:         a.BadgeLabel(),
		Trusted:       a.Trusted,
		AssignedDepts: a.AssignedDepts,
	}
}

func (h *Handler) handlePossibleJobs(w http.ResponseWriter, r *http.Request) {
	attendeeID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	jobs, err := h.staffing.PossibleJobs(r.Context(), id.AttendeeID(attendeeID))
	if err != nil {
		h.fail(w, r, err, "failed to list possible jobs")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, admin.NewListResponse(jobs))
}

func (h *Handler) handleHours(w http.ResponseWriter, r *http.Request) {
	attendeeID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	hours, err := h.staffing.Hours(r.Context(), id.AttendeeID(attendeeID))
	if err != nil {
		h.fail(w, r, err, "failed to total hours")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, hours)
}

func (h *Handler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.staffing.ListJobs(r.Context())
	if err != nil {
		h.fail(w, r, err, "failed to list jobs")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, admin.NewListResponse(jobs))
}

func (h *Handler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	job, err := h.staffing.GetJob(r.Context(), id.JobID(jobID))
	if err != nil {
		h.fail(w, r, err, "failed to load job")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, job)
}

func (h *Handler) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var job models.Job
	if err := httputil.DecodeJSON(r, &job); err != nil {
		h.fail(w, r, err, "invalid job")
		return
	}
	job.ID = 0
	if err := h.staffing.SaveJob(r.Context(), &job); err != nil {
		h.fail(w, r, err, "failed to create job")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, &job)
}

func (h *Handler) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var job models.Job
	if err := httputil.DecodeJSON(r, &job); err != nil {
		h.fail(w, r, err, "invalid job")
		return
	}
	job.ID = id.JobID(jobID)
	if err := h.staffing.SaveJob(r.Context(), &job); err != nil {
		h.fail(w, r, err, "failed to update job")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &job)
}

func (h *Handler) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.staffing.DeleteJob(r.Context(), id.JobID(jobID)); err != nil {
		h.fail(w, r, err, "failed to delete job")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAvailableStaffers(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	staffers, err := h.staffing.AvailableStaffers(r.Context(), id.JobID(jobID))
	if err != nil {
		h.fail(w, r, err, "failed to list available staffers")
		return
	}
	out := make([]stafferResponse, len(staffers))
	for i, a := range staffers {
		out[i] = toStaffer(a)
	}
	httputil.WriteJSON(w, http.StatusOK, admin.NewListResponse(out))
}

func (h *Handler) handleAssignShift(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req assignShiftRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err, "invalid shift request")
		return
	}
	if req.AttendeeID.IsNil() {
		h.fail(w, r, dErrors.New(dErrors.CodeValidation, "attendee_id is required"), "invalid shift request")
		return
	}
	shift, err := h.staffing.AssignShift(r.Context(), id.JobID(jobID), req.AttendeeID)
	if err != nil {
		h.fail(w, r, err, "failed to assign shift")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, shift)
}

func (h *Handler) handleMarkWorked(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req markWorkedRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err, "invalid worked status")
		return
	}
	if err := h.staffing.MarkWorked(r.Context(), id.ShiftID(shiftID), req.Status); err != nil {
		h.fail(w, r, err, "failed to mark shift")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUnassign(w http.ResponseWriter, r *http.Request) {
	shiftID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.staffing.Unassign(r.Context(), id.ShiftID(shiftID)); err != nil {
		h.fail(w, r, err, "failed to unassign shift")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	n, err := admin.PathID(r, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return 0, false
	}
	return n, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	h.deps.Fail(w, r, err, msg)
}
