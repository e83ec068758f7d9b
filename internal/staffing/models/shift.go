package models

import (
	"fmt"

	trackingmodels "ubersystem/internal/tracking/models"
	id "ubersystem/pkg/domain"
)

// WorkedStatus records whether a staffer showed up for a shift.
type WorkedStatus int

const (
	ShiftUnmarked WorkedStatus = iota
	ShiftWorked
	ShiftUnworked
)

var workedStatuses = map[WorkedStatus]struct{ key, label string }{
	ShiftUnmarked: {"unmarked", "SELECT A STATUS"},
	ShiftWorked:   {"worked", "This shift was worked"},
	ShiftUnworked: {"unworked", "Staffer didn't show up or help"},
}

func (w WorkedStatus) String() string {
	if s, ok := workedStatuses[w]; ok {
		return s.label
	}
	return fmt.Sprintf("Unknown(%d)", int(w))
}

func (w WorkedStatus) MarshalText() ([]byte, error) {
	s, ok := workedStatuses[w]
	if !ok {
		return nil, fmt.Errorf("unknown worked status %d", int(w))
	}
	return []byte(s.key), nil
}

func (w *WorkedStatus) UnmarshalText(text []byte) error {
	for v, s := range workedStatuses {
		if s.key == string(text) {
			*w = v
			return nil
		}
	}
	return fmt.Errorf("unknown worked status %q", text)
}

// Shift is one staffer signed up for one job.
type Shift struct {
	ID         id.ShiftID    `json:"id"`
	JobID      id.JobID      `json:"job_id"`
	AttendeeID id.AttendeeID `json:"attendee_id"`
	Worked     WorkedStatus  `json:"worked"`
}

func (s *Shift) Clone() *Shift {
	c := *s
	return &c
}

func (s *Shift) String() string {
	return fmt.Sprintf("attendee %d on job %d", s.AttendeeID, s.JobID)
}

func (s *Shift) TrackingModel() string { return ShiftModel }
func (s *Shift) TrackingID() int64     { return int64(s.ID) }

func (s *Shift) TrackedFields() []trackingmodels.Field {
	return []trackingmodels.Field{
		{Name: "job_id", Value: int64(s.JobID)},
		{Name: "attendee_id", Value: int64(s.AttendeeID)},
		{Name: "worked", Value: s.Worked},
	}
}
