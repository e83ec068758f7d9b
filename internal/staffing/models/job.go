package models

import (
	"time"

	regmodels "ubersystem/internal/registration/models"
	trackingmodels "ubersystem/internal/tracking/models"
	id "ubersystem/pkg/domain"
	"ubersystem/pkg/validation"
)

const (
	JobModel   = "Job"
	ShiftModel = "Shift"
)

// Hour is a clock hour as Unix seconds so that equal instants compare equal
// whatever their location.
type Hour int64

func HourOf(t time.Time) Hour { return Hour(t.Unix()) }

func (h Hour) Time() time.Time { return time.Unix(int64(h), 0).UTC() }

// Job is a block of volunteer work at one location. Duration is in whole
// hours; Extra15 jobs run fifteen minutes over to hand off.
type Job struct {
	ID          id.JobID       `json:"id"`
	Name        string         `json:"name" validate:"required,max=100"`
	Description string         `json:"description" validate:"max=100"`
	Location    regmodels.Dept `json:"location" validate:"required"`
	StartTime   time.Time      `json:"start_time" validate:"required"`
	Duration    int            `json:"duration" validate:"gte=1"`
	Weight      float64        `json:"weight" validate:"gt=0"`
	Slots       int            `json:"slots" validate:"gte=1"`
	Restricted  bool           `json:"restricted"`
	Extra15     bool           `json:"extra15"`
}

func (j *Job) Clone() *Job {
	c := *j
	return &c
}

func (j *Job) Validate() error {
	return validation.Struct(j)
}

// Hours lists the clock hours the job starts in.
func (j *Job) Hours() []Hour {
	hours := make([]Hour, 0, j.Duration)
	for i := range j.Duration {
		hours = append(hours, HourOf(j.StartTime.Add(time.Duration(i)*time.Hour)))
	}
	return hours
}

// End is the first hour after the job, ignoring Extra15.
func (j *Job) End() time.Time {
	return j.StartTime.Add(time.Duration(j.Duration) * time.Hour)
}

// RealDuration is the hours actually worked, counting the Extra15 overrun.
func (j *Job) RealDuration() float64 {
	if j.Extra15 {
		return float64(j.Duration) + 0.25
	}
	return float64(j.Duration)
}

func (j *Job) WeightedHours() float64 { return j.Weight * j.RealDuration() }

func (j *Job) String() string { return j.Name }

func (j *Job) TrackingModel() string { return JobModel }
func (j *Job) TrackingID() int64     { return int64(j.ID) }

func (j *Job) TrackedFields() []trackingmodels.Field {
	return []trackingmodels.Field{
		{Name: "name", Value: j.Name},
		{Name: "description", Value: j.Description},
		{Name: "location", Value: j.Location},
		{Name: "start_time", Value: j.StartTime},
		{Name: "duration", Value: j.Duration},
		{Name: "weight", Value: j.Weight},
		{Name: "slots", Value: j.Slots},
		{Name: "restricted", Value: j.Restricted},
		{Name: "extra15", Value: j.Extra15},
	}
}
