package models

import (
	"cmp"
	"slices"
	"time"

	regmodels "ubersystem/internal/registration/models"
	id "ubersystem/pkg/domain"
)

// Schedule is the set of jobs an attendee is currently signed up for.
type Schedule []*Job

// Hours is every clock hour the schedule occupies.
func (s Schedule) Hours() map[Hour]struct{} {
	hours := make(map[Hour]struct{})
	for _, j := range s {
		for _, h := range j.Hours() {
			hours[h] = struct{}{}
		}
	}
	return hours
}

// HourMap maps each occupied hour to the job occupying it.
func (s Schedule) HourMap() map[Hour]*Job {
	m := make(map[Hour]*Job)
	for _, j := range s {
		for _, h := range j.Hours() {
			m[h] = j
		}
	}
	return m
}

// Contains reports whether the schedule already holds jobID.
func (s Schedule) Contains(jobID id.JobID) bool {
	return slices.ContainsFunc(s, func(j *Job) bool { return j.ID == jobID })
}

// WeightedHours sums the weighted hours of every job in the schedule.
func (s Schedule) WeightedHours() float64 {
	var total float64
	for _, j := range s {
		total += j.WeightedHours()
	}
	return total
}

// NoOverlap reports whether job fits into schedule. Besides sharing no hour,
// an Extra15 job overruns into the following hour, so it cannot be directly
// followed by work at another location.
func NoOverlap(job *Job, schedule Schedule) bool {
	hours := schedule.Hours()
	for _, h := range job.Hours() {
		if _, taken := hours[h]; taken {
			return false
		}
	}

	byHour := schedule.HourMap()
	if prev, ok := byHour[HourOf(job.StartTime.Add(-time.Hour))]; ok {
		if prev.Extra15 && prev.Location != job.Location {
			return false
		}
	}
	if next, ok := byHour[HourOf(job.End())]; ok {
		if job.Extra15 && next.Location != job.Location {
			return false
		}
	}
	return true
}

// PossibleJobs filters jobs down to the ones a can still sign up for,
// ordered by start time. shiftCounts holds the number of people already
// signed up per job.
func PossibleJobs(a *regmodels.Attendee, jobs []*Job, shiftCounts map[id.JobID]int, schedule Schedule) []*Job {
	if a.AssignedDepts.IsEmpty() {
		return nil
	}
	var possible []*Job
	for _, j := range jobs {
		if CanTake(a, j, shiftCounts[j.ID], schedule) == nil {
			possible = append(possible, j)
		}
	}
	slices.SortStableFunc(possible, func(x, y *Job) int {
		return cmp.Or(x.StartTime.Compare(y.StartTime), cmp.Compare(x.ID, y.ID))
	})
	return possible
}

// Ineligible says why an attendee cannot take a job.
type Ineligible string

func (r Ineligible) Error() string { return string(r) }

const (
	NotAssigned  Ineligible = "attendee is not assigned to this department"
	JobFull      Ineligible = "job has no open slots"
	Overlapping  Ineligible = "job overlaps the attendee's schedule"
	NotTrusted   Ineligible = "job is restricted to trusted staffers"
	AlreadyTaken Ineligible = "attendee is already signed up for this job"
)

// CanTake checks one job for a; taken is how many people already hold it.
func CanTake(a *regmodels.Attendee, job *Job, taken int, schedule Schedule) error {
	switch {
	case !a.AssignedDepts.Has(job.Location):
		return NotAssigned
	case schedule.Contains(job.ID):
		return AlreadyTaken
	case job.Slots <= taken:
		return JobFull
	case job.Restricted && !a.Trusted:
		return NotTrusted
	case !NoOverlap(job, schedule):
		return Overlapping
	}
	return nil
}
