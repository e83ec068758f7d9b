package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	regmodels "ubersystem/internal/registration/models"
	"ubersystem/internal/staffing/models"
	id "ubersystem/pkg/domain"
)

// possibleJobsCache holds one computed job list per attendee. An entry is
// good while the generation it was computed under is current and the
// attendee's assigned departments and trust are unchanged; attendees are
// edited by registration, which does not bump the generation.
type possibleJobsCache struct {
	generation atomic.Uint64
	mu         sync.RWMutex
	entries    map[id.AttendeeID]cacheEntry
	group      singleflight.Group
}

type cacheEntry struct {
	generation  uint64
	fingerprint string
	jobs        []*models.Job
}

func newPossibleJobsCache() *possibleJobsCache {
	return &possibleJobsCache{entries: make(map[id.AttendeeID]cacheEntry)}
}

func (c *possibleJobsCache) invalidate() {
	c.generation.Add(1)
}

func (c *possibleJobsCache) get(attendeeID id.AttendeeID, gen uint64, fp string) ([]*models.Job, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[attendeeID]
	if !ok || e.generation != gen || e.fingerprint != fp {
		return nil, false
	}
	return e.jobs, true
}

func (c *possibleJobsCache) put(attendeeID id.AttendeeID, e cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[attendeeID]; ok && cur.generation > e.generation {
		return
	}
	c.entries[attendeeID] = e
}

func fingerprint(a *regmodels.Attendee) string {
	return fmt.Sprintf("%s|%t", a.AssignedDepts.Legacy(), a.Trusted)
}

// PossibleJobs lists the jobs the attendee can still sign up for, ordered
// by start time. Results are cached until the next job or shift change.
func (s *Service) PossibleJobs(ctx context.Context, attendeeID id.AttendeeID) ([]*models.Job, error) {
	ctx, span := tracer.Start(ctx, "staffing.PossibleJobs", trace.WithAttributes(
		attribute.Int64("attendee.id", int64(attendeeID)),
	))
	defer span.End()

	a, err := s.loadAttendee(ctx, attendeeID)
	if err != nil {
		return nil, err
	}
	gen := s.cache.generation.Load()
	fp := fingerprint(a)
	if jobs, ok := s.cache.get(attendeeID, gen, fp); ok {
		if s.metrics != nil {
			s.metrics.IncCacheHit()
		}
		return slices.Clone(jobs), nil
	}
	if s.metrics != nil {
		s.metrics.IncCacheMiss()
	}

	key := fmt.Sprintf("%d/%d/%s", attendeeID, gen, fp)
	v, err, shared := s.cache.group.Do(key, func() (any, error) {
		start := time.Now()
		jobs, err := s.computePossibleJobs(ctx, a)
		if s.metrics != nil {
			s.metrics.ObserveEligibilityLoad(time.Since(start).Seconds())
		}
		if err != nil {
			return nil, err
		}
		s.cache.put(attendeeID, cacheEntry{generation: gen, fingerprint: fp, jobs: jobs})
		return jobs, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("cache.shared", shared))
	return slices.Clone(v.([]*models.Job)), nil
}

func (s *Service) computePossibleJobs(ctx context.Context, a *regmodels.Attendee) ([]*models.Job, error) {
	if a.AssignedDepts.IsEmpty() {
		return nil, nil
	}

	var (
		jobs     []*models.Job
		counts   map[id.JobID]int
		schedule models.Schedule
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = s.jobStore.ListByLocations(gctx, []regmodels.Dept(a.AssignedDepts))
		if err != nil {
			return loadError(err, "jobs")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		counts, err = s.shiftStore.CountByJob(gctx)
		if err != nil {
			return loadError(err, "shift counts")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		schedule, _, err = s.schedule(gctx, a.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models.PossibleJobs(a, jobs, counts, schedule), nil
}

// NoOverlap reports whether the job fits the attendee's current schedule.
func (s *Service) NoOverlap(ctx context.Context, jobID id.JobID, attendeeID id.AttendeeID) (bool, error) {
	job, err := s.jobStore.FindByID(ctx, jobID)
	if err != nil {
		return false, loadError(err, "job")
	}
	if _, err := s.loadAttendee(ctx, attendeeID); err != nil {
		return false, err
	}
	schedule, _, err := s.schedule(ctx, attendeeID)
	if err != nil {
		return false, err
	}
	return models.NoOverlap(job, schedule), nil
}
