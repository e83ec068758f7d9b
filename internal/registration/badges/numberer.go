// Package badges hands out printed badge numbers. Numbers are dense per badge
// type: a new badge takes max+1 within the type's range, and deleting a badge
// shifts every higher number of that type down by one.
//
// Every read-modify-write here must run while holding the badge lock (see
// Locker) and inside the caller's unit of work.
package badges

import (
	"context"
	"fmt"

	"ubersystem/internal/registration/metrics"
	"ubersystem/internal/registration/models"
	dErrors "ubersystem/pkg/domain-errors"
)

// Range is the inclusive block of numbers reserved for one badge type.
type Range struct {
	Start int
	End   int
}

func (r Range) Contains(n int) bool { return n >= r.Start && n <= r.End }

// Ranges maps each badge type to its number block.
type Ranges map[models.BadgeType]Range

// DefaultRanges are the blocks printed badges have always used.
func DefaultRanges() Ranges {
	return Ranges{
		models.StaffBadge:     {Start: 1, End: 999},
		models.SupporterBadge: {Start: 1000, End: 1999},
		models.GuestBadge:     {Start: 2000, End: 2999},
		models.AttendeeBadge:  {Start: 3000, End: 29999},
		models.OneDayBadge:    {Start: 30000, End: 39999},
	}
}

// Store reads and rewrites badge numbers. Both methods must join the
// transaction on ctx.
type Store interface {
	// MaxBadgeNum returns the highest number of badgeType within r, or 0.
	MaxBadgeNum(ctx context.Context, badgeType models.BadgeType, r Range) (int, error)
	// ShiftBadgeNums moves numbers of badgeType by one in a single statement:
	// down decrements those greater than from, up increments those greater
	// than or equal to from.
	ShiftBadgeNums(ctx context.Context, badgeType models.BadgeType, from int, down bool) error
}

type Numberer struct {
	store   Store
	ranges  Ranges
	metrics *metrics.Metrics
}

type Option func(*Numberer)

func WithRanges(r Ranges) Option {
	return func(n *Numberer) {
		n.ranges = r
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(n *Numberer) {
		n.metrics = m
	}
}

func NewNumberer(store Store, opts ...Option) *Numberer {
	n := &Numberer{store: store, ranges: DefaultRanges()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Numberer) Range(badgeType models.BadgeType) (Range, error) {
	r, ok := n.ranges[badgeType]
	if !ok {
		return Range{}, dErrors.Newf(dErrors.CodeInvalidInput, "no badge number range for %s", badgeType)
	}
	return r, nil
}

// NextBadgeNum returns the number the next badge of badgeType gets.
func (n *Numberer) NextBadgeNum(ctx context.Context, badgeType models.BadgeType) (int, error) {
	r, err := n.Range(badgeType)
	if err != nil {
		return 0, err
	}
	highest, err := n.store.MaxBadgeNum(ctx, badgeType, r)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read badge numbers")
	}
	next := r.Start
	if highest >= r.Start {
		next = highest + 1
	}
	if next > r.End {
		return 0, dErrors.Newf(dErrors.CodeConflict, "all %s badge numbers %d-%d are taken", badgeType, r.Start, r.End)
	}
	if n.metrics != nil {
		n.metrics.IncBadgesAllocated(badgeType.String())
	}
	return next, nil
}

// ShiftBadges closes (down) or opens (up) the gap at from.
func (n *Numberer) ShiftBadges(ctx context.Context, badgeType models.BadgeType, from int, down bool) error {
	if from <= 0 {
		return dErrors.Newf(dErrors.CodeInvalidInput, "cannot shift badges from %d", from)
	}
	if err := n.store.ShiftBadgeNums(ctx, badgeType, from, down); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to shift %s badges", badgeType))
	}
	if n.metrics != nil {
		n.metrics.IncBadgeShifts(badgeType.String())
	}
	return nil
}
