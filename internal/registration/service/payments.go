package service

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ubersystem/internal/registration/models"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
	platformstrings "ubersystem/pkg/platform/strings"
)

var itemIDPattern = regexp.MustCompile(`^([ag])(\d+)$`)

// ItemIDs are the entities one payment covers, as encoded in a payment
// processor's item number: "a12" for attendee 12, "g3" for group 3.
type ItemIDs struct {
	Attendees []id.AttendeeID
	Groups    []id.GroupID
}

func (ids ItemIDs) Empty() bool { return len(ids.Attendees) == 0 && len(ids.Groups) == 0 }

// ParseItemIDs splits a comma separated item number. Blank and repeated
// entries are dropped; any entry that is not an attendee or group reference
// fails the whole parse.
func ParseItemIDs(s string) (ItemIDs, error) {
	var ids ItemIDs
	var unknown []string
	for _, part := range platformstrings.DedupeAndTrim(strings.Split(s, ",")) {
		m := itemIDPattern.FindStringSubmatch(part)
		if m == nil {
			unknown = append(unknown, part)
			continue
		}
		n, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			unknown = append(unknown, part)
			continue
		}
		if m[1] == "a" {
			ids.Attendees = append(ids.Attendees, id.AttendeeID(n))
		} else {
			ids.Groups = append(ids.Groups, id.GroupID(n))
		}
	}
	if len(unknown) > 0 {
		return ItemIDs{}, dErrors.Newf(dErrors.CodeInvalidInput, "unknown item number %q", strings.Join(unknown, ","))
	}
	if ids.Empty() {
		return ItemIDs{}, dErrors.New(dErrors.CodeInvalidInput, "item number is required")
	}
	return ids, nil
}

// Reconciliation is the outcome of recording one reported payment.
type Reconciliation struct {
	Items    ItemIDs `json:"-"`
	Expected int     `json:"expected"`
	Reported float64 `json:"reported"`
	Mismatch bool    `json:"mismatch"`
}

// MarkGroupPaid settles the group's balance and returns the amount that was
// still outstanding.
func (s *Service) MarkGroupPaid(ctx context.Context, groupID id.GroupID) (int, error) {
	var paid int
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		paid, err = s.markGroupPaidTx(ctx, groupID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return paid, nil
}

func (s *Service) markGroupPaidTx(ctx context.Context, groupID id.GroupID) (int, error) {
	roster, err := s.Roster(ctx, groupID)
	if err != nil {
		return 0, err
	}
	g := roster.Group
	if g.AutoRecalc {
		g.AmountOwed = roster.TotalCost(s.events.Current())
	}
	paid := max(g.AmountUnpaid(), 0)
	g.AmountPaid = g.AmountOwed
	if err := s.saveGroupTx(ctx, g); err != nil {
		return 0, err
	}
	return paid, nil
}

// MarkAttendeePaid records the attendee as having paid their full badge
// price and returns how much more that is than they had paid before.
func (s *Service) MarkAttendeePaid(ctx context.Context, attendeeID id.AttendeeID) (int, error) {
	var paid int
	err := s.withBadgeLock(ctx, func(ctx context.Context) error {
		var err error
		paid, err = s.markAttendeePaidTx(ctx, attendeeID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return paid, nil
}

// markAttendeePaidTx needs the badge lock: becoming paid may allocate a badge
// number.
func (s *Service) markAttendeePaidTx(ctx context.Context, attendeeID id.AttendeeID) (int, error) {
	a, err := s.attendeeStore.FindByID(ctx, attendeeID)
	if err != nil {
		return 0, loadError(err, "attendee")
	}
	before := a.AmountPaid
	total := a.TotalCost(s.events.Current())
	a.AmountPaid = total
	if a.Paid == models.NotPaid || a.Paid == models.NeedNotPay {
		a.Paid = models.HasPaid
	}
	if err := s.saveAttendeeTx(ctx, a); err != nil {
		return 0, err
	}
	return max(total-before, 0), nil
}

// Reconcile records a completed payment covering itemIDs. Groups are settled
// before attendees, all in one unit of work. A reported total that differs
// from what was outstanding is flagged but the payment is recorded anyway.
func (s *Service) Reconcile(ctx context.Context, itemIDs string, reportedTotal float64) (Reconciliation, error) {
	ctx, span := tracer.Start(ctx, "registration.Reconcile", trace.WithAttributes(
		attribute.String("payment.items", itemIDs),
	))
	defer span.End()

	ids, err := ParseItemIDs(itemIDs)
	if err != nil {
		return Reconciliation{}, err
	}

	rec := Reconciliation{Items: ids, Reported: reportedTotal}
	err = s.withBadgeLock(ctx, func(ctx context.Context) error {
		rec.Expected = 0
		for _, groupID := range ids.Groups {
			paid, err := s.markGroupPaidTx(ctx, groupID)
			if err != nil {
				return err
			}
			rec.Expected += paid
		}
		for _, attendeeID := range ids.Attendees {
			paid, err := s.markAttendeePaidTx(ctx, attendeeID)
			if err != nil {
				return err
			}
			rec.Expected += paid
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return Reconciliation{}, err
	}

	rec.Mismatch = math.Abs(float64(rec.Expected)-reportedTotal) > 0.005
	if s.metrics != nil {
		s.metrics.AddPaymentsCollected(rec.Expected)
		if rec.Mismatch {
			s.metrics.IncPaymentMismatches()
		}
	}
	if rec.Mismatch {
		s.logger.WarnContext(ctx, "payment amount does not match",
			"items", itemIDs,
			"expected", rec.Expected,
			"reported", reportedTotal,
		)
	} else {
		s.logger.InfoContext(ctx, "payment marked", "items", itemIDs, "amount", rec.Expected)
	}
	return rec, nil
}
