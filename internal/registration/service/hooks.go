package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ubersystem/internal/platform/config"
	"ubersystem/internal/registration/models"
)

// SaveContext is what the hooks know about the save in progress.
type SaveContext struct {
	State    config.EventState
	IsNew    bool
	Now      time.Time
	Numberer BadgeNumberer
}

// Hook normalizes an attendee before it is written. Hooks run in order and
// each may rely on fields set by the ones before it.
type Hook interface {
	Name() string
	Apply(ctx context.Context, sc SaveContext, a *models.Attendee) error
}

type hookFunc struct {
	name  string
	apply func(ctx context.Context, sc SaveContext, a *models.Attendee) error
}

func (h hookFunc) Name() string { return h.name }

func (h hookFunc) Apply(ctx context.Context, sc SaveContext, a *models.Attendee) error {
	return h.apply(ctx, sc, a)
}

// pure wraps a hook that cannot fail.
func pure(name string, fn func(sc SaveContext, a *models.Attendee)) Hook {
	return hookFunc{name: name, apply: func(_ context.Context, sc SaveContext, a *models.Attendee) error {
		fn(sc, a)
		return nil
	}}
}

// AttendeeHooks returns the save pipeline in execution order. The badge
// number hook must run while the badge lock is held.
func AttendeeHooks() []Hook {
	return []Hook{
		pure("dept_head", deptHead),
		hookFunc{name: "badge_number", apply: badgeNumber},
		pure("affiliate", clearAffiliate),
		pure("volunteer_ribbon", volunteerRibbon),
		pure("staffing_eligibility", staffingEligibility),
		pure("departments", clearDepartments),
		pure("amounts", normalizeAmounts),
		pure("check_in", checkIn),
		pure("name_case", nameCase),
	}
}

func runHooks(ctx context.Context, hooks []Hook, sc SaveContext, a *models.Attendee) error {
	for _, h := range hooks {
		if err := h.Apply(ctx, sc, a); err != nil {
			return err
		}
	}
	return nil
}

// Department heads are staff who never pay.
func deptHead(_ SaveContext, a *models.Attendee) {
	if a.Ribbon != models.DeptHeadRibbon {
		return
	}
	a.BadgeType = models.StaffBadge
	a.Staffing = true
	a.Trusted = true
	if a.Paid == models.NotPaid {
		a.Paid = models.NeedNotPay
	}
}

// Unpaid badges never hold a number. Before the event, paid badges of the
// pre-assigned types get the next number of their type; on-site numbers are
// assigned at the desk.
func badgeNumber(ctx context.Context, sc SaveContext, a *models.Attendee) error {
	if a.Paid == models.NotPaid {
		a.BadgeNum = 0
		return nil
	}
	if sc.State.AtTheCon || a.BadgeNum != 0 || !models.PreassignedBadgeTypes.Has(a.BadgeType) {
		return nil
	}
	n, err := sc.Numberer.NextBadgeNum(ctx, a.BadgeType)
	if err != nil {
		return err
	}
	a.BadgeNum = n
	return nil
}

func clearAffiliate(_ SaveContext, a *models.Attendee) {
	if a.BadgeType != models.SupporterBadge {
		a.Affiliate = ""
	}
}

func volunteerRibbon(_ SaveContext, a *models.Attendee) {
	if a.Staffing && a.BadgeType == models.AttendeeBadge && a.Ribbon == models.NoRibbon {
		a.Ribbon = models.VolunteerRibbon
	}
}

func staffingEligibility(_ SaveContext, a *models.Attendee) {
	switch {
	case a.BadgeType == models.StaffBadge || a.Ribbon == models.VolunteerRibbon:
		a.Staffing = true
	case a.AgeGroup == models.Under18:
		a.Staffing = false
	}
}

func clearDepartments(_ SaveContext, a *models.Attendee) {
	if !a.Staffing {
		a.RequestedDepts = nil
		a.AssignedDepts = nil
	}
}

func normalizeAmounts(_ SaveContext, a *models.Attendee) {
	if a.Paid == models.NeedNotPay {
		a.AmountPaid = 0
	}
	if a.Paid != models.Refunded {
		a.AmountRefunded = 0
	}
}

// Numbered badges created on-site are handed over immediately.
func checkIn(sc SaveContext, a *models.Attendee) {
	if sc.State.AtTheCon && sc.IsNew && a.BadgeNum != 0 {
		now := sc.Now
		a.CheckedIn = &now
	}
}

func nameCase(_ SaveContext, a *models.Attendee) {
	a.FirstName = normalizeCase(a.FirstName)
	a.LastName = normalizeCase(a.LastName)
}

// normalizeCase title-cases names typed entirely in one case and leaves
// mixed-case names such as "McDonald" alone.
func normalizeCase(s string) string {
	upper, lower := strings.ToUpper(s), strings.ToLower(s)
	if upper == lower {
		return s
	}
	if s == upper || s == lower {
		// Casers are stateful, so one per call.
		return cases.Title(language.Und).String(s)
	}
	return s
}
