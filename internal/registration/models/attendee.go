package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	trackingmodels "ubersystem/internal/tracking/models"
	id "ubersystem/pkg/domain"
)

// AttendeeModel is the tracking model name of attendees.
const AttendeeModel = "Attendee"

// Attendee is one badge holder, paid or not.
//
// Invariants (enforced by the registration service on save):
//   - BadgeNum is 0 while Paid is NotPaid
//   - BadgeNum is unique per BadgeType and lies in the type's range
//   - Staffing is false for under-18 attendees without a staff badge or volunteer ribbon
//   - RequestedDepts and AssignedDepts are empty unless Staffing
type Attendee struct {
	ID            id.AttendeeID `json:"id"`
	GroupID       id.GroupID    `json:"group_id,omitempty"`
	Placeholder   bool          `json:"placeholder"`
	FirstName     string        `json:"first_name" validate:"required_unless=Placeholder true,max=25"`
	LastName      string        `json:"last_name" validate:"required_unless=Placeholder true,max=25"`
	International bool          `json:"international"`
	ZipCode       string        `json:"zip_code" validate:"max=20"`
	EcPhone       string        `json:"ec_phone" validate:"max=20"`
	Phone         string        `json:"phone" validate:"max=20"`
	Email         string        `json:"email" validate:"omitempty,email,max=50"`
	AgeGroup      AgeGroup      `json:"age_group"`

	Interests  InterestSet `json:"interests"`
	FoundHow   string      `json:"found_how" validate:"max=100"`
	Comments   string      `json:"comments" validate:"max=255"`
	AdminNotes string      `json:"admin_notes"`

	BadgeNum         int       `json:"badge_num" validate:"gte=0"`
	BadgeType        BadgeType `json:"badge_type"`
	Ribbon           Ribbon    `json:"ribbon"`
	Affiliate        string    `json:"affiliate" validate:"max=50"`
	CanSpam          bool      `json:"can_spam"`
	RegdeskInfo      string    `json:"regdesk_info" validate:"max=255"`
	ExtraMerch       string    `json:"extra_merch" validate:"max=255"`
	GotMerch         bool      `json:"got_merch"`
	BadgePrintedName string    `json:"badge_printed_name" validate:"max=30"`

	Registered time.Time  `json:"registered"`
	CheckedIn  *time.Time `json:"checked_in,omitempty"`

	Paid           PaidStatus `json:"paid"`
	AmountPaid     int        `json:"amount_paid" validate:"gte=0"`
	AmountRefunded int        `json:"amount_refunded" validate:"gte=0"`

	Staffing       bool    `json:"staffing"`
	RequestedDepts DeptSet `json:"requested_depts"`
	AssignedDepts  DeptSet `json:"assigned_depts"`
	Trusted        bool    `json:"trusted"`
	NonshiftHours  int     `json:"nonshift_hours" validate:"gte=0"`
}

// Clone returns a copy that shares no mutable state with a.
func (a *Attendee) Clone() *Attendee {
	c := *a
	if a.CheckedIn != nil {
		t := *a.CheckedIn
		c.CheckedIn = &t
	}
	return &c
}

func (a *Attendee) IsUnassigned() bool { return a.FirstName == "" }

func (a *Attendee) IsDealer() bool { return a.Ribbon == DealerRibbon }

func (a *Attendee) InGroup() bool { return !a.GroupID.IsNil() }

// BadgeLabel describes the badge the way the regdesk reads it out, for
// example "Unpaid Attendee", "Staff #12" or "Attendee (Volunteer)".
func (a *Attendee) BadgeLabel() string {
	var label string
	switch {
	case a.Paid == NotPaid:
		label = "Unpaid " + a.BadgeType.String()
	case a.BadgeNum != 0:
		label = a.BadgeType.String() + " #" + strconv.Itoa(a.BadgeNum)
	default:
		label = a.BadgeType.String()
	}
	if a.Ribbon != NoRibbon {
		label += " (" + a.Ribbon.String() + ")"
	}
	return label
}

func (a *Attendee) FullName() string {
	if a.InGroup() && a.IsUnassigned() {
		return "[Unassigned " + a.BadgeLabel() + "]"
	}
	return a.FirstName + " " + a.LastName
}

func (a *Attendee) LastFirst() string {
	if a.InGroup() && a.IsUnassigned() {
		return "[Unassigned " + a.BadgeLabel() + "]"
	}
	return a.LastName + ", " + a.FirstName
}

// String is the tracking representation.
func (a *Attendee) String() string { return a.FullName() }

// PaymentDeadline is the end of the fourteenth day after registration.
func (a *Attendee) PaymentDeadline() time.Time {
	d := a.Registered.AddDate(0, 0, 14)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 0, 0, d.Location())
}

// Merch lists what the attendee picks up at the merch booth.
func (a *Attendee) Merch() string {
	var merch []string
	if a.BadgeType == SupporterBadge {
		merch = append(merch, "a tshirt", "a supporter pack", "a $10 M-Point coin")
	}
	if a.ExtraMerch != "" {
		merch = append(merch, a.ExtraMerch)
	}
	return commaAnd(merch)
}

// Accoutrements lists what regdesk hands over with the badge.
func (a *Attendee) Accoutrements() string {
	var stuff []string
	if a.Ribbon != NoRibbon {
		stuff = append(stuff, "a "+a.Ribbon.String()+" ribbon")
	}
	stuff = append(stuff, fmt.Sprintf("a %s wristband", a.AgeGroup.Wristband()))
	if a.RegdeskInfo != "" {
		stuff = append(stuff, a.RegdeskInfo)
	}
	return commaAnd(stuff)
}

// TakesShifts reports whether the attendee is expected to sign up for
// shifts. Department heads and people only assigned to unshifted departments
// are not.
func (a *Attendee) TakesShifts() bool {
	return a.Staffing &&
		!a.Placeholder &&
		a.Ribbon != DeptHeadRibbon &&
		!a.AssignedDepts.Without(UnshiftedDepts...).IsEmpty()
}

func commaAnd(xs []string) string {
	switch len(xs) {
	case 0:
		return ""
	case 1:
		return xs[0]
	case 2:
		return xs[0] + " and " + xs[1]
	}
	return strings.Join(xs[:len(xs)-1], ", ") + ", and " + xs[len(xs)-1]
}

func (a *Attendee) TrackingModel() string { return AttendeeModel }
func (a *Attendee) TrackingID() int64     { return int64(a.ID) }

func (a *Attendee) TrackedFields() []trackingmodels.Field {
	var group any
	if a.InGroup() {
		group = int64(a.GroupID)
	}
	return []trackingmodels.Field{
		{Name: "group_id", Value: group},
		{Name: "placeholder", Value: a.Placeholder},
		{Name: "first_name", Value: a.FirstName},
		{Name: "last_name", Value: a.LastName},
		{Name: "international", Value: a.International},
		{Name: "zip_code", Value: a.ZipCode},
		{Name: "ec_phone", Value: a.EcPhone},
		{Name: "phone", Value: a.Phone},
		{Name: "email", Value: a.Email},
		{Name: "age_group", Value: a.AgeGroup},
		{Name: "interests", Value: a.Interests},
		{Name: "found_how", Value: a.FoundHow},
		{Name: "comments", Value: a.Comments},
		{Name: "admin_notes", Value: a.AdminNotes},
		{Name: "badge_num", Value: a.BadgeNum},
		{Name: "badge_type", Value: a.BadgeType},
		{Name: "ribbon", Value: a.Ribbon},
		{Name: "affiliate", Value: a.Affiliate},
		{Name: "can_spam", Value: a.CanSpam},
		{Name: "regdesk_info", Value: a.RegdeskInfo},
		{Name: "extra_merch", Value: a.ExtraMerch},
		{Name: "got_merch", Value: a.GotMerch},
		{Name: "badge_printed_name", Value: a.BadgePrintedName},
		{Name: "registered", Value: a.Registered},
		{Name: "checked_in", Value: a.CheckedIn},
		{Name: "paid", Value: a.Paid},
		{Name: "amount_paid", Value: a.AmountPaid},
		{Name: "amount_refunded", Value: a.AmountRefunded},
		{Name: "staffing", Value: a.Staffing},
		{Name: "requested_depts", Value: a.RequestedDepts},
		{Name: "assigned_depts", Value: a.AssignedDepts},
		{Name: "trusted", Value: a.Trusted},
		{Name: "nonshift_hours", Value: a.NonshiftHours},
	}
}
