package models

import (
	"fmt"

	"ubersystem/pkg/enumset"
)

// option is one row of an option table: the stored value, the wire key used
// in JSON, and the label shown to people.
type option[T ~int] struct {
	value T
	key   string
	label string
}

type optionTable[T ~int] []option[T]

func (t optionTable[T]) label(v T) string {
	for _, o := range t {
		if o.value == v {
			return o.label
		}
	}
	return fmt.Sprintf("Unknown(%d)", int(v))
}

func (t optionTable[T]) key(v T) (string, error) {
	for _, o := range t {
		if o.value == v {
			return o.key, nil
		}
	}
	return "", fmt.Errorf("unknown option value %d", int(v))
}

func (t optionTable[T]) parse(kind, s string) (T, error) {
	for _, o := range t {
		if o.key == s {
			return o.value, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

// BadgeType is the kind of badge an attendee holds.
type BadgeType int

const (
	AttendeeBadge BadgeType = iota
	SupporterBadge
	StaffBadge
	GuestBadge
	OneDayBadge
)

var badgeTypes = optionTable[BadgeType]{
	{AttendeeBadge, "attendee", "Attendee"},
	{SupporterBadge, "supporter", "Supporter"},
	{StaffBadge, "staff", "Staff"},
	{GuestBadge, "guest", "Guest"},
	{OneDayBadge, "one_day", "One Day"},
}

// PreassignedBadgeTypes get a printed number as soon as they are paid for,
// before the event goes on-site.
var PreassignedBadgeTypes = enumset.Of(SupporterBadge, StaffBadge, GuestBadge)

func (b BadgeType) String() string { return badgeTypes.label(b) }

func (b BadgeType) MarshalText() ([]byte, error) {
	k, err := badgeTypes.key(b)
	return []byte(k), err
}

func (b *BadgeType) UnmarshalText(text []byte) (err error) {
	*b, err = badgeTypes.parse("badge type", string(text))
	return err
}

// Ribbon is a secondary badge modifier.
type Ribbon int

const (
	NoRibbon Ribbon = iota
	VolunteerRibbon
	DeptHeadRibbon
	PressRibbon
	BandRibbon
	DealerRibbon
	PanelistRibbon
)

var ribbons = optionTable[Ribbon]{
	{NoRibbon, "none", "no ribbon"},
	{VolunteerRibbon, "volunteer", "Volunteer"},
	{DeptHeadRibbon, "dept_head", "Department Head"},
	{PressRibbon, "press", "Press"},
	{BandRibbon, "band", "Band"},
	{DealerRibbon, "dealer", "Shopkeep"},
	{PanelistRibbon, "panelist", "Panelist"},
}

func (r Ribbon) String() string { return ribbons.label(r) }

func (r Ribbon) MarshalText() ([]byte, error) {
	k, err := ribbons.key(r)
	return []byte(k), err
}

func (r *Ribbon) UnmarshalText(text []byte) (err error) {
	*r, err = ribbons.parse("ribbon", string(text))
	return err
}

// AgeGroup is the self-reported age bracket.
type AgeGroup int

const (
	AgeUnknown AgeGroup = iota
	Under18
	Between18And21
	Over21
)

var ageGroups = optionTable[AgeGroup]{
	{AgeUnknown, "unknown", "How old are you?"},
	{Under18, "under_18", "under 18"},
	{Between18And21, "18_to_21", "18, 19, or 20"},
	{Over21, "over_21", "21 or over"},
}

var wristbandColors = map[AgeGroup]string{
	AgeUnknown:     "white",
	Under18:        "red",
	Between18And21: "blue",
	Over21:         "green",
}

func (a AgeGroup) String() string { return ageGroups.label(a) }

// Wristband is the colour handed out at check-in.
func (a AgeGroup) Wristband() string { return wristbandColors[a] }

func (a AgeGroup) MarshalText() ([]byte, error) {
	k, err := ageGroups.key(a)
	return []byte(k), err
}

func (a *AgeGroup) UnmarshalText(text []byte) (err error) {
	*a, err = ageGroups.parse("age group", string(text))
	return err
}

// PaidStatus is where an attendee stands with payment.
type PaidStatus int

const (
	NotPaid PaidStatus = iota
	HasPaid
	NeedNotPay
	Refunded
	PaidByGroup
)

var paidStatuses = optionTable[PaidStatus]{
	{NotPaid, "not_paid", "no"},
	{HasPaid, "has_paid", "yes"},
	{NeedNotPay, "need_not_pay", "doesn't need to"},
	{Refunded, "refunded", "paid and refunded"},
	{PaidByGroup, "paid_by_group", "paid by group"},
}

func (p PaidStatus) String() string { return paidStatuses.label(p) }

func (p PaidStatus) MarshalText() ([]byte, error) {
	k, err := paidStatuses.key(p)
	return []byte(k), err
}

func (p *PaidStatus) UnmarshalText(text []byte) (err error) {
	*p, err = paidStatuses.parse("paid status", string(text))
	return err
}

// Dept is a staffing department; it doubles as a job location.
type Dept int

const (
	Arcade Dept = iota + 1
	Challenges
	Concert
	Console
	Chipspace
	Jamspace
	LAN
	Marketplace
	Merch
	Panels
	Regdesk
	Security
	StaffingOps
	Stops
	Tabletop
	TechOps
)

var depts = optionTable[Dept]{
	{Arcade, "arcade", "Arcade"},
	{Challenges, "challenges", "Challenges"},
	{Concert, "concert", "Concert"},
	{Console, "console", "Consoles"},
	{Chipspace, "chipspace", "Chipspace"},
	{Jamspace, "jamspace", "Jam Space"},
	{LAN, "lan", "LAN"},
	{Marketplace, "marketplace", "Marketplace"},
	{Merch, "merch", "Merchandise"},
	{Panels, "panels", "Panels"},
	{Regdesk, "regdesk", "Registration"},
	{Security, "security", "Security"},
	{StaffingOps, "staffing", "Staffing Ops"},
	{Stops, "stops", "Staff Ops"},
	{Tabletop, "tabletop", "Tabletop"},
	{TechOps, "tech_ops", "Tech Ops"},
}

// UnshiftedDepts never generate shifts for the people assigned to them.
var UnshiftedDepts = []Dept{Concert, Marketplace}

func (d Dept) String() string { return depts.label(d) }

func (d Dept) MarshalText() ([]byte, error) {
	k, err := depts.key(d)
	return []byte(k), err
}

func (d *Dept) UnmarshalText(text []byte) (err error) {
	*d, err = depts.parse("department", string(text))
	return err
}

// DeptSet is a set of departments (requested or assigned).
type DeptSet = enumset.Set[Dept]

// Interest is an event area an attendee ticked at registration.
type Interest int

const (
	ConsoleInterest Interest = iota + 1
	ArcadeInterest
	MusicInterest
	PanelsInterest
	TabletopInterest
	MarketplaceInterest
	LANInterest
)

var interests = optionTable[Interest]{
	{ConsoleInterest, "console", "Consoles"},
	{ArcadeInterest, "arcade", "Arcade"},
	{MusicInterest, "music", "Music"},
	{PanelsInterest, "panels", "Guests/Panels"},
	{TabletopInterest, "tabletop", "Tabletop games"},
	{MarketplaceInterest, "marketplace", "Dealers"},
	{LANInterest, "lan", "LAN"},
}

func (i Interest) String() string { return interests.label(i) }

func (i Interest) MarshalText() ([]byte, error) {
	k, err := interests.key(i)
	return []byte(k), err
}

func (i *Interest) UnmarshalText(text []byte) (err error) {
	*i, err = interests.parse("interest", string(text))
	return err
}

type InterestSet = enumset.Set[Interest]
