package models

import (
	"time"

	trackingmodels "ubersystem/internal/tracking/models"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
)

// GroupModel is the tracking model name of groups.
const GroupModel = "Group"

// badgesPerTable is how many dealer badges one table covers.
const badgesPerTable = 3

// Group is a block of badges bought together, usually a dealer.
// When AutoRecalc is set AmountOwed is recomputed from the members on every
// save.
type Group struct {
	ID          id.GroupID `json:"id"`
	Name        string     `json:"name" validate:"required,max=50"`
	Tables      int        `json:"tables" validate:"gte=0"`
	Address     string     `json:"address" validate:"max=255"`
	Website     string     `json:"website" validate:"omitempty,max=255"`
	Wares       string     `json:"wares"`
	Description string     `json:"description" validate:"max=255"`
	AdminNotes  string     `json:"admin_notes"`
	AmountPaid  int        `json:"amount_paid" validate:"gte=0"`
	AmountOwed  int        `json:"amount_owed" validate:"gte=0"`
	Approved    bool       `json:"approved"`
	AutoRecalc  bool       `json:"auto_recalc"`
	Registered  time.Time  `json:"registered"`
}

func (g *Group) Clone() *Group {
	c := *g
	return &c
}

func (g *Group) AmountUnpaid() int { return g.AmountOwed - g.AmountPaid }

func (g *Group) String() string { return g.Name }

func (g *Group) TrackingModel() string { return GroupModel }
func (g *Group) TrackingID() int64     { return int64(g.ID) }

func (g *Group) TrackedFields() []trackingmodels.Field {
	return []trackingmodels.Field{
		{Name: "name", Value: g.Name},
		{Name: "tables", Value: g.Tables},
		{Name: "address", Value: g.Address},
		{Name: "website", Value: g.Website},
		{Name: "wares", Value: g.Wares},
		{Name: "description", Value: g.Description},
		{Name: "admin_notes", Value: g.AdminNotes},
		{Name: "amount_paid", Value: g.AmountPaid},
		{Name: "amount_owed", Value: g.AmountOwed},
		{Name: "approved", Value: g.Approved},
		{Name: "auto_recalc", Value: g.AutoRecalc},
		{Name: "registered", Value: g.Registered},
	}
}

// GroupRoster is a group together with its current members, ordered by id.
type GroupRoster struct {
	Group   *Group
	Members []*Attendee
}

// Leader is the first member with an email address, falling back to the
// last member when nobody has one. Nil for an empty group.
func (r GroupRoster) Leader() *Attendee {
	var leader *Attendee
	for _, a := range r.Members {
		leader = a
		if a.Email != "" {
			break
		}
	}
	return leader
}

func (r GroupRoster) Badges() int { return len(r.Members) }

// BadgesPurchased counts the members the group pays for.
func (r GroupRoster) BadgesPurchased() int {
	n := 0
	for _, a := range r.Members {
		if a.Paid == PaidByGroup {
			n++
		}
	}
	return n
}

// UnregisteredBadges counts members nobody has claimed yet.
func (r GroupRoster) UnregisteredBadges() int {
	n := 0
	for _, a := range r.Members {
		if a.IsUnassigned() {
			n++
		}
	}
	return n
}

// CheckTables rejects dealer groups with fewer than one table per three
// dealer badges.
func (r GroupRoster) CheckTables() error {
	dealers := 0
	for _, a := range r.Members {
		if a.IsDealer() {
			dealers++
		}
	}
	if r.Group.Tables < dealers/badgesPerTable {
		return dErrors.New(dErrors.CodeValidation, "You must get 1 table per 3 badges")
	}
	return nil
}
