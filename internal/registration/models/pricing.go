package models

import "ubersystem/internal/platform/config"

const (
	firstTablePrice = 125
	extraTablePrice = 200
)

// Priceable is anything with a price under a given event state.
type Priceable interface {
	TotalCost(state config.EventState) int
}

// TotalCost prices a single badge. Supporter and one-day badges have flat
// prices; everything else depends on when the attendee registered.
func (a *Attendee) TotalCost(state config.EventState) int {
	p := state.Prices
	switch {
	case a.BadgeType == SupporterBadge:
		return p.SupporterBadge
	case a.BadgeType == OneDayBadge:
		return p.OneDayBadge
	case a.Registered.Before(state.PriceBump):
		return p.EarlyBadge
	case a.Registered.Before(state.Epoch):
		return p.LateBadge
	default:
		return p.DoorBadge
	}
}

// TableCost is the price of the group's dealer tables.
func (r GroupRoster) TableCost() int {
	return TableCost(r.Group.Tables)
}

func TableCost(tables int) int {
	if tables <= 0 {
		return 0
	}
	return firstTablePrice + extraTablePrice*(tables-1)
}

// BadgeCost sums the badges the group pays for. Group badges use the group
// price tiers and never the door price; a badge registered exactly at the
// price bump still gets the early group price.
func (r GroupRoster) BadgeCost(state config.EventState) int {
	p := state.Prices
	total := 0
	for _, a := range r.Members {
		if a.Paid != PaidByGroup {
			continue
		}
		switch {
		case a.IsDealer():
			total += p.DealerBadge
		case !a.Registered.After(state.PriceBump):
			total += p.EarlyGroup
		default:
			total += p.LateGroup
		}
	}
	return total
}

func (r GroupRoster) TotalCost(state config.EventState) int {
	return r.TableCost() + r.BadgeCost(state)
}

var (
	_ Priceable = (*Attendee)(nil)
	_ Priceable = GroupRoster{}
)
