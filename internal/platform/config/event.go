package config

import (
	"sync/atomic"
	"time"
)

// Prices is the badge price table in whole dollars.
type Prices struct {
	EarlyBadge     int
	LateBadge      int
	DoorBadge      int
	SupporterBadge int
	OneDayBadge    int
	EarlyGroup     int
	LateGroup      int
	DealerBadge    int
}

// EventState is the event-wide configuration the rules engine reads: the two
// pricing cutovers, the on-site flag and the price table. The core only ever
// reads it; administration flows replace it through an EventStateHolder.
type EventState struct {
	PriceBump time.Time
	Epoch     time.Time
	AtTheCon  bool
	Prices    Prices
}

// DefaultEventState returns the dates and prices used when nothing is
// configured.
func DefaultEventState() EventState {
	return EventState{
		PriceBump: time.Date(2014, time.December, 1, 0, 0, 0, 0, time.UTC),
		Epoch:     time.Date(2015, time.January, 1, 8, 0, 0, 0, time.UTC),
		Prices: Prices{
			EarlyBadge:     40,
			LateBadge:      50,
			DoorBadge:      60,
			SupporterBadge: 100,
			OneDayBadge:    35,
			EarlyGroup:     30,
			LateGroup:      40,
			DealerBadge:    20,
		},
	}
}

// Current lets a plain EventState act as its own source.
func (s EventState) Current() EventState {
	return s
}

// EventStateSource yields the state in effect for one operation.
type EventStateSource interface {
	Current() EventState
}

// EventStateHolder is a concurrency-safe EventStateSource that admin flows
// can swap, for example when flipping AtTheCon on the first morning.
type EventStateHolder struct {
	v atomic.Pointer[EventState]
}

func NewEventStateHolder(initial EventState) *EventStateHolder {
	h := &EventStateHolder{}
	h.Set(initial)
	return h
}

func (h *EventStateHolder) Current() EventState {
	return *h.v.Load()
}

func (h *EventStateHolder) Set(s EventState) {
	h.v.Store(&s)
}
