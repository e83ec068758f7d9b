// Package models defines administrator accounts and their access levels.
package models

import (
	"fmt"
	"strings"

	trackingmodels "ubersystem/internal/tracking/models"
	id "ubersystem/pkg/domain"
	"ubersystem/pkg/enumset"
	"ubersystem/pkg/validation"
)

const AccountModel = "Account"

// AccessLevel is one area of the admin site an account may use.
type AccessLevel int

const (
	AccessAccounts AccessLevel = iota + 1
	AccessPeople
	AccessStuff
	AccessMoney
	AccessChallenges
	AccessCheckins
)

var accessLevels = map[AccessLevel]struct{ key, label string }{
	AccessAccounts:   {"accounts", "Account Management"},
	AccessPeople:     {"people", "Registration and Staffing"},
	AccessStuff:      {"stuff", "Inventory and Scheduling"},
	AccessMoney:      {"money", "Budget"},
	AccessChallenges: {"challenges", "Challenges Only"},
	AccessCheckins:   {"checkins", "Checkins"},
}

func (a AccessLevel) String() string {
	if l, ok := accessLevels[a]; ok {
		return l.label
	}
	return fmt.Sprintf("Unknown(%d)", int(a))
}

func (a AccessLevel) MarshalText() ([]byte, error) {
	l, ok := accessLevels[a]
	if !ok {
		return nil, fmt.Errorf("unknown access level %d", int(a))
	}
	return []byte(l.key), nil
}

func (a *AccessLevel) UnmarshalText(text []byte) error {
	for v, l := range accessLevels {
		if l.key == strings.ToLower(string(text)) {
			*a = v
			return nil
		}
	}
	return fmt.Errorf("unknown access level %q", text)
}

type AccessSet = enumset.Set[AccessLevel]

// Account is an administrator login. HashedPassword is a bcrypt hash and
// never leaves the process.
type Account struct {
	ID             id.AccountID `json:"id"`
	Name           string       `json:"name" validate:"required,max=255"`
	Email          string       `json:"email" validate:"required,email,max=255"`
	HashedPassword string       `json:"-"`
	Access         AccessSet    `json:"access"`
}

func (a *Account) Clone() *Account {
	c := *a
	c.Access = enumset.Of(a.Access...)
	return &c
}

func (a *Account) Validate() error {
	return validation.Struct(a)
}

// HasAccess reports whether the account may use level.
func (a *Account) HasAccess(level AccessLevel) bool {
	return a.Access.Has(level)
}

func (a *Account) String() string { return a.Name }

func (a *Account) TrackingModel() string { return AccountModel }
func (a *Account) TrackingID() int64     { return int64(a.ID) }

// TrackedFields records that the password changed without recording the
// hash itself.
func (a *Account) TrackedFields() []trackingmodels.Field {
	return []trackingmodels.Field{
		{Name: "name", Value: a.Name},
		{Name: "email", Value: a.Email},
		{Name: "access", Value: a.Access},
		{Name: "password", Value: passwordMarker(a.HashedPassword)},
	}
}

// passwordMarker changes whenever the hash does, so a password change shows
// up in a diff as two opaque markers.
func passwordMarker(hash string) string {
	if len(hash) < 8 {
		return "<unset>"
	}
	return "<hash " + hash[len(hash)-6:] + ">"
}
