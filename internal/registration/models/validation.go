package models

import (
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/validation"
)

// Validate checks field formats and lengths.
func (a *Attendee) Validate() error {
	if err := validation.Struct(a); err != nil {
		return err
	}
	return CheckAge(a)
}

// CheckAge rejects attendees who have not picked an age bracket.
func CheckAge(a *Attendee) error {
	if a.AgeGroup == AgeUnknown {
		return dErrors.New(dErrors.CodeValidation, "You must select an age category")
	}
	return nil
}

func (g *Group) Validate() error {
	return validation.Struct(g)
}
