// Package domain holds the typed identifiers shared across modules. Every
// persisted entity is keyed by a positive database sequence value; the zero
// value means "not yet persisted".
package domain

import (
	"strconv"
	"strings"

	dErrors "ubersystem/pkg/domain-errors"
)

type (
	AccountID  int64
	GroupID    int64
	AttendeeID int64
	JobID      int64
	ShiftID    int64
	TrackingID int64
)

func (id AccountID) IsNil() bool  { return id == 0 }
func (id GroupID) IsNil() bool    { return id == 0 }
func (id AttendeeID) IsNil() bool { return id == 0 }
func (id JobID) IsNil() bool      { return id == 0 }
func (id ShiftID) IsNil() bool    { return id == 0 }
func (id TrackingID) IsNil() bool { return id == 0 }

func (id AccountID) String() string  { return strconv.FormatInt(int64(id), 10) }
func (id GroupID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id AttendeeID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id JobID) String() string      { return strconv.FormatInt(int64(id), 10) }
func (id ShiftID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id TrackingID) String() string { return strconv.FormatInt(int64(id), 10) }

func parsePositive(kind, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return n, nil
}

func ParseAccountID(s string) (AccountID, error) {
	n, err := parsePositive("account id", s)
	return AccountID(n), err
}

func ParseGroupID(s string) (GroupID, error) {
	n, err := parsePositive("group id", s)
	return GroupID(n), err
}

func ParseAttendeeID(s string) (AttendeeID, error) {
	n, err := parsePositive("attendee id", s)
	return AttendeeID(n), err
}

func ParseJobID(s string) (JobID, error) {
	n, err := parsePositive("job id", s)
	return JobID(n), err
}

func ParseShiftID(s string) (ShiftID, error) {
	n, err := parsePositive("shift id", s)
	return ShiftID(n), err
}
