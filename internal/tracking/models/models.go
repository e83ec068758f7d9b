package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	id "ubersystem/pkg/domain"
)

// ModelName is the model name of tracking rows themselves; they are never
// tracked.
const ModelName = "Tracking"

// Action is the kind of mutation a Tracking row records.
type Action int

const (
	ActionCreated Action = iota
	ActionUpdated
	ActionDeleted
)

func (a Action) String() string {
	switch a {
	case ActionCreated:
		return "created"
	case ActionUpdated:
		return "updated"
	case ActionDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// ParseAction accepts the lower-case names produced by String.
func ParseAction(s string) (Action, bool) {
	switch strings.ToLower(s) {
	case "created":
		return ActionCreated, true
	case "updated":
		return ActionUpdated, true
	case "deleted":
		return ActionDeleted, true
	}
	return 0, false
}

// Tracking is one immutable audit row.
type Tracking struct {
	ID     id.TrackingID
	When   time.Time
	Who    string
	Which  string
	Model  string
	FKID   int64
	Action Action
	Data   string
}

// Field is one named value of a trackable entity.
type Field struct {
	Name  string
	Value any
}

// Trackable is implemented by every entity whose mutations are audited.
// TrackedFields must return the same names in the same order on every call.
type Trackable interface {
	TrackingModel() string
	TrackingID() int64
	String() string
	TrackedFields() []Field
}

func (t *Tracking) TrackingModel() string { return ModelName }
func (t *Tracking) TrackingID() int64     { return int64(t.ID) }

func (t *Tracking) String() string {
	return fmt.Sprintf("%s %s %s #%d", t.Who, t.Action, t.Model, t.FKID)
}

func (t *Tracking) TrackedFields() []Field {
	return []Field{
		{"when", t.When},
		{"who", t.Who},
		{"which", t.Which},
		{"model", t.Model},
		{"fk_id", t.FKID},
		{"action", t.Action},
		{"data", t.Data},
	}
}

// Filter narrows a tracking query. Zero values match everything; Limit <= 0
// means no limit.
type Filter struct {
	Model   string
	FKID    int64
	AfterID id.TrackingID
	Limit   int
}

// FormatValue renders a field value the way it appears in diff strings.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if val.IsZero() {
			return "None"
		}
		// postgres keeps microseconds; finer digits would diff against a reload.
		return val.UTC().Truncate(time.Microsecond).Format(time.RFC3339Nano)
	case *time.Time:
		if val == nil {
			return "None"
		}
		return FormatValue(*val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
