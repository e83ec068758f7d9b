// Package enumset stores a set of small integer enum values. It replaces the
// comma-separated integer columns of older schemas: values are kept sorted and
// unique, serialize as a JSON array of the enum's own encoding, and persist as
// a Postgres integer[].
package enumset

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Enum is an integer-backed option value with a display label.
type Enum interface {
	~int
	String() string
}

// Set is an immutable sorted set. Mutating methods return a new Set, so
// copies never alias.
type Set[T Enum] []T

// Of builds a set from values, dropping duplicates.
func Of[T Enum](values ...T) Set[T] {
	out := slices.Clone(values)
	slices.Sort(out)
	return Set[T](slices.Compact(out))
}

func (s Set[T]) Has(v T) bool {
	_, ok := slices.BinarySearch(s, v)
	return ok
}

func (s Set[T]) Len() int { return len(s) }

func (s Set[T]) IsEmpty() bool { return len(s) == 0 }

// With returns s plus v.
func (s Set[T]) With(v T) Set[T] {
	if s.Has(v) {
		return s
	}
	return Of(append(slices.Clone(s), v)...)
}

// Without returns s minus the given values.
func (s Set[T]) Without(values ...T) Set[T] {
	out := make(Set[T], 0, len(s))
	for _, v := range s {
		if !slices.Contains(values, v) {
			out = append(out, v)
		}
	}
	return out
}

// Intersects reports whether s and other share a value.
func (s Set[T]) Intersects(other Set[T]) bool {
	for _, v := range other {
		if s.Has(v) {
			return true
		}
	}
	return false
}

func (s Set[T]) Equal(other Set[T]) bool {
	return slices.Equal(s, other)
}

// String joins the display labels, e.g. "Arcade, Console".
func (s Set[T]) String() string {
	labels := make([]string, len(s))
	for i, v := range s {
		labels[i] = v.String()
	}
	return strings.Join(labels, ", ")
}

// Ints returns the raw values.
func (s Set[T]) Ints() []int64 {
	out := make([]int64, len(s))
	for i, v := range s {
		out[i] = int64(v)
	}
	return out
}

// FromInts builds a set from raw values.
func FromInts[T Enum](values []int64) Set[T] {
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = T(v)
	}
	return Of(out...)
}

// Parse reads the legacy comma-separated form, e.g. "3,1,7".
func Parse[T Enum](s string) (Set[T], error) {
	var out []T
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid set member %q", part)
		}
		out = append(out, T(n))
	}
	return Of(out...), nil
}

// Legacy renders the comma-separated form.
func (s Set[T]) Legacy() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, ",")
}

// MarshalJSON encodes each member with its own JSON encoding.
func (s Set[T]) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]T(s))
}

func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = Of(values...)
	return nil
}

// Value stores the set as an integer array.
func (s Set[T]) Value() (driver.Value, error) {
	return pq.Int64Array(s.Ints()).Value()
}

func (s *Set[T]) Scan(src any) error {
	var raw pq.Int64Array
	if err := raw.Scan(src); err != nil {
		return fmt.Errorf("scan enum set: %w", err)
	}
	*s = FromInts[T](raw)
	return nil
}
