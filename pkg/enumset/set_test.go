package enumset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color int

const (
	red color = iota + 1
	green
	blue
)

func (c color) String() string {
	return [...]string{"", "Red", "Green", "Blue"}[c]
}

func TestOfSortsAndDeduplicates(t *testing.T) {
	s := Of(blue, red, blue)
	assert.Equal(t, Set[color]{red, blue}, s)
	assert.True(t, s.Has(red))
	assert.False(t, s.Has(green))
	assert.Equal(t, "Red, Blue", s.String())
}

func TestMutatorsDoNotAlias(t *testing.T) {
	base := Of(red, green)
	added := base.With(blue)
	removed := base.Without(red)

	assert.Equal(t, Set[color]{red, green}, base)
	assert.Equal(t, Set[color]{red, green, blue}, added)
	assert.Equal(t, Set[color]{green}, removed)
	assert.True(t, added.Intersects(removed))
	assert.False(t, Of(red).Intersects(removed))
}

func TestLegacyRoundTrip(t *testing.T) {
	s, err := Parse[color]("3, 1,,3")
	require.NoError(t, err)
	assert.Equal(t, Set[color]{red, blue}, s)
	assert.Equal(t, "1,3", s.Legacy())

	_, err = Parse[color]("1,x")
	assert.Error(t, err)
}

func TestJSON(t *testing.T) {
	var empty Set[color]
	out, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))

	var s Set[color]
	require.NoError(t, json.Unmarshal([]byte(`[3,1,3]`), &s))
	assert.Equal(t, Set[color]{red, blue}, s)
}

func TestSQLValueAndScan(t *testing.T) {
	v, err := Of(blue, red).Value()
	require.NoError(t, err)
	assert.Equal(t, "{1,3}", v)

	var s Set[color]
	require.NoError(t, s.Scan([]byte("{2,1}")))
	assert.Equal(t, Set[color]{red, green}, s)
}
