package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "ubersystem/pkg/domain-errors"
)

func TestParseAttendeeID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAttendeeID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects non-numeric", func(t *testing.T) {
		_, err := ParseAttendeeID("a12")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects zero and negatives", func(t *testing.T) {
		for _, in := range []string{"0", "-4"} {
			_, err := ParseAttendeeID(in)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), in)
		}
	})

	t.Run("accepts padded positive id", func(t *testing.T) {
		id, err := ParseAttendeeID(" 12 ")
		require.NoError(t, err)
		assert.Equal(t, AttendeeID(12), id)
		assert.Equal(t, "12", id.String())
	})
}

func TestNilIDs(t *testing.T) {
	assert.True(t, GroupID(0).IsNil())
	assert.False(t, JobID(3).IsNil())
}
