package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDateTime(t *testing.T) {
	ts := time.Date(2024, 1, 1, 10, 15, 0, 123456789, time.UTC)

	t.Run("format truncates to microseconds", func(t *testing.T) {
		assert.Equal(t, "01-01-2024__10:15:00:123456", FormatLocalDateTime(ts))
	})

	t.Run("round trip", func(t *testing.T) {
		parsed, err := ParseLocalDateTime(FormatLocalDateTime(ts))
		require.NoError(t, err)
		assert.True(t, parsed == NormalizeTime(ts))
	})

	t.Run("without fraction", func(t *testing.T) {
		parsed, err := ParseLocalDateTime("01-01-2024__10:15:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC), parsed)
	})

	t.Run("short fraction is scaled", func(t *testing.T) {
		parsed, err := ParseLocalDateTime("01-01-2024__10:15:00:5")
		require.NoError(t, err)
		assert.Equal(t, 500*time.Millisecond, time.Duration(parsed.Nanosecond()))
	})

	t.Run("rfc3339 is accepted", func(t *testing.T) {
		parsed, err := ParseLocalDateTime("2024-01-01T11:15:00+01:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC), parsed)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, raw := range []string{"", "yesterday", "01-01-2024__10:15:00.123", "01-01-2024__10:15:00:1234567"} {
			_, err := ParseLocalDateTime(raw)
			assert.ErrorIs(t, err, ErrInvalidInput, raw)
		}
	})

	t.Run("normalized instants compare equal", func(t *testing.T) {
		local := ts.In(time.FixedZone("CET", 3600))
		assert.True(t, NormalizeTime(local) == NormalizeTime(ts))
	})
}
