package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in   string
		want Interval
	}{
		{"5m", Interval5m},
		{" 1h ", Interval1h},
		{"1H", Interval1h},
		{"4h", Interval4h},
		{"1D", Interval1d},
		{"1M", Interval1M},
		{"60", Interval1h},
		{"240", Interval4h},
		{"D", Interval1d},
		{"W", Interval1w},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterval(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIntervalRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "7m", "2d", "hourly"} {
		_, err := ParseInterval(in)
		assert.Error(t, err, in)
	}
}

func TestIntervalDuration(t *testing.T) {
	assert.Equal(t, 15*time.Minute, Interval15m.Duration())
	assert.Equal(t, 24*time.Hour, Interval1d.Duration())
	assert.Zero(t, Interval("bogus").Duration())

	prev := time.Duration(0)
	for _, iv := range Intervals() {
		assert.Greater(t, iv.Duration(), prev, iv)
		prev = iv.Duration()
	}
}
