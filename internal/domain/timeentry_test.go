package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeEntry_Close_FloorsToWholeMinutes(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"under a minute rounds to zero", 59 * time.Second, 0},
		{"exactly one minute", time.Minute, 1},
		{"partial minute is dropped", 5*time.Minute + 59*time.Second, 5},
		{"long run", 2*time.Hour + 30*time.Minute + 1*time.Second, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &TimeEntry{ID: "e1", StartTime: start}
			got := e.Close(start.Add(tt.elapsed))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, e.DurationMinutes)
			require.NotNil(t, e.EndTime)
			assert.False(t, e.Running())
		})
	}
}

func TestTimeEntry_Close_ClockSkewClampsToZero(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	e := &TimeEntry{ID: "e1", StartTime: start}

	got := e.Close(start.Add(-10 * time.Minute))
	assert.Equal(t, 0, got, "an end before the start must never credit negative minutes")
}

func TestTimeEntry_Running(t *testing.T) {
	e := &TimeEntry{ID: "e1", StartTime: time.Now()}
	assert.True(t, e.Running())

	e.Close(time.Now())
	assert.False(t, e.Running())
}
