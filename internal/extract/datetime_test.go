package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-engine/internal/lexicon"
)

func TestDateTime(t *testing.T) {
	x := newTestExtractor()
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	oct1 := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		now  time.Time
		want string // LocalTimeLayout, "" for absent
	}{
		{"month name pm", "...let's meet Feb 10 3:00 PM...", jan1, "2025-02-10T15:00:00"},
		{"full month with prose between", "Your interview is on Tuesday, March 4th.\nWe will start at 10:30 am sharp.", jan1, "2025-03-04T10:30:00"},
		{"abbreviation with dot", "Sept. 9 - 9:05pm", jan1, "2025-09-09T21:05:00"},
		{"noon", "Feb 10 12:00 PM", jan1, "2025-02-10T12:00:00"},
		{"midnight", "Feb 10 12:15 am", jan1, "2025-02-10T00:15:00"},
		{"zero hour am", "Feb 10 0:30 am", jan1, "2025-02-10T00:30:00"},
		{"zero hour pm", "Feb 10 0:30 pm", jan1, ""},
		{"numeric date", "Confirmed for 2/14 at 1:45 p.m. Pacific", jan1, "2025-02-14T13:45:00"},
		{"month beats numeric", "3/3 notes. Then Apr 2 at 4:00 PM", jan1, "2025-04-02T16:00:00"},
		{"invalid day", "April 31 at 2:00 PM", jan1, ""},
		{"invalid numeric month", "13/2 at 2:00 PM", jan1, ""},
		{"hour out of range", "Feb 10 13:00 PM", jan1, ""},
		{"minute out of range", "Feb 10 3:75 PM", jan1, ""},
		{"date without time", "Interview scheduled for Feb 10", jan1, ""},
		{"time without date", "Let's talk at 3:00 PM", jan1, ""},
		{"older than window", "Mar 3 2:00 PM", oct1, ""},
		{"recent past is kept", "Sep 3 2:00 PM", oct1, "2025-09-03T14:00:00"},
		{"feb 29 in non-leap year", "Feb 29 10:00 am", jan1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := x.DateTime(tt.text, tt.now)
			if tt.want == "" {
				assert.False(t, ok)
				assert.True(t, got.IsZero())
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Format("2006-01-02T15:04:05"))
			assert.Equal(t, tt.now.Location(), got.Location())
		})
	}
}

func TestDateTimeWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	x := New(lexicon.Default(), 30*24*time.Hour)
	assert.Equal(t, 30*24*time.Hour, x.Window())

	_, ok := x.DateTime("Apr 1 9:00 am", now)
	assert.False(t, ok)

	got, ok := x.DateTime("May 15 9:00 am", now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 5, 15, 9, 0, 0, 0, time.UTC), got)
}

func TestDateTimeKeepsLocation(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, loc)
	got, ok := newTestExtractor().DateTime("Jan 20 9:30 AM", now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 20, 9, 30, 0, 0, loc), got)
}
