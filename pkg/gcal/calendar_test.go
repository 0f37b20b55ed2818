package gcal

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"

	"taskcheck/pkg/interval"
)

func TestEventIntervalTimedEvent(t *testing.T) {
	e := &calendar.Event{
		Id:    "e1",
		Start: &calendar.EventDateTime{DateTime: "2026-01-05T10:00:00Z"},
		End:   &calendar.EventDateTime{DateTime: "2026-01-05T11:30:00Z"},
	}
	iv, ok, err := EventInterval(e, false, time.UTC)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC), iv.Start)
	assert.Equal(t, 90*time.Minute, iv.Duration())
}

func TestEventIntervalAllDay(t *testing.T) {
	e := &calendar.Event{
		Id:    "e2",
		Start: &calendar.EventDateTime{Date: "2026-01-05"},
		End:   &calendar.EventDateTime{Date: "2026-01-06"},
	}

	_, ok, err := EventInterval(e, false, time.UTC)
	require.NoError(t, err)
	assert.False(t, ok, "all-day events are ignored unless configured to block")

	iv, ok, err := EventInterval(e, true, time.UTC)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), iv.Start)
	assert.Equal(t, 24*time.Hour, iv.Duration())
}

func TestEventIntervalSkipsNonBlocking(t *testing.T) {
	cases := []*calendar.Event{
		{Status: "cancelled", Start: &calendar.EventDateTime{DateTime: "2026-01-05T10:00:00Z"}, End: &calendar.EventDateTime{DateTime: "2026-01-05T11:00:00Z"}},
		{Transparency: "transparent", Start: &calendar.EventDateTime{DateTime: "2026-01-05T10:00:00Z"}, End: &calendar.EventDateTime{DateTime: "2026-01-05T11:00:00Z"}},
		{Start: nil, End: nil},
	}
	for _, e := range cases {
		_, ok, err := EventInterval(e, true, time.UTC)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestEventIntervalBadTimestamp(t *testing.T) {
	e := &calendar.Event{
		Id:    "e3",
		Start: &calendar.EventDateTime{DateTime: "not-a-time"},
		End:   &calendar.EventDateTime{DateTime: "2026-01-05T11:00:00Z"},
	}
	_, _, err := EventInterval(e, false, time.UTC)
	assert.Error(t, err)
}

func TestCacheRoundTripAndExpiry(t *testing.T) {
	c := NewCacheAt(t.TempDir())
	blocks := interval.NewSet(interval.Interval{
		Start: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 5, 11, 0, 0, 0, time.UTC),
	})

	_, ok := c.Get("personal", time.Hour)
	assert.False(t, ok, "miss before first put")

	require.NoError(t, c.Put("personal", blocks))
	got, ok := c.Get("personal", time.Hour)
	require.True(t, ok)
	assert.Equal(t, blocks, got)

	// Age the file past the expiration window.
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(c.file("personal"), old, old))
	_, ok = c.Get("personal", time.Hour)
	assert.False(t, ok, "expired entries are misses")
}
