package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequests(t *testing.T) {
	t.Parallel()

	raw := []byte(`
- title: Top 10 RPGs
- title: Speedrunning 101
  summary: A beginner guide.
  scheduledFor: 2026-05-01
- title: Retro consoles
  scheduledFor: 2026-06-01T09:00:00Z
`)

	reqs, err := ParseRequests(raw, time.UTC)
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	assert.Nil(t, reqs[0].ScheduledFor)
	assert.Equal(t, "A beginner guide.", reqs[1].Summary)
	require.NotNil(t, reqs[1].ScheduledFor)
	assert.Equal(t, time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC), *reqs[1].ScheduledFor)
	assert.True(t, reqs[2].ScheduledFor.Equal(time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)))
}

func TestParseRequestsRejectsBadDate(t *testing.T) {
	t.Parallel()

	_, err := ParseRequests([]byte("- title: x\n  scheduledFor: next tuesday\n"), time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 1")
}

func TestTitlesToRequests(t *testing.T) {
	t.Parallel()

	reqs := TitlesToRequests([]string{"a", "b"})
	require.Len(t, reqs, 2)
	assert.Equal(t, "b", reqs[1].Title)
}

func TestParseDateIsNoonOnDaylightSavingDay(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	got, err := ParseDate("2026-03-29", loc)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Hour())
	assert.Equal(t, 29, got.Day())
}
