package alarm

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSetClockTimeRollsToTomorrow(t *testing.T) {
	now := time.Date(2026, 8, 30, 8, 0, 0, 0, time.Local)
	s := New(nil, nil)
	s.now = fixedClock(now)

	id, err := s.Set("07:30", "утро")
	require.NoError(t, err)

	active := s.Active()
	require.Len(t, active, 1)
	assert.Equal(t, id, active[0].ID)

	want := time.Date(2026, 8, 31, 7, 30, 0, 0, time.Local)
	assert.Equal(t, want, active[0].At, "07:30 has passed today, must fire tomorrow")
}

func TestSetClockTimeLaterToday(t *testing.T) {
	now := time.Date(2026, 8, 30, 8, 0, 0, 0, time.Local)
	s := New(nil, nil)
	s.now = fixedClock(now)

	_, err := s.Set("23:15", "вечер")
	require.NoError(t, err)

	active := s.Active()
	require.Len(t, active, 1)
	assert.Equal(t, time.Date(2026, 8, 30, 23, 15, 0, 0, time.Local), active[0].At)
}

func TestSetMinutes(t *testing.T) {
	now := time.Date(2026, 8, 30, 8, 0, 0, 0, time.Local)
	s := New(nil, nil)
	s.now = fixedClock(now)

	_, err := s.Set("10min", "")
	require.NoError(t, err)

	active := s.Active()
	require.Len(t, active, 1)
	assert.Equal(t, now.Add(10*time.Minute), active[0].At)
}

func TestSetInvalidSpecs(t *testing.T) {
	s := New(nil, nil)

	for _, spec := range []string{"0min", "-5min", "24:00", "7:75", "полдень", "", "min"} {
		_, err := s.Set(spec, "")
		assert.ErrorIs(t, err, ErrInvalidTimeSpec, "spec %q", spec)
	}
}

func TestSetAssignsDistinctIDs(t *testing.T) {
	s := New(nil, nil)
	s.now = fixedClock(time.Date(2026, 8, 30, 8, 0, 0, 0, time.Local))

	a, err := s.Set("07:30", "")
	require.NoError(t, err)
	b, err := s.Set("07:30", "")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "same spec twice must make two alarms")
	assert.Len(t, s.Active(), 2)
}

func TestActiveOrderedByID(t *testing.T) {
	s := New(nil, nil)
	s.now = fixedClock(time.Date(2026, 8, 30, 8, 0, 0, 0, time.Local))

	s.Set("12:00", "")
	s.Set("09:00", "")
	s.Set("10:00", "")

	active := s.Active()
	require.Len(t, active, 3)
	assert.Equal(t, []int{active[0].ID, active[1].ID, active[2].ID}, []int{1, 2, 3})
}

func TestFireInvokesNotify(t *testing.T) {
	fired := make(chan Alarm, 1)
	s := New(nil, func(a Alarm) { fired <- a })

	s.At(time.Now().Add(30*time.Millisecond), "чай")

	select {
	case a := <-fired:
		assert.Equal(t, "чай", a.Label)
		assert.Equal(t, Fired, a.State)
	case <-time.After(2 * time.Second):
		t.Fatal("alarm did not fire")
	}
	assert.Empty(t, s.Active(), "fired alarm must leave the active set")
}

func TestFirePastDeadlineFiresImmediately(t *testing.T) {
	fired := make(chan Alarm, 1)
	s := New(nil, func(a Alarm) { fired <- a })

	s.At(time.Now().Add(-time.Second), "просрочен")

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("past-deadline alarm must fire at once")
	}
}

func TestCancelPreventsFiring(t *testing.T) {
	var count atomic.Int32
	s := New(nil, func(Alarm) { count.Add(1) })

	id := s.At(time.Now().Add(60*time.Millisecond), "")
	s.Cancel(id)

	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, count.Load(), "cancelled alarm must not fire")
	assert.Empty(t, s.Active())
}

func TestCancelIsIdempotent(t *testing.T) {
	fired := make(chan Alarm, 1)
	s := New(nil, func(a Alarm) { fired <- a })

	id := s.At(time.Now().Add(20*time.Millisecond), "")
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("alarm did not fire")
	}

	// Cancelling after the fire, and cancelling twice, are no-ops.
	s.Cancel(id)
	s.Cancel(id)
	s.Cancel(999)
}
