package timer

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ddctimer/internal/core/model"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTimer(t *testing.T) (*Timer, *clockwork.FakeClock) {
	t.Helper()
	fakeClock := clockwork.NewFakeClock()
	keeper := New(model.DefaultTimerConfig(), Options{Clock: fakeClock})
	t.Cleanup(keeper.Close)
	return keeper, fakeClock
}

// recorder collects every snapshot a timer emits.
type recorder struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (rec *recorder) listen(snapshot Snapshot) {
	rec.mu.Lock()
	rec.snapshots = append(rec.snapshots, snapshot)
	rec.mu.Unlock()
}

func (rec *recorder) count(action Action) int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	total := 0
	for _, snapshot := range rec.snapshots {
		if snapshot.Action == action {
			total++
		}
	}
	return total
}

func (rec *recorder) all() []Snapshot {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]Snapshot(nil), rec.snapshots...)
}

func TestNewUsesDefaultDuration(t *testing.T) {
	keeper, _ := newTestTimer(t)
	snapshot := keeper.Snapshot()

	assert.Equal(t, 720, snapshot.Remaining)
	assert.Equal(t, 720, snapshot.Total)
	assert.False(t, snapshot.Running)
	assert.False(t, snapshot.Ended())
	assert.True(t, snapshot.SoundEnabled)
	assert.Equal(t, StateIdle, snapshot.State())
	assert.Equal(t, "12:00", snapshot.Display())
	assert.Equal(t, 1.0, snapshot.Progress())
	assert.Len(t, keeper.Session(), 8)
}

func TestCountdownToZero(t *testing.T) {
	keeper, _ := newTestTimer(t)
	keeper.Start()

	for i := 1; i < 720; i++ {
		keeper.Tick()
		snapshot := keeper.Snapshot()
		require.Equal(t, 720-i, snapshot.Remaining)
		require.True(t, snapshot.Running, "tick %d", i)
		require.False(t, snapshot.Ended(), "tick %d", i)
		require.False(t, snapshot.AlertFired, "tick %d", i)
	}

	keeper.Tick()
	snapshot := keeper.Snapshot()
	assert.Equal(t, 0, snapshot.Remaining)
	assert.False(t, snapshot.Running)
	assert.True(t, snapshot.Ended())
	assert.True(t, snapshot.AlertFired)
	assert.Equal(t, StateEnded, snapshot.State())
}

func TestTickNeverNegative(t *testing.T) {
	keeper, _ := newTestTimer(t)
	keeper.SetPreset(1)
	keeper.Start()
	for i := 0; i < 200; i++ {
		keeper.Tick()
	}
	assert.Equal(t, 0, keeper.Snapshot().Remaining)

	keeper.Start()
	keeper.Tick()
	assert.Equal(t, 0, keeper.Snapshot().Remaining)
}

func TestTickIgnoredWhenStopped(t *testing.T) {
	keeper, _ := newTestTimer(t)
	keeper.Tick()
	assert.Equal(t, 720, keeper.Snapshot().Remaining)

	keeper.Start()
	keeper.Tick()
	keeper.Pause()
	keeper.Tick()
	assert.Equal(t, 719, keeper.Snapshot().Remaining)
	assert.Equal(t, StatePaused, keeper.Snapshot().State())
}

func TestListenerNeverSeesRunningAtZero(t *testing.T) {
	keeper, _ := newTestTimer(t)
	rec := &recorder{}
	keeper.OnChange(rec.listen)

	keeper.SetPreset(1)
	keeper.Start()
	for i := 0; i < 60; i++ {
		keeper.Tick()
	}

	for _, snapshot := range rec.all() {
		if snapshot.Running && snapshot.Remaining == 0 {
			t.Fatalf("observed running snapshot at zero: %+v", snapshot)
		}
	}
	last := rec.all()[len(rec.all())-1]
	assert.Equal(t, ActionTick, last.Action)
	assert.True(t, last.AlertFired)
	assert.False(t, last.Running)
}

func TestAdjustByClampsAtZero(t *testing.T) {
	keeper, _ := newTestTimer(t)
	keeper.AdjustBy(-690)
	require.Equal(t, 30, keeper.Snapshot().Remaining)
	keeper.Start()

	keeper.AdjustBy(-60)
	snapshot := keeper.Snapshot()
	assert.Equal(t, 0, snapshot.Remaining)
	assert.False(t, snapshot.Running)
	assert.True(t, snapshot.Ended())
	assert.True(t, snapshot.AlertFired)
}

func TestAdjustByClampsAtCeiling(t *testing.T) {
	keeper, _ := newTestTimer(t)
	for i := 0; i < 200; i++ {
		keeper.AdjustBy(60)
	}
	snapshot := keeper.Snapshot()
	assert.Equal(t, 99*60, snapshot.Remaining)
	assert.Equal(t, 720, snapshot.Total)
	assert.Equal(t, 1.0, snapshot.Progress())
}

func TestAdjustByKeepsRunning(t *testing.T) {
	keeper, _ := newTestTimer(t)
	keeper.Start()
	keeper.AdjustBy(60)
	assert.True(t, keeper.Snapshot().Running)
	keeper.AdjustBy(-120)
	assert.True(t, keeper.Snapshot().Running)
	assert.Equal(t, 660, keeper.Snapshot().Remaining)
}

func TestSetPresetFromAnyState(t *testing.T) {
	keeper, _ := newTestTimer(t)

	keeper.Start()
	keeper.SetPreset(5)
	assertPreset(t, keeper.Snapshot(), 300)

	keeper.AdjustBy(-300)
	require.True(t, keeper.Snapshot().AlertFired)
	keeper.SetPreset(5)
	assertPreset(t, keeper.Snapshot(), 300)

	keeper.Start()
	keeper.Tick()
	keeper.Pause()
	keeper.SetPreset(5)
	assertPreset(t, keeper.Snapshot(), 300)
}

func assertPreset(t *testing.T, snapshot Snapshot, seconds int) {
	t.Helper()
	assert.Equal(t, seconds, snapshot.Total)
	assert.Equal(t, seconds, snapshot.Remaining)
	assert.False(t, snapshot.Running)
	assert.False(t, snapshot.Ended())
	assert.False(t, snapshot.AlertFired)
	assert.Equal(t, StateIdle, snapshot.State())
}

func TestSetPresetClampsMinutes(t *testing.T) {
	keeper, _ := newTestTimer(t)
	keeper.SetPreset(0)
	assert.Equal(t, 60, keeper.Snapshot().Total)
	keeper.SetPreset(-4)
	assert.Equal(t, 60, keeper.Snapshot().Total)
	keeper.SetPreset(500)
	assert.Equal(t, 99*60, keeper.Snapshot().Total)
}

func TestResetAfterEnded(t *testing.T) {
	keeper, _ := newTestTimer(t)
	keeper.SetPreset(3)
	keeper.Start()
	for i := 0; i < 180; i++ {
		keeper.Tick()
	}
	require.True(t, keeper.Snapshot().Ended())

	keeper.Reset()
	snapshot := keeper.Snapshot()
	assert.Equal(t, 180, snapshot.Remaining)
	assert.Equal(t, snapshot.Total, snapshot.Remaining)
	assert.False(t, snapshot.Ended())
	assert.False(t, snapshot.AlertFired)
	assert.False(t, snapshot.Running)
}

func TestStartAtZeroIsNoop(t *testing.T) {
	keeper, _ := newTestTimer(t)
	rec := &recorder{}
	keeper.AdjustBy(-720)
	keeper.OnChange(rec.listen)

	keeper.Start()
	keeper.ToggleRun()
	assert.False(t, keeper.Snapshot().Running)
	assert.Zero(t, rec.count(ActionStart))
}

func TestAlertFiresOncePerZeroCrossing(t *testing.T) {
	keeper, _ := newTestTimer(t)
	edges := 0
	fired := false
	keeper.OnChange(func(snapshot Snapshot) {
		if snapshot.AlertFired && !fired {
			edges++
		}
		fired = snapshot.AlertFired
	})

	keeper.SetPreset(1)
	keeper.Start()
	for i := 0; i < 90; i++ {
		keeper.Tick()
	}
	keeper.SetLabel("sitting at zero")
	keeper.ToggleSound()
	require.Equal(t, 1, edges)

	keeper.AdjustBy(60)
	require.False(t, keeper.Snapshot().AlertFired)
	keeper.Start()
	for i := 0; i < 60; i++ {
		keeper.Tick()
	}
	assert.Equal(t, 2, edges)
}

func TestScheduledTicksCountDown(t *testing.T) {
	keeper, fakeClock := newTestTimer(t)
	keeper.Start()

	for i := 1; i <= 3; i++ {
		fakeClock.Advance(time.Second)
		want := 720 - i
		require.Eventually(t, func() bool {
			return keeper.Snapshot().Remaining == want
		}, time.Second, time.Millisecond)
	}
}

func TestToggleRunTwiceKeepsSingleScheduler(t *testing.T) {
	keeper, fakeClock := newTestTimer(t)
	var ticks atomic.Int32
	keeper.OnChange(func(snapshot Snapshot) {
		if snapshot.Action == ActionTick {
			ticks.Add(1)
		}
	})

	keeper.Start()
	keeper.ToggleRun()
	keeper.ToggleRun()
	require.True(t, keeper.Snapshot().Running)

	for second := int32(1); second <= 3; second++ {
		fakeClock.Advance(time.Second)
		require.Eventually(t, func() bool {
			return ticks.Load() == second
		}, time.Second, time.Millisecond)
		assert.Never(t, func() bool {
			return ticks.Load() > second
		}, 20*time.Millisecond, time.Millisecond)
	}
	assert.Equal(t, 717, keeper.Snapshot().Remaining)
}

func TestPauseStopsScheduledTicks(t *testing.T) {
	keeper, fakeClock := newTestTimer(t)
	keeper.Start()
	fakeClock.Advance(time.Second)
	require.Eventually(t, func() bool {
		return keeper.Snapshot().Remaining == 719
	}, time.Second, time.Millisecond)

	keeper.Pause()
	fakeClock.Advance(5 * time.Second)
	assert.Never(t, func() bool {
		return keeper.Snapshot().Remaining != 719
	}, 20*time.Millisecond, time.Millisecond)
}

func TestSubscribeDeliversLatest(t *testing.T) {
	keeper, _ := newTestTimer(t)
	events := keeper.Subscribe(1)

	initial := <-events
	assert.Equal(t, ActionInit, initial.Action)

	keeper.Start()
	keeper.Tick()
	keeper.Tick()

	latest := <-events
	assert.Equal(t, ActionTick, latest.Action)
	assert.Equal(t, 718, latest.Remaining)
}

func TestOnChangeRemove(t *testing.T) {
	keeper, _ := newTestTimer(t)
	rec := &recorder{}
	remove := keeper.OnChange(rec.listen)

	keeper.SetLabel("Round 1")
	remove()
	remove()
	keeper.SetLabel("Round 2")

	require.Len(t, rec.all(), 1)
	assert.Equal(t, "Round 1", rec.all()[0].Label)
}

func TestSettersEmitOnlyOnChange(t *testing.T) {
	keeper, _ := newTestTimer(t)
	rec := &recorder{}
	keeper.OnChange(rec.listen)

	keeper.SetSoundEnabled(true)
	keeper.SetLabel("")
	assert.Empty(t, rec.all())

	keeper.SetSoundEnabled(false)
	keeper.ToggleSound()
	assert.Equal(t, 2, rec.count(ActionSound))
	assert.True(t, keeper.Snapshot().SoundEnabled)
}

func TestCloseClosesSubscriptions(t *testing.T) {
	fakeClock := clockwork.NewFakeClock()
	keeper := New(model.DefaultTimerConfig(), Options{Clock: fakeClock})
	events := keeper.Subscribe(4)
	keeper.Start()
	keeper.Close()
	keeper.Close()

	var last Snapshot
	for snapshot := range events {
		last = snapshot
	}
	assert.Equal(t, ActionClose, last.Action)
	assert.False(t, last.Running)

	keeper.Start()
	keeper.AdjustBy(60)
	assert.Equal(t, 720, keeper.Snapshot().Remaining)

	_, open := <-keeper.Subscribe(1)
	assert.False(t, open)
}
