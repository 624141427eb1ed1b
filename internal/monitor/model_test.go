package monitor

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/ramsweep/internal/control"
	"github.com/lakshaymaurya-felt/ramsweep/internal/memory"
	"github.com/lakshaymaurya-felt/ramsweep/internal/process"
	"github.com/lakshaymaurya-felt/ramsweep/internal/reclaim"
)

const gib = uint64(1) << 30

type oneProcess struct{}

func (oneProcess) Enumerate(context.Context) iter.Seq[process.Descriptor] {
	return func(yield func(process.Descriptor) bool) {
		yield(process.Descriptor{PID: 100, Name: "chrome.exe"})
	}
}

type countingTrimmer struct{ n atomic.Int32 }

func (t *countingTrimmer) Trim(int32) reclaim.Outcome {
	t.n.Add(1)
	return reclaim.Outcome{Status: reclaim.StatusTrimmed}
}

func newTestController(t *testing.T, opts ...control.Option) (*control.Controller, *countingTrimmer) {
	t.Helper()
	trimmer := &countingTrimmer{}
	available := 3 * gib
	phys := func(context.Context) (memory.Physical, error) {
		return memory.Physical{Total: 16 * gib, Available: available, LoadPercent: 81}, nil
	}
	paging := func(context.Context) (memory.Paging, error) {
		return memory.Paging{Cached: gib, Committed: 8 * gib, CommitLimit: 24 * gib}, nil
	}
	engine := reclaim.NewEngine(oneProcess{}, nil,
		reclaim.WithTrimmer(trimmer),
		reclaim.WithElevated(false),
		reclaim.WithSelfPID(9999))

	base := []control.Option{
		control.WithEngine(engine),
		control.WithReader(memory.NewReader(memory.WithPhysicalSource(phys), memory.WithPagingSource(paging))),
	}
	return control.New(append(base, opts...)...), trimmer
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and feeds the resulting command's message back in.
func press(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, cmd := m.Update(key(s))
	m = next.(Model)
	if cmd != nil {
		next, _ = m.Update(cmd())
		m = next.(Model)
	}
	return m
}

func TestModelThresholdKeys(t *testing.T) {
	ctrl, _ := newTestController(t)
	m := NewModel(context.Background(), ctrl, nil, time.Second)
	require.False(t, m.Policy.ThresholdEnabled)

	m = press(t, m, "t")
	assert.True(t, m.Policy.ThresholdEnabled)
	assert.True(t, ctrl.Policy().ThresholdEnabled)

	m = press(t, m, "+")
	assert.Equal(t, 85, m.Policy.ThresholdPercent)

	for range 30 {
		m = press(t, m, "-")
	}
	assert.Equal(t, 1, m.Policy.ThresholdPercent)

	m = press(t, m, "t")
	assert.False(t, m.Policy.ThresholdEnabled)
}

func TestModelRapidTogglesEachFlipState(t *testing.T) {
	ctrl, _ := newTestController(t)
	m := NewModel(context.Background(), ctrl, nil, time.Second)

	// Both presses land before either policy update returns.
	_, first := m.Update(key("t"))
	_, second := m.Update(key("t"))
	require.NotNil(t, first)
	require.NotNil(t, second)
	first()
	msg := second()

	next, _ := m.Update(msg)
	assert.False(t, next.(Model).Policy.ThresholdEnabled)
	assert.False(t, ctrl.Policy().ThresholdEnabled)

	_, first = m.Update(key("+"))
	_, second = m.Update(key("+"))
	first()
	second()
	assert.Equal(t, 90, ctrl.Policy().ThresholdPercent)
}

func TestModelIntervalKey(t *testing.T) {
	ctrl, _ := newTestController(t)
	m := NewModel(context.Background(), ctrl, nil, time.Second)

	m = press(t, m, "i")

	assert.True(t, m.Policy.IntervalEnabled)
	assert.Equal(t, 30, m.Policy.IntervalMinutes)
}

func TestModelManualClean(t *testing.T) {
	ctrl, trimmer := newTestController(t)
	m := NewModel(context.Background(), ctrl, nil, time.Second)

	next, cmd := m.Update(key("c"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.cleaning)

	// A second press while cleaning is ignored.
	_, again := m.Update(key("c"))
	assert.Nil(t, again)

	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.False(t, m.cleaning)
	assert.Equal(t, "Freed: 0 MB (Processed 1 apps)", m.Status)
	assert.Equal(t, int32(2), trimmer.n.Load(), "self and one process")
}

func TestModelSampleFeedsScheduler(t *testing.T) {
	ctrl, trimmer := newTestController(t)
	ctrl.SetThresholdTrigger(true, 80)
	m := NewModel(context.Background(), ctrl, nil, time.Second)

	msg := m.sample()()
	next, cmd := m.Update(msg)
	m = next.(Model)

	assert.NotNil(t, cmd, "tick loop continues")
	assert.Equal(t, 81, m.Snapshot.LoadPercent)
	assert.Equal(t, "Freed: 0 MB (Processed 1 apps)", m.Status)
	assert.Equal(t, int32(2), trimmer.n.Load())
}

func TestModelRecordsEvents(t *testing.T) {
	sink := NewEventSink(8)
	ctrl, _ := newTestController(t, control.WithObserver(sink.Observe))
	m := NewModel(context.Background(), ctrl, sink.Events(), time.Second)

	ctrl.AddToWhitelist("code.exe")

	next, cmd := m.Update(m.listen()())
	m = next.(Model)
	assert.NotNil(t, cmd)
	require.Equal(t, 1, m.Activity.Len())
	assert.Equal(t, "Whitelisted code.exe", m.Activity.Entries(1)[0].Message)
}

func TestModelQuit(t *testing.T) {
	ctrl, _ := newTestController(t)
	m := NewModel(context.Background(), ctrl, nil, time.Second)

	next, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestModelView(t *testing.T) {
	ctrl, _ := newTestController(t)
	m := NewModel(context.Background(), ctrl, nil, time.Second)
	assert.Contains(t, m.View(), "Collecting metrics")

	next, _ := m.Update(m.sample()())
	view := next.View()
	assert.Contains(t, view, "ramsweep")
	assert.Contains(t, view, "Auto-Clean")
	assert.Contains(t, view, "81%")
}

func TestEventSinkDropsWhenFull(t *testing.T) {
	sink := NewEventSink(1)
	sink.Observe(control.Event{Message: "a"})
	sink.Observe(control.Event{Message: "b"})

	e := <-sink.Events()
	assert.Equal(t, "a", e.Message)
	assert.Empty(t, sink.Events())
}

func TestRunHeadlessCleansOnThreshold(t *testing.T) {
	ctrl, trimmer := newTestController(t)
	ctrl.SetThresholdTrigger(true, 80)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := RunHeadless(ctx, ctrl, 10*time.Millisecond, logger)
	require.NoError(t, err)
	// The cooldown allows exactly one threshold clean in this window.
	assert.Equal(t, int32(2), trimmer.n.Load())
}
