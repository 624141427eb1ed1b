package reclaim

import (
	"context"
	"fmt"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshaymaurya-felt/ramsweep/internal/process"
)

const selfPID int32 = 9999

// callLog records the order in which the fakes are invoked.
type callLog struct {
	calls []string
}

func (l *callLog) add(s string) { l.calls = append(l.calls, s) }

type fakeCatalog struct {
	log   *callLog
	procs []process.Descriptor
}

func (c *fakeCatalog) Enumerate(context.Context) iter.Seq[process.Descriptor] {
	return func(yield func(process.Descriptor) bool) {
		c.log.add("enumerate")
		for _, d := range c.procs {
			if !yield(d) {
				return
			}
		}
	}
}

type spyTrimmer struct {
	log     *callLog
	pids    []int32
	results map[int32]Outcome
}

func (t *spyTrimmer) Trim(pid int32) Outcome {
	t.log.add(fmt.Sprintf("trim:%d", pid))
	t.pids = append(t.pids, pid)
	if out, ok := t.results[pid]; ok {
		return out
	}
	return trimmed()
}

type spyFlusher struct {
	log   *callLog
	calls int
}

func (f *spyFlusher) Flush() FlushOutcome {
	f.log.add("flush")
	f.calls++
	return FlushIssued
}

type fixture struct {
	log     *callLog
	catalog *fakeCatalog
	trimmer *spyTrimmer
	flusher *spyFlusher
}

func newFixture(procs ...process.Descriptor) *fixture {
	log := &callLog{}
	return &fixture{
		log:     log,
		catalog: &fakeCatalog{log: log, procs: procs},
		trimmer: &spyTrimmer{log: log, results: map[int32]Outcome{}},
		flusher: &spyFlusher{log: log},
	}
}

func (f *fixture) engine(wl *process.Whitelist, elevated bool) *Engine {
	return NewEngine(f.catalog, wl,
		WithTrimmer(f.trimmer),
		WithFlusher(f.flusher),
		WithElevated(elevated),
		WithSelfPID(selfPID),
	)
}

func TestEngine_CleanMemory_NeverTrimsExcludedProcesses(t *testing.T) {
	f := newFixture(
		process.Descriptor{PID: 0, Name: "Idle"},
		process.Descriptor{PID: 640, Name: "csrss.exe"},
		process.Descriptor{PID: 700, Name: "svchost.exe"},
		process.Descriptor{PID: 900, Name: "explorer.exe"},
		process.Descriptor{PID: 1500, Name: "MsMpEng.exe"},
		process.Descriptor{PID: 2100, Name: "Spotify.exe"},
		process.Descriptor{PID: 2200, Name: "code.exe"},
	)
	wl := process.NewWhitelist("spotify")

	res := f.engine(wl, false).CleanMemory(context.Background())

	assert.Equal(t, []int32{selfPID, 2200}, f.trimmer.pids)
	assert.Equal(t, 1, res.ProcessesTrimmed)
	assert.Equal(t, 6, res.ProcessesExcluded)
	assert.True(t, res.SelfTrimmed)
}

func TestEngine_CleanMemory_TrimsSelfFirst(t *testing.T) {
	t.Run("with processes", func(t *testing.T) {
		f := newFixture(
			process.Descriptor{PID: 3001, Name: "a.exe"},
			process.Descriptor{PID: 3002, Name: "b.exe"},
		)
		f.engine(nil, false).CleanMemory(context.Background())

		require.NotEmpty(t, f.trimmer.pids)
		assert.Equal(t, selfPID, f.trimmer.pids[0])
	})

	t.Run("empty catalog", func(t *testing.T) {
		f := newFixture()
		res := f.engine(nil, false).CleanMemory(context.Background())

		assert.Equal(t, []int32{selfPID}, f.trimmer.pids)
		assert.Zero(t, res.ProcessesTrimmed)
		assert.True(t, res.SelfTrimmed)
	})
}

func TestEngine_CleanMemory_SelfNotTrimmedTwice(t *testing.T) {
	f := newFixture(
		process.Descriptor{PID: selfPID, Name: "ramsweep.exe"},
		process.Descriptor{PID: 4000, Name: "other.exe"},
	)

	res := f.engine(nil, false).CleanMemory(context.Background())

	assert.Equal(t, []int32{selfPID, 4000}, f.trimmer.pids)
	assert.Equal(t, 1, res.ProcessesTrimmed)
}

func TestEngine_CleanMemory_FlushesBeforeEnumeration(t *testing.T) {
	f := newFixture(process.Descriptor{PID: 5000, Name: "x.exe"})

	res := f.engine(nil, true).CleanMemory(context.Background())

	assert.Equal(t, []string{"trim:9999", "flush", "enumerate", "trim:5000"}, f.log.calls)
	assert.Equal(t, FlushIssued, res.Flush)
}

func TestEngine_CleanMemory_NoFlushWithoutElevation(t *testing.T) {
	f := newFixture(process.Descriptor{PID: 5000, Name: "x.exe"})

	res := f.engine(nil, false).CleanMemory(context.Background())

	assert.Zero(t, f.flusher.calls)
	assert.Equal(t, FlushSkipped, res.Flush)
}

func TestEngine_CleanMemory_CountsOnlySuccesses(t *testing.T) {
	f := newFixture(
		process.Descriptor{PID: 6001, Name: "ok.exe"},
		process.Descriptor{PID: 6002, Name: "gone.exe"},
		process.Descriptor{PID: 6003, Name: "protected.exe"},
		process.Descriptor{PID: 6004, Name: "ok2.exe"},
	)
	f.trimmer.results[6002] = skipped(ReasonExited)
	f.trimmer.results[6003] = skipped(ReasonAccessDenied)

	res := f.engine(nil, false).CleanMemory(context.Background())

	assert.Equal(t, 2, res.ProcessesTrimmed)
	assert.Equal(t, 2, res.ProcessesSkipped)
	assert.Equal(t, map[Reason]int{ReasonExited: 1, ReasonAccessDenied: 1}, res.SkippedBy)
}

func TestEngine_CleanMemory_GroupsUnsupportedSkips(t *testing.T) {
	f := newFixture(
		process.Descriptor{PID: 6101, Name: "a"},
		process.Descriptor{PID: 6102, Name: "b"},
	)
	f.trimmer.results[6101] = skipped(ReasonUnsupported)
	f.trimmer.results[6102] = skipped(ReasonUnsupported)

	res := f.engine(nil, false).CleanMemory(context.Background())

	assert.Zero(t, res.ProcessesTrimmed)
	assert.Equal(t, map[Reason]int{ReasonUnsupported: 2}, res.SkippedBy)
}

func TestEngine_WhitelistChangesApplyToNextClean(t *testing.T) {
	f := newFixture(process.Descriptor{PID: 7000, Name: "Game.exe"})
	e := f.engine(nil, false)

	e.Whitelist().Add("game")
	res := e.CleanMemory(context.Background())

	assert.Zero(t, res.ProcessesTrimmed)
	assert.NotContains(t, f.trimmer.pids, int32(7000))
}

func TestEngine_EligibleProcesses(t *testing.T) {
	f := newFixture(
		process.Descriptor{PID: 8002, Name: "zeta.exe"},
		process.Descriptor{PID: 640, Name: "csrss.exe"},
		process.Descriptor{PID: 8001, Name: "Alpha.exe"},
		process.Descriptor{PID: selfPID, Name: "ramsweep.exe"},
	)
	e := f.engine(nil, false)

	got := e.EligibleProcesses(context.Background())

	assert.Equal(t, []process.Descriptor{
		{PID: 8001, Name: "Alpha.exe"},
		{PID: 8002, Name: "zeta.exe"},
	}, got)
	assert.Empty(t, f.trimmer.pids)
}

func TestNativeFlusher_SkipsWithoutCapability(t *testing.T) {
	f := NewNativeFlusher(false, nil)

	assert.False(t, f.Allowed())
	assert.Equal(t, FlushSkipped, f.Flush())
}

func TestOutcome(t *testing.T) {
	assert.True(t, trimmed().Trimmed())
	out := skipped(ReasonAccessDenied)
	assert.False(t, out.Trimmed())
	assert.Equal(t, "access denied", out.Reason.String())
}
