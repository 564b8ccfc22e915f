package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/ncenter/internal/model"
)

func testParams(capacity int) Params {
	return Params{
		Capacity:                capacity,
		Width:                   400,
		Height:                  100,
		VerticalMargin:          10,
		HorizontalMargin:        10,
		RespectRequestedTimeout: true,
		DefaultTimeout:          5 * time.Second,
	}
}

// handleFor gives every id a predictable window handle in tests.
func handleFor(id uint32) Handle {
	return Handle(id) + 1000
}

// show inserts ids in order and reports a window for each of them.
func show(t *testing.T, s *State, p Params, ids ...uint32) {
	t.Helper()
	for _, id := range ids {
		cmds := s.Apply(p, Notify{Notification: model.Notification{ID: id, Summary: "n"}})
		s.Apply(p, opened(t, cmds, handleFor(id)))
	}
}

// opened builds the WindowOpened report for the window created in cmds.
func opened(t *testing.T, cmds []Command, h Handle) WindowOpened {
	t.Helper()
	created := commandsOfType[CreateWindow](cmds)
	require.Len(t, created, 1)
	return WindowOpened{Handle: h, ID: created[0].ID, Seq: created[0].Seq}
}

func commandsOfType[T Command](cmds []Command) []T {
	var out []T
	for _, c := range cmds {
		if v, ok := c.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func assertInvariants(t *testing.T, s *State, p Params) {
	t.Helper()
	ids := s.IDs()
	assert.LessOrEqual(t, len(ids), p.Capacity)
	seen := make(map[uint32]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	for i, e := range s.Entries() {
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Len(t, s.entries, len(ids))
}

func TestScenarioA_InsertOrder(t *testing.T) {
	p := testParams(3)
	s := NewState()
	show(t, s, p, 10, 20, 30)

	assert.Equal(t, []uint32{30, 20, 10}, s.IDs())
	assertInvariants(t, s, p)
}

func TestScenarioB_Eviction(t *testing.T) {
	p := testParams(3)
	s := NewState()
	show(t, s, p, 10, 20, 30)

	cmds := s.Apply(p, Notify{Notification: model.Notification{ID: 40}})

	assert.Equal(t, []uint32{40, 30, 20}, s.IDs())
	assert.Contains(t, cmds, DestroyWindow{Handle: handleFor(10)})
	assert.Contains(t, cmds, EmitClosed{ID: 10, Reason: model.CloseReasonUndefined})
	assertInvariants(t, s, p)
}

func TestScenarioC_CloseByHandle(t *testing.T) {
	p := testParams(3)
	s := NewState()
	show(t, s, p, 10, 20, 30)

	cmds := s.Apply(p, Close{Handle: handleFor(20)})

	assert.Equal(t, []uint32{30, 10}, s.IDs())
	assert.Equal(t, []Command{
		DestroyWindow{Handle: handleFor(20)},
		RepositionWindow{Handle: handleFor(30), Margin: Margin{Top: 10, Right: 10, Bottom: 10, Left: 10}},
		RepositionWindow{Handle: handleFor(10), Margin: Margin{Top: 120, Right: 10, Bottom: 10, Left: 10}},
		EmitClosed{ID: 20, Reason: model.CloseReasonDismissed},
	}, cmds)
	assertInvariants(t, s, p)
}

func TestScenarioD_Expiry(t *testing.T) {
	p := testParams(3)
	s := NewState()

	var seq uint64
	for _, id := range []uint32{10, 20, 30} {
		cmds := s.Apply(p, Notify{Notification: model.Notification{ID: id}})
		if id == 10 {
			timers := commandsOfType[ScheduleExpiry](cmds)
			require.Len(t, timers, 1)
			seq = timers[0].Seq
			assert.Equal(t, 5*time.Second, timers[0].After)
		}
		s.Apply(p, opened(t, cmds, handleFor(id)))
	}

	cmds := s.Apply(p, Expired{ID: 10, Seq: seq})

	assert.Equal(t, []uint32{30, 20}, s.IDs())
	destroys := commandsOfType[DestroyWindow](cmds)
	require.Len(t, destroys, 1)
	assert.Equal(t, handleFor(10), destroys[0].Handle)
	assert.Contains(t, cmds, EmitClosed{ID: 10, Reason: model.CloseReasonExpired})
	assertInvariants(t, s, p)
}

func TestScenarioE_Offsets(t *testing.T) {
	p := testParams(3)
	s := NewState()
	show(t, s, p, 1, 2)

	created := s.Apply(p, Notify{Notification: model.Notification{ID: 3}})
	cmds := s.Apply(p, opened(t, created, handleFor(3)))

	repos := commandsOfType[RepositionWindow](cmds)
	require.Len(t, repos, 3)
	assert.Equal(t, 10, repos[0].Margin.Top)
	assert.Equal(t, 120, repos[1].Margin.Top)
	assert.Equal(t, 230, repos[2].Margin.Top)
	assert.Equal(t, handleFor(3), repos[0].Handle)
}

func TestNotify_Commands(t *testing.T) {
	p := testParams(3)
	s := NewState()
	n := model.Notification{ID: 7, Summary: "hello", RequestedExpiry: 2 * time.Second}

	cmds := s.Apply(p, Notify{Notification: n})

	require.Len(t, cmds, 2)
	create, ok := cmds[0].(CreateWindow)
	require.True(t, ok)
	assert.Equal(t, uint32(7), create.ID)
	assert.Equal(t, n, create.Notification)
	assert.Equal(t, 400, create.Width)
	assert.Equal(t, 100, create.Height)
	assert.Equal(t, Margin{Top: 10, Right: 10, Bottom: 10, Left: 10}, create.Margin)
	assert.Equal(t, ComputeMetrics(100), create.Metrics)

	timer, ok := cmds[1].(ScheduleExpiry)
	require.True(t, ok)
	assert.Equal(t, uint32(7), timer.ID)
	assert.Equal(t, 2*time.Second, timer.After)
}

func TestRemove_Idempotent(t *testing.T) {
	p := testParams(3)
	s := NewState()
	show(t, s, p, 1, 2)

	tests := []struct {
		name string
		ev   Event
	}{
		{"unknown handle", Close{Handle: 9999}},
		{"unknown id", CloseByContentID{ID: 77}},
		{"expired unknown id", Expired{ID: 77, Seq: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.Entries()
			assert.Empty(t, s.Apply(p, tt.ev))
			assert.Equal(t, before, s.Entries())
		})
	}

	assert.NotEmpty(t, s.Apply(p, CloseByContentID{ID: 1}))
	assert.Empty(t, s.Apply(p, CloseByContentID{ID: 1}))
	assert.Empty(t, s.Apply(p, Close{Handle: handleFor(1)}))
}

func TestCloseByContentID_Reason(t *testing.T) {
	p := testParams(3)
	s := NewState()
	show(t, s, p, 5)

	cmds := s.Apply(p, CloseByContentID{ID: 5})
	assert.Equal(t, []Command{
		DestroyWindow{Handle: handleFor(5)},
		EmitClosed{ID: 5, Reason: model.CloseReasonClosed},
	}, cmds)
	assert.Equal(t, 0, s.Len())
}

func TestExpired_StaleSeqIgnored(t *testing.T) {
	p := testParams(3)
	s := NewState()

	first := commandsOfType[ScheduleExpiry](s.Apply(p, Notify{Notification: model.Notification{ID: 1}}))
	require.Len(t, first, 1)
	second := commandsOfType[ScheduleExpiry](s.Apply(p, Notify{Notification: model.Notification{ID: 1}}))
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].Seq, second[0].Seq)

	assert.Empty(t, s.Apply(p, Expired{ID: 1, Seq: first[0].Seq}))
	assert.Equal(t, []uint32{1}, s.IDs())

	assert.NotEmpty(t, s.Apply(p, Expired{ID: 1, Seq: second[0].Seq}))
	assert.Equal(t, 0, s.Len())
}

func TestNotify_ReplacesActiveID(t *testing.T) {
	p := testParams(3)
	s := NewState()
	show(t, s, p, 1, 2)

	cmds := s.Apply(p, Notify{Notification: model.Notification{ID: 1, Summary: "updated"}})

	assert.Equal(t, []uint32{1, 2}, s.IDs())
	assert.Contains(t, cmds, DestroyWindow{Handle: handleFor(1)})
	assert.Empty(t, commandsOfType[EmitClosed](cmds))
	assert.Equal(t, "updated", s.Entries()[0].Summary)
	assert.False(t, s.Entries()[0].HasHandle)
	assertInvariants(t, s, p)
}

func TestCapacityZero(t *testing.T) {
	p := testParams(0)
	s := NewState()

	cmds := s.Apply(p, Notify{Notification: model.Notification{ID: 3}})

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, []Command{EmitClosed{ID: 3, Reason: model.CloseReasonUndefined}}, cmds)
}

func TestWindowOpened_Orphan(t *testing.T) {
	p := testParams(3)
	s := NewState()

	created := s.Apply(p, Notify{Notification: model.Notification{ID: 1}})
	cmds := s.Apply(p, CloseByContentID{ID: 1})
	assert.Equal(t, []Command{EmitClosed{ID: 1, Reason: model.CloseReasonClosed}}, cmds)

	cmds = s.Apply(p, opened(t, created, 55))
	assert.Equal(t, []Command{DestroyWindow{Handle: 55}}, cmds)
	assert.Equal(t, 0, s.Len())
}

func TestWindowOpened_EvictedBeforeOpen(t *testing.T) {
	p := testParams(1)
	s := NewState()

	created := s.Apply(p, Notify{Notification: model.Notification{ID: 1}})
	cmds := s.Apply(p, Notify{Notification: model.Notification{ID: 2}})
	assert.Contains(t, cmds, EmitClosed{ID: 1, Reason: model.CloseReasonUndefined})
	assert.Empty(t, commandsOfType[DestroyWindow](cmds))

	assert.Equal(t, []Command{DestroyWindow{Handle: 10}}, s.Apply(p, opened(t, created, 10)))
}

func TestWindowOpened_Duplicate(t *testing.T) {
	p := testParams(3)
	s := NewState()
	show(t, s, p, 1)

	seq := s.entries[1].seq
	assert.Empty(t, s.Apply(p, WindowOpened{Handle: handleFor(1), ID: 1, Seq: seq}))
	assert.Equal(t, []Command{DestroyWindow{Handle: 42}}, s.Apply(p, WindowOpened{Handle: 42, ID: 1, Seq: seq}))
}

func TestWindowOpened_ReplacedBeforeOpen(t *testing.T) {
	p := testParams(3)
	s := NewState()

	first := s.Apply(p, Notify{Notification: model.Notification{ID: 7, Summary: "old"}})
	second := s.Apply(p, Notify{Notification: model.Notification{ID: 7, Summary: "new"}})
	assert.Empty(t, commandsOfType[DestroyWindow](second))
	assert.Empty(t, commandsOfType[EmitClosed](second))

	// the first window reports in after it was replaced
	cmds := s.Apply(p, opened(t, first, 1))
	assert.Equal(t, []Command{DestroyWindow{Handle: 1}}, cmds)
	assert.False(t, s.Entries()[0].HasHandle)

	cmds = s.Apply(p, opened(t, second, 2))
	assert.Equal(t, []Command{RepositionWindow{Handle: 2, Margin: MarginForRank(p, 1)}}, cmds)

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, Handle(2), entries[0].Handle)
	assert.Equal(t, "new", entries[0].Summary)

	// a dismissal of the stale window does nothing
	assert.Empty(t, s.Apply(p, Close{Handle: 1}))
	assert.Equal(t, []uint32{7}, s.IDs())
	assertInvariants(t, s, p)
}

func TestWindowOpened_ReplacedAfterOpenInReverseOrder(t *testing.T) {
	p := testParams(3)
	s := NewState()

	first := s.Apply(p, Notify{Notification: model.Notification{ID: 7, Summary: "old"}})
	second := s.Apply(p, Notify{Notification: model.Notification{ID: 7, Summary: "new"}})

	s.Apply(p, opened(t, second, 2))
	assert.Equal(t, []Command{DestroyWindow{Handle: 1}}, s.Apply(p, opened(t, first, 1)))
	assert.Equal(t, Handle(2), s.Entries()[0].Handle)
}

func TestActionEventsForwarded(t *testing.T) {
	p := testParams(3)
	s := NewState()
	show(t, s, p, 1)

	assert.Equal(t, []Command{EmitAction{ID: 1, ActionKey: "default"}},
		s.Apply(p, ActionInvoked{ID: 1, ActionKey: "default"}))
	assert.Equal(t, []Command{EmitClosed{ID: 9, Reason: model.CloseReasonClosed}},
		s.Apply(p, ActionClose{ID: 9, Reason: model.CloseReasonClosed}))
	assert.Equal(t, []uint32{1}, s.IDs())
}

func TestDismissAll(t *testing.T) {
	p := testParams(3)
	s := NewState()
	show(t, s, p, 1, 2)
	s.Apply(p, Notify{Notification: model.Notification{ID: 3}})

	cmds := s.Apply(p, DismissAll{})

	assert.Equal(t, 0, s.Len())
	assert.ElementsMatch(t, []DestroyWindow{{Handle: handleFor(1)}, {Handle: handleFor(2)}}, commandsOfType[DestroyWindow](cmds))
	assert.Len(t, commandsOfType[EmitClosed](cmds), 3)
	for _, c := range commandsOfType[EmitClosed](cmds) {
		assert.Equal(t, model.CloseReasonDismissed, c.Reason)
	}
	assert.Empty(t, s.Apply(p, DismissAll{}))
}

func TestReconfigured_ShrinkAndMove(t *testing.T) {
	p := testParams(4)
	s := NewState()
	show(t, s, p, 1, 2, 3, 4)

	p.Capacity = 2
	p.VerticalMargin = 20
	cmds := s.Apply(p, Reconfigured{})

	assert.Equal(t, []uint32{4, 3}, s.IDs())
	assert.ElementsMatch(t, []DestroyWindow{{Handle: handleFor(1)}, {Handle: handleFor(2)}}, commandsOfType[DestroyWindow](cmds))
	repos := commandsOfType[RepositionWindow](cmds)
	require.Len(t, repos, 2)
	assert.Equal(t, 20, repos[0].Margin.Top)
	assert.Equal(t, 140, repos[1].Margin.Top)
	assertInvariants(t, s, p)
}

func TestInvariants_RandomSequence(t *testing.T) {
	p := testParams(4)
	s := NewState()

	var lastInserted uint32
	for i := range 200 {
		id := uint32(i%11 + 1)
		switch i % 5 {
		case 0, 1, 3:
			created := s.Apply(p, Notify{Notification: model.Notification{ID: id}})
			lastInserted = id
			if i%2 == 0 {
				s.Apply(p, opened(t, created, Handle(i+1)))
			}
		case 2:
			s.Apply(p, CloseByContentID{ID: id})
		case 4:
			s.Apply(p, Close{Handle: Handle(i - 3)})
		}
		assertInvariants(t, s, p)
		if first, ok := s.stack.At(1); ok && i%5 != 2 && i%5 != 4 {
			assert.Equal(t, lastInserted, first)
		}
	}
}
