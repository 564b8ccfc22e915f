package engine

import "github.com/jmylchreest/ncenter/internal/model"

// Entry is a read-only view of one active notification.
type Entry struct {
	Rank      int
	ID        uint32
	Handle    Handle
	HasHandle bool
	AppName   string
	Summary   string
}

type entry struct {
	notification model.Notification
	handle       Handle
	hasHandle    bool
	seq          uint64
}

// State is the engine's bookkeeping: the stack plus the id/handle
// association of every active entry. It is not safe for concurrent use;
// the Runner owns it.
type State struct {
	stack   Stack
	entries map[uint32]*entry
	handles map[Handle]uint32
	seq     uint64
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		entries: make(map[uint32]*entry),
		handles: make(map[Handle]uint32),
	}
}

// Len returns the number of active entries.
func (s *State) Len() int {
	return s.stack.Len()
}

// IDs returns the active ids in rank order.
func (s *State) IDs() []uint32 {
	return s.stack.IDs()
}

// Entries returns a view of every active entry in rank order.
func (s *State) Entries() []Entry {
	ids := s.stack.IDs()
	out := make([]Entry, 0, len(ids))
	for i, id := range ids {
		e := s.entries[id]
		out = append(out, Entry{
			Rank:      i + 1,
			ID:        id,
			Handle:    e.handle,
			HasHandle: e.hasHandle,
			AppName:   e.notification.AppName,
			Summary:   e.notification.Summary,
		})
	}
	return out
}

// Apply applies one event and returns the commands it produces, in the
// order they must be executed. Unknown events produce nothing.
func (s *State) Apply(p Params, ev Event) []Command {
	switch ev := ev.(type) {
	case Notify:
		return s.notify(p, ev.Notification)
	case Close:
		return s.RemoveByHandle(p, ev.Handle, model.CloseReasonDismissed)
	case CloseByContentID:
		return s.RemoveByID(p, ev.ID, model.CloseReasonClosed)
	case Expired:
		e, ok := s.entries[ev.ID]
		if !ok || e.seq != ev.Seq {
			return nil
		}
		return s.RemoveByID(p, ev.ID, model.CloseReasonExpired)
	case WindowOpened:
		return s.windowOpened(p, ev)
	case ActionInvoked:
		return []Command{EmitAction{ID: ev.ID, ActionKey: ev.ActionKey}}
	case ActionClose:
		return []Command{EmitClosed{ID: ev.ID, Reason: ev.Reason}}
	case DismissAll:
		return s.dismissAll(p)
	case Reconfigured:
		return s.reconfigured(p)
	}
	return nil
}

// RemoveByHandle removes the entry shown in the window with handle h.
// Unknown handles are ignored.
func (s *State) RemoveByHandle(p Params, h Handle, reason model.CloseReason) []Command {
	id, ok := s.handles[h]
	if !ok {
		return nil
	}
	cmds, _ := s.detach(id)
	cmds = append(cmds, s.recompute(p)...)
	return append(cmds, EmitClosed{ID: id, Reason: reason})
}

// RemoveByID removes the entry with the given id. Ids that are not active
// are ignored. An entry whose window has not been reported yet is dropped
// right away; its window is destroyed once it opens.
func (s *State) RemoveByID(p Params, id uint32, reason model.CloseReason) []Command {
	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	if e.hasHandle {
		return s.RemoveByHandle(p, e.handle, reason)
	}
	cmds, _ := s.detach(id)
	cmds = append(cmds, s.recompute(p)...)
	return append(cmds, EmitClosed{ID: id, Reason: reason})
}

func (s *State) notify(p Params, n model.Notification) []Command {
	// replaces_id: drop the previous incarnation without announcing it
	cmds, _ := s.detach(n.ID)

	evicted := s.stack.Insert(n.ID, p.Capacity)
	if p.Capacity <= 0 {
		cmds = append(cmds, s.recompute(p)...)
		return append(cmds, EmitClosed{ID: n.ID, Reason: model.CloseReasonUndefined})
	}

	s.seq++
	s.entries[n.ID] = &entry{notification: n, seq: s.seq}

	for _, id := range evicted {
		cmds = append(cmds, s.evict(id)...)
	}

	cmds = append(cmds, CreateWindow{
		ID:           n.ID,
		Seq:          s.seq,
		Notification: n,
		Width:        p.Width,
		Height:       p.Height,
		Margin:       MarginForRank(p, 1),
		Metrics:      ComputeMetrics(p.Height),
	})
	cmds = append(cmds, s.recompute(p)...)
	return append(cmds, ScheduleExpiry{ID: n.ID, Seq: s.seq, After: EffectiveTimeout(n, p)})
}

func (s *State) windowOpened(p Params, ev WindowOpened) []Command {
	e, ok := s.entries[ev.ID]
	if !ok || e.seq != ev.Seq {
		// entry was removed or replaced while its window was being created
		return []Command{DestroyWindow{Handle: ev.Handle}}
	}
	if e.hasHandle {
		if e.handle == ev.Handle {
			return nil
		}
		return []Command{DestroyWindow{Handle: ev.Handle}}
	}
	e.handle = ev.Handle
	e.hasHandle = true
	s.handles[ev.Handle] = ev.ID
	return s.recompute(p)
}

func (s *State) dismissAll(p Params) []Command {
	var cmds []Command
	for _, id := range s.stack.IDs() {
		destroy, _ := s.detach(id)
		cmds = append(cmds, destroy...)
		cmds = append(cmds, EmitClosed{ID: id, Reason: model.CloseReasonDismissed})
	}
	return cmds
}

func (s *State) reconfigured(p Params) []Command {
	var cmds []Command
	for _, id := range s.stack.Truncate(p.Capacity) {
		cmds = append(cmds, s.evict(id)...)
	}
	return append(cmds, s.recompute(p)...)
}

// evict forgets an entry pushed out of the stack. The stack itself must
// already have dropped id.
func (s *State) evict(id uint32) []Command {
	cmds, ok := s.detach(id)
	if !ok {
		return nil
	}
	return append(cmds, EmitClosed{ID: id, Reason: model.CloseReasonUndefined})
}

// detach removes id from the stack and forgets its window. It returns the
// destroy command for the window when one is known.
func (s *State) detach(id uint32) ([]Command, bool) {
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	s.stack.Remove(id)
	delete(s.entries, id)
	if !e.hasHandle {
		return nil, true
	}
	delete(s.handles, e.handle)
	return []Command{DestroyWindow{Handle: e.handle}}, true
}

// recompute repositions every window that has been reported, in rank order.
func (s *State) recompute(p Params) []Command {
	var cmds []Command
	for i, id := range s.stack.ids {
		e := s.entries[id]
		if e == nil || !e.hasHandle {
			continue
		}
		cmds = append(cmds, RepositionWindow{Handle: e.handle, Margin: MarginForRank(p, i+1)})
	}
	return cmds
}
