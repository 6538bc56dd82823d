package main

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastDebounceID atomic.Int64

// debouncer coalesces bursts of events: every Trigger supersedes the
// previous one, and only the last fires once delay has passed quietly.
type debouncer struct {
	id    int64
	seq   int
	delay time.Duration
}

type debounceMsg struct {
	id      int64
	seq     int
	payload any
}

func newDebouncer(delay time.Duration) debouncer {
	return debouncer{id: lastDebounceID.Add(1), delay: delay}
}

// Trigger schedules payload and cancels anything scheduled before.
func (d *debouncer) Trigger(payload any) tea.Cmd {
	d.seq++
	id, seq := d.id, d.seq
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return debounceMsg{id: id, seq: seq, payload: payload}
	})
}

// Settled reports whether msg is the latest event of this debouncer.
func (d *debouncer) Settled(msg debounceMsg) bool {
	return msg.id == d.id && msg.seq == d.seq
}

// Cancel drops whatever is scheduled.
func (d *debouncer) Cancel() {
	d.seq++
}
