package domain

import (
	stats "pomo/internal/modules/stats/domain"
)

// Panel states. The panel is Idle except while a fetched remote history is
// being reconciled with the local one.
type State int

const (
	StateIdle State = iota
	StateReconciling
)

func (s State) String() string {
	switch s {
	case StateReconciling:
		return "reconciling"
	default:
		return "idle"
	}
}

// SyncStatus summarizes the remote-link health shown next to the stats.
type SyncStatus struct {
	Linked  bool
	Failed  bool
	Syncing bool
}

// Inbound is the closed union of events the panel processes, strictly in
// arrival order. Unknown payload fields have already been defaulted by the
// decoding edge; handlers never see partial events.
type Inbound interface{ inboundEvent() }

// Mounted starts a panel: render from cache, then fetch remotely if linked.
type Mounted struct{}

// SessionCompleted records one finished focus session. Date defaults to
// today when empty.
type SessionCompleted struct {
	Date string
}

// TimerUpdate mirrors the running countdown for display only.
type TimerUpdate struct {
	SecondsLeft int
	Running     bool
}

// FetchResult delivers the outcome of an asynchronous remote fetch.
type FetchResult struct {
	History stats.History
	OK      bool
	Err     error
}

// MergeResult delivers a reconciled history ready to persist.
type MergeResult struct {
	Merged stats.History
}

// UpdateResult delivers the outcome of an asynchronous remote update.
type UpdateResult struct {
	Err error
}

func (Mounted) inboundEvent()          {}
func (SessionCompleted) inboundEvent() {}
func (TimerUpdate) inboundEvent()      {}
func (FetchResult) inboundEvent()      {}
func (MergeResult) inboundEvent()      {}
func (UpdateResult) inboundEvent()     {}

// Outbound is the closed union of events the panel emits toward the view.
type Outbound interface{ outboundEvent() }

// StatsRender carries everything the view needs to redraw the panel.
type StatsRender struct {
	History      stats.History
	Projection   stats.Projection
	FromProvider bool
	Sync         SyncStatus
}

// SyncChanged reports a sync-state transition without a redraw payload.
type SyncChanged struct {
	Sync SyncStatus
}

// TimerRender mirrors TimerUpdate for the view chrome.
type TimerRender struct {
	SecondsLeft int
	Running     bool
}

func (StatsRender) outboundEvent() {}
func (SyncChanged) outboundEvent() {}
func (TimerRender) outboundEvent() {}
