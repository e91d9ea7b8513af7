package service

import (
	"context"

	"pomo/internal/modules/panel/domain"
	panelout "pomo/internal/modules/panel/port/out"
	stats "pomo/internal/modules/stats/domain"
	"pomo/internal/platform/clock"
	apperrors "pomo/internal/platform/errors"
)

// Actor is one session panel instance: a single goroutine drains the event
// queue strictly in arrival order, so the history is only ever
// read-modified-written inside one handler at a time and needs no locking.
// Remote calls run in their own goroutines and deliver completion as later
// events into the same queue; they never block the local render path, and a
// stale fetch result arriving after newer local edits is still merged —
// merge idempotence makes a stale merge harmless.
type Actor struct {
	cache      panelout.CacheStore
	remote     panelout.RemoteStore
	provider   panelout.Provider
	credential func() (string, error)
	clock      clock.Clock
	emit       func(domain.Outbound)

	events chan domain.Inbound
	done   chan struct{}

	state   domain.State
	history stats.History
	link    string
	sync    domain.SyncStatus
}

func NewActor(cache panelout.CacheStore, remote panelout.RemoteStore, provider panelout.Provider, credential func() (string, error), clk clock.Clock, emit func(domain.Outbound)) *Actor {
	if emit == nil {
		emit = func(domain.Outbound) {}
	}
	return &Actor{
		cache:      cache,
		remote:     remote,
		provider:   provider,
		credential: credential,
		clock:      clk,
		emit:       emit,
		events:     make(chan domain.Inbound, 64),
		done:       make(chan struct{}),
	}
}

// Dispatch enqueues an event. Safe from any goroutine; a no-op after Close.
func (a *Actor) Dispatch(event domain.Inbound) {
	select {
	case a.events <- event:
	case <-a.done:
	}
}

// Run processes events until ctx is cancelled or Close is called.
func (a *Actor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.done:
			return
		case event := <-a.events:
			a.handle(ctx, event)
		}
	}
}

func (a *Actor) Close() {
	select {
	case <-a.done:
	default:
		close(a.done)
	}
}

// State is for tests; the run loop is the only writer.
func (a *Actor) State() domain.State {
	return a.state
}

func (a *Actor) handle(ctx context.Context, event domain.Inbound) {
	switch event := event.(type) {
	case domain.Mounted:
		a.handleMounted(ctx)
	case domain.SessionCompleted:
		a.handleSessionCompleted(ctx, event)
	case domain.FetchResult:
		a.handleFetchResult(event)
	case domain.MergeResult:
		a.handleMergeResult(ctx, event)
	case domain.UpdateResult:
		a.handleUpdateResult(event)
	case domain.TimerUpdate:
		a.emit(domain.TimerRender{SecondsLeft: event.SecondsLeft, Running: event.Running})
	}
}

func (a *Actor) handleMounted(ctx context.Context) {
	a.history, a.link = a.cache.Load(ctx)
	a.sync = domain.SyncStatus{Linked: a.link != ""}
	a.render(ctx)
	if a.link != "" {
		a.sync.Syncing = true
		a.emit(domain.SyncChanged{Sync: a.sync})
		go a.fetchRemote(ctx, a.link)
	}
}

// handleSessionCompleted renders optimistically from local data; the remote
// update is fired afterwards and never delays the render.
func (a *Actor) handleSessionCompleted(ctx context.Context, event domain.SessionCompleted) {
	date := event.Date
	if date == "" {
		date = stats.Day(a.clock.Now())
	}
	if !stats.ValidDay(date) {
		return
	}
	a.history = a.history.Add(date)
	// A rejected write is non-fatal: in-memory state stays authoritative
	// and the next mutation retries.
	_ = a.cache.Save(ctx, a.history, a.link)
	a.render(ctx)
	if a.link != "" {
		go a.updateRemote(ctx, a.link, a.history.Clone())
	}
}

// handleFetchResult falls back to local-only rendering on failure or an
// empty payload; the cache is never touched on the failure path.
func (a *Actor) handleFetchResult(event domain.FetchResult) {
	a.sync.Syncing = false
	if event.Err != nil {
		a.sync.Failed = true
		a.emit(domain.SyncChanged{Sync: a.sync})
		return
	}
	a.sync.Failed = false
	if !event.OK || len(event.History) == 0 {
		a.emit(domain.SyncChanged{Sync: a.sync})
		return
	}
	a.state = domain.StateReconciling
	a.Dispatch(domain.MergeResult{Merged: stats.Merge(a.history, event.History)})
}

func (a *Actor) handleMergeResult(ctx context.Context, event domain.MergeResult) {
	// Merge into the current history rather than overwrite it: sessions
	// queued between the fetch completing and this event arriving would
	// otherwise be regressed. Merging twice is safe, it is idempotent.
	merged := stats.Merge(a.history, event.Merged)
	changed := !merged.Equal(a.history)
	a.history = merged
	_ = a.cache.Save(ctx, a.history, a.link)
	a.state = domain.StateIdle
	a.render(ctx)
	if changed && a.link != "" {
		go a.updateRemote(ctx, a.link, a.history.Clone())
	}
}

func (a *Actor) handleUpdateResult(event domain.UpdateResult) {
	a.sync.Failed = event.Err != nil
	a.emit(domain.SyncChanged{Sync: a.sync})
}

func (a *Actor) render(ctx context.Context) {
	projection, fromProvider := a.project(ctx)
	a.emit(domain.StatsRender{
		History:      a.history.Clone(),
		Projection:   projection,
		FromProvider: fromProvider,
		Sync:         a.sync,
	})
}

func (a *Actor) project(ctx context.Context) (stats.Projection, bool) {
	if a.provider != nil && a.provider.Configured() {
		projection, err := a.provider.Project(ctx, a.history, stats.Day(a.clock.Now()))
		if err == nil {
			return projection, true
		}
	}
	return stats.Project(a.history, a.clock.Now()), false
}

func (a *Actor) fetchRemote(ctx context.Context, link string) {
	credential, err := a.token()
	if err != nil {
		a.Dispatch(domain.FetchResult{Err: err})
		return
	}
	history, ok, err := a.remote.Fetch(ctx, credential, link)
	a.Dispatch(domain.FetchResult{History: history, OK: ok, Err: err})
}

func (a *Actor) updateRemote(ctx context.Context, link string, history stats.History) {
	credential, err := a.token()
	if err != nil {
		a.Dispatch(domain.UpdateResult{Err: err})
		return
	}
	a.Dispatch(domain.UpdateResult{Err: a.remote.Update(ctx, credential, link, history)})
}

func (a *Actor) token() (string, error) {
	credential, err := a.credential()
	if err != nil {
		return "", err
	}
	if credential == "" {
		return "", apperrors.ErrNoCredential
	}
	return credential, nil
}
