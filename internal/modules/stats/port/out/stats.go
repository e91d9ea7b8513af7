package out

import (
	"context"

	"pomo/internal/modules/stats/domain"
)

// CacheStore is the device-local persistence for the session history and
// its optional remote link. Load never fails: missing or malformed storage
// yields the empty default. Save reports apperrors.ErrPersistence when the
// medium rejects the write; callers keep in-memory state authoritative.
type CacheStore interface {
	Load(ctx context.Context) (domain.History, string)
	Save(ctx context.Context, history domain.History, remoteLink string) error
	// Backup copies the current payload aside before a destructive reset.
	// Returns "" when there is nothing to back up.
	Backup(ctx context.Context) (string, error)
}

// RemoteStore is a stateless client for the remote document store. One JSON
// document per user, addressed by a caller-supplied link and bearer
// credential. Create must be called at most once per link lifetime.
type RemoteStore interface {
	Create(ctx context.Context, credential string, history domain.History) (string, error)
	Fetch(ctx context.Context, credential, remoteLink string) (domain.History, bool, error)
	Update(ctx context.Context, credential, remoteLink string, history domain.History) error
}

// DayProjector maintains a queryable read model of per-day counts. It is
// rebuildable from the cache and loses nothing when reset.
type DayProjector interface {
	ProjectHistory(ctx context.Context, history domain.History) error
	ListDays(ctx context.Context, limit int) ([]domain.Record, error)
	Reset(ctx context.Context) error
}

// Provider computes the authoritative streak/heatmap projection. The
// usecase falls back to the local computation when no provider is
// configured or a call fails.
type Provider interface {
	Configured() bool
	Project(ctx context.Context, history domain.History, today string) (domain.Projection, error)
}
