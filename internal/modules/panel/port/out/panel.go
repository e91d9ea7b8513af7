package out

import (
	"context"

	stats "pomo/internal/modules/stats/domain"
)

// Narrow ports for the panel actor: each is the minimal slice of the stats
// module's adapters that the orchestration needs, so the same concrete
// stores can serve both modules.

type CacheStore interface {
	Load(ctx context.Context) (stats.History, string)
	Save(ctx context.Context, history stats.History, remoteLink string) error
}

type RemoteStore interface {
	Fetch(ctx context.Context, credential, remoteLink string) (stats.History, bool, error)
	Update(ctx context.Context, credential, remoteLink string, history stats.History) error
}

type Provider interface {
	Configured() bool
	Project(ctx context.Context, history stats.History, today string) (stats.Projection, error)
}
