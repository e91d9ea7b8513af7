package in

import (
	"context"

	"pomo/internal/modules/stats/dto"
)

type Usecase interface {
	// Record adds one completed session for today and persists it.
	Record(ctx context.Context, date string) (dto.RecordOutput, error)
	// Stats projects the current history into streak and buckets,
	// preferring the configured provider over the local fallback.
	Stats(ctx context.Context) (dto.StatsOutput, error)
	ListDays(ctx context.Context, limit int) ([]dto.DayOutput, error)
	// Connect creates the remote document for this device's history.
	Connect(ctx context.Context) (dto.SyncOutput, error)
	Disconnect(ctx context.Context) error
	// Sync fetches the remote history, reconciles it with the local one,
	// persists the merged result, and pushes it back.
	Sync(ctx context.Context) (dto.SyncOutput, error)
	SyncStatus(ctx context.Context) (dto.SyncStatusOutput, error)
	Reset(ctx context.Context) (dto.ResetOutput, error)
}
