package in

import (
	"context"

	"pomo/internal/modules/stats/dto"
	statsin "pomo/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Record(ctx context.Context, date string) (dto.RecordOutput, error) {
	return h.usecase.Record(ctx, date)
}

func (h CLIHandler) Stats(ctx context.Context) (dto.StatsOutput, error) {
	return h.usecase.Stats(ctx)
}

func (h CLIHandler) ListDays(ctx context.Context, limit int) ([]dto.DayOutput, error) {
	return h.usecase.ListDays(ctx, limit)
}

func (h CLIHandler) Connect(ctx context.Context) (dto.SyncOutput, error) {
	return h.usecase.Connect(ctx)
}

func (h CLIHandler) Disconnect(ctx context.Context) error {
	return h.usecase.Disconnect(ctx)
}

func (h CLIHandler) Sync(ctx context.Context) (dto.SyncOutput, error) {
	return h.usecase.Sync(ctx)
}

func (h CLIHandler) SyncStatus(ctx context.Context) (dto.SyncStatusOutput, error) {
	return h.usecase.SyncStatus(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) (dto.ResetOutput, error) {
	return h.usecase.Reset(ctx)
}
