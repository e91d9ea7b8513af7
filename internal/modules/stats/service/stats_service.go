package service

import (
	"context"
	"fmt"

	"pomo/internal/modules/stats/domain"
	statsout "pomo/internal/modules/stats/port/out"
	"pomo/internal/platform/clock"
)

type StatsService struct {
	clock     clock.Clock
	cache     statsout.CacheStore
	projector statsout.DayProjector
}

func NewStatsService(clock clock.Clock, cache statsout.CacheStore, projector statsout.DayProjector) *StatsService {
	return &StatsService{clock: clock, cache: cache, projector: projector}
}

func (s *StatsService) Today() string {
	return domain.Day(s.clock.Now())
}

func (s *StatsService) Load(ctx context.Context) (domain.History, string) {
	return s.cache.Load(ctx)
}

// Record adds one completed session for date and persists write-through.
// A rejected local write is non-fatal: the updated in-memory history is
// still returned as authoritative, with saved=false, and the next mutation
// retries the write naturally.
func (s *StatsService) Record(ctx context.Context, date string) (domain.History, bool, error) {
	if date == "" {
		date = s.Today()
	}
	if !domain.ValidDay(date) {
		return nil, false, fmt.Errorf("invalid session date %q", date)
	}
	history, link := s.cache.Load(ctx)
	history = history.Add(date)
	saved := s.persist(ctx, history, link) == nil
	return history, saved, nil
}

// SaveMerged persists a reconciled history while preserving the link.
func (s *StatsService) SaveMerged(ctx context.Context, merged domain.History, remoteLink string) error {
	return s.persist(ctx, merged, remoteLink)
}

func (s *StatsService) SaveLink(ctx context.Context, history domain.History, remoteLink string) error {
	return s.persist(ctx, history, remoteLink)
}

func (s *StatsService) ListDays(ctx context.Context, limit int) ([]domain.Record, error) {
	if s.projector == nil {
		history, _ := s.cache.Load(ctx)
		if limit > 0 && len(history) > limit {
			history = history[:limit]
		}
		return history, nil
	}
	return s.projector.ListDays(ctx, limit)
}

// Reset is the safety valve for corrupted local state: back the cache up,
// clear history and remote link, and drop the read model.
func (s *StatsService) Reset(ctx context.Context) (string, int, error) {
	history, _ := s.cache.Load(ctx)
	backup, err := s.cache.Backup(ctx)
	if err != nil {
		return "", 0, err
	}
	if err := s.cache.Save(ctx, domain.History{}, ""); err != nil {
		return "", 0, err
	}
	if s.projector != nil {
		if err := s.projector.Reset(ctx); err != nil {
			return "", 0, err
		}
	}
	return backup, len(history), nil
}

func (s *StatsService) persist(ctx context.Context, history domain.History, remoteLink string) error {
	err := s.cache.Save(ctx, history, remoteLink)
	if err == nil && s.projector != nil {
		// The read model is rebuilt from the cache on every write; a failed
		// projection never blocks the session path.
		_ = s.projector.ProjectHistory(ctx, history)
	}
	return err
}
