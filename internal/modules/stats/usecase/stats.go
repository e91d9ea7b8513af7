package usecase

import (
	"context"
	"fmt"

	"pomo/internal/modules/stats/domain"
	"pomo/internal/modules/stats/dto"
	statsin "pomo/internal/modules/stats/port/in"
	statsout "pomo/internal/modules/stats/port/out"
	"pomo/internal/modules/stats/service"
	"pomo/internal/platform/clock"
	apperrors "pomo/internal/platform/errors"
)

// CredentialSource resolves the remote-store bearer token at call time so
// token rotation needs no restart.
type CredentialSource func() (string, error)

type Interactor struct {
	svc        *service.StatsService
	remote     statsout.RemoteStore
	provider   statsout.Provider
	credential CredentialSource
	clock      clock.Clock
}

func NewInteractor(svc *service.StatsService, remote statsout.RemoteStore, provider statsout.Provider, credential CredentialSource, clk clock.Clock) statsin.Usecase {
	return &Interactor{svc: svc, remote: remote, provider: provider, credential: credential, clock: clk}
}

func (i *Interactor) Record(ctx context.Context, date string) (dto.RecordOutput, error) {
	history, saved, err := i.svc.Record(ctx, date)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	if date == "" {
		date = i.svc.Today()
	}
	return dto.RecordOutput{Date: date, Count: history.CountOn(date), Saved: saved}, nil
}

func (i *Interactor) Stats(ctx context.Context) (dto.StatsOutput, error) {
	history, link := i.svc.Load(ctx)
	projection, fromProvider := i.project(ctx, history)
	out := dto.StatsOutput{
		Days:         toDayOutputs(history),
		Streak:       projection.Streak,
		Buckets:      projection.Buckets,
		Total:        history.Total(),
		FromProvider: fromProvider,
		RemoteLinked: link != "",
	}
	return out, nil
}

// project prefers the configured provider and keeps its buckets verbatim;
// the local computation is only a fallback, so client and provider never
// drift on presentation.
func (i *Interactor) project(ctx context.Context, history domain.History) (domain.Projection, bool) {
	if i.provider != nil && i.provider.Configured() {
		projection, err := i.provider.Project(ctx, history, i.svc.Today())
		if err == nil {
			return projection, true
		}
	}
	return domain.Project(history, i.clock.Now()), false
}

func (i *Interactor) ListDays(ctx context.Context, limit int) ([]dto.DayOutput, error) {
	days, err := i.svc.ListDays(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toDayOutputs(days), nil
}

// Connect creates the remote document. It refuses to run twice: a second
// create would fork a divergent remote document.
func (i *Interactor) Connect(ctx context.Context) (dto.SyncOutput, error) {
	history, link := i.svc.Load(ctx)
	if link != "" {
		return dto.SyncOutput{}, apperrors.ErrAlreadyLinked
	}
	credential, err := i.token()
	if err != nil {
		return dto.SyncOutput{}, err
	}
	created, err := i.remote.Create(ctx, credential, history)
	if err != nil {
		return dto.SyncOutput{}, fmt.Errorf("create remote document: %w", err)
	}
	if err := i.svc.SaveLink(ctx, history, created); err != nil {
		return dto.SyncOutput{}, err
	}
	return dto.SyncOutput{RemoteLink: created, Created: true, MergedDays: len(history)}, nil
}

func (i *Interactor) Disconnect(ctx context.Context) error {
	history, link := i.svc.Load(ctx)
	if link == "" {
		return apperrors.ErrNotConnected
	}
	return i.svc.SaveLink(ctx, history, "")
}

func (i *Interactor) Sync(ctx context.Context) (dto.SyncOutput, error) {
	local, link := i.svc.Load(ctx)
	if link == "" {
		return dto.SyncOutput{}, apperrors.ErrNotConnected
	}
	credential, err := i.token()
	if err != nil {
		return dto.SyncOutput{}, err
	}
	remote, ok, err := i.remote.Fetch(ctx, credential, link)
	if err != nil {
		return dto.SyncOutput{}, fmt.Errorf("fetch remote document: %w", err)
	}
	merged := domain.Sanitize(local)
	remoteDays := 0
	if ok {
		merged = domain.Merge(local, remote)
		remoteDays = len(remote)
	}
	changed := !merged.Equal(local)
	if changed {
		if err := i.svc.SaveMerged(ctx, merged, link); err != nil {
			return dto.SyncOutput{}, err
		}
	}
	if err := i.remote.Update(ctx, credential, link, merged); err != nil {
		return dto.SyncOutput{}, fmt.Errorf("update remote document: %w", err)
	}
	return dto.SyncOutput{RemoteLink: link, RemoteDays: remoteDays, MergedDays: len(merged), Changed: changed}, nil
}

func (i *Interactor) SyncStatus(ctx context.Context) (dto.SyncStatusOutput, error) {
	_, link := i.svc.Load(ctx)
	credential, err := i.credential()
	if err != nil {
		credential = ""
	}
	return dto.SyncStatusOutput{Linked: link != "", RemoteLink: link, HasToken: credential != ""}, nil
}

func (i *Interactor) Reset(ctx context.Context) (dto.ResetOutput, error) {
	backup, dropped, err := i.svc.Reset(ctx)
	if err != nil {
		return dto.ResetOutput{}, err
	}
	return dto.ResetOutput{BackupPath: backup, Dropped: dropped}, nil
}

func (i *Interactor) token() (string, error) {
	credential, err := i.credential()
	if err != nil {
		return "", err
	}
	if credential == "" {
		return "", apperrors.ErrNoCredential
	}
	return credential, nil
}

func toDayOutputs(records []domain.Record) []dto.DayOutput {
	out := make([]dto.DayOutput, 0, len(records))
	for _, record := range records {
		out = append(out, dto.DayOutput{Date: record.Date, Count: record.Count})
	}
	return out
}
