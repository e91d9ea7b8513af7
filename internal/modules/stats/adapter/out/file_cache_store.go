package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pomo/internal/modules/stats/domain"
	statsout "pomo/internal/modules/stats/port/out"
	"pomo/internal/platform/clock"
	apperrors "pomo/internal/platform/errors"
	"pomo/internal/platform/id"
)

// cachePayload is the versionless on-disk shape shared with the remote
// document body's "sessions" field.
type cachePayload struct {
	Sessions   []domain.Record `json:"sessions"`
	RemoteLink *string         `json:"remote_link"`
}

type FileCacheStore struct {
	path  string
	idGen id.Generator
	clock clock.Clock
}

func NewFileCacheStore(path string, idGen id.Generator, clk clock.Clock) statsout.CacheStore {
	return &FileCacheStore{path: path, idGen: idGen, clock: clk}
}

// Load never fails. A missing file is the empty default; a malformed file
// is quarantined beside the cache and replaced by the empty default, so
// corruption is a silent-recovery condition rather than an error.
func (s *FileCacheStore) Load(_ context.Context) (domain.History, string) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		return domain.History{}, ""
	}
	decoded := cachePayload{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		s.quarantine(payload)
		return domain.History{}, ""
	}
	link := ""
	if decoded.RemoteLink != nil {
		link = *decoded.RemoteLink
	}
	return domain.Sanitize(domain.History(decoded.Sessions)), link
}

// Save writes atomically: readers observe either the previous payload or
// the full new one, never a partial write.
func (s *FileCacheStore) Save(_ context.Context, history domain.History, remoteLink string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create cache dir: %v", apperrors.ErrPersistence, err)
	}
	payload := cachePayload{Sessions: history}
	if payload.Sessions == nil {
		payload.Sessions = []domain.Record{}
	}
	if remoteLink != "" {
		payload.RemoteLink = &remoteLink
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal cache: %v", apperrors.ErrPersistence, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o644); err != nil {
		return fmt.Errorf("%w: write cache: %v", apperrors.ErrPersistence, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: commit cache: %v", apperrors.ErrPersistence, err)
	}
	return nil
}

func (s *FileCacheStore) Backup(_ context.Context) (string, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read cache for backup: %w", err)
	}
	name := fmt.Sprintf("%s.bak-%s", s.path, s.clock.Now().Format("20060102-150405"))
	if err := os.WriteFile(name, payload, 0o644); err != nil {
		return "", fmt.Errorf("write cache backup: %w", err)
	}
	return name, nil
}

func (s *FileCacheStore) quarantine(payload []byte) {
	name := fmt.Sprintf("%s.corrupt-%s", s.path, s.idGen.New())
	_ = os.WriteFile(name, payload, 0o644)
	_ = os.Remove(s.path)
}
