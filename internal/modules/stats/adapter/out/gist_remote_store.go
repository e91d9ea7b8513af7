package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pomo/internal/modules/stats/domain"
	statsout "pomo/internal/modules/stats/port/out"
	apperrors "pomo/internal/platform/errors"
)

const (
	gistFileName   = "pomodoro.json"
	defaultGistAPI = "https://api.github.com/gists"
	remoteTimeout  = 10 * time.Second
)

// GistRemoteStore keeps one private gist per user holding the session
// document. It is stateless: the remote link and credential arrive as
// parameters on every call.
type GistRemoteStore struct {
	client  *http.Client
	baseURL string
}

func NewGistRemoteStore() statsout.RemoteStore {
	return NewGistRemoteStoreWith(&http.Client{Timeout: remoteTimeout}, defaultGistAPI)
}

func NewGistRemoteStoreWith(client *http.Client, baseURL string) statsout.RemoteStore {
	return &GistRemoteStore{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

type remoteDocument struct {
	Sessions []domain.Record `json:"sessions"`
}

type gistFile struct {
	Content string `json:"content"`
}

type gistResponse struct {
	ID    string              `json:"id"`
	Files map[string]gistFile `json:"files"`
}

func (s *GistRemoteStore) Create(ctx context.Context, credential string, history domain.History) (string, error) {
	content, err := documentContent(history)
	if err != nil {
		return "", err
	}
	body := map[string]any{
		"description": "Pomodoro session stats",
		"public":      false,
		"files":       map[string]gistFile{gistFileName: {Content: content}},
	}
	response, err := s.call(ctx, http.MethodPost, s.baseURL, credential, body)
	if err != nil {
		return "", err
	}
	decoded := gistResponse{}
	if err := json.Unmarshal(response, &decoded); err != nil {
		return "", fmt.Errorf("%w: decode create response: %v", apperrors.ErrInvalidResponse, err)
	}
	if strings.TrimSpace(decoded.ID) == "" {
		return "", fmt.Errorf("%w: create response has no id", apperrors.ErrInvalidResponse)
	}
	return decoded.ID, nil
}

// Fetch returns ok=false, with no error, when the remote document exists
// but carries no parseable session payload. The caller treats that as an
// empty remote contribution.
func (s *GistRemoteStore) Fetch(ctx context.Context, credential, remoteLink string) (domain.History, bool, error) {
	response, err := s.call(ctx, http.MethodGet, s.baseURL+"/"+remoteLink, credential, nil)
	if err != nil {
		return nil, false, err
	}
	decoded := gistResponse{}
	if err := json.Unmarshal(response, &decoded); err != nil {
		return nil, false, nil
	}
	file, ok := decoded.Files[gistFileName]
	if !ok || strings.TrimSpace(file.Content) == "" {
		return nil, false, nil
	}
	document := remoteDocument{}
	if err := json.Unmarshal([]byte(file.Content), &document); err != nil {
		return nil, false, nil
	}
	return domain.Sanitize(domain.History(document.Sessions)), true, nil
}

// Update replaces the whole remote document; there are no partial-update
// semantics.
func (s *GistRemoteStore) Update(ctx context.Context, credential, remoteLink string, history domain.History) error {
	content, err := documentContent(history)
	if err != nil {
		return err
	}
	body := map[string]any{
		"files": map[string]gistFile{gistFileName: {Content: content}},
	}
	_, err = s.call(ctx, http.MethodPatch, s.baseURL+"/"+remoteLink, credential, body)
	return err
}

func (s *GistRemoteStore) call(ctx context.Context, method, url, credential string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	request, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("Authorization", "token "+credential)
	request.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	response, err := s.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("call remote store: %w", err)
	}
	defer func() { _ = response.Body.Close() }()
	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read remote response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &apperrors.RemoteError{Status: response.StatusCode}
	}
	return payload, nil
}

func documentContent(history domain.History) (string, error) {
	document := remoteDocument{Sessions: history}
	if document.Sessions == nil {
		document.Sessions = []domain.Record{}
	}
	encoded, err := json.Marshal(document)
	if err != nil {
		return "", fmt.Errorf("encode session document: %w", err)
	}
	return string(encoded), nil
}
