package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pomo/internal/modules/stats/domain"
	apperrors "pomo/internal/platform/errors"
)

// fakeGistServer is an in-memory stand-in for the remote document store.
type fakeGistServer struct {
	documents map[string]map[string]gistFile
	nextID    int
	lastAuth  string
}

func newFakeGistServer() *fakeGistServer {
	return &fakeGistServer{documents: map[string]map[string]gistFile{}, nextID: 1}
}

func (s *fakeGistServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastAuth = r.Header.Get("Authorization")
		switch {
		case r.Method == http.MethodPost:
			body := struct {
				Files map[string]gistFile `json:"files"`
			}{}
			_ = json.NewDecoder(r.Body).Decode(&body)
			id := fmt.Sprintf("gist-%d", s.nextID)
			s.nextID++
			s.documents[id] = body.Files
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": id})
		case r.Method == http.MethodGet:
			id := strings.TrimPrefix(r.URL.Path, "/")
			files, ok := s.documents[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "files": files})
		case r.Method == http.MethodPatch:
			id := strings.TrimPrefix(r.URL.Path, "/")
			if _, ok := s.documents[id]; !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			body := struct {
				Files map[string]gistFile `json:"files"`
			}{}
			_ = json.NewDecoder(r.Body).Decode(&body)
			s.documents[id] = body.Files
			_ = json.NewEncoder(w).Encode(map[string]any{"id": id})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func newTestRemoteStore(t *testing.T) (*fakeGistServer, *GistRemoteStore) {
	t.Helper()
	fake := newFakeGistServer()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	store := NewGistRemoteStoreWith(server.Client(), server.URL).(*GistRemoteStore)
	return fake, store
}

func TestRemoteCreateFetchRoundTrip(t *testing.T) {
	t.Parallel()
	_, store := newTestRemoteStore(t)
	ctx := context.Background()
	history := domain.History{
		{Date: "2024-01-05", Count: 2},
		{Date: "2024-01-04", Count: 1},
		{Date: "2024-01-03", Count: 4},
		{Date: "2024-01-02", Count: 1},
		{Date: "2024-01-01", Count: 3},
	}
	link, err := store.Create(ctx, "tok", history)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	fetched, ok, err := store.Fetch(ctx, "tok", link)
	if err != nil || !ok {
		t.Fatalf("fetch: ok=%t err=%v", ok, err)
	}
	if !fetched.Equal(history) {
		t.Fatalf("round trip lost content: %+v", fetched)
	}
}

func TestRemoteUpdateReplacesDocument(t *testing.T) {
	t.Parallel()
	_, store := newTestRemoteStore(t)
	ctx := context.Background()
	link, err := store.Create(ctx, "tok", domain.History{{Date: "2024-01-01", Count: 1}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	replacement := domain.History{{Date: "2024-02-01", Count: 2}}
	if err := store.Update(ctx, "tok", link, replacement); err != nil {
		t.Fatalf("update: %v", err)
	}
	fetched, ok, err := store.Fetch(ctx, "tok", link)
	if err != nil || !ok {
		t.Fatalf("fetch after update: ok=%t err=%v", ok, err)
	}
	if !fetched.Equal(replacement) {
		t.Fatalf("update must replace the whole document, got %+v", fetched)
	}
}

func TestRemoteFetchMissingDocumentIsRemoteError(t *testing.T) {
	t.Parallel()
	_, store := newTestRemoteStore(t)
	_, _, err := store.Fetch(context.Background(), "tok", "nope")
	remoteErr := &apperrors.RemoteError{}
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remoteErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", remoteErr.Status)
	}
}

func TestRemoteFetchUnparseablePayloadIsEmptyContribution(t *testing.T) {
	t.Parallel()
	fake, store := newTestRemoteStore(t)
	fake.documents["g1"] = map[string]gistFile{gistFileName: {Content: "not json"}}
	history, ok, err := store.Fetch(context.Background(), "tok", "g1")
	if err != nil {
		t.Fatalf("unparseable payload must not be an error: %v", err)
	}
	if ok || history != nil {
		t.Fatalf("expected absent history, got ok=%t %+v", ok, history)
	}
}

func TestRemoteFetchMissingFileIsEmptyContribution(t *testing.T) {
	t.Parallel()
	fake, store := newTestRemoteStore(t)
	fake.documents["g1"] = map[string]gistFile{"other.txt": {Content: "hi"}}
	_, ok, err := store.Fetch(context.Background(), "tok", "g1")
	if err != nil || ok {
		t.Fatalf("expected absent history, got ok=%t err=%v", ok, err)
	}
}

func TestRemoteCreateWithoutIDIsInvalidResponse(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "  "})
	}))
	t.Cleanup(server.Close)
	store := NewGistRemoteStoreWith(server.Client(), server.URL)
	_, err := store.Create(context.Background(), "tok", domain.History{})
	if !errors.Is(err, apperrors.ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestRemoteCallsCarryCredentialHeader(t *testing.T) {
	t.Parallel()
	fake, store := newTestRemoteStore(t)
	if _, err := store.Create(context.Background(), "secret", domain.History{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if fake.lastAuth != "token secret" {
		t.Fatalf("expected credential header, got %q", fake.lastAuth)
	}
}
