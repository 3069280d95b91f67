package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/events"
	"github.com/phrazzld/kioku/internal/store"
)

// fakeCardStore is an in-memory CardStore. Saves keep deep copies so tests
// can reload the snapshot like a fresh process would.
type fakeCardStore struct {
	mu           sync.Mutex
	cards        []*domain.Card
	maxDisplayID int
	saves        int
	loadErr      error
	saveErr      error
}

func (f *fakeCardStore) LoadCards(ctx context.Context) ([]*domain.Card, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, 0, f.loadErr
	}
	out := make([]*domain.Card, len(f.cards))
	for i, c := range f.cards {
		out[i] = c.Clone()
	}
	return out, f.maxDisplayID, nil
}

func (f *fakeCardStore) SaveCards(ctx context.Context, cards []*domain.Card, maxDisplayID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	snapshot := make([]*domain.Card, len(cards))
	for i, c := range cards {
		snapshot[i] = c.Clone()
	}
	f.cards = snapshot
	f.maxDisplayID = maxDisplayID
	f.saves++
	return nil
}

// fakeSettingsStore starts empty; every Load returns ErrNotFound until the
// category has been saved.
type fakeSettingsStore struct {
	mu sync.Mutex

	forgetting *domain.ForgettingSettings
	flashcard  *domain.FlashcardSettings
	darkMode   *domain.DarkModeSettings
	sort       *domain.SortSettings

	saves   map[string]int
	saveErr error
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{saves: make(map[string]int)}
}

func (f *fakeSettingsStore) LoadForgetting(ctx context.Context) (domain.ForgettingSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forgetting == nil {
		return domain.ForgettingSettings{}, store.ErrNotFound
	}
	return f.forgetting.Clone(), nil
}

func (f *fakeSettingsStore) SaveForgetting(ctx context.Context, s domain.ForgettingSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	clone := s.Clone()
	f.forgetting = &clone
	f.saves["forgetting"]++
	return nil
}

func (f *fakeSettingsStore) LoadFlashcard(ctx context.Context) (domain.FlashcardSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.flashcard == nil {
		return domain.FlashcardSettings{}, store.ErrNotFound
	}
	return *f.flashcard, nil
}

func (f *fakeSettingsStore) SaveFlashcard(ctx context.Context, s domain.FlashcardSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.flashcard = &s
	f.saves["flashcard"]++
	return nil
}

func (f *fakeSettingsStore) LoadDarkMode(ctx context.Context) (domain.DarkModeSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.darkMode == nil {
		return domain.DarkModeSettings{}, store.ErrNotFound
	}
	return *f.darkMode, nil
}

func (f *fakeSettingsStore) SaveDarkMode(ctx context.Context, s domain.DarkModeSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.darkMode = &s
	f.saves["darkMode"]++
	return nil
}

func (f *fakeSettingsStore) LoadSort(ctx context.Context) (domain.SortSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sort == nil {
		return domain.SortSettings{}, store.ErrNotFound
	}
	return *f.sort, nil
}

func (f *fakeSettingsStore) SaveSort(ctx context.Context, s domain.SortSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sort = &s
	f.saves["sort"]++
	return nil
}

// fakeBlobStore is an in-memory BlobStore with deterministic keys.
type fakeBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	next  int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(ctx context.Context, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	key := fmt.Sprintf("blob-%d", f.next)
	f.blobs[key] = append([]byte{}, data...)
	return key, nil
}

func (f *fakeBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[key]
	if !ok {
		return nil, store.ErrBlobNotFound
	}
	return data, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, key)
	return nil
}

func (f *fakeBlobStore) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blobs)
}

// recordingHandler captures every emitted event.
type recordingHandler struct {
	mu     sync.Mutex
	events []*events.Event
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *recordingHandler) byType(t events.Type) []*events.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*events.Event
	for _, e := range h.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	cards    *CardService
	settings *SettingsService

	cardStore     *fakeCardStore
	settingsStore *fakeSettingsStore
	blobs         *fakeBlobStore
	handler       *recordingHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	settingsStore := newFakeSettingsStore()
	settings, err := NewSettingsService(settingsStore, nil, logger)
	require.NoError(t, err)

	cardStore := &fakeCardStore{}
	blobs := newFakeBlobStore()
	handler := &recordingHandler{}
	emitter := events.NewInMemoryEmitter(logger)
	emitter.RegisterHandler(handler)

	cards, err := NewCardService(cardStore, blobs, settings, emitter, logger)
	require.NoError(t, err)

	return &testEnv{
		cards:         cards,
		settings:      settings,
		cardStore:     cardStore,
		settingsStore: settingsStore,
		blobs:         blobs,
		handler:       handler,
	}
}
