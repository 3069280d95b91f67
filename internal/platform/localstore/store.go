// Package localstore persists application state as JSON files, one value per
// key, under a single data directory. It is the local-storage analog the
// rest of the application writes through: whole-value replace on every save,
// atomic rename so a reader never observes a partially written file.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/store"
)

// Storage keys, matching the persisted state layout.
const (
	keyFlashcards       = "flashcards"
	keyDisplayIDCounter = "displayIdCounter"
	keyForgetting       = "forgettingSettings"
	keyFlashcard        = "flashcardSettings"
	keyDarkMode         = "darkModeSettings"
	keySort             = "sortSettings"
)

// Store is a file-backed key/value store implementing store.CardStore and
// store.SettingsStore.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("localstore: data directory must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, store.NewStorageError(dir, "create", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.With("component", "localstore"),
	}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// get reads and decodes the value stored under key.
func (s *Store) get(key string, v any) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", store.ErrNotFound, key)
		}
		return store.NewStorageError(key, "read", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return store.NewStorageError(key, "read", err)
	}
	return nil
}

// set encodes v and replaces the value stored under key. The write goes to a
// temp file first and is renamed into place.
func (s *Store) set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return store.NewStorageError(key, "write", err)
	}
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return store.NewStorageError(key, "write", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return store.NewStorageError(key, "write", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return store.NewStorageError(key, "write", err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return store.NewStorageError(key, "write", err)
	}
	return nil
}

// LoadCards implements store.CardStore.
func (s *Store) LoadCards(ctx context.Context) ([]*domain.Card, int, error) {
	var cards []*domain.Card
	if err := s.get(keyFlashcards, &cards); err != nil {
		if store.IsNotFoundError(err) {
			return []*domain.Card{}, 0, nil
		}
		return nil, 0, err
	}

	maxDisplayID := 0
	if err := s.get(keyDisplayIDCounter, &maxDisplayID); err != nil {
		if !store.IsNotFoundError(err) {
			return nil, 0, err
		}
		s.logger.Debug("display ID counter missing, recovering from cards")
	}
	// Older snapshots predate the counter key; recover it from the cards.
	for _, card := range cards {
		if card.DisplayID > maxDisplayID {
			maxDisplayID = card.DisplayID
		}
	}
	return cards, maxDisplayID, nil
}

// SaveCards implements store.CardStore.
func (s *Store) SaveCards(ctx context.Context, cards []*domain.Card, maxDisplayID int) error {
	if err := s.set(keyFlashcards, cards); err != nil {
		return err
	}
	return s.set(keyDisplayIDCounter, maxDisplayID)
}

// LoadForgetting implements store.SettingsStore.
func (s *Store) LoadForgetting(ctx context.Context) (domain.ForgettingSettings, error) {
	var v domain.ForgettingSettings
	err := s.get(keyForgetting, &v)
	return v, err
}

// SaveForgetting implements store.SettingsStore.
func (s *Store) SaveForgetting(ctx context.Context, v domain.ForgettingSettings) error {
	return s.set(keyForgetting, v)
}

// LoadFlashcard implements store.SettingsStore.
func (s *Store) LoadFlashcard(ctx context.Context) (domain.FlashcardSettings, error) {
	var v domain.FlashcardSettings
	err := s.get(keyFlashcard, &v)
	return v, err
}

// SaveFlashcard implements store.SettingsStore.
func (s *Store) SaveFlashcard(ctx context.Context, v domain.FlashcardSettings) error {
	return s.set(keyFlashcard, v)
}

// LoadDarkMode implements store.SettingsStore.
func (s *Store) LoadDarkMode(ctx context.Context) (domain.DarkModeSettings, error) {
	var v domain.DarkModeSettings
	err := s.get(keyDarkMode, &v)
	return v, err
}

// SaveDarkMode implements store.SettingsStore.
func (s *Store) SaveDarkMode(ctx context.Context, v domain.DarkModeSettings) error {
	return s.set(keyDarkMode, v)
}

// LoadSort implements store.SettingsStore.
func (s *Store) LoadSort(ctx context.Context) (domain.SortSettings, error) {
	var v domain.SortSettings
	err := s.get(keySort, &v)
	return v, err
}

// SaveSort implements store.SettingsStore.
func (s *Store) SaveSort(ctx context.Context, v domain.SortSettings) error {
	return s.set(keySort, v)
}
