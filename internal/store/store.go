// Package store defines the persistence interfaces for the card collection,
// the settings objects, and image blobs. The contract mirrors browser local
// storage: one JSON-serializable value per key, replaced wholesale on every
// write.
package store

import (
	"context"

	"github.com/phrazzld/kioku/internal/domain"
)

// CardStore persists the full card collection plus the display-ID counter.
// The counter lives outside the card list so display IDs are never reused
// after the highest-numbered card is deleted.
type CardStore interface {
	// LoadCards returns the persisted collection and the highest display ID
	// ever allocated. A store with no saved state returns an empty slice,
	// zero, and no error.
	LoadCards(ctx context.Context) ([]*domain.Card, int, error)

	// SaveCards replaces the persisted collection and counter atomically
	// enough that a subsequent LoadCards never observes a torn value.
	SaveCards(ctx context.Context, cards []*domain.Card, maxDisplayID int) error
}

// SettingsStore persists one value per settings category.
// Load methods return ErrNotFound when a category has never been saved;
// callers fall back to the domain defaults.
type SettingsStore interface {
	LoadForgetting(ctx context.Context) (domain.ForgettingSettings, error)
	SaveForgetting(ctx context.Context, s domain.ForgettingSettings) error

	LoadFlashcard(ctx context.Context) (domain.FlashcardSettings, error)
	SaveFlashcard(ctx context.Context, s domain.FlashcardSettings) error

	LoadDarkMode(ctx context.Context) (domain.DarkModeSettings, error)
	SaveDarkMode(ctx context.Context, s domain.DarkModeSettings) error

	LoadSort(ctx context.Context) (domain.SortSettings, error)
	SaveSort(ctx context.Context, s domain.SortSettings) error
}

// BlobStore holds image attachments outside the card collection so the
// flashcards value stays small. Cards reference blobs by key.
type BlobStore interface {
	// Put stores the data and returns its generated key.
	Put(ctx context.Context, data []byte) (string, error)

	// Get returns the blob for the key, or ErrBlobNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
