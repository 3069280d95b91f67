package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/domain/srs"
	"github.com/phrazzld/kioku/internal/events"
	"github.com/phrazzld/kioku/internal/store"
)

// Status partitions the collection for filtering.
type Status string

// Filter statuses. The empty string applies no status restriction.
const (
	StatusAll       Status = ""
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFavorites Status = "favorites"
)

// Filter selects and orders a view of the card collection.
type Filter struct {
	SearchQuery   string
	SelectedTags  []string
	Status        Status
	SortField     domain.SortField
	SortDirection domain.SortDirection
}

// Stats summarizes the collection. Recomputed from the live cards on each
// call, never cached.
type Stats struct {
	Total     int
	Active    int
	Completed int
	Favorite  int
}

// CardService owns the card collection as the single source of truth. It
// wraps the entity operations with persistence, display-ID bookkeeping, and
// change notifications.
type CardService struct {
	mu           sync.Mutex
	cards        []*domain.Card
	maxDisplayID int

	cardStore store.CardStore
	blobs     store.BlobStore
	settings  *SettingsService
	emitter   events.Emitter
	logger    *slog.Logger
	now       func() time.Time
}

// NewCardService creates a CardService and loads the persisted collection.
// A load failure is soft: the service starts empty and logs a warning, the
// same way the storage layer degrades on write. blobs and emitter may be nil
// when image attachments or change notifications are not needed.
func NewCardService(
	cardStore store.CardStore,
	blobs store.BlobStore,
	settings *SettingsService,
	emitter events.Emitter,
	logger *slog.Logger,
) (*CardService, error) {
	if cardStore == nil {
		return nil, errors.New("card service: cardStore cannot be nil")
	}
	if settings == nil {
		return nil, errors.New("card service: settings cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &CardService{
		cardStore: cardStore,
		blobs:     blobs,
		settings:  settings,
		emitter:   emitter,
		logger:    logger.With(slog.String("component", "card_service")),
		now:       time.Now,
	}

	cards, maxDisplayID, err := cardStore.LoadCards(context.Background())
	if err != nil {
		s.logger.Warn("failed to load cards, starting empty",
			slog.String("error", err.Error()))
		cards = []*domain.Card{}
		maxDisplayID = 0
	}
	s.cards = cards
	s.maxDisplayID = maxDisplayID
	s.assignMissingDisplayIDs()

	return s, nil
}

// Emitter returns the change-notification emitter the service publishes to,
// so the UI adapter can subscribe its render handlers.
func (s *CardService) Emitter() events.Emitter {
	return s.emitter
}

// assignMissingDisplayIDs backfills display IDs for cards persisted before
// the counter existed.
func (s *CardService) assignMissingDisplayIDs() {
	for _, card := range s.cards {
		if card.DisplayID == 0 {
			s.maxDisplayID++
			card.DisplayID = s.maxDisplayID
		}
	}
}

// persist writes the full collection. Write failures are logged and the
// in-memory state continues; see the package doc for the soft-failure policy.
func (s *CardService) persist(ctx context.Context, operation string) {
	if err := s.cardStore.SaveCards(ctx, s.cards, s.maxDisplayID); err != nil {
		s.logger.Error("failed to persist cards, continuing with in-memory state",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
	}
}

func (s *CardService) emit(ctx context.Context, eventType events.Type, payload any) {
	if s.emitter == nil {
		return
	}
	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		s.logger.Error("failed to build event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.logger.Error("event handler error", slog.String("error", err.Error()))
	}
}

func (s *CardService) emitCardsChanged(ctx context.Context, operation string, cardID int64) {
	s.emit(ctx, events.TypeCardsChanged, events.CardsChangedPayload{
		Operation: operation,
		CardID:    cardID,
	})
}

// findLocked returns the card with the given ID. Callers must hold s.mu.
func (s *CardService) findLocked(id int64) (*domain.Card, error) {
	for _, card := range s.cards {
		if card.ID == id {
			return card, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", store.ErrCardNotFound, id)
}

// AddCard validates the data, allocates the next display ID, and prepends
// the new card so the natural order stays most-recent-first.
func (s *CardService) AddCard(ctx context.Context, data domain.CardData) (*domain.Card, error) {
	card, err := domain.NewCard(data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.maxDisplayID++
	card.DisplayID = s.maxDisplayID
	s.cards = append([]*domain.Card{card}, s.cards...)
	s.persist(ctx, "add_card")

	s.logger.Info("card added",
		slog.Int("display_id", card.DisplayID),
		slog.Int64("card_id", card.ID))
	s.emitCardsChanged(ctx, "add", card.ID)
	return card.Clone(), nil
}

// GetCard returns a copy of the card with the given ID.
func (s *CardService) GetCard(ctx context.Context, id int64) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.findLocked(id)
	if err != nil {
		return nil, err
	}
	return card.Clone(), nil
}

// GetCardByDisplayID returns a copy of the card with the given display ID.
func (s *CardService) GetCardByDisplayID(ctx context.Context, displayID int) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, card := range s.cards {
		if card.DisplayID == displayID {
			return card.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: display id %d", store.ErrCardNotFound, displayID)
}

// GetAllCards returns copies of every card in natural order.
func (s *CardService) GetAllCards(ctx context.Context) []*domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneAllLocked()
}

func (s *CardService) cloneAllLocked() []*domain.Card {
	out := make([]*domain.Card, len(s.cards))
	for i, card := range s.cards {
		out[i] = card.Clone()
	}
	return out
}

// UpdateCard merges the permitted fields into the card and persists.
func (s *CardService) UpdateCard(ctx context.Context, id int64, upd domain.CardUpdate) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.findLocked(id)
	if err != nil {
		return nil, err
	}
	if err := card.Update(upd); err != nil {
		return nil, err
	}
	s.persist(ctx, "update_card")
	s.emitCardsChanged(ctx, "update", card.ID)
	return card.Clone(), nil
}

// DeleteCard removes the card and scrubs its ID from every other card's
// relations so the symmetry invariant survives deletion. Image blobs of the
// deleted card are removed best-effort.
func (s *CardService) DeleteCard(ctx context.Context, id int64) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, card := range s.cards {
		if card.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: id %d", store.ErrCardNotFound, id)
	}

	deleted := s.cards[idx]
	s.cards = append(s.cards[:idx], s.cards[idx+1:]...)
	for _, card := range s.cards {
		card.RelatedCards = removeID(card.RelatedCards, id)
	}
	s.deleteBlobs(ctx, deleted.Images)

	s.persist(ctx, "delete_card")
	s.logger.Info("card deleted",
		slog.Int("display_id", deleted.DisplayID),
		slog.Int64("card_id", deleted.ID))
	s.emitCardsChanged(ctx, "delete", deleted.ID)
	return deleted.Clone(), nil
}

func (s *CardService) deleteBlobs(ctx context.Context, keys []string) {
	if s.blobs == nil {
		return
	}
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete image blob",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
	}
}

// ClearCompleted removes every mastered card and returns how many were
// removed. Relations pointing at removed cards are scrubbed.
func (s *CardService) ClearCompleted(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make(map[int64]struct{})
	kept := s.cards[:0]
	for _, card := range s.cards {
		if card.Completed {
			removed[card.ID] = struct{}{}
			s.deleteBlobs(ctx, card.Images)
			continue
		}
		kept = append(kept, card)
	}
	if len(removed) == 0 {
		return 0
	}

	s.cards = kept
	for _, card := range s.cards {
		card.RelatedCards = removeIDs(card.RelatedCards, removed)
	}
	s.persist(ctx, "clear_completed")
	s.emitCardsChanged(ctx, "clear_completed", 0)
	return len(removed)
}

// ToggleCardCompletion flips the card between Active and Mastered. When the
// transition lands on Mastered and the forgetting curve is enabled, the next
// review is scheduled immediately with the current review count.
func (s *CardService) ToggleCardCompletion(ctx context.Context, id int64) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.findLocked(id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	card.ToggleCompletion(now)
	if card.Completed {
		if fs := s.settings.GetForgettingSettings(); fs.Enabled {
			srs.Schedule(card, fs.Intervals, fs.ReviewCount, now)
		}
	}

	s.persist(ctx, "toggle_completion")
	s.emitCardsChanged(ctx, "toggle_completion", card.ID)
	return card.Clone(), nil
}

// ToggleCardFavorite flips the favorite flag, independent of completion.
func (s *CardService) ToggleCardFavorite(ctx context.Context, id int64) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.findLocked(id)
	if err != nil {
		return nil, err
	}
	card.ToggleFavorite(s.now().UTC())
	s.persist(ctx, "toggle_favorite")
	s.emitCardsChanged(ctx, "toggle_favorite", card.ID)
	return card.Clone(), nil
}

// SetRelatedCards replaces the card's relation set and keeps the relation
// symmetric on both sides: previously-related cards no longer selected drop
// this card's ID, newly-selected cards gain it exactly once. A card cannot
// relate to itself. IDs that match no live card are ignored.
func (s *CardService) SetRelatedCards(ctx context.Context, cardID int64, relatedIDs []int64) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.findLocked(cardID)
	if err != nil {
		return nil, err
	}

	selected := make([]int64, 0, len(relatedIDs))
	seen := make(map[int64]struct{}, len(relatedIDs))
	for _, id := range relatedIDs {
		if id == cardID {
			return nil, domain.NewValidationError("relatedCards", "a card cannot relate to itself")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		if _, err := s.findLocked(id); err != nil {
			continue
		}
		seen[id] = struct{}{}
		selected = append(selected, id)
	}

	// Drop this card from every previously-related card no longer selected.
	for _, oldID := range card.RelatedCards {
		if _, still := seen[oldID]; still {
			continue
		}
		if old, err := s.findLocked(oldID); err == nil {
			old.RelatedCards = removeID(old.RelatedCards, cardID)
		}
	}

	card.RelatedCards = selected

	// Add this card to every newly-selected card, avoiding duplicates.
	for _, id := range selected {
		related, _ := s.findLocked(id)
		if !containsID(related.RelatedCards, cardID) {
			related.RelatedCards = append(related.RelatedCards, cardID)
		}
	}

	s.persist(ctx, "set_related_cards")
	s.emitCardsChanged(ctx, "set_related_cards", cardID)
	return card.Clone(), nil
}

// GetFilteredCards applies search, tag, and status filters in that order,
// then sorts by the requested field. The stored collection and its natural
// order are never touched; the result is a fresh slice of copies.
func (s *CardService) GetFilteredCards(ctx context.Context, filter Filter) []*domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]*domain.Card, 0, len(s.cards))
	for _, card := range s.cards {
		if !card.MatchesQuery(filter.SearchQuery) {
			continue
		}
		if !card.HasAllTags(filter.SelectedTags) {
			continue
		}
		switch filter.Status {
		case StatusActive:
			if card.Completed {
				continue
			}
		case StatusCompleted:
			if !card.Completed {
				continue
			}
		case StatusFavorites:
			if !card.Favorite {
				continue
			}
		}
		filtered = append(filtered, card.Clone())
	}

	if filter.SortField != "" && filter.SortDirection != "" {
		return domain.SortCards(filtered, filter.SortField, filter.SortDirection)
	}
	return filtered
}

// SearchCards returns the cards matching the term. Unlike GetFilteredCards,
// an empty term returns nothing rather than everything.
func (s *CardService) SearchCards(ctx context.Context, term string) []*domain.Card {
	if len(term) == 0 {
		return nil
	}
	return s.GetFilteredCards(ctx, Filter{SearchQuery: term})
}

// GetAllTags returns the distinct tags across all cards, sorted.
func (s *CardService) GetAllTags(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]struct{})
	for _, card := range s.cards {
		for _, tag := range card.Tags {
			set[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// GetStats recomputes collection counts from the live cards.
func (s *CardService) GetStats(ctx context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{Total: len(s.cards)}
	for _, card := range s.cards {
		if card.Completed {
			stats.Completed++
		} else {
			stats.Active++
		}
		if card.Favorite {
			stats.Favorite++
		}
	}
	return stats
}

// GetCardsNeedingReview returns the mastered cards with a pending review
// date, due or not. Used to render the upcoming-schedule panel.
func (s *CardService) GetCardsNeedingReview(ctx context.Context) []*domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Card, 0)
	for _, card := range s.cards {
		if card.Completed && card.NextReviewDate != nil {
			out = append(out, card.Clone())
		}
	}
	return out
}

// CheckForgettingCurve runs one forgetting-curve sweep: every mastered card
// whose review date has passed is reverted to Active and immediately
// rescheduled with its current review count, which is how the count keeps
// advancing across cycles. Returns how many cards were reverted.
//
// The pass is idempotent within a tick: a reverted card is no longer
// mastered, so running the sweep again with no elapsed time reverts nothing.
// When at least one card reverted, the collection is persisted once and a
// single aggregate notification event is emitted (if notifications are on).
func (s *CardService) CheckForgettingCurve(ctx context.Context) int {
	fs := s.settings.GetForgettingSettings()
	if !fs.Enabled {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	reverted := 0
	for _, card := range s.cards {
		if !card.NeedsReview(now) {
			continue
		}
		card.ToggleCompletion(now) // Mastered -> Active, review count untouched
		srs.Schedule(card, fs.Intervals, fs.ReviewCount, now)
		reverted++
	}

	if reverted > 0 {
		s.persist(ctx, "forgetting_sweep")
		s.logger.Info("forgetting curve reverted cards", slog.Int("count", reverted))
		s.emitCardsChanged(ctx, "forgetting_sweep", 0)
		if fs.Notifications {
			s.emit(ctx, events.TypeReviewsDue, events.ReviewsDuePayload{Count: reverted})
		}
	}
	return reverted
}

// AttachImage stores the image in the blob store and attaches its key to the
// card. At most two images per card, five megabytes each.
func (s *CardService) AttachImage(ctx context.Context, id int64, data []byte) (*domain.Card, error) {
	if s.blobs == nil {
		return nil, errors.New("card service: no blob store configured")
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError("images", "image data must not be empty")
	}
	if len(data) > domain.MaxImageBytes {
		return nil, domain.NewValidationError("images",
			fmt.Sprintf("image exceeds %d bytes", domain.MaxImageBytes))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card, err := s.findLocked(id)
	if err != nil {
		return nil, err
	}
	if len(card.Images) >= domain.MaxImages {
		return nil, domain.NewValidationError("images",
			fmt.Sprintf("at most %d images per card", domain.MaxImages))
	}

	key, err := s.blobs.Put(ctx, data)
	if err != nil {
		return nil, err
	}
	if err := card.Update(domain.CardUpdate{Images: append(append([]string{}, card.Images...), key)}); err != nil {
		s.deleteBlobs(ctx, []string{key})
		return nil, err
	}

	s.persist(ctx, "attach_image")
	s.emitCardsChanged(ctx, "attach_image", card.ID)
	return card.Clone(), nil
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func removeIDs(ids []int64, remove map[int64]struct{}) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if _, drop := remove[v]; !drop {
			out = append(out, v)
		}
	}
	return out
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
