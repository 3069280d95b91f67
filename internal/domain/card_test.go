package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func mustNewCard(t *testing.T, data CardData) *Card {
	t.Helper()
	card, err := NewCard(data)
	if err != nil {
		t.Fatalf("NewCard failed: %v", err)
	}
	return card
}

func TestNewCard(t *testing.T) {
	t.Parallel()
	card, err := NewCard(CardData{
		Question: "  What is Go?  ",
		Answer:   "A programming language",
		Tags:     []string{"Go", "go", " Programming "},
		URLs:     []string{"https://go.dev"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.ID == 0 {
		t.Error("Expected non-zero card ID")
	}
	if card.Question != "What is Go?" {
		t.Errorf("Expected trimmed question, got %q", card.Question)
	}
	if card.Completed || card.Favorite {
		t.Error("Expected new card to be active and not favorited")
	}
	if card.ReviewCount != 0 {
		t.Errorf("Expected zero review count, got %d", card.ReviewCount)
	}
	if card.NextReviewDate != nil || card.UpdatedAt != nil || card.CompletedAt != nil {
		t.Error("Expected nil review/update/completion timestamps on a new card")
	}
	if card.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}
	if len(card.Tags) != 2 || card.Tags[0] != "go" || card.Tags[1] != "programming" {
		t.Errorf("Expected normalized deduplicated tags, got %v", card.Tags)
	}
	if len(card.RelatedCards) != 0 {
		t.Errorf("Expected empty related cards, got %v", card.RelatedCards)
	}
}

func TestNewCardIDsAreUnique(t *testing.T) {
	t.Parallel()
	seen := make(map[int64]bool)
	for i := 0; i < 50; i++ {
		card := mustNewCard(t, CardData{Question: "q"})
		if seen[card.ID] {
			t.Fatalf("Duplicate card ID %d", card.ID)
		}
		seen[card.ID] = true
	}
}

func TestNewCardValidation(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name  string
		data  CardData
		field string
	}{
		{
			name:  "empty question",
			data:  CardData{Question: "   "},
			field: "question",
		},
		{
			name:  "question over limit",
			data:  CardData{Question: strings.Repeat("q", QuestionMaxLength+1)},
			field: "question",
		},
		{
			name:  "answer over limit",
			data:  CardData{Question: "q", Answer: strings.Repeat("a", AnswerMaxLength+1)},
			field: "answer",
		},
		{
			name:  "relative URL",
			data:  CardData{Question: "q", URLs: []string{"/docs"}},
			field: "urls",
		},
		{
			name:  "non-http scheme",
			data:  CardData{Question: "q", URLs: []string{"ftp://example.com"}},
			field: "urls",
		},
		{
			name:  "duplicate URL",
			data:  CardData{Question: "q", URLs: []string{"https://a.example", "https://a.example"}},
			field: "urls",
		},
		{
			name:  "URL over limit",
			data:  CardData{Question: "q", URLs: []string{"https://example.com/" + strings.Repeat("x", URLMaxLength)}},
			field: "urls",
		},
		{
			name: "too many URLs",
			data: CardData{Question: "q", URLs: []string{
				"https://example.com/1", "https://example.com/2", "https://example.com/3",
				"https://example.com/4", "https://example.com/5", "https://example.com/6",
				"https://example.com/7", "https://example.com/8", "https://example.com/9",
				"https://example.com/10", "https://example.com/11",
			}},
			field: "urls",
		},
		{
			name:  "too many images",
			data:  CardData{Question: "q", Images: []string{"a", "b", "c"}},
			field: "images",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewCard(tc.data)
			if err == nil {
				t.Fatal("Expected a validation error, got nil")
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Expected error to wrap ErrValidation, got %v", err)
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected a *ValidationError, got %T", err)
			}
			if vErr.Field != tc.field {
				t.Errorf("Expected field %q, got %q", tc.field, vErr.Field)
			}
		})
	}
}

func TestCardUpdate(t *testing.T) {
	t.Parallel()
	card := mustNewCard(t, CardData{Question: "before", Answer: "old"})

	question := "after"
	if err := card.Update(CardUpdate{Question: &question, Tags: []string{"New"}}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if card.Question != "after" {
		t.Errorf("Expected updated question, got %q", card.Question)
	}
	if card.Answer != "old" {
		t.Errorf("Expected answer untouched, got %q", card.Answer)
	}
	if len(card.Tags) != 1 || card.Tags[0] != "new" {
		t.Errorf("Expected normalized tags, got %v", card.Tags)
	}
	if card.UpdatedAt == nil {
		t.Error("Expected UpdatedAt to be stamped")
	}
}

func TestCardUpdateIsAtomic(t *testing.T) {
	t.Parallel()
	card := mustNewCard(t, CardData{Question: "keep"})

	bad := strings.Repeat("q", QuestionMaxLength+1)
	err := card.Update(CardUpdate{Question: &bad, Tags: []string{"dropped"}})
	if err == nil {
		t.Fatal("Expected a validation error")
	}
	if card.Question != "keep" {
		t.Errorf("Expected question unchanged after failed update, got %q", card.Question)
	}
	if len(card.Tags) != 0 {
		t.Errorf("Expected tags unchanged after failed update, got %v", card.Tags)
	}
	if card.UpdatedAt != nil {
		t.Error("Expected UpdatedAt unchanged after failed update")
	}
}

func TestToggleCompletion(t *testing.T) {
	t.Parallel()
	card := mustNewCard(t, CardData{Question: "q"})
	now := time.Now().UTC()

	card.ToggleCompletion(now)
	if !card.Completed {
		t.Fatal("Expected card to be mastered")
	}
	if card.CompletedAt == nil || !card.CompletedAt.Equal(now) {
		t.Error("Expected CompletedAt stamped with toggle time")
	}
	if card.LastCompletedAt == nil || !card.LastCompletedAt.Equal(now) {
		t.Error("Expected LastCompletedAt stamped with toggle time")
	}
	if card.ReviewCount != 0 {
		t.Errorf("Expected toggle to leave ReviewCount alone, got %d", card.ReviewCount)
	}

	next := now.AddDate(0, 0, 1)
	card.NextReviewDate = &next
	card.ReviewCount = 2

	card.ToggleCompletion(now)
	if card.Completed {
		t.Fatal("Expected card to be active again")
	}
	if card.CompletedAt != nil {
		t.Error("Expected CompletedAt cleared on revert")
	}
	if card.NextReviewDate != nil {
		t.Error("Expected NextReviewDate cleared on revert")
	}
	if card.LastCompletedAt == nil {
		t.Error("Expected LastCompletedAt preserved on revert")
	}
	if card.ReviewCount != 2 {
		t.Errorf("Expected ReviewCount preserved on revert, got %d", card.ReviewCount)
	}
}

func TestToggleFavoriteIndependentOfCompletion(t *testing.T) {
	t.Parallel()
	card := mustNewCard(t, CardData{Question: "q"})
	now := time.Now().UTC()

	card.ToggleCompletion(now)
	card.ToggleFavorite(now)
	if !card.Favorite || !card.Completed {
		t.Error("Expected a mastered card to be favoritable")
	}
	card.ToggleFavorite(now)
	if card.Favorite {
		t.Error("Expected favorite flag to flip back")
	}
}

func TestNeedsReview(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	due := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	testCases := []struct {
		name     string
		card     Card
		expected bool
	}{
		{"active card", Card{Completed: false, NextReviewDate: &due}, false},
		{"no review scheduled", Card{Completed: true}, false},
		{"due", Card{Completed: true, NextReviewDate: &due}, true},
		{"due exactly now", Card{Completed: true, NextReviewDate: &now}, true},
		{"not yet due", Card{Completed: true, NextReviewDate: &future}, false},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.card.NeedsReview(now); got != tc.expected {
				t.Errorf("NeedsReview = %t, expected %t", got, tc.expected)
			}
		})
	}
}

func TestMatchesQuery(t *testing.T) {
	t.Parallel()
	card := Card{
		DisplayID: 3,
		Question:  "What is the Capital of France?",
		Answer:    "Paris",
		Tags:      []string{"geography"},
	}

	testCases := []struct {
		query    string
		expected bool
	}{
		{"", true},
		{"#", false},
		{"#3", true},
		{"#33", false},
		{"#4", false},
		{"capital", true},
		{"PARIS", true},
		{"geo", true},
		{"history", false},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.query, func(t *testing.T) {
			t.Parallel()
			if got := card.MatchesQuery(tc.query); got != tc.expected {
				t.Errorf("MatchesQuery(%q) = %t, expected %t", tc.query, got, tc.expected)
			}
		})
	}
}

func TestHasAllTags(t *testing.T) {
	t.Parallel()
	card := Card{Tags: []string{"go", "testing"}}

	if !card.HasAllTags(nil) {
		t.Error("Expected empty tag set to match")
	}
	if !card.HasAllTags([]string{"go"}) {
		t.Error("Expected subset to match")
	}
	if !card.HasAllTags([]string{"GO", "testing"}) {
		t.Error("Expected match to be case-insensitive on input")
	}
	if card.HasAllTags([]string{"go", "missing"}) {
		t.Error("Expected missing tag to fail the match")
	}
}

func TestSortCards(t *testing.T) {
	t.Parallel()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	older := &Card{ID: 1, CreatedAt: base}
	newer := &Card{ID: 2, CreatedAt: base.Add(48 * time.Hour)}
	updated := base.Add(24 * time.Hour)
	middle := &Card{ID: 3, CreatedAt: base.Add(-24 * time.Hour), UpdatedAt: &updated}

	cards := []*Card{older, newer, middle}

	byCreatedAsc := SortCards(cards, SortFieldCreatedAt, SortAsc)
	if byCreatedAsc[0].ID != 3 || byCreatedAsc[1].ID != 1 || byCreatedAsc[2].ID != 2 {
		t.Errorf("Unexpected createdAt asc order: %d %d %d",
			byCreatedAsc[0].ID, byCreatedAsc[1].ID, byCreatedAsc[2].ID)
	}

	// A card never updated sorts by CreatedAt when the field is updatedAt.
	byUpdatedDesc := SortCards(cards, SortFieldUpdatedAt, SortDesc)
	if byUpdatedDesc[0].ID != 2 || byUpdatedDesc[1].ID != 3 || byUpdatedDesc[2].ID != 1 {
		t.Errorf("Unexpected updatedAt desc order: %d %d %d",
			byUpdatedDesc[0].ID, byUpdatedDesc[1].ID, byUpdatedDesc[2].ID)
	}

	if cards[0] != older || cards[1] != newer || cards[2] != middle {
		t.Error("Expected the input slice order to be untouched")
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	card := mustNewCard(t, CardData{Question: "q", Tags: []string{"a"}})
	card.NextReviewDate = &now
	card.RelatedCards = []int64{9}

	clone := card.Clone()
	clone.Tags[0] = "changed"
	clone.RelatedCards[0] = 7
	*clone.NextReviewDate = now.Add(time.Hour)

	if card.Tags[0] != "a" || card.RelatedCards[0] != 9 || !card.NextReviewDate.Equal(now) {
		t.Error("Expected clone mutations to leave the original untouched")
	}
}
