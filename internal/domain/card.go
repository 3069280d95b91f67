package domain

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Validation limits for card fields.
const (
	QuestionMaxLength = 50
	AnswerMaxLength   = 200
	URLMaxLength      = 500
	MaxURLs           = 10
	MaxImages         = 2
	MaxImageBytes     = 5 * 1024 * 1024
)

// Card is a single unit of study material. A card is either Active
// (still being learned) or Mastered (Completed == true); the forgetting-curve
// sweep moves mastered cards back to Active when their review date passes.
//
// All mutation goes through the methods below so the invariants in the
// service layer stay enforceable: DisplayID is never reassigned and
// ReviewCount never exceeds the configured maximum. A sweep revert leaves
// the rescheduled NextReviewDate on the now-active card.
type Card struct {
	ID              int64      `json:"id"`
	DisplayID       int        `json:"displayId"`
	Question        string     `json:"question"`
	Answer          string     `json:"answer"`
	Tags            []string   `json:"tags"`
	Completed       bool       `json:"completed"`
	Favorite        bool       `json:"favorite"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt"`
	CompletedAt     *time.Time `json:"completedAt"`
	LastCompletedAt *time.Time `json:"lastCompletedAt"`
	ReviewCount     int        `json:"reviewCount"`
	NextReviewDate  *time.Time `json:"nextReviewDate"`
	RelatedCards    []int64    `json:"relatedCards"`
	URLs            []string   `json:"urls,omitempty"`
	Images          []string   `json:"images,omitempty"` // blob store keys, not inline data
}

// CardData is the input for creating a new card.
type CardData struct {
	Question string
	Answer   string
	Tags     []string
	URLs     []string
	Images   []string
}

// CardUpdate carries the permitted fields for Card.Update. Nil pointers and
// nil slices leave the current value untouched; completion and review fields
// are deliberately absent.
type CardUpdate struct {
	Question *string
	Answer   *string
	Tags     []string
	URLs     []string
	Images   []string
}

// ID generation guard. Creation timestamps are the card IDs; two cards
// created within the same millisecond must still get distinct IDs.
var (
	idMu   sync.Mutex
	lastID int64
)

func nextCardID(now time.Time) int64 {
	idMu.Lock()
	defer idMu.Unlock()
	id := now.UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}

// NewCard validates the given data and constructs a card in the Active state
// with zeroed review fields. The DisplayID is assigned by the service layer,
// not here. Returns a ValidationError before any state is created if a
// constraint is violated.
func NewCard(data CardData) (*Card, error) {
	question := strings.TrimSpace(data.Question)
	answer := strings.TrimSpace(data.Answer)
	tags := NormalizeTags(data.Tags)
	urls, err := normalizeURLs(data.URLs)
	if err != nil {
		return nil, err
	}
	if err := validateCardFields(question, answer, len(data.Images)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Card{
		ID:           nextCardID(now),
		Question:     question,
		Answer:       answer,
		Tags:         tags,
		CreatedAt:    now,
		RelatedCards: []int64{},
		URLs:         urls,
		Images:       append([]string{}, data.Images...),
	}, nil
}

func validateCardFields(question, answer string, imageCount int) error {
	if question == "" {
		return NewValidationError("question", "must not be empty")
	}
	if utf8.RuneCountInString(question) > QuestionMaxLength {
		return NewValidationError("question",
			fmt.Sprintf("must be at most %d characters", QuestionMaxLength))
	}
	if utf8.RuneCountInString(answer) > AnswerMaxLength {
		return NewValidationError("answer",
			fmt.Sprintf("must be at most %d characters", AnswerMaxLength))
	}
	if imageCount > MaxImages {
		return NewValidationError("images",
			fmt.Sprintf("at most %d images per card", MaxImages))
	}
	return nil
}

// NormalizeTags lowercases, trims, and deduplicates tags while keeping the
// insertion order of the first occurrence.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func normalizeURLs(urls []string) ([]string, error) {
	out := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, raw := range urls {
		u := strings.TrimSpace(raw)
		if u == "" {
			continue
		}
		if len(u) > URLMaxLength {
			return nil, NewValidationError("urls",
				fmt.Sprintf("each URL must be at most %d characters", URLMaxLength))
		}
		parsed, err := url.Parse(u)
		if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return nil, NewValidationError("urls", fmt.Sprintf("%q is not a valid absolute URL", u))
		}
		if _, dup := seen[u]; dup {
			return nil, NewValidationError("urls", fmt.Sprintf("%q is already attached", u))
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	if len(out) > MaxURLs {
		return nil, NewValidationError("urls", fmt.Sprintf("at most %d URLs per card", MaxURLs))
	}
	return out, nil
}

// Update merges the permitted fields, re-validates, and stamps UpdatedAt.
// Validation runs against the merged result before anything is written, so a
// failed update leaves the card unchanged. Completion and review fields are
// never touched here.
func (c *Card) Update(upd CardUpdate) error {
	question := c.Question
	if upd.Question != nil {
		question = strings.TrimSpace(*upd.Question)
	}
	answer := c.Answer
	if upd.Answer != nil {
		answer = strings.TrimSpace(*upd.Answer)
	}
	tags := c.Tags
	if upd.Tags != nil {
		tags = NormalizeTags(upd.Tags)
	}
	urls := c.URLs
	if upd.URLs != nil {
		normalized, err := normalizeURLs(upd.URLs)
		if err != nil {
			return err
		}
		urls = normalized
	}
	images := c.Images
	if upd.Images != nil {
		images = append([]string{}, upd.Images...)
	}

	if err := validateCardFields(question, answer, len(images)); err != nil {
		return err
	}

	c.Question = question
	c.Answer = answer
	c.Tags = tags
	c.URLs = urls
	c.Images = images
	now := time.Now().UTC()
	c.UpdatedAt = &now
	return nil
}

// ToggleCompletion flips the card between Active and Mastered.
//
// Active -> Mastered stamps CompletedAt and LastCompletedAt. Mastered ->
// Active clears CompletedAt and NextReviewDate. ReviewCount is owned by the
// scheduler and is never changed here; the caller invokes the scheduler
// separately when the forgetting curve is enabled.
func (c *Card) ToggleCompletion(now time.Time) {
	if c.Completed {
		c.Completed = false
		c.CompletedAt = nil
		c.NextReviewDate = nil
		return
	}
	c.Completed = true
	completedAt := now
	c.CompletedAt = &completedAt
	lastCompletedAt := now
	c.LastCompletedAt = &lastCompletedAt
}

// ToggleFavorite flips the favorite flag and stamps UpdatedAt. Favorite is
// independent of completion state.
func (c *Card) ToggleFavorite(now time.Time) {
	c.Favorite = !c.Favorite
	updatedAt := now
	c.UpdatedAt = &updatedAt
}

// NeedsReview reports whether the card is mastered and its review date has
// passed.
func (c *Card) NeedsReview(now time.Time) bool {
	if !c.Completed || c.NextReviewDate == nil {
		return false
	}
	return !now.Before(*c.NextReviewDate)
}

// MatchesQuery reports whether the card matches a search query.
//
// An empty query matches every card. A query starting with '#' is an exact
// match against the display ID ("#3" matches only displayId 3, a bare "#"
// matches nothing). Anything else is a case-insensitive substring match
// against the question, the answer, and each tag.
func (c *Card) MatchesQuery(query string) bool {
	if query == "" {
		return true
	}
	if strings.HasPrefix(query, "#") {
		idQuery := query[1:]
		if idQuery == "" {
			return false
		}
		return strconv.Itoa(c.DisplayID) == idQuery
	}
	term := strings.ToLower(query)
	if strings.Contains(strings.ToLower(c.Question), term) {
		return true
	}
	if c.Answer != "" && strings.Contains(strings.ToLower(c.Answer), term) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(tag, term) {
			return true
		}
	}
	return false
}

// HasAllTags reports whether every requested tag is present in the card's
// tag set. An empty request always matches.
func (c *Card) HasAllTags(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(c.Tags))
	for _, t := range c.Tags {
		have[t] = struct{}{}
	}
	for _, t := range tags {
		if _, ok := have[strings.ToLower(t)]; !ok {
			return false
		}
	}
	return true
}

// Clone returns a deep copy so callers can hand cards across the service
// boundary without exposing internal state.
func (c *Card) Clone() *Card {
	clone := *c
	clone.Tags = append([]string{}, c.Tags...)
	clone.RelatedCards = append([]int64{}, c.RelatedCards...)
	if c.URLs != nil {
		clone.URLs = append([]string{}, c.URLs...)
	}
	if c.Images != nil {
		clone.Images = append([]string{}, c.Images...)
	}
	clone.UpdatedAt = cloneTime(c.UpdatedAt)
	clone.CompletedAt = cloneTime(c.CompletedAt)
	clone.LastCompletedAt = cloneTime(c.LastCompletedAt)
	clone.NextReviewDate = cloneTime(c.NextReviewDate)
	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// sortTime is the value a card sorts by for the given field. UpdatedAt falls
// back to CreatedAt for cards that were never updated.
func (c *Card) sortTime(field SortField) time.Time {
	if field == SortFieldUpdatedAt && c.UpdatedAt != nil {
		return *c.UpdatedAt
	}
	return c.CreatedAt
}

// SortCards returns a new slice sorted by the given field and direction.
// The sort is stable and the input slice is left untouched.
func SortCards(cards []*Card, field SortField, direction SortDirection) []*Card {
	sorted := append([]*Card{}, cards...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].sortTime(field), sorted[j].sortTime(field)
		if direction == SortAsc {
			return a.Before(b)
		}
		return b.Before(a)
	})
	return sorted
}
