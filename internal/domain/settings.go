package domain

import "fmt"

// SortField selects the timestamp cards are ordered by.
type SortField string

// SortDirection is the order applied to the selected sort field.
type SortDirection string

// Supported sort fields and directions.
const (
	SortFieldCreatedAt SortField = "createdAt"
	SortFieldUpdatedAt SortField = "updatedAt"

	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Bounds for forgetting-curve configuration.
const (
	ReviewCountMin  = 1
	ReviewCountMax  = 10
	IntervalMinDays = 1
	IntervalMaxDays = 180
)

// ForgettingSettings configures the spaced-repetition scheduler.
type ForgettingSettings struct {
	Enabled       bool  `json:"enabled"`
	ReviewCount   int   `json:"reviewCount"` // maximum number of scheduled reviews per card
	Intervals     []int `json:"intervals"`   // days per review step
	Notifications bool  `json:"notifications"`
}

// FlashcardSettings controls the detail-expansion click behavior.
type FlashcardSettings struct {
	Enabled bool `json:"enabled"`
}

// DarkModeSettings holds the dark-mode flag.
type DarkModeSettings struct {
	Enabled bool `json:"enabled"`
}

// SortSettings holds the card list ordering.
type SortSettings struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// DefaultForgettingSettings returns the built-in scheduler configuration.
func DefaultForgettingSettings() ForgettingSettings {
	return ForgettingSettings{
		Enabled:       true,
		ReviewCount:   5,
		Intervals:     []int{1, 3, 7, 14, 30},
		Notifications: true,
	}
}

// DefaultFlashcardSettings returns the built-in flashcard display settings.
func DefaultFlashcardSettings() FlashcardSettings {
	return FlashcardSettings{Enabled: true}
}

// DefaultDarkModeSettings returns the built-in dark mode settings.
func DefaultDarkModeSettings() DarkModeSettings {
	return DarkModeSettings{Enabled: false}
}

// DefaultSortSettings returns the built-in sort order, most recent first.
func DefaultSortSettings() SortSettings {
	return SortSettings{Field: SortFieldCreatedAt, Direction: SortDesc}
}

// Clone returns a copy with an independent interval slice.
func (s ForgettingSettings) Clone() ForgettingSettings {
	clone := s
	clone.Intervals = append([]int{}, s.Intervals...)
	return clone
}

// Validate checks the forgetting-curve configuration bounds.
func (s ForgettingSettings) Validate() error {
	if s.ReviewCount < ReviewCountMin || s.ReviewCount > ReviewCountMax {
		return NewValidationError("reviewCount",
			fmt.Sprintf("must be between %d and %d", ReviewCountMin, ReviewCountMax))
	}
	if len(s.Intervals) < s.ReviewCount {
		return NewValidationError("intervals",
			fmt.Sprintf("needs at least %d entries for %d reviews", s.ReviewCount, s.ReviewCount))
	}
	for i, days := range s.Intervals {
		if days < IntervalMinDays || days > IntervalMaxDays {
			return NewValidationError("intervals",
				fmt.Sprintf("step %d must be between %d and %d days", i+1, IntervalMinDays, IntervalMaxDays))
		}
	}
	return nil
}

// Validate checks the sort configuration.
func (s SortSettings) Validate() error {
	switch s.Field {
	case SortFieldCreatedAt, SortFieldUpdatedAt:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSortField, s.Field)
	}
	switch s.Direction {
	case SortAsc, SortDesc:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSortDirection, s.Direction)
	}
	return nil
}
