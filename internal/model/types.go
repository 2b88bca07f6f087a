// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category is one of the fixed quote categories understood by the backend.
type Category string

// Known categories.
const (
	CategoryMotivation  Category = "motivation"
	CategoryInspiration Category = "inspiration"
	CategoryWisdom      Category = "wisdom"
	CategoryHumor       Category = "humor"
	CategoryLove        Category = "love"
	CategorySuccess     Category = "success"
	CategoryLife        Category = "life"
	CategoryFriendship  Category = "friendship"
	CategoryHappiness   Category = "happiness"
	CategoryRandom      Category = "random"
)

// DefaultCategory is preselected in the preferences form.
const DefaultCategory = CategoryMotivation

// QuoteLength is sent with every generation request.
const QuoteLength = "medium"

// Input limits accepted by the backend, counted in characters.
const (
	TopicMaxLen = 100
	StyleMaxLen = 50
)

// ErrInvalidCategory is returned when a category is not in the known set.
var ErrInvalidCategory = errors.New("invalid category")

var categories = []Category{
	CategoryMotivation,
	CategoryInspiration,
	CategoryWisdom,
	CategoryHumor,
	CategoryLove,
	CategorySuccess,
	CategoryLife,
	CategoryFriendship,
	CategoryHappiness,
	CategoryRandom,
}

// Categories returns the known categories in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory resolves a user-supplied name to a Category.
func ParseCategory(name string) (Category, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	for _, c := range categories {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w %q (available: %s)", ErrInvalidCategory, name, CategoryList())
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Title returns the category name with an upper-case first letter.
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// CategoryList joins the known category names with commas.
func CategoryList() string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// Preferences are the user-editable inputs for quote generation.
// The max tags must match TopicMaxLen and StyleMaxLen.
type Preferences struct {
	Category Category `validate:"omitempty,category"`
	Topic    string   `validate:"max=100"`
	Style    string   `validate:"max=50"`
}

// Resolved returns the category that will be sent, defaulting to random.
func (p Preferences) Resolved() Category {
	if p.Category == "" {
		return CategoryRandom
	}
	return p.Category
}

// QuoteResult is a generated quote ready for display.
type QuoteResult struct {
	Text      string
	Author    string
	Category  string
	Timestamp string
}

// Empty reports whether no quote text is present.
func (q QuoteResult) Empty() bool {
	return strings.TrimSpace(q.Text) == ""
}

// ClipboardText formats the quote the way it is copied.
func (q QuoteResult) ClipboardText() string {
	return "\"" + q.Text + "\" - " + q.Author
}

// RequestState tracks whether a generation request is outstanding.
type RequestState int

// Request states.
const (
	StateIdle RequestState = iota
	StateInFlight
)

func (s RequestState) String() string {
	switch s {
	case StateInFlight:
		return "in-flight"
	default:
		return "idle"
	}
}

// Config defines runtime settings resolved from flags and the config file.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	Preferences    Preferences
	FallbackAuthor string
	KeepOnError    bool
	WarnThreshold  int
	LogLevel       string
	LogFile        string
}

// HistoryEntry is a stored successful generation.
type HistoryEntry struct {
	ID        string
	Text      string
	Author    string
	Category  string
	Topic     string
	Style     string
	CreatedAt time.Time
}
