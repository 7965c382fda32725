package labels

import (
	"errors"
	"sync"

	"github.com/oklog/ulid/v2"
)

// ErrStaleCapture is returned when a detail view asks about a capture that
// has since been replaced.
var ErrStaleCapture = errors.New("capture was replaced by a newer one")

// ErrNoCapture is returned by Current before the first capture.
var ErrNoCapture = errors.New("no capture yet")

// Capture is one analyzed photo.
type Capture struct {
	ID     string
	Result *AnalysisResult
}

// Chip is a product label ready for rendering.
type Chip struct {
	Label   string
	Warning bool
}

// Board holds the latest capture. A new capture replaces the previous one
// wholesale along with every match derived from it.
type Board struct {
	mu      sync.RWMutex
	current *Capture
	memo    map[string][]Ingredient
}

func NewBoard() *Board {
	return &Board{}
}

// Replace installs result as the current capture and returns it.
func (b *Board) Replace(result *AnalysisResult) Capture {
	c := Capture{ID: ulid.Make().String(), Result: result}

	b.mu.Lock()
	b.current = &c
	b.memo = make(map[string][]Ingredient)
	b.mu.Unlock()

	return c
}

// Reset drops the current capture.
func (b *Board) Reset() {
	b.mu.Lock()
	b.current = nil
	b.memo = nil
	b.mu.Unlock()
}

// Current returns the current capture.
func (b *Board) Current() (Capture, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.current == nil {
		return Capture{}, ErrNoCapture
	}
	return *b.current, nil
}

// Matches returns the names of the ingredients justifying label in capture
// captureID.
func (b *Board) Matches(captureID, label string) ([]string, error) {
	ings, err := b.Ingredients(captureID, label)
	if err != nil {
		return nil, err
	}
	return names(ings), nil
}

// Ingredients returns the ingredients justifying label in capture captureID.
// The slice is a copy and never nil.
func (b *Board) Ingredients(captureID, label string) ([]Ingredient, error) {
	b.mu.RLock()
	if b.current == nil || b.current.ID != captureID {
		b.mu.RUnlock()
		return nil, ErrStaleCapture
	}
	if m, ok := b.memo[label]; ok {
		b.mu.RUnlock()
		return append(make([]Ingredient, 0, len(m)), m...), nil
	}
	result := b.current.Result
	b.mu.RUnlock()

	m := DeriveIngredients(result, label)

	b.mu.Lock()
	defer b.mu.Unlock()
	// Replaced while deriving.
	if b.current == nil || b.current.ID != captureID {
		return nil, ErrStaleCapture
	}
	b.memo[label] = m
	return append(make([]Ingredient, 0, len(m)), m...), nil
}

// Chips returns the current capture's labels in service order.
func (b *Board) Chips() []Chip {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.current == nil || b.current.Result == nil {
		return nil
	}
	chips := make([]Chip, 0, len(b.current.Result.ProductLabels))
	for _, l := range b.current.Result.ProductLabels {
		chips = append(chips, Chip{Label: l, Warning: IsWarning(l)})
	}
	return chips
}
