package evaluate

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrLocked is returned when an item is edited or re-checked after its
	// check. Only Reset unlocks it.
	ErrLocked = errors.New("item already checked")
	// ErrUnknownItem is returned for a key the attempt does not hold.
	ErrUnknownItem = errors.New("unknown item")
)

// Phase is the lifecycle position of one item.
type Phase int

const (
	Unanswered Phase = iota
	Answered
	Checked
)

func (p Phase) String() string {
	switch p {
	case Unanswered:
		return "unanswered"
	case Answered:
		return "answered"
	case Checked:
		return "checked"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Item is one gradable unit of an exercise.
type Item struct {
	Key      string
	Rule     Rule
	Solution string
}

// Cell is the state of one item: its draft, whether it was checked and the
// result of that check.
type Cell struct {
	Draft   Answer `json:"draft"`
	Checked bool   `json:"checked"`
	Result  Result `json:"result"`
}

// Phase derives the lifecycle position from the cell contents.
func (c Cell) Phase() Phase {
	switch {
	case c.Checked:
		return Checked
	case c.Draft.IsEmpty():
		return Unanswered
	default:
		return Answered
	}
}

// Attempt holds the per-item state of one exercise instance. Every item is an
// independent cell keyed by Item.Key.
type Attempt struct {
	mu    sync.Mutex
	keys  []string
	items map[string]Item
	cells map[string]Cell
}

// NewAttempt creates an attempt with every item Unanswered. When two items
// share a key the first one wins.
func NewAttempt(items []Item) *Attempt {
	a := &Attempt{
		items: make(map[string]Item, len(items)),
		cells: make(map[string]Cell, len(items)),
	}
	for _, it := range items {
		if _, dup := a.items[it.Key]; dup {
			continue
		}
		a.keys = append(a.keys, it.Key)
		a.items[it.Key] = it
		a.cells[it.Key] = Cell{}
	}
	return a
}

// Keys returns item keys in creation order.
func (a *Attempt) Keys() []string {
	return slices.Clone(a.keys)
}

// Item returns the item definition for key.
func (a *Attempt) Item(key string) (Item, bool) {
	it, ok := a.items[key]
	return it, ok
}

// Cell returns a copy of the state for key.
func (a *Attempt) Cell(key string) (Cell, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.cells[key]
	if !ok {
		return Cell{}, false
	}
	c.Draft.Words = slices.Clone(c.Draft.Words)
	return c, true
}

// SetDraft stores the learner's current answer for key.
func (a *Attempt) SetDraft(key string, ans Answer) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, ok := a.cells[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	if c.Checked {
		return fmt.Errorf("%w: %s", ErrLocked, key)
	}
	c.Draft = Answer{Text: ans.Text, Words: slices.Clone(ans.Words)}
	a.cells[key] = c
	return nil
}

// Check grades the draft for key and locks the cell. An empty draft is graded
// like any other answer. Checking a locked cell returns its stored result
// together with ErrLocked.
func (a *Attempt) Check(key string) (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, ok := a.cells[key]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	if c.Checked {
		return c.Result, fmt.Errorf("%w: %s", ErrLocked, key)
	}
	it := a.items[key]
	c.Result = Grade(it.Rule, c.Draft, it.Solution)
	c.Checked = true
	a.cells[key] = c
	return c.Result, nil
}

// CheckAll checks every item that is not locked yet and returns the results of
// all items, keyed like the cells.
func (a *Attempt) CheckAll() map[string]Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]Result, len(a.keys))
	for _, key := range a.keys {
		c := a.cells[key]
		if !c.Checked {
			it := a.items[key]
			c.Result = Grade(it.Rule, c.Draft, it.Solution)
			c.Checked = true
			a.cells[key] = c
		}
		out[key] = c.Result
	}
	return out
}

// Complete reports whether every item has a non-empty draft.
func (a *Attempt) Complete() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, key := range a.keys {
		if a.cells[key].Draft.IsEmpty() {
			return false
		}
	}
	return true
}

// Reset clears the draft and the result for key, returning it to Unanswered.
func (a *Attempt) Reset(key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.cells[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	a.cells[key] = Cell{}
	return nil
}

// ResetAll returns every item to Unanswered.
func (a *Attempt) ResetAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, key := range a.keys {
		a.cells[key] = Cell{}
	}
}

// Score counts correct and checked items.
func (a *Attempt) Score() (correct, checked int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, key := range a.keys {
		c := a.cells[key]
		if !c.Checked {
			continue
		}
		checked++
		if c.Result.Correct {
			correct++
		}
	}
	return correct, checked
}
