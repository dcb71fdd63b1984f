package practice

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/p-n-ai/b1-trainer/internal/content"
	"github.com/p-n-ai/b1-trainer/internal/evaluate"
)

var (
	// ErrNotOrder is returned when a board is built from a non-order exercise.
	ErrNotOrder = errors.New("exercise is not an order exercise")
	// ErrNoToken is returned when a token is not where a move expects it.
	ErrNoToken = errors.New("token not available")
)

// Token is one word tile. Index is its position in the content word list, so
// repeated words stay distinguishable.
type Token struct {
	Index int    `json:"index"`
	Word  string `json:"word"`
}

// OrderBoard is the word-order interaction of one order exercise. Each item
// has a pool of shuffled tokens and a selection; the selected words are the
// item's draft answer.
type OrderBoard struct {
	mu      sync.Mutex
	attempt *evaluate.Attempt
	shuffle func(n int, swap func(i, j int))
	tokens  map[string][]Token
	pool    map[string][]Token
	chosen  map[string][]Token
}

// NewOrderBoard shuffles the words of every sentence of ex with rng. A nil rng
// uses the package random source. The board keeps rng for later reshuffles.
func NewOrderBoard(ex content.Exercise, rng *rand.Rand) (*OrderBoard, error) {
	if ex.Order == nil {
		return nil, ErrNotOrder
	}
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}

	b := &OrderBoard{
		attempt: NewAttempt(ex),
		shuffle: shuffle,
		tokens:  make(map[string][]Token, len(ex.Order.Items)),
		pool:    make(map[string][]Token, len(ex.Order.Items)),
		chosen:  make(map[string][]Token, len(ex.Order.Items)),
	}
	for i, it := range ex.Order.Items {
		tokens := make([]Token, len(it.Words))
		for j, w := range it.Words {
			tokens[j] = Token{Index: j, Word: w}
		}
		key := OrderKey(i)
		b.tokens[key] = tokens
		b.pool[key] = b.shuffled(key)
		b.chosen[key] = nil
	}
	return b, nil
}

// Attempt returns the attempt holding the board's drafts and results.
func (b *OrderBoard) Attempt() *evaluate.Attempt {
	return b.attempt
}

// Pool returns the tokens still available for key.
func (b *OrderBoard) Pool(key string) []Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.pool[key])
}

// Selection returns the tokens chosen for key, in order.
func (b *OrderBoard) Selection(key string) []Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.chosen[key])
}

// Choose moves the token with index from the pool to the end of the selection.
func (b *OrderBoard) Choose(key string, index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.editable(key); err != nil {
		return err
	}
	pos := slices.IndexFunc(b.pool[key], func(t Token) bool { return t.Index == index })
	if pos < 0 {
		return fmt.Errorf("%w: %s token %d", ErrNoToken, key, index)
	}
	tok := b.pool[key][pos]
	pool := slices.Delete(slices.Clone(b.pool[key]), pos, pos+1)
	chosen := append(slices.Clone(b.chosen[key]), tok)
	return b.commit(key, pool, chosen)
}

// Unchoose moves the token with index from the selection back to the pool.
func (b *OrderBoard) Unchoose(key string, index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.editable(key); err != nil {
		return err
	}
	pos := slices.IndexFunc(b.chosen[key], func(t Token) bool { return t.Index == index })
	if pos < 0 {
		return fmt.Errorf("%w: %s token %d", ErrNoToken, key, index)
	}
	tok := b.chosen[key][pos]
	chosen := slices.Delete(slices.Clone(b.chosen[key]), pos, pos+1)
	pool := append(slices.Clone(b.pool[key]), tok)
	return b.commit(key, pool, chosen)
}

// Check grades the selection of key and locks it.
func (b *OrderBoard) Check(key string) (evaluate.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempt.Check(key)
}

// Reset clears the item and puts every token of key back into the pool in a
// fresh shuffled order.
func (b *OrderBoard) Reset(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.attempt.Reset(key); err != nil {
		return err
	}
	b.pool[key] = b.shuffled(key)
	b.chosen[key] = nil
	return nil
}

func (b *OrderBoard) shuffled(key string) []Token {
	tokens := slices.Clone(b.tokens[key])
	b.shuffle(len(tokens), func(x, y int) { tokens[x], tokens[y] = tokens[y], tokens[x] })
	return tokens
}

func (b *OrderBoard) editable(key string) error {
	cell, ok := b.attempt.Cell(key)
	if !ok {
		return fmt.Errorf("%w: %s", evaluate.ErrUnknownItem, key)
	}
	if cell.Checked {
		return fmt.Errorf("%w: %s", evaluate.ErrLocked, key)
	}
	return nil
}

// commit stores the draft for chosen and only then replaces the token lists,
// so a move rejected by the attempt leaves the board unchanged.
func (b *OrderBoard) commit(key string, pool, chosen []Token) error {
	words := make([]string, len(chosen))
	for i, t := range chosen {
		words[i] = t.Word
	}
	if err := b.attempt.SetDraft(key, evaluate.Answer{Words: words}); err != nil {
		return err
	}
	b.pool[key] = pool
	b.chosen[key] = chosen
	return nil
}
