// Package practice connects content exercises to the answer evaluator: it
// turns an exercise into gradable items, drives the word-order board and
// checks that content solutions pass their own rules.
package practice

import (
	"strconv"

	"github.com/p-n-ai/b1-trainer/internal/content"
	"github.com/p-n-ai/b1-trainer/internal/evaluate"
)

// GapKey is the item key of gap id.
func GapKey(id int) string { return "gap:" + strconv.Itoa(id) }

// QuestionKey is the item key of the i-th reading question.
func QuestionKey(i int) string { return "q:" + strconv.Itoa(i) }

// OrderKey is the item key of the i-th sentence of an order exercise.
func OrderKey(i int) string { return "order:" + strconv.Itoa(i) }

// DaWoKey is the item key of the i-th sentence of a da_wo exercise.
func DaWoKey(i int) string { return "dawo:" + strconv.Itoa(i) }

// Items lists the gradable items of an exercise in display order. Gap and
// reading items are graded exactly, order items by word sequence and da_wo
// items by the lenient question rule.
func Items(ex content.Exercise) []evaluate.Item {
	var items []evaluate.Item
	switch {
	case ex.Gap != nil:
		for _, g := range ex.Gap.Gaps {
			items = append(items, evaluate.Item{Key: GapKey(g.ID), Rule: evaluate.RuleExact, Solution: g.Solution})
		}
	case ex.Reading != nil:
		for i, q := range ex.Reading.Questions {
			items = append(items, evaluate.Item{Key: QuestionKey(i), Rule: evaluate.RuleExact, Solution: q.Solution})
		}
	case ex.Order != nil:
		for i, it := range ex.Order.Items {
			items = append(items, evaluate.Item{Key: OrderKey(i), Rule: evaluate.RuleOrder, Solution: it.Solution})
		}
	case ex.DaWo != nil:
		for i, it := range ex.DaWo.Items {
			items = append(items, evaluate.Item{Key: DaWoKey(i), Rule: evaluate.RuleDaWo, Solution: it.Solution})
		}
	}
	return items
}

// NewAttempt starts a fresh attempt at ex with every item unanswered.
func NewAttempt(ex content.Exercise) *evaluate.Attempt {
	return evaluate.NewAttempt(Items(ex))
}
