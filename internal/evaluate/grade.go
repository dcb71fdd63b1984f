package evaluate

import (
	"fmt"
	"strings"
)

// Rule selects the comparison applied to an item.
type Rule int

const (
	RuleExact Rule = iota
	RuleOrder
	RuleDaWo
)

func (r Rule) String() string {
	switch r {
	case RuleExact:
		return "exact"
	case RuleOrder:
		return "order"
	case RuleDaWo:
		return "da_wo"
	default:
		return fmt.Sprintf("rule(%d)", int(r))
	}
}

// Answer is a learner's draft for one item. Order items fill Words, every
// other rule fills Text.
type Answer struct {
	Text  string   `json:"text,omitempty"`
	Words []string `json:"words,omitempty"`
}

// IsEmpty reports whether nothing has been entered yet.
func (a Answer) IsEmpty() bool {
	return a.Text == "" && len(a.Words) == 0
}

// Result is the outcome of grading one item.
type Result struct {
	Correct bool `json:"correct"`
	// Expected is the canonical answer shown when Correct is false.
	Expected string `json:"expected"`
}

// Grade compares the answer with the solution using rule.
func Grade(rule Rule, answer Answer, solution string) Result {
	var ok bool
	switch rule {
	case RuleOrder:
		ok = CompareOrder(answer.Words, solution)
	case RuleDaWo:
		ok = CompareDaWo(answer.Text, solution)
	default:
		ok = CompareExact(answer.Text, solution)
	}
	return Result{Correct: ok, Expected: NormalizeSpace(solution)}
}

// Display renders an answer the way it is compared.
func Display(rule Rule, answer Answer) string {
	if rule == RuleOrder {
		return NormalizeSpace(strings.Join(answer.Words, " "))
	}
	if rule == RuleDaWo {
		return NormalizeSpace(answer.Text)
	}
	return answer.Text
}
