package practice

import (
	"fmt"
	"slices"
	"strings"

	"github.com/p-n-ai/b1-trainer/internal/content"
	"github.com/p-n-ai/b1-trainer/internal/evaluate"
)

// Finding is a content solution that a learner could never match.
type Finding struct {
	Module   string `json:"module"`
	Card     string `json:"card"`
	Exercise int    `json:"exercise"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

func (f Finding) String() string {
	loc := fmt.Sprintf("%s/%s exercise %d", f.Module, f.Card, f.Exercise)
	if f.Item != "" {
		loc += " " + f.Item
	}
	return loc + ": " + f.Message
}

// SelfCheck feeds every solution in the catalog back through the rule that
// grades it. Gap and reading solutions must be one of their options, order
// words must be able to rebuild the solution and da_wo solutions must pass
// their own comparison as a question.
func SelfCheck(cat *content.Catalog) []Finding {
	var out []Finding
	for _, m := range cat.Modules() {
		for _, c := range m.Cards {
			for i, ex := range c.Exercises {
				report := func(item, msg string) {
					out = append(out, Finding{Module: m.ID, Card: c.ID, Exercise: i, Item: item, Message: msg})
				}
				checkExercise(ex, report)
			}
		}
	}
	return out
}

func checkExercise(ex content.Exercise, report func(item, msg string)) {
	items := Items(ex)
	if len(items) == 0 {
		report("", "exercise has no items")
		return
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it.Key] {
			report(it.Key, "duplicate item key, later items are unreachable")
		}
		seen[it.Key] = true
		if evaluate.NormalizeSpace(it.Solution) == "" {
			report(it.Key, "empty solution")
		}
	}

	switch {
	case ex.Gap != nil:
		for _, g := range ex.Gap.Gaps {
			key := GapKey(g.ID)
			if !passesAny(evaluate.RuleExact, g.Options, g.Solution) {
				report(key, fmt.Sprintf("solution %q is not among the options", g.Solution))
			}
			if !strings.Contains(ex.Gap.Text, fmt.Sprintf("(%d)", g.ID)) {
				report(key, "text has no marker for this gap")
			}
		}
	case ex.Reading != nil:
		for i, q := range ex.Reading.Questions {
			if !passesAny(evaluate.RuleExact, q.Options, q.Solution) {
				report(QuestionKey(i), fmt.Sprintf("solution %q is not among the options", q.Solution))
			}
		}
	case ex.Order != nil:
		for i, it := range ex.Order.Items {
			if !canRebuild(it.Words, it.Solution) {
				report(OrderKey(i), fmt.Sprintf("words %q cannot rebuild %q", it.Words, it.Solution))
			}
		}
	case ex.DaWo != nil:
		for i, it := range ex.DaWo.Items {
			sol := evaluate.NormalizeSpace(it.Solution)
			if !evaluate.Grade(evaluate.RuleDaWo, evaluate.Answer{Text: sol}, it.Solution).Correct {
				report(DaWoKey(i), "solution does not match itself")
			}
			if sol != "" && !strings.HasSuffix(sol, "?") {
				report(DaWoKey(i), "solution is not a question")
			}
		}
	}
}

func passesAny(rule evaluate.Rule, options []string, solution string) bool {
	return slices.ContainsFunc(options, func(o string) bool {
		return evaluate.Grade(rule, evaluate.Answer{Text: o}, solution).Correct
	})
}

// canRebuild reports whether the words, put in the order they appear in the
// solution, grade as correct. Tokens are compared verbatim, punctuation
// included.
func canRebuild(words []string, solution string) bool {
	var have []string
	for _, w := range words {
		have = append(have, strings.Fields(w)...)
	}
	want := strings.Fields(solution)
	slices.Sort(have)
	sorted := slices.Clone(want)
	slices.Sort(sorted)
	if !slices.Equal(have, sorted) {
		return false
	}
	return evaluate.Grade(evaluate.RuleOrder, evaluate.Answer{Words: want}, solution).Correct
}
