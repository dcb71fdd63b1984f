package evaluate_test

import (
	"errors"
	"testing"

	"github.com/p-n-ai/b1-trainer/internal/evaluate"
)

func newGapAttempt() *evaluate.Attempt {
	return evaluate.NewAttempt([]evaluate.Item{
		{Key: "gap:1", Rule: evaluate.RuleExact, Solution: "auf"},
		{Key: "gap:2", Rule: evaluate.RuleExact, Solution: "auf"},
		{Key: "gap:3", Rule: evaluate.RuleExact, Solution: "an"},
	})
}

func TestAttempt_Lifecycle(t *testing.T) {
	a := newGapAttempt()

	c, ok := a.Cell("gap:1")
	if !ok {
		t.Fatal("Cell(gap:1) not found")
	}
	if c.Phase() != evaluate.Unanswered {
		t.Errorf("Phase() = %v, want unanswered", c.Phase())
	}

	if err := a.SetDraft("gap:1", evaluate.Answer{Text: "auf"}); err != nil {
		t.Fatalf("SetDraft() error = %v", err)
	}
	c, _ = a.Cell("gap:1")
	if c.Phase() != evaluate.Answered {
		t.Errorf("Phase() = %v, want answered", c.Phase())
	}

	res, err := a.Check("gap:1")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !res.Correct {
		t.Error("Check() result should be correct")
	}
	c, _ = a.Cell("gap:1")
	if c.Phase() != evaluate.Checked {
		t.Errorf("Phase() = %v, want checked", c.Phase())
	}
}

func TestAttempt_LockedAfterCheck(t *testing.T) {
	a := newGapAttempt()
	_ = a.SetDraft("gap:1", evaluate.Answer{Text: "an"})
	if _, err := a.Check("gap:1"); err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	err := a.SetDraft("gap:1", evaluate.Answer{Text: "auf"})
	if !errors.Is(err, evaluate.ErrLocked) {
		t.Fatalf("SetDraft() after check error = %v, want ErrLocked", err)
	}

	c, _ := a.Cell("gap:1")
	if c.Draft.Text != "an" {
		t.Errorf("Draft = %q, want unchanged %q", c.Draft.Text, "an")
	}
	if c.Result.Correct {
		t.Error("Result should still be the original incorrect result")
	}

	res, err := a.Check("gap:1")
	if !errors.Is(err, evaluate.ErrLocked) {
		t.Errorf("second Check() error = %v, want ErrLocked", err)
	}
	if res.Correct {
		t.Error("second Check() should return the stored result")
	}
}

func TestAttempt_ResetUnlocks(t *testing.T) {
	a := newGapAttempt()
	_ = a.SetDraft("gap:1", evaluate.Answer{Text: "an"})
	_, _ = a.Check("gap:1")

	if err := a.Reset("gap:1"); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	c, _ := a.Cell("gap:1")
	if c.Phase() != evaluate.Unanswered {
		t.Errorf("Phase() after reset = %v, want unanswered", c.Phase())
	}
	if !c.Draft.IsEmpty() {
		t.Errorf("Draft after reset = %+v, want empty", c.Draft)
	}
	if err := a.SetDraft("gap:1", evaluate.Answer{Text: "auf"}); err != nil {
		t.Errorf("SetDraft() after reset error = %v", err)
	}
}

func TestAttempt_CellsAreIndependent(t *testing.T) {
	a := newGapAttempt()
	_ = a.SetDraft("gap:1", evaluate.Answer{Text: "auf"})
	_ = a.SetDraft("gap:2", evaluate.Answer{Text: "für"})
	_, _ = a.Check("gap:2")

	c1, _ := a.Cell("gap:1")
	if c1.Checked {
		t.Error("checking gap:2 must not check gap:1")
	}
	if c1.Draft.Text != "auf" {
		t.Errorf("gap:1 draft = %q, want auf", c1.Draft.Text)
	}
	c3, _ := a.Cell("gap:3")
	if c3.Phase() != evaluate.Unanswered {
		t.Errorf("gap:3 phase = %v, want unanswered", c3.Phase())
	}

	_ = a.Reset("gap:2")
	c1, _ = a.Cell("gap:1")
	if c1.Draft.Text != "auf" {
		t.Error("resetting gap:2 must not clear gap:1")
	}
}

func TestAttempt_CheckAll(t *testing.T) {
	a := newGapAttempt()
	_ = a.SetDraft("gap:1", evaluate.Answer{Text: "auf"})
	_ = a.SetDraft("gap:2", evaluate.Answer{Text: "für"})

	if a.Complete() {
		t.Error("Complete() = true with gap:3 unanswered")
	}

	results := a.CheckAll()
	if len(results) != 3 {
		t.Fatalf("CheckAll() returned %d results, want 3", len(results))
	}
	if !results["gap:1"].Correct || results["gap:2"].Correct || results["gap:3"].Correct {
		t.Errorf("CheckAll() = %+v, want only gap:1 correct", results)
	}
	if results["gap:3"].Expected != "an" {
		t.Errorf("Expected = %q, want an", results["gap:3"].Expected)
	}

	correct, checked := a.Score()
	if correct != 1 || checked != 3 {
		t.Errorf("Score() = (%d, %d), want (1, 3)", correct, checked)
	}

	a.ResetAll()
	if _, checked := a.Score(); checked != 0 {
		t.Errorf("Score() after ResetAll checked = %d, want 0", checked)
	}
}

func TestAttempt_UnknownItem(t *testing.T) {
	a := newGapAttempt()
	if err := a.SetDraft("gap:9", evaluate.Answer{Text: "x"}); !errors.Is(err, evaluate.ErrUnknownItem) {
		t.Errorf("SetDraft() error = %v, want ErrUnknownItem", err)
	}
	if _, err := a.Check("gap:9"); !errors.Is(err, evaluate.ErrUnknownItem) {
		t.Errorf("Check() error = %v, want ErrUnknownItem", err)
	}
	if err := a.Reset("gap:9"); !errors.Is(err, evaluate.ErrUnknownItem) {
		t.Errorf("Reset() error = %v, want ErrUnknownItem", err)
	}
}

func TestAttempt_DuplicateKeysKeepFirst(t *testing.T) {
	a := evaluate.NewAttempt([]evaluate.Item{
		{Key: "q:0", Rule: evaluate.RuleExact, Solution: "first"},
		{Key: "q:0", Rule: evaluate.RuleExact, Solution: "second"},
	})
	if got := len(a.Keys()); got != 1 {
		t.Fatalf("Keys() len = %d, want 1", got)
	}
	it, _ := a.Item("q:0")
	if it.Solution != "first" {
		t.Errorf("Solution = %q, want first", it.Solution)
	}
}

func TestAttempt_DraftWordsNotAliased(t *testing.T) {
	a := evaluate.NewAttempt([]evaluate.Item{
		{Key: "order:0", Rule: evaluate.RuleOrder, Solution: "Wir warten."},
	})
	words := []string{"Wir", "warten."}
	_ = a.SetDraft("order:0", evaluate.Answer{Words: words})
	words[0] = "Ihr"

	res, _ := a.Check("order:0")
	if !res.Correct {
		t.Error("mutating the caller's slice must not change the stored draft")
	}
}

func TestAttempt_EmptyAnswerIsIncorrect(t *testing.T) {
	a := evaluate.NewAttempt([]evaluate.Item{
		{Key: "dawo:0", Rule: evaluate.RuleDaWo, Solution: "Woran denkt Daria?"},
	})
	res, err := a.Check("dawo:0")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if res.Correct {
		t.Error("empty answer should be incorrect")
	}
}
