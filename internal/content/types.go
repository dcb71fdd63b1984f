package content

import (
	"encoding/json"
	"fmt"
)

// LevelModule is a named bundle of vocabulary cards.
type LevelModule struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Cards       []Card `json:"cards"`
}

// Card is one vocabulary expression with its examples and exercises.
type Card struct {
	ID                 string      `json:"id" validate:"required"`
	Expression         string      `json:"expression" validate:"required"`
	Case               string      `json:"case"`
	Articles           *Articles   `json:"articles,omitempty"`
	Translation        string      `json:"translation,omitempty"`
	Examples           *Examples   `json:"examples,omitempty"`
	Exercises          []Exercise  `json:"exercises" validate:"dive"`
	Vocab              []VocabPair `json:"vocab,omitempty"`
	ExpressionExamples *Articles   `json:"expression_examples,omitempty"`
}

// Articles maps grammatical gender to a sample phrase.
type Articles struct {
	M string `json:"m,omitempty"`
	F string `json:"f,omitempty"`
	N string `json:"n,omitempty"`
}

// ExamplePair is a German sentence with its Russian translation.
type ExamplePair struct {
	DE string `json:"de"`
	RU string `json:"ru"`
}

// Examples groups example sentences by tense.
type Examples struct {
	Present []ExamplePair `json:"present,omitempty"`
	Past    []ExamplePair `json:"past,omitempty"`
	Future  []ExamplePair `json:"future,omitempty"`
}

// VocabPair is a glossary line attached to a card.
type VocabPair struct {
	DE string `json:"de"`
	RU string `json:"ru"`
}

// ExerciseType discriminates the Exercise union.
type ExerciseType string

const (
	ExerciseOrder   ExerciseType = "order"
	ExerciseGap     ExerciseType = "gap"
	ExerciseReading ExerciseType = "reading"
	ExerciseDaWo    ExerciseType = "da_wo"
)

// Exercise is a tagged union: exactly one of the variant fields matching Type
// is set.
type Exercise struct {
	Type    ExerciseType
	Task    string
	Order   *OrderExercise
	Gap     *GapExercise
	Reading *ReadingExercise
	DaWo    *DaWoExercise
}

// OrderExercise asks the learner to rebuild sentences from shuffled words.
type OrderExercise struct {
	Items []OrderItem `json:"content" validate:"min=1,dive"`
}

// OrderItem is one sentence to rebuild.
type OrderItem struct {
	Words    []string `json:"words" validate:"min=1"`
	Solution string   `json:"solution" validate:"required"`
}

// GapExercise is a text with numbered blanks, written as "___ (n)".
type GapExercise struct {
	Text string    `json:"text" validate:"required"`
	Gaps []GapItem `json:"gaps" validate:"min=1,dive"`
}

// GapItem is one blank with its choices.
type GapItem struct {
	ID       int      `json:"id"`
	Options  []string `json:"options" validate:"min=1"`
	Solution string   `json:"solution" validate:"required"`
}

// ReadingExercise is a comprehension text with multiple-choice questions.
type ReadingExercise struct {
	Text      string            `json:"text" validate:"required"`
	Questions []ReadingQuestion `json:"questions" validate:"min=1,dive"`
}

// ReadingQuestion is one comprehension question.
type ReadingQuestion struct {
	Q        string   `json:"q" validate:"required"`
	Options  []string `json:"options" validate:"min=1"`
	Solution string   `json:"solution" validate:"required"`
}

// DaWoExercise asks for a wo-compound question per sentence.
type DaWoExercise struct {
	Items []DaWoItem `json:"content" validate:"min=1,dive"`
}

// DaWoItem is one sentence to turn into a question.
type DaWoItem struct {
	Sentence string `json:"sentence" validate:"required"`
	Solution string `json:"solution" validate:"required"`
}

type exerciseHeader struct {
	Type ExerciseType `json:"type"`
	Task string       `json:"task,omitempty"`
}

// UnmarshalJSON decodes the variant selected by "type". Order and da_wo
// exercises accept both the "content" list and the legacy single-item form.
func (e *Exercise) UnmarshalJSON(data []byte) error {
	var h exerciseHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}
	out := Exercise{Type: h.Type, Task: h.Task}

	switch h.Type {
	case ExerciseOrder:
		var raw struct {
			Content []OrderItem `json:"content"`
			OrderItem
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("order exercise: %w", err)
		}
		items := raw.Content
		if len(items) == 0 && (raw.Solution != "" || len(raw.Words) > 0) {
			items = []OrderItem{raw.OrderItem}
		}
		out.Order = &OrderExercise{Items: items}
	case ExerciseGap:
		var g GapExercise
		if err := json.Unmarshal(data, &g); err != nil {
			return fmt.Errorf("gap exercise: %w", err)
		}
		out.Gap = &g
	case ExerciseReading:
		var r ReadingExercise
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("reading exercise: %w", err)
		}
		out.Reading = &r
	case ExerciseDaWo:
		var raw struct {
			Content []DaWoItem `json:"content"`
			DaWoItem
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("da_wo exercise: %w", err)
		}
		items := raw.Content
		if len(items) == 0 && (raw.Sentence != "" || raw.Solution != "") {
			items = []DaWoItem{raw.DaWoItem}
		}
		out.DaWo = &DaWoExercise{Items: items}
	default:
		return fmt.Errorf("unknown exercise type %q", h.Type)
	}

	*e = out
	return nil
}

// MarshalJSON writes the flat wire shape: the header fields next to the
// variant fields.
func (e Exercise) MarshalJSON() ([]byte, error) {
	h := exerciseHeader{Type: e.Type, Task: e.Task}
	switch {
	case e.Order != nil:
		return json.Marshal(struct {
			exerciseHeader
			*OrderExercise
		}{h, e.Order})
	case e.Gap != nil:
		return json.Marshal(struct {
			exerciseHeader
			*GapExercise
		}{h, e.Gap})
	case e.Reading != nil:
		return json.Marshal(struct {
			exerciseHeader
			*ReadingExercise
		}{h, e.Reading})
	case e.DaWo != nil:
		return json.Marshal(struct {
			exerciseHeader
			*DaWoExercise
		}{h, e.DaWo})
	default:
		return json.Marshal(h)
	}
}

// DictionaryEntry is one headword of the dictionary.
type DictionaryEntry struct {
	ID            string            `json:"id" validate:"required"`
	Headword      string            `json:"headword" validate:"required"`
	POS           string            `json:"pos" validate:"required"`
	Preview       string            `json:"preview,omitempty"`
	TranslationRU string            `json:"translation_ru,omitempty"`
	Gender        string            `json:"gender,omitempty" validate:"omitempty,oneof=m f n"`
	Forms         map[string]string `json:"forms,omitempty"`
	Examples      []ExamplePair     `json:"examples,omitempty"`
	Notes         *EntryNotes       `json:"notes,omitempty"`
	Topics        []string          `json:"topics,omitempty"`
	Register      string            `json:"register,omitempty"`
	B1Verified    bool              `json:"b1_verified,omitempty"`
}

// EntryNotes carries usage hints for a dictionary entry.
type EntryNotes struct {
	Synonyms     []string `json:"synonyms,omitempty"`
	Antonyms     []string `json:"antonyms,omitempty"`
	Usage        string   `json:"usage,omitempty"`
	Collocations []string `json:"collocations,omitempty"`
}

// EmailRecord is one reading text of the emails section. Fields the core does
// not know are kept in Extra and written back unchanged.
type EmailRecord struct {
	ID     string
	Title  string
	Level  string
	Length int
	Extra  map[string]json.RawMessage
}

var emailKnownFields = map[string]bool{"id": true, "title": true, "level": true, "length": true}

func (r *EmailRecord) UnmarshalJSON(data []byte) error {
	var known struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Level  string `json:"level"`
		Length int    `json:"length"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	extra := make(map[string]json.RawMessage)
	for k, v := range all {
		if !emailKnownFields[k] {
			extra[k] = v
		}
	}
	*r = EmailRecord{ID: known.ID, Title: known.Title, Level: known.Level, Length: known.Length}
	if len(extra) > 0 {
		r.Extra = extra
	}
	return nil
}

func (r EmailRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+4)
	for k, v := range r.Extra {
		out[k] = v
	}
	out["id"] = r.ID
	out["title"] = r.Title
	out["level"] = r.Level
	out["length"] = r.Length
	return json.Marshal(out)
}
