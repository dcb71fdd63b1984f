package content

import (
	"cmp"
	"encoding/json"
	"io/fs"
	"log/slog"
	"math"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	levelPathPattern = regexp.MustCompile(`(?i)level[_-]?(\d+)`)
	firstNumber      = regexp.MustCompile(`\d+`)
)

// levelShape tags the two accepted layouts of a level file.
type levelShape int

const (
	levelUnknown levelShape = iota
	levelCardArray
	levelObject
)

func classifyLevel(doc document) levelShape {
	switch doc.kind() {
	case '[':
		return levelCardArray
	case '{':
		return levelObject
	}
	return levelUnknown
}

// levelSource is a normalized module together with the file it came from,
// which is the fallback ordering source.
type levelSource struct {
	module LevelModule
	path   string
}

// LoadModules reads every level fragment below dir and returns the modules
// sorted by level number. Unreadable or malformed fragments are skipped.
func LoadModules(fsys fs.FS, dir string) []LevelModule {
	var sources []levelSource

	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && isNotExist(err) {
				return fs.SkipDir
			}
			slog.Warn("skipping unreadable level path", "path", p, "error", err)
			return nil
		}
		if d.IsDir() || !isStructuredFile(d.Name()) || isExcludedName(d.Name()) {
			return nil
		}

		doc, err := readDocument(fsys, p)
		if err != nil {
			slog.Warn("skipping invalid level file", "path", p, "error", err)
			return nil
		}
		m, ok := normalizeLevel(doc)
		if !ok {
			slog.Debug("skipping level fragment without cards", "path", p)
			return nil
		}
		sources = append(sources, levelSource{module: m, path: p})
		return nil
	})
	if err != nil {
		slog.Warn("walking levels failed", "dir", dir, "error", err)
	}

	return orderModules(sources)
}

// normalizeLevel dispatches a document to the normalizer of its shape.
func normalizeLevel(doc document) (LevelModule, bool) {
	switch classifyLevel(doc) {
	case levelCardArray:
		return normalizeCardArray(doc)
	case levelObject:
		return normalizeLevelObject(doc)
	default:
		return LevelModule{}, false
	}
}

func normalizeCardArray(doc document) (LevelModule, bool) {
	var raw []json.RawMessage
	if err := json.Unmarshal(doc.data, &raw); err != nil {
		return LevelModule{}, false
	}
	return LevelModule{
		ID:    levelIDFromPath(doc.path),
		Cards: decodeCards(doc.path, raw),
	}, true
}

func normalizeLevelObject(doc document) (LevelModule, bool) {
	var obj struct {
		ID          string          `json:"id"`
		Title       string          `json:"title"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Cards       json.RawMessage `json:"cards"`
	}
	if err := json.Unmarshal(doc.data, &obj); err != nil {
		return LevelModule{}, false
	}
	if jsonKind(obj.Cards) != '[' {
		return LevelModule{}, false
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(obj.Cards, &raw); err != nil {
		return LevelModule{}, false
	}

	id := strings.TrimSpace(obj.ID)
	if id == "" {
		id = levelIDFromPath(doc.path)
	}
	title := obj.Title
	if title == "" {
		title = obj.Name
	}
	return LevelModule{
		ID:          id,
		Title:       title,
		Description: obj.Description,
		Cards:       decodeCards(doc.path, raw),
	}, true
}

// decodeCards decodes each card on its own so one bad card does not discard
// its siblings. Cards without an id and duplicate ids are dropped.
func decodeCards(src string, raw []json.RawMessage) []Card {
	cards := make([]Card, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, r := range raw {
		c, ok := decodeCard(r)
		if !ok {
			slog.Debug("skipping malformed card", "path", src, "index", i)
			continue
		}
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		cards = append(cards, c)
	}
	return cards
}

func decodeCard(raw json.RawMessage) (Card, bool) {
	type cardFields Card
	var w struct {
		cardFields
		Exercises []json.RawMessage `json:"exercises"`
	}
	if jsonKind(raw) != '{' {
		return Card{}, false
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return Card{}, false
	}
	c := Card(w.cardFields)
	if strings.TrimSpace(c.ID) == "" {
		return Card{}, false
	}

	c.Exercises = make([]Exercise, 0, len(w.Exercises))
	for i, r := range w.Exercises {
		var ex Exercise
		if err := json.Unmarshal(r, &ex); err != nil {
			slog.Debug("skipping malformed exercise", "card", c.ID, "index", i, "error", err)
			continue
		}
		c.Exercises = append(c.Exercises, ex)
	}
	return c, true
}

// levelIDFromPath synthesizes "level<N>" from the last levelN pattern in the
// path, ignoring zero padding. Without a pattern the file's base name is used.
func levelIDFromPath(p string) string {
	matches := levelPathPattern.FindAllStringSubmatch(p, -1)
	if len(matches) > 0 {
		digits := matches[len(matches)-1][1]
		if n, err := strconv.Atoi(digits); err == nil {
			return "level" + strconv.Itoa(n)
		}
		return "level" + strings.TrimLeft(digits, "0")
	}
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

// levelNumber returns the first number embedded in s.
func levelNumber(s string) (int, bool) {
	m := firstNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return math.MaxInt, true
	}
	return n, true
}

func levelOrderKey(id, src string) int {
	if n, ok := levelNumber(id); ok {
		return n
	}
	if n, ok := levelNumber(path.Base(src)); ok {
		return n
	}
	if n, ok := levelNumber(src); ok {
		return n
	}
	return math.MaxInt
}

// orderModules drops duplicate ids, keeping the first, and sorts by level
// number. Modules without a number go last; ties keep their relative order.
func orderModules(sources []levelSource) []LevelModule {
	seen := make(map[string]bool, len(sources))
	kept := make([]levelSource, 0, len(sources))
	for _, s := range sources {
		if s.module.ID == "" || seen[s.module.ID] {
			continue
		}
		seen[s.module.ID] = true
		kept = append(kept, s)
	}

	slices.SortStableFunc(kept, func(a, b levelSource) int {
		return cmp.Compare(levelOrderKey(a.module.ID, a.path), levelOrderKey(b.module.ID, b.path))
	})

	out := make([]LevelModule, len(kept))
	for i, s := range kept {
		out[i] = s.module
	}
	return out
}
