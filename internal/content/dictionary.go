package content

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"path"
	"strings"
)

// bucketKeys are the part-of-speech groups of a bundled dictionary file, in
// flattening order.
var bucketKeys = []string{"nouns", "verbs", "adjectives", "advs", "adverbs", "phrases"}

// dictShape tags the accepted layouts of a dictionary fragment.
type dictShape int

const (
	dictUnknown dictShape = iota
	dictArray
	dictBuckets
	dictSheet
)

// dictFragment is one dictionary source before flattening. Structured files
// carry a JSON document, spreadsheets carry their already decoded rows.
type dictFragment struct {
	shape dictShape
	doc   document
	rows  []DictionaryEntry
}

func classifyDictionary(doc document) dictShape {
	switch doc.kind() {
	case '[':
		return dictArray
	case '{':
		return dictBuckets
	}
	return dictUnknown
}

// isExcludedName reports whether a file is index metadata or a draft rather
// than content: a file named manifest or a name starting with an underscore.
func isExcludedName(name string) bool {
	if strings.HasPrefix(name, "_") {
		return true
	}
	stem := strings.TrimSuffix(name, path.Ext(name))
	return strings.EqualFold(stem, "manifest")
}

// LoadDictionary aggregates dictionary entries. Per-file fragments in dir win
// over the legacy single file; the two are never merged. Entries without a
// non-empty string id are dropped and duplicate ids keep the first occurrence.
// Precedence is decided by which fragment files exist, so a broken fragment
// still suppresses the legacy file.
func LoadDictionary(fsys fs.FS, dir, legacyFile string) []DictionaryEntry {
	files := dictionaryFragmentFiles(fsys, dir)
	if len(files) == 0 && legacyFile != "" {
		files = []string{legacyFile}
	}

	var frags []dictFragment
	for _, name := range files {
		if f, ok := readDictionaryFile(fsys, name); ok {
			frags = append(frags, f)
		}
	}

	var entries []DictionaryEntry
	for _, f := range frags {
		switch f.shape {
		case dictArray:
			entries = append(entries, decodeEntries(flattenArray(f.doc))...)
		case dictBuckets:
			entries = append(entries, decodeEntries(flattenBuckets(f.doc))...)
		case dictSheet:
			entries = append(entries, f.rows...)
		}
	}

	return dedupEntries(entries)
}

// dictionaryFragmentFiles lists the candidate fragment files of dir, before
// any of them is parsed.
func dictionaryFragmentFiles(fsys fs.FS, dir string) []string {
	if dir == "" {
		return nil
	}
	dirEntries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if !isNotExist(err) {
			slog.Warn("reading dictionary dir failed", "dir", dir, "error", err)
		}
		return nil
	}

	var files []string
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || isExcludedName(name) {
			continue
		}
		if !isStructuredFile(name) && !isSheetFile(name) {
			continue
		}
		files = append(files, path.Join(dir, name))
	}
	return files
}

func readDictionaryFile(fsys fs.FS, name string) (dictFragment, bool) {
	if isSheetFile(name) {
		rows, err := readSheetEntries(fsys, name)
		if err != nil {
			if !isNotExist(err) {
				slog.Warn("skipping invalid dictionary sheet", "path", name, "error", err)
			}
			return dictFragment{}, false
		}
		return dictFragment{shape: dictSheet, rows: rows}, true
	}

	doc, err := readDocument(fsys, name)
	if err != nil {
		if !isNotExist(err) {
			slog.Warn("skipping invalid dictionary file", "path", name, "error", err)
		}
		return dictFragment{}, false
	}
	shape := classifyDictionary(doc)
	if shape == dictUnknown {
		slog.Warn("skipping dictionary file of unknown shape", "path", name)
		return dictFragment{}, false
	}
	return dictFragment{shape: shape, doc: doc}, true
}

func flattenArray(doc document) []json.RawMessage {
	var raw []json.RawMessage
	if err := json.Unmarshal(doc.data, &raw); err != nil {
		return nil
	}
	return raw
}

func flattenBuckets(doc document) []json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(doc.data, &obj); err != nil {
		return nil
	}
	var out []json.RawMessage
	for _, key := range bucketKeys {
		bucket, ok := obj[key]
		if !ok || jsonKind(bucket) != '[' {
			continue
		}
		var raw []json.RawMessage
		if err := json.Unmarshal(bucket, &raw); err != nil {
			continue
		}
		out = append(out, raw...)
	}
	return out
}

func decodeEntries(raw []json.RawMessage) []DictionaryEntry {
	out := make([]DictionaryEntry, 0, len(raw))
	for _, r := range raw {
		if e, ok := decodeEntry(r); ok {
			out = append(out, e)
		}
	}
	return out
}

// decodeEntry accepts any object with a non-empty string id. When optional
// fields have unexpected types the entry is kept with its core fields only.
func decodeEntry(raw json.RawMessage) (DictionaryEntry, bool) {
	if jsonKind(raw) != '{' {
		return DictionaryEntry{}, false
	}
	var head struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return DictionaryEntry{}, false
	}
	id, ok := head.ID.(string)
	if !ok || strings.TrimSpace(id) == "" {
		return DictionaryEntry{}, false
	}

	var e DictionaryEntry
	if err := json.Unmarshal(raw, &e); err == nil {
		return e, true
	}

	var core struct {
		Headword      any `json:"headword"`
		POS           any `json:"pos"`
		Preview       any `json:"preview"`
		TranslationRU any `json:"translation_ru"`
	}
	_ = json.Unmarshal(raw, &core)
	slog.Debug("dictionary entry has malformed optional fields", "id", id)
	return DictionaryEntry{
		ID:            id,
		Headword:      stringOrEmpty(core.Headword),
		POS:           stringOrEmpty(core.POS),
		Preview:       stringOrEmpty(core.Preview),
		TranslationRU: stringOrEmpty(core.TranslationRU),
	}, true
}

func stringOrEmpty(v any) string {
	s, _ := v.(string)
	return s
}

func dedupEntries(entries []DictionaryEntry) []DictionaryEntry {
	seen := make(map[string]bool, len(entries))
	out := make([]DictionaryEntry, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.ID) == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}
