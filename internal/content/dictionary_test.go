package content_test

import (
	"testing"
	"testing/fstest"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/b1-trainer/internal/content"
)

func entryIDs(entries []content.DictionaryEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func TestLoadDictionary_DedupKeepsFirst(t *testing.T) {
	fsys := fstest.MapFS{
		"dictionary/a.json": {Data: []byte(`[
			{"id": "warten-auf", "headword": "warten auf", "pos": "V", "translation_ru": "ждать"},
			{"id": "abgeben", "headword": "abgeben", "pos": "V"}
		]`)},
		"dictionary/b.json": {Data: []byte(`[
			{"id": "warten-auf", "headword": "WARTEN AUF (second)", "pos": "V"}
		]`)},
	}

	entries := content.LoadDictionary(fsys, "dictionary", "dictionary.json")
	got := entryIDs(entries)
	want := []string{"warten-auf", "abgeben"}
	if !equalStrings(got, want) {
		t.Fatalf("LoadDictionary() ids = %v, want %v", got, want)
	}
	if entries[0].Headword != "warten auf" {
		t.Errorf("Headword = %q, want the first occurrence", entries[0].Headword)
	}
}

func TestLoadDictionary_Buckets(t *testing.T) {
	fsys := fstest.MapFS{
		"dictionary.json": {Data: []byte(`{
			"phrases": [{"id": "in-frage-kommen", "headword": "in Frage kommen", "pos": "PHRASE"}],
			"nouns": [{"id": "termin", "headword": "Termin", "pos": "N", "gender": "m"}],
			"verbs": [{"id": "abgeben", "headword": "abgeben", "pos": "V"}],
			"other": [{"id": "ignored", "headword": "ignored", "pos": "X"}]
		}`)},
	}

	got := entryIDs(content.LoadDictionary(fsys, "dictionary", "dictionary.json"))
	want := []string{"termin", "abgeben", "in-frage-kommen"}
	if !equalStrings(got, want) {
		t.Errorf("LoadDictionary() ids = %v, want %v", got, want)
	}
}

func TestLoadDictionary_FragmentsWinOverLegacy(t *testing.T) {
	fsys := fstest.MapFS{
		"dictionary/nouns.json": {Data: []byte(`[{"id": "termin", "headword": "Termin", "pos": "N"}]`)},
		"dictionary.json":       {Data: []byte(`[{"id": "legacy", "headword": "legacy", "pos": "N"}]`)},
	}

	got := entryIDs(content.LoadDictionary(fsys, "dictionary", "dictionary.json"))
	if !equalStrings(got, []string{"termin"}) {
		t.Errorf("LoadDictionary() ids = %v, want [termin]", got)
	}
}

func TestLoadDictionary_BrokenFragmentStillSuppressesLegacy(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
	}{
		{name: "malformed json", fragment: `{"nouns": [ broken`},
		{name: "unknown shape", fragment: `"just a string"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{
				"dictionary/nouns.json": {Data: []byte(tt.fragment)},
				"dictionary.json":       {Data: []byte(`[{"id": "legacy", "headword": "legacy", "pos": "N"}]`)},
			}

			got := content.LoadDictionary(fsys, "dictionary", "dictionary.json")
			if len(got) != 0 {
				t.Errorf("LoadDictionary() ids = %v, want none", entryIDs(got))
			}
		})
	}
}

func TestLoadDictionary_OnlyExactManifestExcluded(t *testing.T) {
	fsys := fstest.MapFS{
		"dictionary/Manifest.json":   {Data: []byte(`[{"id": "meta", "headword": "meta", "pos": "N"}]`)},
		"dictionary/nomanifest.json": {Data: []byte(`[{"id": "termin", "headword": "Termin", "pos": "N"}]`)},
	}

	got := entryIDs(content.LoadDictionary(fsys, "dictionary", ""))
	if !equalStrings(got, []string{"termin"}) {
		t.Errorf("LoadDictionary() ids = %v, want [termin]", got)
	}
}

func TestLoadDictionary_LegacyFallback(t *testing.T) {
	fsys := fstest.MapFS{
		"dictionary/manifest.json": {Data: []byte(`{"files": ["nouns.json"]}`)},
		"dictionary/_draft.json":   {Data: []byte(`[{"id": "draft", "headword": "draft", "pos": "N"}]`)},
		"dictionary.json":          {Data: []byte(`[{"id": "legacy", "headword": "legacy", "pos": "N"}]`)},
	}

	got := entryIDs(content.LoadDictionary(fsys, "dictionary", "dictionary.json"))
	if !equalStrings(got, []string{"legacy"}) {
		t.Errorf("LoadDictionary() ids = %v, want [legacy]", got)
	}
}

func TestLoadDictionary_SkipsEntriesWithoutID(t *testing.T) {
	fsys := fstest.MapFS{
		"dictionary/a.json": {Data: []byte(`[
			{"headword": "kein id", "pos": "N"},
			{"id": 42, "headword": "numeric id", "pos": "N"},
			{"id": "", "headword": "empty", "pos": "N"},
			"not an object",
			{"id": "ok", "headword": "ok", "pos": "N", "forms": "should be an object"}
		]`)},
	}

	entries := content.LoadDictionary(fsys, "dictionary", "")
	if got := entryIDs(entries); !equalStrings(got, []string{"ok"}) {
		t.Fatalf("LoadDictionary() ids = %v, want [ok]", got)
	}
	if entries[0].Headword != "ok" || entries[0].POS != "N" {
		t.Errorf("entry = %+v, want core fields kept", entries[0])
	}
}

func TestLoadDictionary_Missing(t *testing.T) {
	entries := content.LoadDictionary(fstest.MapFS{}, "dictionary", "dictionary.json")
	if entries == nil || len(entries) != 0 {
		t.Errorf("LoadDictionary() = %v, want empty non-nil slice", entries)
	}
}

func TestLoadDictionary_YAMLFragment(t *testing.T) {
	fsys := fstest.MapFS{
		"dictionary/adverbs.yaml": {Data: []byte(`
- id: rechtzeitig
  headword: rechtzeitig
  pos: ADV
  translation_ru: вовремя
  topics: [work, time]
`)},
	}

	entries := content.LoadDictionary(fsys, "dictionary", "")
	if len(entries) != 1 {
		t.Fatalf("LoadDictionary() = %d entries, want 1", len(entries))
	}
	if entries[0].TranslationRU != "вовремя" || len(entries[0].Topics) != 2 {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestLoadDictionary_Spreadsheet(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]any{
		{"ID", "Headword", "POS", "Translation_RU", "Gender", "Topics", "forms.plural", "B1_Verified"},
		{"termin", "Termin", "N", "встреча", "m", "work; time", "Termine", "true"},
		{"", "no id", "N"},
		{"abgabe", "Abgabe", "N", "сдача", "f"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName() error = %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow() error = %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}

	fsys := fstest.MapFS{
		"dictionary/nouns.xlsx": {Data: buf.Bytes()},
	}
	entries := content.LoadDictionary(fsys, "dictionary", "")
	if got := entryIDs(entries); !equalStrings(got, []string{"termin", "abgabe"}) {
		t.Fatalf("LoadDictionary() ids = %v, want [termin abgabe]", got)
	}

	termin := entries[0]
	if termin.Headword != "Termin" || termin.Gender != "m" || !termin.B1Verified {
		t.Errorf("termin = %+v", termin)
	}
	if termin.Forms["plural"] != "Termine" {
		t.Errorf("Forms[plural] = %q, want Termine", termin.Forms["plural"])
	}
	if !equalStrings(termin.Topics, []string{"work", "time"}) {
		t.Errorf("Topics = %v, want [work time]", termin.Topics)
	}
}

func TestLoadEmails(t *testing.T) {
	fsys := fstest.MapFS{
		"emails.json": {Data: []byte(`[
			{"id": "e1", "title": "Termin verschieben", "level": "B1", "length": 120, "body": "Sehr geehrte..."},
			{"title": "no id"},
			{"id": "e2", "title": "Beschwerde", "level": "B1", "length": 95}
		]`)},
	}

	emails := content.LoadEmails(fsys, "emails.json")
	if len(emails) != 2 {
		t.Fatalf("LoadEmails() = %d records, want 2", len(emails))
	}
	if emails[0].ID != "e1" || emails[0].Length != 120 {
		t.Errorf("emails[0] = %+v", emails[0])
	}
	if _, ok := emails[0].Extra["body"]; !ok {
		t.Errorf("Extra = %v, want the body field preserved", emails[0].Extra)
	}
}

func TestLoadEmails_MissingOrMalformed(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{name: "missing", fsys: fstest.MapFS{}},
		{name: "object", fsys: fstest.MapFS{"emails.json": {Data: []byte(`{"id": "e1"}`)}}},
		{name: "broken", fsys: fstest.MapFS{"emails.json": {Data: []byte(`[{"id": `)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emails := content.LoadEmails(tt.fsys, "emails.json")
			if emails == nil || len(emails) != 0 {
				t.Errorf("LoadEmails() = %v, want empty non-nil slice", emails)
			}
		})
	}
}
