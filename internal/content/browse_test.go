package content_test

import (
	"testing"

	"github.com/p-n-ai/b1-trainer/internal/content"
)

func TestDictionarySorted_GermanOrder(t *testing.T) {
	c := content.Load(testFS(), content.DefaultLayout())

	got := entryIDs(c.DictionarySorted())
	want := []string{"aerger", "apfel", "auto", "in-frage-kommen", "uebung", "warten-auf", "zur-verfuegung"}
	if !equalStrings(got, want) {
		t.Errorf("DictionarySorted() = %v, want %v", got, want)
	}
}

func TestDictionaryByPOS(t *testing.T) {
	c := content.Load(testFS(), content.DefaultLayout())

	tests := []struct {
		name  string
		pos   string
		query string
		want  []string
	}{
		{name: "nouns", pos: "N", want: []string{"aerger", "apfel", "auto", "uebung"}},
		{name: "lower case tag", pos: "v", want: []string{"warten-auf"}},
		{name: "phrase alias", pos: "PHR", want: []string{"in-frage-kommen", "zur-verfuegung"}},
		{name: "phrase long tag", pos: "PHRASE", want: []string{"in-frage-kommen", "zur-verfuegung"}},
		{name: "headword query", pos: "N", query: "AP", want: []string{"apfel"}},
		{name: "translation query", pos: "V", query: "ждать", want: []string{"warten-auf"}},
		{name: "diacritics folded", pos: "N", query: "ubung", want: []string{"uebung"}},
		{name: "umlaut query", pos: "", query: "verfüg", want: []string{"zur-verfuegung"}},
		{name: "all parts of speech", pos: "", query: "", want: []string{"aerger", "apfel", "auto", "in-frage-kommen", "uebung", "warten-auf", "zur-verfuegung"}},
		{name: "no match", pos: "ADJ", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entryIDs(c.DictionaryByPOS(tt.pos, tt.query))
			if !equalStrings(got, tt.want) {
				t.Errorf("DictionaryByPOS(%q, %q) = %v, want %v", tt.pos, tt.query, got, tt.want)
			}
		})
	}
}

func TestDictionaryNeighbors(t *testing.T) {
	c := content.Load(testFS(), content.DefaultLayout())

	n, ok := c.DictionaryNeighbors("apfel")
	if !ok {
		t.Fatal("DictionaryNeighbors(apfel) not found")
	}
	if n.Prev == nil || n.Prev.ID != "aerger" {
		t.Errorf("Prev = %+v, want aerger", n.Prev)
	}
	if n.Next == nil || n.Next.ID != "auto" {
		t.Errorf("Next = %+v, want auto", n.Next)
	}

	first, _ := c.DictionaryNeighbors("aerger")
	if first.Prev != nil {
		t.Errorf("first entry Prev = %+v, want nil", first.Prev)
	}
	last, _ := c.DictionaryNeighbors("zur-verfuegung")
	if last.Next != nil {
		t.Errorf("last entry Next = %+v, want nil", last.Next)
	}

	if _, ok := c.DictionaryNeighbors("missing"); ok {
		t.Error("DictionaryNeighbors(missing) found, want not found")
	}
}

func TestNormalizePOS(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"phrase", "PHR"},
		{" PHR ", "PHR"},
		{"adj", "ADJ"},
		{"N", "N"},
	}
	for _, tt := range tests {
		if got := content.NormalizePOS(tt.in); got != tt.want {
			t.Errorf("NormalizePOS(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := content.POSTitle("PHRASE"); got != "Phrases" {
		t.Errorf("POSTitle(PHRASE) = %q, want Phrases", got)
	}
}
