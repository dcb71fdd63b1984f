package content

import (
	"slices"
	"strings"
)

// Part-of-speech labels used by dictionary entries.
const (
	POSNoun      = "N"
	POSVerb      = "V"
	POSAdjective = "ADJ"
	POSAdverb    = "ADV"
	POSPhrase    = "PHR"
)

// NormalizePOS upper-cases a part-of-speech tag and folds PHRASE into PHR.
func NormalizePOS(pos string) string {
	p := strings.ToUpper(strings.TrimSpace(pos))
	if p == "PHRASE" {
		return POSPhrase
	}
	return p
}

// POSTitle returns the section title for a part of speech, or the tag itself
// when it is not one of the known ones.
func POSTitle(pos string) string {
	switch NormalizePOS(pos) {
	case POSNoun:
		return "Nouns"
	case POSVerb:
		return "Verbs"
	case POSAdjective:
		return "Adjectives"
	case POSAdverb:
		return "Adverbs"
	case POSPhrase:
		return "Phrases"
	default:
		return pos
	}
}

// Neighbors are the entries before and after an entry in alphabetical order.
type Neighbors struct {
	Prev *DictionaryEntry `json:"prev"`
	Next *DictionaryEntry `json:"next"`
}

type searchKey struct {
	headword    string
	translation string
	folded      string
}

// buildDictionaryOrder sorts the entries once, alphabetically by latinized
// headword under a German collator, and precomputes search keys.
func (c *Catalog) buildDictionaryOrder() {
	keys := make([]string, len(c.entries))
	c.search = make([]searchKey, len(c.entries))
	for i, e := range c.entries {
		keys[i] = latinize(e.Headword)
		c.search[i] = searchKey{
			headword:    strings.ToLower(e.Headword),
			translation: strings.ToLower(e.TranslationRU),
			folded:      foldDiacritics(e.Headword) + "\x00" + foldDiacritics(e.TranslationRU),
		}
	}

	col := newCollator()
	c.alpha = make([]int, len(c.entries))
	for i := range c.alpha {
		c.alpha[i] = i
	}
	slices.SortStableFunc(c.alpha, func(a, b int) int {
		if r := col.CompareString(keys[a], keys[b]); r != 0 {
			return r
		}
		return strings.Compare(c.entries[a].ID, c.entries[b].ID)
	})

	c.alphaPos = make(map[string]int, len(c.alpha))
	for pos, i := range c.alpha {
		c.alphaPos[c.entries[i].ID] = pos
	}
}

// DictionarySorted returns every entry in alphabetical order.
func (c *Catalog) DictionarySorted() []DictionaryEntry {
	out := make([]DictionaryEntry, 0, len(c.alpha))
	for _, i := range c.alpha {
		out = append(out, c.entries[i])
	}
	return cloneList(out)
}

// DictionaryByPOS returns the entries of one part of speech in alphabetical
// order. A non-empty query keeps entries whose headword or Russian
// translation contains it, ignoring case and diacritics. An empty pos matches
// every entry.
func (c *Catalog) DictionaryByPOS(pos, query string) []DictionaryEntry {
	want := NormalizePOS(pos)
	q := strings.ToLower(strings.TrimSpace(query))
	fq := foldDiacritics(q)

	out := make([]DictionaryEntry, 0)
	for _, i := range c.alpha {
		e := c.entries[i]
		if want != "" && NormalizePOS(e.POS) != want {
			continue
		}
		if q != "" && !c.search[i].matches(q, fq) {
			continue
		}
		out = append(out, e)
	}
	return cloneList(out)
}

func (k searchKey) matches(q, folded string) bool {
	return strings.Contains(k.headword, q) ||
		strings.Contains(k.translation, q) ||
		strings.Contains(k.folded, folded)
}

// DictionaryNeighbors returns the alphabetical neighbours of the entry id.
func (c *Catalog) DictionaryNeighbors(id string) (Neighbors, bool) {
	pos, ok := c.alphaPos[id]
	if !ok {
		return Neighbors{}, false
	}
	var n Neighbors
	if pos > 0 {
		e := clone(c.entries[c.alpha[pos-1]])
		n.Prev = &e
	}
	if pos < len(c.alpha)-1 {
		e := clone(c.entries[c.alpha[pos+1]])
		n.Next = &e
	}
	return n, true
}
