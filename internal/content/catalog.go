// Package content loads level modules, dictionary entries and email texts
// from content files and serves them as immutable, indexed collections.
package content

import (
	"io/fs"
	"log/slog"
	"strings"

	"github.com/tiendc/go-deepcopy"
)

// Layout names the content files below a content root.
type Layout struct {
	LevelsDir      string
	DictionaryDir  string
	DictionaryFile string
	EmailsFile     string
}

// DefaultLayout returns the standard content layout.
func DefaultLayout() Layout {
	return Layout{
		LevelsDir:      "levels",
		DictionaryDir:  "dictionary",
		DictionaryFile: "dictionary.json",
		EmailsFile:     "emails.json",
	}
}

// CardRef is the result of a card lookup: the card and the module owning it.
type CardRef struct {
	Module LevelModule `json:"module"`
	Card   Card        `json:"card"`
}

// Stats summarizes a catalog.
type Stats struct {
	Modules           int `json:"modules"`
	Cards             int `json:"cards"`
	DictionaryEntries int `json:"dictionary_entries"`
	Emails            int `json:"emails"`
}

// Catalog holds every loaded collection. It is built once and never modified;
// accessors hand out deep copies, so callers cannot change what other callers
// see. A Catalog is safe for concurrent use.
type Catalog struct {
	modules   []LevelModule
	moduleIdx map[string]int
	cardIdx   []map[string]int

	entries  []DictionaryEntry
	entryIdx map[string]int
	alpha    []int
	alphaPos map[string]int
	search   []searchKey

	emails   []EmailRecord
	emailIdx map[string]int
}

// Load reads all content below fsys using layout. Missing files produce empty
// collections; nothing here fails.
func Load(fsys fs.FS, layout Layout) *Catalog {
	c := newCatalog(
		LoadModules(fsys, layout.LevelsDir),
		LoadDictionary(fsys, layout.DictionaryDir, layout.DictionaryFile),
		LoadEmails(fsys, layout.EmailsFile),
		false,
	)
	st := c.Stats()
	slog.Info("content loaded",
		"modules", st.Modules,
		"cards", st.Cards,
		"dictionary_entries", st.DictionaryEntries,
		"emails", st.Emails,
	)
	return c
}

// NewCatalog builds a catalog from in-memory records, applying the same
// rules as Load: first occurrence wins for duplicate ids and modules are
// ordered by level number.
func NewCatalog(modules []LevelModule, entries []DictionaryEntry, emails []EmailRecord) *Catalog {
	return newCatalog(clone(modules), clone(entries), clone(emails), true)
}

func newCatalog(modules []LevelModule, entries []DictionaryEntry, emails []EmailRecord, sortModules bool) *Catalog {
	if sortModules {
		sources := make([]levelSource, len(modules))
		for i, m := range modules {
			sources[i] = levelSource{module: m}
		}
		modules = orderModules(sources)
	}

	c := &Catalog{
		modules:   modules,
		moduleIdx: make(map[string]int, len(modules)),
		cardIdx:   make([]map[string]int, len(modules)),
		entries:   dedupEntries(entries),
		emailIdx:  make(map[string]int, len(emails)),
	}
	if c.modules == nil {
		c.modules = []LevelModule{}
	}

	for i := range c.modules {
		m := &c.modules[i]
		c.moduleIdx[m.ID] = i
		idx := make(map[string]int, len(m.Cards))
		kept := m.Cards[:0]
		for _, card := range m.Cards {
			if strings.TrimSpace(card.ID) == "" {
				continue
			}
			if _, dup := idx[card.ID]; dup {
				continue
			}
			idx[card.ID] = len(kept)
			kept = append(kept, card)
		}
		m.Cards = kept
		c.cardIdx[i] = idx
	}

	c.entryIdx = make(map[string]int, len(c.entries))
	for i, e := range c.entries {
		c.entryIdx[e.ID] = i
	}
	c.buildDictionaryOrder()

	c.emails = emails
	if c.emails == nil {
		c.emails = []EmailRecord{}
	}
	for i, e := range c.emails {
		if _, dup := c.emailIdx[e.ID]; !dup {
			c.emailIdx[e.ID] = i
		}
	}
	return c
}

// Modules returns all modules in level order.
func (c *Catalog) Modules() []LevelModule {
	return cloneList(c.modules)
}

// Module looks a module up by its exact id.
func (c *Catalog) Module(id string) (LevelModule, bool) {
	i, ok := c.moduleIdx[id]
	if !ok {
		return LevelModule{}, false
	}
	return clone(c.modules[i]), true
}

// Card looks a card up inside a module.
func (c *Catalog) Card(moduleID, cardID string) (CardRef, bool) {
	mi, ok := c.moduleIdx[moduleID]
	if !ok {
		return CardRef{}, false
	}
	ci, ok := c.cardIdx[mi][cardID]
	if !ok {
		return CardRef{}, false
	}
	m := c.modules[mi]
	return CardRef{Module: clone(m), Card: clone(m.Cards[ci])}, true
}

// DictionaryIndex returns every entry in load order.
func (c *Catalog) DictionaryIndex() []DictionaryEntry {
	return cloneList(c.entries)
}

// DictionaryEntry looks an entry up by id.
func (c *Catalog) DictionaryEntry(id string) (DictionaryEntry, bool) {
	i, ok := c.entryIdx[id]
	if !ok {
		return DictionaryEntry{}, false
	}
	return clone(c.entries[i]), true
}

// Emails returns every email record in file order.
func (c *Catalog) Emails() []EmailRecord {
	return cloneList(c.emails)
}

// Email looks an email up by id.
func (c *Catalog) Email(id string) (EmailRecord, bool) {
	i, ok := c.emailIdx[id]
	if !ok {
		return EmailRecord{}, false
	}
	return clone(c.emails[i]), true
}

// Stats counts the records held by the catalog.
func (c *Catalog) Stats() Stats {
	cards := 0
	for _, m := range c.modules {
		cards += len(m.Cards)
	}
	return Stats{
		Modules:           len(c.modules),
		Cards:             cards,
		DictionaryEntries: len(c.entries),
		Emails:            len(c.emails),
	}
}

// cloneList copies a collection; an empty collection stays a non-nil slice
// so it encodes as [] rather than null.
func cloneList[T any](v []T) []T {
	if len(v) == 0 {
		return []T{}
	}
	return clone(v)
}

func clone[T any](v T) T {
	var out T
	if err := deepcopy.Copy(&out, v); err != nil {
		slog.Error("copying content record failed", "error", err)
		return v
	}
	return out
}
