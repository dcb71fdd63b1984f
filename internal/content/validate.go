package content

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Severity grades a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one problem found in a content file.
type Issue struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.Field != "" {
		return fmt.Sprintf("%s: %s %s: %s", i.Severity, i.Path, i.Field, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Path, i.Message)
}

// Report collects the issues of a validation pass.
type Report struct {
	Issues []Issue `json:"issues"`
}

// HasErrors reports whether any issue has error severity.
func (r Report) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (r *Report) add(sev Severity, p, field, msg string) {
	r.Issues = append(r.Issues, Issue{Severity: sev, Path: p, Field: field, Message: msg})
}

var (
	schemas = sync.OnceValues(compileSchemas)

	recordValidator = sync.OnceValue(func() *validator.Validate {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		return v
	})
)

type schemaSet struct {
	level      *gojsonschema.Schema
	dictionary *gojsonschema.Schema
	emails     *gojsonschema.Schema
}

func compileSchemas() (schemaSet, error) {
	load := func(name string) (*gojsonschema.Schema, error) {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, err
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			return nil, fmt.Errorf("compiling schema %s: %w", name, err)
		}
		return s, nil
	}

	var set schemaSet
	var err error
	if set.level, err = load("level.schema.json"); err != nil {
		return set, err
	}
	if set.dictionary, err = load("dictionary.schema.json"); err != nil {
		return set, err
	}
	if set.emails, err = load("emails.schema.json"); err != nil {
		return set, err
	}
	return set, nil
}

// Validate checks content files without affecting how they load. It reports
// file-shape problems against the embedded JSON schemas, record problems on
// decoded cards and dictionary entries, duplicate ids and shadowed files.
func Validate(fsys fs.FS, layout Layout) Report {
	var r Report
	set, err := schemas()
	if err != nil {
		r.add(SeverityError, "schemas", "", err.Error())
		return r
	}

	validateLevels(fsys, layout.LevelsDir, set.level, &r)
	validateDictionary(fsys, layout, set.dictionary, &r)
	validateEmails(fsys, layout.EmailsFile, set.emails, &r)

	sort.SliceStable(r.Issues, func(i, j int) bool {
		return r.Issues[i].Path < r.Issues[j].Path
	})
	return r
}

func checkSchema(s *gojsonschema.Schema, doc document, r *Report) {
	res, err := s.Validate(gojsonschema.NewBytesLoader(doc.data))
	if err != nil {
		r.add(SeverityError, doc.path, "", err.Error())
		return
	}
	for _, e := range res.Errors() {
		r.add(SeverityError, doc.path, e.Field(), e.Description())
	}
}

func checkRecord(v any, src, prefix string, r *Report) {
	err := recordValidator().Struct(v)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		r.add(SeverityError, src, prefix, err.Error())
		return
	}
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		r.add(SeverityError, src, prefix+"."+field, "failed "+fe.Tag()+" check")
	}
}

func validateLevels(fsys fs.FS, dir string, s *gojsonschema.Schema, r *Report) {
	seen := make(map[string]string)
	_ = fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && isNotExist(err) {
				return fs.SkipDir
			}
			r.add(SeverityError, p, "", err.Error())
			return nil
		}
		if d.IsDir() || !isStructuredFile(d.Name()) || isExcludedName(d.Name()) {
			return nil
		}
		doc, err := readDocument(fsys, p)
		if err != nil {
			r.add(SeverityError, p, "", err.Error())
			return nil
		}
		checkSchema(s, doc, r)

		m, ok := normalizeLevel(doc)
		if !ok {
			r.add(SeverityError, p, "", "level fragment has no cards array and is ignored")
			return nil
		}
		if first, dup := seen[m.ID]; dup {
			r.add(SeverityWarning, p, "id", fmt.Sprintf("module %q already loaded from %s; this file is ignored", m.ID, first))
		} else {
			seen[m.ID] = p
		}
		for _, c := range m.Cards {
			checkRecord(c, p, "cards["+c.ID+"]", r)
		}
		return nil
	})
}

func validateDictionary(fsys fs.FS, layout Layout, s *gojsonschema.Schema, r *Report) {
	files := dictionaryFragmentFiles(fsys, layout.DictionaryDir)
	if layout.DictionaryFile != "" {
		if _, err := fs.Stat(fsys, layout.DictionaryFile); err == nil {
			if len(files) > 0 {
				r.add(SeverityWarning, layout.DictionaryFile, "", "legacy dictionary file is ignored because per-file fragments exist")
			} else {
				files = append(files, layout.DictionaryFile)
			}
		}
	}

	seen := make(map[string]string)
	for _, f := range files {
		var entries []DictionaryEntry
		if isSheetFile(f) {
			rows, err := readSheetEntries(fsys, f)
			if err != nil {
				r.add(SeverityError, f, "", err.Error())
				continue
			}
			for i, e := range rows {
				if strings.TrimSpace(e.ID) == "" {
					r.add(SeverityError, f, fmt.Sprintf("row %d", i+2), "entry has no id and is ignored")
					continue
				}
				entries = append(entries, e)
			}
		} else {
			doc, err := readDocument(fsys, f)
			if err != nil {
				r.add(SeverityError, f, "", err.Error())
				continue
			}
			checkSchema(s, doc, r)
			var raw []json.RawMessage
			switch classifyDictionary(doc) {
			case dictArray:
				raw = flattenArray(doc)
			case dictBuckets:
				raw = flattenBuckets(doc)
			}
			for i, item := range raw {
				e, ok := decodeEntry(item)
				if !ok {
					r.add(SeverityError, f, fmt.Sprintf("[%d]", i), "entry has no string id and is ignored")
					continue
				}
				entries = append(entries, e)
			}
		}

		for _, e := range entries {
			if first, dup := seen[e.ID]; dup {
				r.add(SeverityWarning, f, e.ID, "duplicate id, first occurrence in "+first+" wins")
				continue
			}
			seen[e.ID] = f
			checkRecord(e, f, e.ID, r)
		}
	}
}

func validateEmails(fsys fs.FS, name string, s *gojsonschema.Schema, r *Report) {
	if name == "" {
		return
	}
	doc, err := readDocument(fsys, name)
	if err != nil {
		if !isNotExist(err) {
			r.add(SeverityError, name, "", err.Error())
		}
		return
	}
	checkSchema(s, doc, r)
}
