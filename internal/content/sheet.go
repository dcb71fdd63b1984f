package content

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetColumns are the header names recognized in a dictionary spreadsheet.
// Headers are matched case-insensitively; unknown columns are ignored and a
// "forms.<name>" header fills Forms[name].
var SheetColumns = []string{
	"id", "headword", "pos", "preview", "translation_ru", "gender",
	"register", "topics", "b1_verified", "usage",
}

// readSheetEntries decodes the first sheet of an .xlsx file. The first row is
// the header; each following row is one entry.
func readSheetEntries(fsys fs.FS, name string) ([]DictionaryEntry, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	entries := make([]DictionaryEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entries = append(entries, entryFromRow(header, row))
	}
	return entries, nil
}

func entryFromRow(header, row []string) DictionaryEntry {
	var e DictionaryEntry
	for i, col := range header {
		if i >= len(row) {
			break
		}
		v := strings.TrimSpace(row[i])
		if v == "" {
			continue
		}
		switch col {
		case "id":
			e.ID = v
		case "headword":
			e.Headword = v
		case "pos":
			e.POS = v
		case "preview":
			e.Preview = v
		case "translation_ru":
			e.TranslationRU = v
		case "gender":
			e.Gender = v
		case "register":
			e.Register = v
		case "topics":
			e.Topics = splitList(v)
		case "b1_verified":
			e.B1Verified, _ = strconv.ParseBool(v)
		case "usage":
			if e.Notes == nil {
				e.Notes = &EntryNotes{}
			}
			e.Notes.Usage = v
		default:
			if form, ok := strings.CutPrefix(col, "forms."); ok && form != "" {
				if e.Forms == nil {
					e.Forms = make(map[string]string)
				}
				e.Forms[form] = v
			}
		}
	}
	return e
}

// splitList splits a cell holding a comma or semicolon separated list.
func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
