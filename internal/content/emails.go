package content

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"strings"
)

// LoadEmails reads the emails file, a bare array of records. A missing or
// malformed file yields an empty list; records without an id are skipped.
func LoadEmails(fsys fs.FS, name string) []EmailRecord {
	if name == "" {
		return []EmailRecord{}
	}
	doc, err := readDocument(fsys, name)
	if err != nil {
		if !isNotExist(err) {
			slog.Warn("skipping invalid emails file", "path", name, "error", err)
		}
		return []EmailRecord{}
	}
	if doc.kind() != '[' {
		slog.Warn("emails file is not an array", "path", name)
		return []EmailRecord{}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(doc.data, &raw); err != nil {
		return []EmailRecord{}
	}
	out := make([]EmailRecord, 0, len(raw))
	for i, r := range raw {
		var rec EmailRecord
		if jsonKind(r) != '{' || json.Unmarshal(r, &rec) != nil {
			slog.Debug("skipping malformed email record", "index", i)
			continue
		}
		if strings.TrimSpace(rec.ID) == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}
