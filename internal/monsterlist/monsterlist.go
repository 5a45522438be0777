// Package monsterlist regenerates MonsterList.xml from the in-memory
// monster records. The file is a projection: it is rebuilt in full on
// every save and nothing from the previous version is kept.
package monsterlist

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/udisondev/monsteredit/internal/backup"
	"github.com/udisondev/monsteredit/internal/monster"
)

// DefaultGenerator is the text of the comment written after the declaration.
const DefaultGenerator = "Generated by MU Monster Editor"

const declaration = `<?xml version="1.0" encoding="utf-8"?>`

// Attributes is the attribute order of a <Monster> element: every schema
// column except Rate and Name, then Name last.
var Attributes = func() []string {
	out := make([]string, 0, monster.FieldCount-1)
	for _, f := range monster.Schema {
		if f.Name == "Rate" || f.Name == "Name" {
			continue
		}
		out = append(out, f.Name)
	}
	return append(out, "Name")
}()

// Render builds the whole document. Records are sorted by Index (stable
// for duplicates) so the same record set always yields the same bytes.
func Render(records []monster.Record, generator string) []byte {
	if generator == "" {
		generator = DefaultGenerator
	}
	sorted := slices.Clone(records)
	monster.SortRecords(sorted)

	var buf bytes.Buffer
	buf.WriteString(declaration)
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "<!-- %s -->\n", escapeComment(generator))

	if len(sorted) == 0 {
		buf.WriteString("<MonsterList />\n")
		return buf.Bytes()
	}

	buf.WriteString("<MonsterList>\n")
	for i := range sorted {
		writeMonster(&buf, &sorted[i])
	}
	buf.WriteString("</MonsterList>\n")
	return buf.Bytes()
}

func writeMonster(buf *bytes.Buffer, r *monster.Record) {
	buf.WriteString("  <Monster")
	for _, name := range Attributes {
		v, _ := r.Get(name)
		buf.WriteByte(' ')
		buf.WriteString(name)
		buf.WriteString(`="`)
		buf.WriteString(EscapeAttr(v))
		buf.WriteByte('"')
	}
	buf.WriteString(" />\n")
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#09;",
)

// EscapeAttr escapes a value for use inside a double-quoted attribute.
// Characters XML 1.0 cannot carry become '?'.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(replaceIllegal(s))
}

// escapeComment keeps "--" out of comment text, which XML forbids.
func escapeComment(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	return replaceIllegal(s)
}

func replaceIllegal(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r',
			r >= 0x20 && r <= 0xD7FF,
			r >= 0xE000 && r <= 0xFFFD,
			r >= 0x10000 && r <= 0x10FFFF:
			return r
		}
		return '?'
	}, s)
}

// Save regenerates the file at path: backup first, then overwrite.
func Save(path string, records []monster.Record, generator string, w *backup.Writer) error {
	data := Render(records, generator)
	if _, err := w.Replace(path, data); err != nil {
		return fmt.Errorf("saving monster list: %w", err)
	}
	slog.Info("monster list regenerated", "path", path, "count", len(records))
	return nil
}
