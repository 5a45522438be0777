package monster

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// LineIssue is a soft problem found while loading one line. The line is
// either skipped (Err wraps ErrUnterminatedQuote) or decoded with some
// integer fields defaulted to 0 (Err is a *FieldError).
type LineIssue struct {
	Line int // 1-based
	Err  error
}

func (i LineIssue) String() string {
	return fmt.Sprintf("line %d: %v", i.Line, i.Err)
}

// DecodeTokens maps a token sequence onto the schema. ok is false when the
// token count does not match, which marks a non-record line. Integer
// fields that fail to parse are 0 and reported in fieldErrs.
func DecodeTokens(tokens []string) (rec Record, fieldErrs []*FieldError, ok bool) {
	if len(tokens) != FieldCount {
		return Record{}, nil, false
	}
	for i, f := range Schema {
		if f.Kind == KindText {
			rec.Name = tokens[i]
			continue
		}
		v, ferr := parseInt(f.Name, tokens[i])
		if ferr != nil {
			fieldErrs = append(fieldErrs, ferr)
		}
		*f.ref(&rec) = v
	}
	return rec, fieldErrs, true
}

// ParseLine classifies one raw line. Blank lines, full-line // comments,
// lines with unterminated quoting and lines without exactly FieldCount
// tokens are not record lines (ok == false). err is only set for the
// quoting case. Loader and patch writer both go through here.
func ParseLine(line string) (rec Record, fieldErrs []*FieldError, ok bool, err error) {
	s := strings.TrimSpace(line)
	if s == "" || strings.HasPrefix(s, "//") {
		return Record{}, nil, false, nil
	}
	cleaned := StripComment(line)
	if strings.TrimSpace(cleaned) == "" {
		return Record{}, nil, false, nil
	}
	tokens, err := Tokenize(cleaned)
	if err != nil {
		return Record{}, nil, false, err
	}
	rec, fieldErrs, ok = DecodeTokens(tokens)
	return rec, fieldErrs, ok, nil
}

var nameEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// EncodeLine renders a record as a tab separated line with the name in
// double quotes. It is the only formatter for record lines.
func EncodeLine(r Record) string {
	var b strings.Builder
	b.Grow(128)
	for i, f := range Schema {
		if i > 0 {
			b.WriteByte('\t')
		}
		if f.Kind == KindText {
			b.WriteByte('"')
			nameEscaper.WriteString(&b, r.Name)
			b.WriteByte('"')
			continue
		}
		b.WriteString(strconv.Itoa(*f.ref(&r)))
	}
	return b.String()
}

// File is a loaded Monster.txt: the decoded records plus everything
// needed to write it back in patch mode.
type File struct {
	Records  []Record // sorted by Index
	Lines    []string // original lines, without terminators
	Encoding string
	Newline  string
	Issues   []LineIssue
}

// Parse decodes raw file content. It never fails: undecodable bytes and
// malformed lines degrade to replacement characters and skipped lines.
func Parse(raw []byte, encodings []string) *File {
	text, enc := Decode(raw, encodings)
	lines, nl := SplitLines(text)

	f := &File{
		Lines:    lines,
		Encoding: enc,
		Newline:  nl,
	}
	for i, ln := range lines {
		rec, fieldErrs, ok, err := ParseLine(ln)
		if err != nil {
			f.Issues = append(f.Issues, LineIssue{Line: i + 1, Err: err})
			continue
		}
		if !ok {
			continue
		}
		for _, fe := range fieldErrs {
			f.Issues = append(f.Issues, LineIssue{Line: i + 1, Err: fe})
		}
		f.Records = append(f.Records, rec)
	}
	SortRecords(f.Records)
	return f
}

// Load reads and parses a Monster.txt file. Only I/O errors are returned.
func Load(path string, encodings []string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f := Parse(raw, encodings)
	for _, is := range f.Issues {
		slog.Debug("monster line degraded", "path", path, "line", is.Line, "err", is.Err)
	}
	slog.Info("loaded monsters",
		"path", path,
		"count", len(f.Records),
		"lines", len(f.Lines),
		"encoding", f.Encoding,
		"issues", len(f.Issues))
	return f, nil
}

// SplitLines splits on \r\n, \n or \r. A final terminator does not produce
// an empty trailing line. The returned newline is the first terminator
// seen, "\n" when there is none.
func SplitLines(text string) ([]string, string) {
	nl := ""
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			if nl == "" {
				nl = "\n"
			}
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				if nl == "" {
					nl = "\r\n"
				}
				lines = append(lines, text[start:i])
				i++
				start = i + 1
				continue
			}
			if nl == "" {
				nl = "\r"
			}
		default:
			continue
		}
		lines = append(lines, text[start:i])
		start = i + 1
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	if nl == "" {
		nl = "\n"
	}
	return lines, nl
}
