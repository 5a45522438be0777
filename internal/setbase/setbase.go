// Package setbase cross-checks MonsterSetBase files against the monster
// records: which monsters are never placed anywhere.
package setbase

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/udisondev/monsteredit/internal/backup"
	"github.com/udisondev/monsteredit/internal/monster"
)

// Report is the result of scanning one MonsterSetBase file.
type Report struct {
	Path string
	// Missing is set when the file does not exist; the lists are then empty.
	Missing bool
	// Referenced holds every monster index used by the file, ascending.
	Referenced []int
	// Unreferenced holds record indices the file never uses, ascending.
	Unreferenced []int
}

// Scan reads a MonsterSetBase file and compares it with records.
// The first integer token of every line with at least two tokens is a
// monster index; section numbers and end markers stand alone.
func Scan(path string, records []monster.Record, encodings []string) (Report, error) {
	rep := Report{Path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			rep.Missing = true
			return rep, nil
		}
		return rep, fmt.Errorf("reading setbase: %w", err)
	}

	text, _ := monster.Decode(raw, encodings)
	lines, _ := monster.SplitLines(text)

	used := make(map[int]struct{})
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		tokens, err := monster.Tokenize(monster.StripComment(line))
		if err != nil {
			slog.Debug("setbase line skipped", "path", path, "line", i+1, "err", err)
			continue
		}
		if len(tokens) < 2 {
			continue
		}
		if idx, err := strconv.Atoi(tokens[0]); err == nil {
			used[idx] = struct{}{}
		}
	}

	for idx := range used {
		rep.Referenced = append(rep.Referenced, idx)
	}
	slices.Sort(rep.Referenced)

	for _, r := range records {
		if _, ok := used[r.Index]; !ok {
			rep.Unreferenced = append(rep.Unreferenced, r.Index)
		}
	}
	slices.Sort(rep.Unreferenced)
	rep.Unreferenced = slices.Compact(rep.Unreferenced)

	slog.Info("setbase scanned", "path", path,
		"referenced", len(rep.Referenced), "unreferenced", len(rep.Unreferenced))
	return rep, nil
}

// SuggestionsName is the file WriteSuggestions creates next to the setbase files.
const SuggestionsName = "MonsterSetBase.suggestions.txt"

// RenderSuggestions lists the unreferenced indices of every report.
func RenderSuggestions(reports []Report) []byte {
	var b strings.Builder
	b.WriteString("// Suggested entries for unreferenced monster indices\n")
	for _, rep := range reports {
		if rep.Missing || len(rep.Unreferenced) == 0 {
			continue
		}
		fmt.Fprintf(&b, "// From file: %s\n", filepath.Base(rep.Path))
		for _, idx := range rep.Unreferenced {
			fmt.Fprintf(&b, "MISSING_INDEX\t%d\n", idx)
		}
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// WriteSuggestions writes RenderSuggestions output to path.
func WriteSuggestions(path string, reports []Report, w *backup.Writer) error {
	if _, err := w.Replace(path, RenderSuggestions(reports)); err != nil {
		return fmt.Errorf("writing suggestions: %w", err)
	}
	return nil
}

// AppendPlaceholders backs the setbase file up and appends one commented
// placeholder line per index under a timestamped header. The file must
// already exist. Nothing happens for an empty list.
func AppendPlaceholders(path string, missing []int, w *backup.Writer) (string, error) {
	if len(missing) == 0 {
		return "", nil
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("appending placeholders: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n// Placeholders appended by MU Monster Editor - %s\n", w.Now().Format(backup.StampLayout))
	for _, idx := range missing {
		fmt.Fprintf(&b, "// MISSING_MONSTER_INDEX: %d\n", idx)
	}

	bak, err := w.Append(path, []byte(b.String()))
	if err != nil {
		return bak, fmt.Errorf("appending placeholders: %w", err)
	}
	slog.Info("setbase placeholders appended", "path", path, "count", len(missing))
	return bak, nil
}
