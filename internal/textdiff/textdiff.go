// Package textdiff renders line-based unified diffs using sergi/go-diff.
package textdiff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 3

type opKind byte

const (
	opEqual  opKind = ' '
	opDelete opKind = '-'
	opInsert opKind = '+'
)

type op struct {
	kind    opKind
	text    string
	oldLine int // lines of old consumed before this op
	newLine int
}

// Unified returns a unified diff of two texts, or "" when they are equal.
func Unified(oldName, newName, oldText, newText string, context int) string {
	if oldText == newText {
		return ""
	}
	if context < 0 {
		context = 0
	}
	ops := lineOps(oldText, newText)

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", oldName, newName)
	for _, h := range hunks(ops, context) {
		writeHunk(&b, ops[h[0]:h[1]])
	}
	return b.String()
}

func lineOps(oldText, newText string) []op {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var (
		ops        []op
		oldN, newN int
	)
	for _, d := range diffs {
		for _, ln := range splitLines(d.Text) {
			o := op{text: ln, oldLine: oldN, newLine: newN}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				o.kind = opEqual
				oldN++
				newN++
			case diffmatchpatch.DiffDelete:
				o.kind = opDelete
				oldN++
			case diffmatchpatch.DiffInsert:
				o.kind = opInsert
				newN++
			}
			ops = append(ops, o)
		}
	}
	return ops
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, ln := range lines {
		lines[i] = strings.TrimSuffix(ln, "\n")
	}
	return lines
}

// hunks groups changed ops with their context into [start, end) ranges.
// Changes separated by at most 2*context equal lines share a hunk.
func hunks(ops []op, context int) [][2]int {
	var out [][2]int
	for i := 0; i < len(ops); i++ {
		if ops[i].kind == opEqual {
			continue
		}
		start := max(i-context, 0)
		end := min(i+1+context, len(ops))
		if n := len(out); n > 0 && start <= out[n-1][1] {
			out[n-1][1] = end
			continue
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

func writeHunk(b *strings.Builder, ops []op) {
	var oldCount, newCount int
	for _, o := range ops {
		if o.kind != opInsert {
			oldCount++
		}
		if o.kind != opDelete {
			newCount++
		}
	}
	fmt.Fprintf(b, "@@ -%s +%s @@\n",
		rangeHeader(ops[0].oldLine, oldCount), rangeHeader(ops[0].newLine, newCount))
	for _, o := range ops {
		b.WriteByte(byte(o.kind))
		b.WriteString(o.text)
		b.WriteByte('\n')
	}
}

func rangeHeader(before, count int) string {
	start := before + 1
	if count == 0 {
		start = before
	}
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}
