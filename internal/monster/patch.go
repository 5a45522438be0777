package monster

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/udisondev/monsteredit/internal/backup"
)

// MergeOptions tunes MergePatch.
type MergeOptions struct {
	// DropOrphans removes record lines whose key no longer has an
	// in-memory record. By default such lines are kept verbatim.
	DropOrphans bool
}

// Patch is the result of merging in-memory records into the original lines.
type Patch struct {
	Lines     []string
	Replaced  int
	Unchanged int // record lines whose record did not change
	Appended  int
	Orphaned  int // record lines left without a record (kept or dropped)
	Dropped   int // orphaned lines removed from the output
}

// MergePatch rewrites changed record lines in place and appends records
// that have no line yet. Lines are classified with ParseLine, the same rule
// used at load time. A record line whose decoded record equals the
// in-memory one keeps its original text, as does every non-record line.
//
// Records sharing a key are matched to that key's lines in order, so the
// k-th record with index K replaces the k-th line with index K.
func MergePatch(raw []string, records []Record, opts MergeOptions) Patch {
	lineIdx := make(map[int][]int) // key -> record line positions, file order
	onDisk := make(map[int]Record) // line position -> decoded record
	for i, ln := range raw {
		rec, _, ok, err := ParseLine(ln)
		if err != nil || !ok {
			continue
		}
		lineIdx[rec.Index] = append(lineIdx[rec.Index], i)
		onDisk[i] = rec
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	SortRecords(sorted)

	p := Patch{Lines: make([]string, len(raw))}
	copy(p.Lines, raw)

	used := make(map[int]int, len(lineIdx)) // key -> lines consumed
	var appended []string
	for _, rec := range sorted {
		slots := lineIdx[rec.Index]
		n := used[rec.Index]
		if n < len(slots) {
			pos := slots[n]
			used[rec.Index] = n + 1
			if onDisk[pos] == rec {
				p.Unchanged++
				continue
			}
			p.Lines[pos] = EncodeLine(rec)
			p.Replaced++
			continue
		}
		appended = append(appended, EncodeLine(rec))
		p.Appended++
	}

	orphan := make(map[int]bool)
	for key, slots := range lineIdx {
		for _, pos := range slots[used[key]:] {
			orphan[pos] = true
			p.Orphaned++
		}
	}
	if opts.DropOrphans && len(orphan) > 0 {
		kept := p.Lines[:0]
		for i, ln := range p.Lines {
			if !orphan[i] {
				kept = append(kept, ln)
			}
		}
		p.Lines = kept
		p.Dropped = len(orphan)
	}

	p.Lines = append(p.Lines, appended...)
	return p
}

// Render joins the patched lines with newline and adds one trailing newline.
func (p Patch) Render(newline string) string {
	if newline == "" {
		newline = "\n"
	}
	return strings.Join(p.Lines, newline) + newline
}

// SaveOptions controls SavePatch.
type SaveOptions struct {
	Merge MergeOptions
	// Encoding overrides the detected encoding when set.
	Encoding string
}

// SavePatch merges the file's records into its original lines, backs up
// path and writes the result. The whole content is built before anything
// touches the disk. On success f.Lines holds the written lines, so a
// second save patches against what is now on disk.
func SavePatch(path string, f *File, w *backup.Writer, opts SaveOptions) (Patch, error) {
	p := MergePatch(f.Lines, f.Records, opts.Merge)

	enc := f.Encoding
	if opts.Encoding != "" {
		enc = NormalizeEncoding(opts.Encoding)
		if !KnownEncoding(enc) {
			return Patch{}, fmt.Errorf("saving %s: unknown encoding %q", path, opts.Encoding)
		}
	}
	data := Encode(p.Render(f.Newline), enc)

	if _, err := w.Replace(path, data); err != nil {
		return Patch{}, fmt.Errorf("saving monsters: %w", err)
	}

	if p.Orphaned > 0 {
		slog.Warn("record lines without in-memory record",
			"path", path,
			"count", p.Orphaned,
			"dropped", opts.Merge.DropOrphans)
	}
	slog.Info("monsters saved",
		"path", path,
		"replaced", p.Replaced,
		"appended", p.Appended,
		"encoding", enc)

	f.Lines = p.Lines
	f.Encoding = enc
	return p, nil
}
