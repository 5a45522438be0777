package monster

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrRecordNotFound = errors.New("monster index not found")
	ErrIndexExists    = errors.New("monster index already exists")
)

// NextFreeIndex returns the smallest index >= 0 not used by any record.
func NextFreeIndex(records []Record) int {
	used := make(map[int]struct{}, len(records))
	for _, r := range records {
		used[r.Index] = struct{}{}
	}
	idx := 0
	for {
		if _, ok := used[idx]; !ok {
			return idx
		}
		idx++
	}
}

// Find returns the first record with the given index.
func (f *File) Find(index int) (Record, bool) {
	i := f.position(index)
	if i < 0 {
		return Record{}, false
	}
	return f.Records[i], true
}

func (f *File) position(index int) int {
	return slices.IndexFunc(f.Records, func(r Record) bool { return r.Index == index })
}

// NewRecord appends a record under the next free index. The first record
// serves as template so the new monster starts with plausible stats.
func (f *File) NewRecord() Record {
	var rec Record
	if len(f.Records) > 0 {
		rec = f.Records[0]
	}
	rec.Index = NextFreeIndex(f.Records)
	rec.Rate = 1
	rec.Name = fmt.Sprintf("New Monster %d", rec.Index)
	f.insert(rec)
	return rec
}

// Duplicate copies the record with the given index under the next free index.
func (f *File) Duplicate(index int) (Record, error) {
	src, ok := f.Find(index)
	if !ok {
		return Record{}, fmt.Errorf("duplicate %d: %w", index, ErrRecordNotFound)
	}
	src.Index = NextFreeIndex(f.Records)
	src.Name += " (Copy)"
	f.insert(src)
	return src, nil
}

// Delete removes every record with the given index and returns how many
// were removed.
func (f *File) Delete(index int) (int, error) {
	before := len(f.Records)
	f.Records = slices.DeleteFunc(f.Records, func(r Record) bool { return r.Index == index })
	n := before - len(f.Records)
	if n == 0 {
		return 0, fmt.Errorf("delete %d: %w", index, ErrRecordNotFound)
	}
	return n, nil
}

// Update replaces the record with the given index. Moving a record to an
// index that another record already holds is refused.
func (f *File) Update(index int, rec Record) error {
	i := f.position(index)
	if i < 0 {
		return fmt.Errorf("update %d: %w", index, ErrRecordNotFound)
	}
	if rec.Index != index {
		if _, taken := f.Find(rec.Index); taken {
			return fmt.Errorf("update %d -> %d: %w", index, rec.Index, ErrIndexExists)
		}
	}
	f.Records[i] = rec
	SortRecords(f.Records)
	return nil
}

func (f *File) insert(rec Record) {
	f.Records = append(f.Records, rec)
	SortRecords(f.Records)
}
