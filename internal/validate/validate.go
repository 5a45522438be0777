// Package validate runs the advisory consistency checks over a loaded
// monster folder. Nothing here mutates its input or blocks a save.
package validate

import (
	"fmt"
	"strconv"

	"github.com/udisondev/monsteredit/internal/monster"
	"github.com/udisondev/monsteredit/internal/spawnxml"
)

// Kind classifies a warning.
type Kind string

const (
	KindDuplicate  Kind = "duplicate index"
	KindRange      Kind = "index out of range"
	KindNonNumeric Kind = "non-numeric index"
	KindMissing    Kind = "missing referenced monster index"
)

// KeyRange is the optional allowed interval for record indices, inclusive.
type KeyRange struct {
	Enabled bool
	Min     int
	Max     int
}

// Policy configures the optional checks.
type Policy struct {
	Range KeyRange
}

// Warning is one finding.
type Warning struct {
	Kind  Kind
	Index int    // record index, or the referenced index for KindMissing
	Value string // raw Spawn Index text
	Map   string // map Number of a spawn warning
	Spot  string // spot Description of a spawn warning
	Min   int    // allowed range of a KindRange warning
	Max   int
}

func (w Warning) String() string {
	switch w.Kind {
	case KindDuplicate:
		return fmt.Sprintf("duplicate monster index: %d", w.Index)
	case KindRange:
		return fmt.Sprintf("monster index %d out of allowed range (%d-%d)", w.Index, w.Min, w.Max)
	case KindNonNumeric:
		return fmt.Sprintf("spawn has non-numeric index %q (map %s, spot %q)", w.Value, w.Map, w.Spot)
	case KindMissing:
		return fmt.Sprintf("spawn has missing referenced monster index %s (map %s, spot %q)", w.Value, w.Map, w.Spot)
	}
	return string(w.Kind)
}

// Messages renders warnings for display.
func Messages(ws []Warning) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.String()
	}
	return out
}

// Validate runs every check and returns all findings. spawns may be nil.
func Validate(records []monster.Record, spawns *spawnxml.Store, p Policy) []Warning {
	var out []Warning
	out = append(out, duplicates(records)...)
	if p.Range.Enabled {
		out = append(out, outOfRange(records, p.Range)...)
	}
	if spawns != nil {
		out = append(out, references(records, spawns)...)
	}
	return out
}

// duplicates yields one warning per extra occurrence of an index.
func duplicates(records []monster.Record) []Warning {
	var out []Warning
	seen := make(map[int]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.Index]; ok {
			out = append(out, Warning{Kind: KindDuplicate, Index: r.Index})
			continue
		}
		seen[r.Index] = struct{}{}
	}
	return out
}

func outOfRange(records []monster.Record, rng KeyRange) []Warning {
	var out []Warning
	for _, r := range records {
		if r.Index < rng.Min || r.Index > rng.Max {
			out = append(out, Warning{Kind: KindRange, Index: r.Index, Min: rng.Min, Max: rng.Max})
		}
	}
	return out
}

// references walks root -> Map -> Spot -> Spawn only; spawns nested
// anywhere else are not part of the document model.
func references(records []monster.Record, spawns *spawnxml.Store) []Warning {
	keys := make(map[int]struct{}, len(records))
	for _, r := range records {
		keys[r.Index] = struct{}{}
	}

	var out []Warning
	for _, m := range spawns.Maps() {
		mapNo := m.SelectAttrValue("Number", "")
		for _, spot := range spawnxml.ListSpots(m) {
			desc := spot.SelectAttrValue("Description", "")
			for _, sp := range spawnxml.ListSpawns(spot) {
				raw := sp.SelectAttrValue("Index", "")
				w := Warning{Value: raw, Map: mapNo, Spot: desc}
				if !isDigits(raw) {
					w.Kind = KindNonNumeric
					out = append(out, w)
					continue
				}
				idx, err := strconv.Atoi(raw)
				if err == nil {
					if _, ok := keys[idx]; ok {
						continue
					}
					w.Index = idx
				}
				// Digits too large for int cannot match any record.
				w.Kind = KindMissing
				out = append(out, w)
			}
		}
	}
	return out
}

// isDigits reports whether s is a non-empty run of ASCII digits. Signs
// and surrounding spaces make an index non-numeric.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
