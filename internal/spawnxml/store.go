package spawnxml

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"
)

// NoNumber is reported for a Map whose Number is missing or not an
// integer. FindMap never matches it.
const NoNumber = -9999

// Element names of the spawn document.
const (
	MapElement   = "Map"
	SpotElement  = "Spot"
	SpawnElement = "Spawn"
)

// Spot defaults used when AddSpot gets empty values.
const (
	DefaultSpotType        = "1"
	DefaultSpotDescription = "New Spot"
)

// ErrBadAttrName is returned for attribute names that cannot be written as XML.
var ErrBadAttrName = errors.New("invalid attribute name")

// SpawnAttrOrder is the order known Spawn attributes are written in.
var SpawnAttrOrder = []string{"Index", "Distance", "StartX", "StartY", "EndX", "EndY", "Dir", "Count", "Value"}

// Attr is one attribute as written, in document order.
type Attr struct {
	Name  string
	Value string
}

// AttrList returns the attributes of an element in document order.
func AttrList(e *etree.Element) []Attr {
	out := make([]Attr, len(e.Attr))
	for i, a := range e.Attr {
		out[i] = Attr{Name: a.FullKey(), Value: a.Value}
	}
	return out
}

// SpawnAttrs is the full attribute set of a Spawn element.
type SpawnAttrs map[string]string

// SpawnAttrsOf reads the attributes of a spawn element.
func SpawnAttrsOf(e *etree.Element) SpawnAttrs {
	out := make(SpawnAttrs, len(e.Attr))
	for _, a := range e.Attr {
		out[a.FullKey()] = a.Value
	}
	return out
}

// list orders the set: Index always first (defaults to "0"), then the
// known optional keys, then unknown keys by name.
func (a SpawnAttrs) list() ([]Attr, error) {
	index := a["Index"]
	if index == "" {
		index = "0"
	}
	out := []Attr{{Name: "Index", Value: index}}
	for _, k := range SpawnAttrOrder[1:] {
		if v, ok := a[k]; ok {
			out = append(out, Attr{Name: k, Value: v})
		}
	}

	var extra []string
	for k := range a {
		if !slices.Contains(SpawnAttrOrder, k) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	for _, k := range extra {
		if !validName(k) {
			return nil, fmt.Errorf("%w: %q", ErrBadAttrName, k)
		}
		out = append(out, Attr{Name: k, Value: a[k]})
	}
	return out, nil
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == ':' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}

// Maps returns the Map elements in document order.
func (s *Store) Maps() []*etree.Element {
	return s.Root().SelectElements(MapElement)
}

// MapsByNumber returns the Map elements sorted by Number. Maps without a
// usable Number sort first.
func (s *Store) MapsByNumber() []*etree.Element {
	maps := s.Maps()
	slices.SortStableFunc(maps, func(a, b *etree.Element) int {
		return cmp.Compare(MapNumber(a), MapNumber(b))
	})
	return maps
}

// MapNumber returns the Number attribute of a map, or NoNumber.
func MapNumber(m *etree.Element) int {
	n, ok := mapNumber(m)
	if !ok {
		return NoNumber
	}
	return n
}

func mapNumber(m *etree.Element) (int, bool) {
	a := m.SelectAttr("Number")
	if a == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(a.Value))
	if err != nil {
		return 0, false
	}
	return n, true
}

// FindMap returns the first map with the given Number.
func (s *Store) FindMap(number int) (*etree.Element, bool) {
	for _, m := range s.Maps() {
		if n, ok := mapNumber(m); ok && n == number {
			return m, true
		}
	}
	return nil, false
}

// ListSpots returns the spots of a map.
func ListSpots(m *etree.Element) []*etree.Element { return m.SelectElements(SpotElement) }

// ListSpawns returns the spawns of a spot.
func ListSpawns(spot *etree.Element) []*etree.Element {
	return spot.SelectElements(SpawnElement)
}

// SpotAt returns the i-th spot (0-based) of a map.
func SpotAt(m *etree.Element, i int) (*etree.Element, bool) {
	return at(ListSpots(m), i)
}

// SpawnAt returns the i-th spawn (0-based) of a spot.
func SpawnAt(spot *etree.Element, i int) (*etree.Element, bool) {
	return at(ListSpawns(spot), i)
}

func at(nodes []*etree.Element, i int) (*etree.Element, bool) {
	if i < 0 || i >= len(nodes) {
		return nil, false
	}
	return nodes[i], true
}

// AddSpawn appends a new Spawn to spot.
func AddSpawn(spot *etree.Element, attrs SpawnAttrs) (*etree.Element, error) {
	list, err := attrs.list()
	if err != nil {
		return nil, err
	}
	e := spot.CreateElement(SpawnElement)
	setAttrs(e, list)
	return e, nil
}

// UpdateSpawn replaces the whole attribute set of a spawn. Keys absent
// from attrs are dropped.
func UpdateSpawn(e *etree.Element, attrs SpawnAttrs) error {
	list, err := attrs.list()
	if err != nil {
		return err
	}
	e.Attr = nil
	setAttrs(e, list)
	return nil
}

func setAttrs(e *etree.Element, list []Attr) {
	for _, a := range list {
		e.CreateAttr(a.Name, a.Value)
	}
}

// RemoveSpawn unlinks a spawn from its spot.
func RemoveSpawn(spot, e *etree.Element) error {
	if spot.RemoveChild(e) == nil {
		return fmt.Errorf("removing spawn: %w", ErrNotChild)
	}
	return nil
}

// AddSpot appends a new Spot to a map.
func AddSpot(m *etree.Element, typ, description string) *etree.Element {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		typ = DefaultSpotType
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = DefaultSpotDescription
	}
	e := m.CreateElement(SpotElement)
	e.CreateAttr("Type", typ)
	e.CreateAttr("Description", description)
	return e
}

// RemoveSpot unlinks a spot and, with it, all of its spawns.
func RemoveSpot(m, spot *etree.Element) error {
	if m.RemoveChild(spot) == nil {
		return fmt.Errorf("removing spot: %w", ErrNotChild)
	}
	return nil
}

// Counts returns the number of maps, spots and spawns in the document.
func (s *Store) Counts() (maps, spots, spawns int) {
	for _, m := range s.Maps() {
		maps++
		for _, sp := range ListSpots(m) {
			spots++
			spawns += len(ListSpawns(sp))
		}
	}
	return maps, spots, spawns
}
