package monster

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
)

// Record is one monster definition from Monster.txt. Index is the key.
type Record struct {
	Index        int
	Rate         int
	Name         string
	Level        int
	Life         int
	Mana         int
	DamageMin    int
	DamageMax    int
	Defense      int
	MagicDefense int
	AttackRate   int
	DefenseRate  int
	MoveRange    int
	AttackType   int
	AttackRange  int
	ViewRange    int
	MoveSpeed    int
	AttackSpeed  int
	RegenTime    int
	Attribute    int
	ItemRate     int
	MoneyRate    int
	MaxItemLevel int
	MonsterSkill int
	IceRes       int
	PoisonRes    int
	LightRes     int
	FireRes      int
}

// Get returns the textual value of a field by schema name.
func (r *Record) Get(name string) (string, error) {
	i, ok := LookupField(name)
	if !ok {
		return "", fmt.Errorf("unknown field %q", name)
	}
	f := Schema[i]
	if f.Kind == KindText {
		return r.Name, nil
	}
	return strconv.Itoa(*f.ref(r)), nil
}

// Set assigns a field by schema name. Integer fields that do not parse
// are set to 0 and the FieldError is returned; unknown names fail without
// touching the record.
func (r *Record) Set(name, value string) error {
	i, ok := LookupField(name)
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	f := Schema[i]
	if f.Kind == KindText {
		r.Name = value
		return nil
	}
	v, ferr := parseInt(f.Name, value)
	*f.ref(r) = v
	if ferr != nil {
		return ferr
	}
	return nil
}

// Values returns every field rendered as text, in schema order.
func (r *Record) Values() []string {
	out := make([]string, FieldCount)
	for i, f := range Schema {
		if f.Kind == KindText {
			out[i] = r.Name
			continue
		}
		out[i] = strconv.Itoa(*f.ref(r))
	}
	return out
}

// SortRecords orders records by Index. Equal keys keep their relative order.
func SortRecords(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Compare(a.Index, b.Index)
	})
}
