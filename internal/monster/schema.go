package monster

import (
	"fmt"
	"strconv"
)

// FieldKind is the on-disk type of a schema field.
type FieldKind uint8

const (
	KindInt FieldKind = iota
	KindText
)

func (k FieldKind) String() string {
	if k == KindText {
		return "text"
	}
	return "integer"
}

// Field describes one column of a Monster.txt record line.
type Field struct {
	Name string
	Kind FieldKind

	ref func(*Record) *int // nil for the text field
}

// FieldCount is the number of tokens a record line must have.
const FieldCount = 28

// Schema lists the record columns in on-disk order.
var Schema = [FieldCount]Field{
	{Name: "Index", Kind: KindInt, ref: func(r *Record) *int { return &r.Index }},
	{Name: "Rate", Kind: KindInt, ref: func(r *Record) *int { return &r.Rate }},
	{Name: "Name", Kind: KindText},
	{Name: "Level", Kind: KindInt, ref: func(r *Record) *int { return &r.Level }},
	{Name: "Life", Kind: KindInt, ref: func(r *Record) *int { return &r.Life }},
	{Name: "Mana", Kind: KindInt, ref: func(r *Record) *int { return &r.Mana }},
	{Name: "DamageMin", Kind: KindInt, ref: func(r *Record) *int { return &r.DamageMin }},
	{Name: "DamageMax", Kind: KindInt, ref: func(r *Record) *int { return &r.DamageMax }},
	{Name: "Defense", Kind: KindInt, ref: func(r *Record) *int { return &r.Defense }},
	{Name: "MagicDefense", Kind: KindInt, ref: func(r *Record) *int { return &r.MagicDefense }},
	{Name: "AttackRate", Kind: KindInt, ref: func(r *Record) *int { return &r.AttackRate }},
	{Name: "DefenseRate", Kind: KindInt, ref: func(r *Record) *int { return &r.DefenseRate }},
	{Name: "MoveRange", Kind: KindInt, ref: func(r *Record) *int { return &r.MoveRange }},
	{Name: "AttackType", Kind: KindInt, ref: func(r *Record) *int { return &r.AttackType }},
	{Name: "AttackRange", Kind: KindInt, ref: func(r *Record) *int { return &r.AttackRange }},
	{Name: "ViewRange", Kind: KindInt, ref: func(r *Record) *int { return &r.ViewRange }},
	{Name: "MoveSpeed", Kind: KindInt, ref: func(r *Record) *int { return &r.MoveSpeed }},
	{Name: "AttackSpeed", Kind: KindInt, ref: func(r *Record) *int { return &r.AttackSpeed }},
	{Name: "RegenTime", Kind: KindInt, ref: func(r *Record) *int { return &r.RegenTime }},
	{Name: "Attribute", Kind: KindInt, ref: func(r *Record) *int { return &r.Attribute }},
	{Name: "ItemRate", Kind: KindInt, ref: func(r *Record) *int { return &r.ItemRate }},
	{Name: "MoneyRate", Kind: KindInt, ref: func(r *Record) *int { return &r.MoneyRate }},
	{Name: "MaxItemLevel", Kind: KindInt, ref: func(r *Record) *int { return &r.MaxItemLevel }},
	{Name: "MonsterSkill", Kind: KindInt, ref: func(r *Record) *int { return &r.MonsterSkill }},
	{Name: "IceRes", Kind: KindInt, ref: func(r *Record) *int { return &r.IceRes }},
	{Name: "PoisonRes", Kind: KindInt, ref: func(r *Record) *int { return &r.PoisonRes }},
	{Name: "LightRes", Kind: KindInt, ref: func(r *Record) *int { return &r.LightRes }},
	{Name: "FireRes", Kind: KindInt, ref: func(r *Record) *int { return &r.FireRes }},
}

var fieldByName = func() map[string]int {
	m := make(map[string]int, FieldCount)
	for i, f := range Schema {
		m[f.Name] = i
	}
	return m
}()

// LookupField returns the schema position of a field name.
func LookupField(name string) (int, bool) {
	i, ok := fieldByName[name]
	return i, ok
}

// FieldError reports an integer column whose token did not parse.
// The record still decodes; the field holds 0.
type FieldError struct {
	Field string
	Token string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: invalid integer %q: %v", e.Field, e.Token, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// parseInt parses an integer column, falling back to 0.
func parseInt(field, token string) (int, *FieldError) {
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, &FieldError{Field: field, Token: token, Err: err}
	}
	return v, nil
}
