// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the console command system.
package commands

import (
	"strconv"

	"github.com/jeranaias/devconsole/internal/gamemath"
)

// =============================================================================
// KINDS
// =============================================================================

// Kind is the closed set of parameter types a command may declare.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindVector2
	KindVector3
	KindColor
	KindEnum
)

var kindNames = map[Kind]string{
	KindString:  "string",
	KindInt:     "int",
	KindFloat:   "float",
	KindBool:    "bool",
	KindVector2: "Vector2",
	KindVector3: "Vector3",
	KindColor:   "Color",
	KindEnum:    "enum",
}

// String returns the type alias shown in tooltips.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Supported reports whether k is one of the accepted parameter kinds.
func (k Kind) Supported() bool {
	_, ok := kindNames[k]
	return ok
}

// EnumType describes an enum parameter type by its variant names.
type EnumType struct {
	Name     string
	Variants []string
}

// NewEnum creates an enum type.
func NewEnum(name string, variants ...string) *EnumType {
	return &EnumType{Name: name, Variants: variants}
}

// EnumVariant is one resolved enum value.
type EnumVariant struct {
	Type    *EnumType
	Ordinal int
}

// Name returns the declared variant name.
func (v EnumVariant) Name() string {
	if v.Type == nil || v.Ordinal < 0 || v.Ordinal >= len(v.Type.Variants) {
		return ""
	}
	return v.Type.Variants[v.Ordinal]
}

// =============================================================================
// VALUE
// =============================================================================

// Value is a coerced argument. Exactly one payload field is meaningful,
// selected by Kind.
type Value struct {
	kind Kind
	str  string
	num  int
	flt  float64
	flag bool
	v2   gamemath.Vector2
	v3   gamemath.Vector3
	col  gamemath.Color
	enum EnumVariant
}

func StringValue(s string) Value { return Value{kind: KindString, str: s} }
func IntValue(i int) Value { return Value{kind: KindInt, num: i} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, flt: f} }
func BoolValue(b bool) Value { return Value{kind: KindBool, flag: b} }
func Vector2Value(v gamemath.Vector2) Value { return Value{kind: KindVector2, v2: v} }
func Vector3Value(v gamemath.Vector3) Value { return Value{kind: KindVector3, v3: v} }
func ColorValue(c gamemath.Color) Value { return Value{kind: KindColor, col: c} }
func EnumValue(t *EnumType, ordinal int) Value { return Value{kind: KindEnum, enum: EnumVariant{Type: t, Ordinal: ordinal}} }

// Kind returns the value's kind; KindInvalid for the zero Value.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether v is the zero Value.
func (v Value) IsZero() bool { return v.kind == KindInvalid }

func (v Value) Str() string { return v.str }
func (v Value) Int() int { return v.num }
func (v Value) Float() float64 { return v.flt }
func (v Value) Bool() bool { return v.flag }
func (v Value) Vector2() gamemath.Vector2 { return v.v2 }
func (v Value) Vector3() gamemath.Vector3 { return v.v3 }
func (v Value) Color() gamemath.Color { return v.col }
func (v Value) Enum() EnumVariant { return v.enum }

// String renders the value as a token the coercer accepts back.
// Strings are quoted so that coercion restores them exactly.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return `"` + v.str + `"`
	case KindInt:
		return strconv.Itoa(v.num)
	case KindFloat:
		return gamemath.FormatFloat(v.flt)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindVector2:
		return v.v2.String()
	case KindVector3:
		return v.v3.String()
	case KindColor:
		return v.col.String()
	case KindEnum:
		return v.enum.Name()
	default:
		return "null"
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindInt:
		return v.num == o.num
	case KindFloat:
		return v.flt == o.flt
	case KindBool:
		return v.flag == o.flag
	case KindVector2:
		return v.v2 == o.v2
	case KindVector3:
		return v.v3 == o.v3
	case KindColor:
		return v.col == o.col
	case KindEnum:
		return v.enum.Type == o.enum.Type && v.enum.Ordinal == o.enum.Ordinal
	}
	return true
}

// =============================================================================
// PARAMETER SPEC
// =============================================================================

// Param declares one command parameter.
type Param struct {
	Name     string
	Kind     Kind
	Enum     *EnumType
	Optional bool
	Default  Value
}

func StringParam(name string) Param { return Param{Name: name, Kind: KindString} }
func IntParam(name string) Param { return Param{Name: name, Kind: KindInt} }
func FloatParam(name string) Param { return Param{Name: name, Kind: KindFloat} }
func BoolParam(name string) Param { return Param{Name: name, Kind: KindBool} }
func Vector2Param(name string) Param { return Param{Name: name, Kind: KindVector2} }
func Vector3Param(name string) Param { return Param{Name: name, Kind: KindVector3} }
func ColorParam(name string) Param { return Param{Name: name, Kind: KindColor} }

// EnumParam declares a parameter taking one of t's variants.
func EnumParam(name string, t *EnumType) Param {
	return Param{Name: name, Kind: KindEnum, Enum: t}
}

// WithDefault makes the parameter optional with the given default.
func (p Param) WithDefault(def Value) Param {
	p.Optional = true
	p.Default = def
	return p
}

// TypeName is the alias shown in tooltips and error messages.
func (p Param) TypeName() string {
	if p.Kind == KindEnum && p.Enum != nil {
		return p.Enum.Name
	}
	return p.Kind.String()
}
