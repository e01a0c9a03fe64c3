// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the console command system.
package commands

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jeranaias/devconsole/internal/gamemath"
)

// =============================================================================
// ARGUMENT COERCION
// =============================================================================

const brackets = "()[]{}"

// foldCase returns the case-folded form of s. Casers carry state, so each
// call gets its own.
func foldCase(s string) string {
	return cases.Fold().String(s)
}

// Coerce converts one token to the declared parameter type.
func Coerce(token string, p Param) (Value, error) {
	switch p.Kind {
	case KindString:
		return StringValue(Unquote(token)), nil

	case KindInt:
		n, err := strconv.ParseInt(strings.TrimSpace(token), 10, 0)
		if err != nil {
			return Value{}, coercionFailed(p, token, err)
		}
		return IntValue(int(n)), nil

	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
		if err != nil {
			return Value{}, coercionFailed(p, token, err)
		}
		return FloatValue(f), nil

	case KindBool:
		switch strings.ToLower(strings.TrimSpace(token)) {
		case "true":
			return BoolValue(true), nil
		case "false":
			return BoolValue(false), nil
		}
		return Value{}, &CoercionError{ParamType: p.TypeName(), RawToken: token, Reason: "expected true or false"}

	case KindVector2, KindVector3:
		v, err := ParseVector(token)
		if err != nil {
			return Value{}, coercionFailed(p, token, err)
		}
		if v.Kind() != p.Kind {
			return Value{}, &CoercionError{
				ParamType: p.TypeName(),
				RawToken:  token,
				Reason:    "got a " + v.Kind().String(),
			}
		}
		return v, nil

	case KindColor:
		c, err := ParseColor(token)
		if err != nil {
			return Value{}, coercionFailed(p, token, err)
		}
		return ColorValue(c), nil

	case KindEnum:
		return coerceEnum(token, p)
	}

	return Value{}, &CoercionError{ParamType: p.TypeName(), RawToken: token, Reason: "unsupported parameter type"}
}

func coercionFailed(p Param, token string, err error) error {
	reason := err.Error()
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		reason = numErr.Err.Error()
	}
	return &CoercionError{ParamType: p.TypeName(), RawToken: token, Reason: reason}
}

// CoerceAll converts tokens to the parameter list, in order. It stops at the
// first failure.
func CoerceAll(tokens []string, params []Param) ([]Value, error) {
	args := make([]Value, 0, len(params))
	for i, p := range params {
		if i >= len(tokens) {
			break
		}
		v, err := Coerce(tokens[i], p)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// =============================================================================
// COMPOSITE PARSERS
// =============================================================================

func components(token string) ([]float64, error) {
	body := strings.Trim(strings.TrimSpace(token), brackets)
	parts := strings.Split(body, ",")
	values := make([]float64, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		values[i] = f
	}
	return values, nil
}

type shapeError int

func (e shapeError) Error() string {
	return strconv.Itoa(int(e)) + " component(s)"
}

// ParseVector reads "(x,y)" or "(x,y,z)". The number of components decides
// whether a Vector2 or a Vector3 value is produced.
func ParseVector(token string) (Value, error) {
	c, err := components(token)
	if err != nil {
		return Value{}, err
	}
	switch len(c) {
	case 2:
		return Vector2Value(gamemath.Vector2{X: c[0], Y: c[1]}), nil
	case 3:
		return Vector3Value(gamemath.Vector3{X: c[0], Y: c[1], Z: c[2]}), nil
	}
	return Value{}, shapeError(len(c))
}

// ParseColor reads "(r,g,b)" with full opacity or "(r,g,b,a)".
func ParseColor(token string) (gamemath.Color, error) {
	c, err := components(token)
	if err != nil {
		return gamemath.Color{}, err
	}
	switch len(c) {
	case 3:
		return gamemath.RGB(c[0], c[1], c[2]), nil
	case 4:
		return gamemath.Color{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
	}
	return gamemath.Color{}, shapeError(len(c))
}

// coerceEnum matches variant names without regard to case.
func coerceEnum(token string, p Param) (Value, error) {
	if p.Enum == nil {
		return Value{}, &CoercionError{ParamType: p.TypeName(), RawToken: token, Reason: "enum has no variants"}
	}
	want := foldCase(strings.TrimSpace(token))
	for i, name := range p.Enum.Variants {
		if foldCase(name) == want {
			return EnumValue(p.Enum, i), nil
		}
	}
	return Value{}, &CoercionError{
		ParamType: p.TypeName(),
		RawToken:  token,
		Reason:    "expected one of " + strings.Join(p.Enum.Variants, ", "),
	}
}
