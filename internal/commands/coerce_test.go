// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/devconsole/internal/gamemath"
)

var testDifficulty = NewEnum("Difficulty", "Easy", "Normal", "Hard")

func TestCoerceScalars(t *testing.T) {
	tests := []struct {
		name  string
		token string
		param Param
		want  Value
	}{
		{"string quoted", `"a b"`, StringParam("s"), StringValue("a b")},
		{"string bare", `word`, StringParam("s"), StringValue("word")},
		{"string embedded quote", `a"b`, StringParam("s"), StringValue(`a"b`)},
		{"int", "42", IntParam("n"), IntValue(42)},
		{"int negative", "-7", IntParam("n"), IntValue(-7)},
		{"int plus sign", "+3", IntParam("n"), IntValue(3)},
		{"float", "1.5", FloatParam("f"), FloatValue(1.5)},
		{"float exponent", "2e3", FloatParam("f"), FloatValue(2000)},
		{"float integral", "3", FloatParam("f"), FloatValue(3)},
		{"bool true", "true", BoolParam("b"), BoolValue(true)},
		{"bool mixed case", "False", BoolParam("b"), BoolValue(false)},
		{"enum exact", "Hard", EnumParam("d", testDifficulty), EnumValue(testDifficulty, 2)},
		{"enum any case", "nORMAL", EnumParam("d", testDifficulty), EnumValue(testDifficulty, 1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Coerce(tc.token, tc.param)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %v, want %v", got, tc.want)
		})
	}
}

func TestCoerceFailures(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		param    Param
		wantType string
	}{
		{"int word", "ten", IntParam("n"), "int"},
		{"int decimal", "1.5", IntParam("n"), "int"},
		{"int locale comma", "1,5", IntParam("n"), "int"},
		{"float word", "fast", FloatParam("f"), "float"},
		{"float locale comma", "1,5", FloatParam("f"), "float"},
		{"bool number", "1", BoolParam("b"), "bool"},
		{"bool yes", "yes", BoolParam("b"), "bool"},
		{"enum unknown", "Insane", EnumParam("d", testDifficulty), "Difficulty"},
		{"enum ordinal", "2", EnumParam("d", testDifficulty), "Difficulty"},
		{"enum ordinal out of range", "3", EnumParam("d", testDifficulty), "Difficulty"},
		{"vector component", "(1,x)", Vector2Param("v"), "Vector2"},
		{"vector too few", "(1)", Vector2Param("v"), "Vector2"},
		{"vector2 given three", "(1,2,3)", Vector2Param("v"), "Vector2"},
		{"vector3 given two", "(1,2)", Vector3Param("v"), "Vector3"},
		{"color two components", "(1,2)", ColorParam("c"), "Color"},
		{"color five components", "(1,2,3,4,5)", ColorParam("c"), "Color"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Coerce(tc.token, tc.param)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCoercion))

			var ce *CoercionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.wantType, ce.ParamType)
			assert.Equal(t, tc.token, ce.RawToken)
		})
	}
}

func TestCoerceVectors(t *testing.T) {
	v, err := Coerce("(1,2)", Vector2Param("v"))
	require.NoError(t, err)
	assert.Equal(t, gamemath.Vector2{X: 1, Y: 2}, v.Vector2())

	v, err = Coerce("(1,2,3)", Vector3Param("v"))
	require.NoError(t, err)
	assert.Equal(t, gamemath.Vector3{X: 1, Y: 2, Z: 3}, v.Vector3())

	for _, token := range []string{"[1, 2, 3]", "{1,2,3}", "1,2,3", "((1,2,3))"} {
		v, err = Coerce(token, Vector3Param("v"))
		require.NoError(t, err, token)
		assert.Equal(t, gamemath.Vector3{X: 1, Y: 2, Z: 3}, v.Vector3(), token)
	}
}

func TestParseVectorShapeFromComponentCount(t *testing.T) {
	v, err := ParseVector("(1,2)")
	require.NoError(t, err)
	assert.Equal(t, KindVector2, v.Kind())

	v, err = ParseVector("(1,2,3)")
	require.NoError(t, err)
	assert.Equal(t, KindVector3, v.Kind())

	_, err = ParseVector("(1,2,3,4)")
	assert.Error(t, err)
}

func TestCoerceColor(t *testing.T) {
	v, err := Coerce("(1,2,3,4)", ColorParam("c"))
	require.NoError(t, err)
	assert.Equal(t, gamemath.Color{R: 1, G: 2, B: 3, A: 4}, v.Color())

	v, err = Coerce("(1,2,3)", ColorParam("c"))
	require.NoError(t, err)
	assert.Equal(t, gamemath.Color{R: 1, G: 2, B: 3, A: 1}, v.Color())

	v, err = Coerce("(0.5, 0.25, 0)", ColorParam("c"))
	require.NoError(t, err)
	assert.Equal(t, gamemath.RGB(0.5, 0.25, 0), v.Color())
}

func TestCoerceRoundTrip(t *testing.T) {
	values := []struct {
		param Param
		value Value
	}{
		{StringParam("s"), StringValue("hello world")},
		{StringParam("s"), StringValue("")},
		{IntParam("n"), IntValue(0)},
		{IntParam("n"), IntValue(-123456)},
		{IntParam("n"), IntValue(math.MaxInt32)},
		{FloatParam("f"), FloatValue(0.1)},
		{FloatParam("f"), FloatValue(-2.5e-7)},
		{FloatParam("f"), FloatValue(1e21)},
		{FloatParam("f"), FloatValue(math.Pi)},
		{BoolParam("b"), BoolValue(true)},
		{Vector2Param("v"), Vector2Value(gamemath.Vector2{X: 0.1, Y: -3})},
		{Vector3Param("v"), Vector3Value(gamemath.Vector3{X: 1, Y: 2.5, Z: 1e-9})},
		{ColorParam("c"), ColorValue(gamemath.Color{R: 0.2, G: 0.4, B: 0.6, A: 0.8})},
		{EnumParam("d", testDifficulty), EnumValue(testDifficulty, 1)},
	}

	for _, tc := range values {
		rendered := tc.value.String()
		got, err := Coerce(rendered, tc.param)
		require.NoError(t, err, rendered)
		assert.True(t, tc.value.Equal(got), "%s: got %v", rendered, got)
	}
}

func TestCoerceAllStopsAtFirstFailure(t *testing.T) {
	params := []Param{IntParam("a"), FloatParam("b"), BoolParam("c")}

	args, err := CoerceAll([]string{"1", "2.5", "true"}, params)
	require.NoError(t, err)
	require.Len(t, args, 3)
	assert.Equal(t, 1, args[0].Int())
	assert.Equal(t, 2.5, args[1].Float())
	assert.True(t, args[2].Bool())

	_, err = CoerceAll([]string{"1", "oops", "maybe"}, params)
	var ce *CoercionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "float", ce.ParamType)
	assert.Equal(t, "oops", ce.RawToken)
}
