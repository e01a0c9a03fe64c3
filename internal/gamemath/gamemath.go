// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gamemath holds the small engine value types the console can pass
// to commands and use for display colors.
package gamemath

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Vector2 is a 2D vector.
type Vector2 struct {
	X, Y float64
}

// Vector3 is a 3D vector.
type Vector3 struct {
	X, Y, Z float64
}

// Color is an RGBA color with components in the 0..1 range.
type Color struct {
	R, G, B, A float64
}

// Fixed colors used by the console.
var (
	White = Color{R: 1, G: 1, B: 1, A: 1}
	Amber = Color{R: 1, G: 0.75, B: 0.03, A: 1}
	Coral = Color{R: 1, G: 0.43, B: 0.25, A: 1}
)

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// String renders the vector in the form accepted back by the coercer.
func (v Vector2) String() string {
	return "(" + formatComponents(v.X, v.Y) + ")"
}

// String renders the vector in the form accepted back by the coercer.
func (v Vector3) String() string {
	return "(" + formatComponents(v.X, v.Y, v.Z) + ")"
}

// String renders the color as (r,g,b,a).
func (c Color) String() string {
	return "(" + formatComponents(c.R, c.G, c.B, c.A) + ")"
}

// Hex returns the #RRGGBB form of the color, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) uint8 {
	v = math.Max(0, math.Min(1, v))
	return uint8(math.Round(v * 255))
}

// FormatFloat formats a float in the shortest form that parses back to the
// same value.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatComponents(values ...float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatFloat(v)
	}
	return strings.Join(parts, ",")
}
