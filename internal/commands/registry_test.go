// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(args []Value) error { return nil }

// fakeProvider is a scene object exposing a fixed list of declarations.
type fakeProvider struct {
	target *Target
	decls  []Declaration
}

func (p *fakeProvider) ConsoleTarget() *Target         { return p.target }
func (p *fakeProvider) ConsoleCommands() []Declaration { return p.decls }

// =============================================================================
// NAMING TESTS
// =============================================================================

func TestNamingNormalize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"heal", "heal"},
		{"go", "go__"},
		{"", "____"},
		{"set hp", "set_hp"},
		{"a b", "a_b_"},
		{"teleport", "teleport"},
	}

	for _, tc := range tests {
		if got := DefaultNaming.Normalize(tc.name); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestNamingKey(t *testing.T) {
	target := NewTarget("Main Camera")
	assert.Equal(t, "zoom<MainCamera>", DefaultNaming.Key("zoom", target))
	assert.Equal(t, "up__<MainCamera>", DefaultNaming.Key("up", target))
	assert.Equal(t, "up__<>", DefaultNaming.Key("up", nil))

	custom := Naming{MinLength: 6, Filler: '-'}
	assert.Equal(t, "fly---<Bird>", custom.Key("fly", NewTarget("Bird")))
}

func TestSplitKey(t *testing.T) {
	tests := []struct {
		key, name, target string
	}{
		{"heal<Player>", "heal", "Player"},
		{"zoom<MainCamera>", "zoom", "MainCamera"},
		{"orphan", "orphan", ""},
		{"open<Unclosed", "open", "Unclosed"},
	}
	for _, tc := range tests {
		name, target := SplitKey(tc.key)
		assert.Equal(t, tc.name, name, tc.key)
		assert.Equal(t, tc.target, target, tc.key)
	}
}

// =============================================================================
// REGISTRATION TESTS
// =============================================================================

func TestRegisterCommand(t *testing.T) {
	reg := NewRegistry(DefaultNaming, nil)
	player := NewTarget("Player")

	cmd, err := reg.Register(player, Declaration{
		Name: "heal",
		Params: []Param{
			IntParam("amount"),
			BoolParam("revive").WithDefault(BoolValue(false)),
		},
		Invoke: noop,
	})
	require.NoError(t, err)

	assert.Equal(t, "heal<Player>", cmd.Key)
	assert.Equal(t, "heal", cmd.Name)
	assert.Equal(t, 1, cmd.Required)
	assert.Same(t, player, cmd.Target)
	assert.Equal(t, "int amount [bool revive=false]", cmd.Signature())

	got, ok := reg.Get("heal<Player>")
	require.True(t, ok)
	assert.Same(t, cmd, got)
}

func TestRegisterDuplicateKeyRejected(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	reg := NewRegistry(DefaultNaming, logger)
	player := NewTarget("Player")

	_, err := reg.Register(player, Declaration{Name: "set hp", Invoke: noop})
	require.NoError(t, err)

	// "set_hp" normalizes to the same key as "set hp".
	_, err = reg.Register(player, Declaration{Name: "set_hp", Params: []Param{IntParam("hp")}, Invoke: noop})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateCommandKey))
	assert.Equal(t, 1, reg.Len())

	cmd, _ := reg.Get("set_hp<Player>")
	assert.Empty(t, cmd.Params, "first registration must not be overwritten")
	assert.Contains(t, buf.String(), "set_hp<Player>")
}

func TestRegisterSameNameDifferentTargets(t *testing.T) {
	reg := NewRegistry(DefaultNaming, nil)

	_, err := reg.Register(NewTarget("Player"), Declaration{Name: "kill", Invoke: noop})
	require.NoError(t, err)
	_, err = reg.Register(NewTarget("Enemy"), Declaration{Name: "kill", Invoke: noop})
	require.NoError(t, err)

	assert.Equal(t, []string{"kill<Player>", "kill<Enemy>"}, reg.Keys())
}

func TestRegisterInvalidSignatures(t *testing.T) {
	tests := []struct {
		name string
		decl Declaration
		want error
	}{
		{
			name: "unsupported kind",
			decl: Declaration{Name: "bad1", Params: []Param{{Name: "x", Kind: Kind(99)}}, Invoke: noop},
			want: ErrUnsupportedParameterType,
		},
		{
			name: "invalid kind",
			decl: Declaration{Name: "bad2", Params: []Param{{Name: "x"}}, Invoke: noop},
			want: ErrUnsupportedParameterType,
		},
		{
			name: "enum without variants",
			decl: Declaration{Name: "bad3", Params: []Param{EnumParam("mode", nil)}, Invoke: noop},
			want: ErrUnsupportedParameterType,
		},
		{
			name: "no callable",
			decl: Declaration{Name: "bad4"},
			want: ErrInvalidSignature,
		},
		{
			name: "required after optional",
			decl: Declaration{Name: "bad5", Params: []Param{
				IntParam("a").WithDefault(IntValue(1)),
				IntParam("b"),
			}, Invoke: noop},
			want: ErrInvalidSignature,
		},
		{
			name: "default of the wrong kind",
			decl: Declaration{Name: "bad6", Params: []Param{
				IntParam("a").WithDefault(StringValue("x")),
			}, Invoke: noop},
			want: ErrInvalidSignature,
		},
		{
			name: "default from another enum",
			decl: Declaration{Name: "bad7", Params: []Param{
				EnumParam("level", testDifficulty).WithDefault(EnumValue(NewEnum("Mood", "Calm", "Angry"), 1)),
			}, Invoke: noop},
			want: ErrInvalidSignature,
		},
		{
			name: "enum default out of range",
			decl: Declaration{Name: "bad8", Params: []Param{
				EnumParam("level", testDifficulty).WithDefault(EnumValue(testDifficulty, 7)),
			}, Invoke: noop},
			want: ErrInvalidSignature,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reg := NewRegistry(DefaultNaming, nil)
			_, err := reg.Register(NewTarget("Player"), tc.decl)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 0, reg.Len())
		})
	}
}

func TestDiscoverRebuildsFromScratch(t *testing.T) {
	reg := NewRegistry(DefaultNaming, nil)
	player := &fakeProvider{
		target: NewTarget("Player"),
		decls: []Declaration{
			{Name: "heal", Params: []Param{IntParam("amount")}, Invoke: noop},
			{Name: "jump", Invoke: noop},
			{Name: "heal", Invoke: noop},
		},
	}
	sun := &fakeProvider{
		target: NewTarget("Sun"),
		decls: []Declaration{
			{Name: "tint", Params: []Param{ColorParam("color")}, Invoke: noop},
		},
	}

	rejected := reg.Discover(player, sun)
	require.Len(t, rejected, 1)
	assert.ErrorIs(t, rejected[0], ErrDuplicateCommandKey)
	assert.Equal(t, []string{"heal<Player>", "jump<Player>", "tint<Sun>"}, reg.Keys())

	rejected = reg.Discover(sun)
	assert.Empty(t, rejected)
	assert.Equal(t, []string{"tint<Sun>"}, reg.Keys())
	_, ok := reg.Get("heal<Player>")
	assert.False(t, ok)
}

func TestRegistryAllOrder(t *testing.T) {
	reg := NewRegistry(Naming{}, nil)
	target := NewTarget("T")
	for _, name := range []string{"zulu", "alpha", "mike"} {
		_, err := reg.Register(target, Declaration{Name: name, Invoke: noop})
		require.NoError(t, err)
	}

	var keys []string
	for _, cmd := range reg.All() {
		keys = append(keys, cmd.Key)
	}
	assert.Equal(t, []string{"zulu<T>", "alpha<T>", "mike<T>"}, keys)
	assert.Equal(t, DefaultNaming, reg.Naming())
}
