// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scene is a small demo scene whose objects expose console
// commands covering every supported parameter kind.
package scene

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/jeranaias/devconsole/internal/commands"
	"github.com/jeranaias/devconsole/internal/console"
	"github.com/jeranaias/devconsole/internal/gamemath"
	"github.com/jeranaias/devconsole/internal/logring"
	"github.com/jeranaias/devconsole/internal/logsource"
)

// Difficulty is the game difficulty enum.
var Difficulty = commands.NewEnum("Difficulty", "Easy", "Normal", "Hard", "Nightmare")

// LogType mirrors the engine's log categories.
var LogType = commands.NewEnum("LogType", "Log", "Warning", "Error", "Exception")

// Scene holds every object of the demo scene.
type Scene struct {
	Player  *Player
	Camera  *Camera
	Sun     *Sun
	Game    *GameManager
	Enemies []*Enemy
}

// New builds the scene. Command effects are reported to logger; engine log
// events raised by commands go to engine.
func New(logger *log.Logger, engine logsource.Ingester) *Scene {
	if logger == nil {
		logger = log.Default()
	}
	return &Scene{
		Player: &Player{target: commands.NewTarget("Player"), logger: logger, HP: 100, Speed: 5},
		Camera: &Camera{target: commands.NewTarget("Main Camera"), logger: logger, FOV: 60},
		Sun:    &Sun{target: commands.NewTarget("Sun"), logger: logger, Tint: gamemath.White, Intensity: 1},
		Game: &GameManager{
			target:     commands.NewTarget("Game Manager"),
			logger:     logger,
			engine:     engine,
			Difficulty: 1,
		},
		// Two objects share a display name; only the first one's command
		// gets the key.
		Enemies: []*Enemy{
			{target: commands.NewTarget("Enemy"), logger: logger, Alive: true},
			{target: commands.NewTarget("Enemy"), logger: logger, Alive: true},
		},
	}
}

// Providers returns every command provider in the scene, in discovery order.
func (s *Scene) Providers() []commands.Provider {
	providers := []commands.Provider{s.Player, s.Camera, s.Sun, s.Game}
	for _, e := range s.Enemies {
		providers = append(providers, e)
	}
	return providers
}

// =============================================================================
// PLAYER
// =============================================================================

// Player is the controllable character.
type Player struct {
	target *commands.Target
	logger *log.Logger

	Name     string
	HP       int
	Speed    float64
	God      bool
	Position gamemath.Vector3
}

func (p *Player) ConsoleTarget() *commands.Target { return p.target }

func (p *Player) ConsoleCommands() []commands.Declaration {
	return []commands.Declaration{
		{
			Name:        "heal",
			Description: "Restore hit points",
			Params:      []commands.Param{commands.IntParam("amount")},
			Invoke: func(args []commands.Value) error {
				p.HP += args[0].Int()
				p.logger.Info("player healed", "hp", p.HP)
				return nil
			},
		},
		{
			Name:        "damage",
			Description: "Remove hit points",
			Params:      []commands.Param{commands.IntParam("amount")},
			Invoke: func(args []commands.Value) error {
				amount := args[0].Int()
				if amount < 0 {
					return fmt.Errorf("damage must not be negative, got %d", amount)
				}
				if p.God {
					p.logger.Info("player is invulnerable")
					return nil
				}
				p.HP -= amount
				p.logger.Info("player damaged", "hp", p.HP)
				return nil
			},
		},
		{
			Name:        "teleport",
			Description: "Move the player",
			Params:      []commands.Param{commands.Vector3Param("to")},
			Invoke: func(args []commands.Value) error {
				p.Position = args[0].Vector3()
				p.logger.Info("player moved", "position", p.Position)
				return nil
			},
		},
		{
			Name:        "rename",
			Description: "Change the player name",
			Params:      []commands.Param{commands.StringParam("name")},
			Invoke: func(args []commands.Value) error {
				p.Name = args[0].Str()
				p.logger.Info("player renamed", "name", p.Name)
				return nil
			},
		},
		{
			Name:        "god",
			Description: "Toggle invulnerability",
			Params:      []commands.Param{commands.BoolParam("enabled")},
			Invoke: func(args []commands.Value) error {
				p.God = args[0].Bool()
				console.Important(p.logger, "god mode", "enabled", p.God)
				return nil
			},
		},
		{
			Name:        "set speed",
			Description: "Set the movement speed",
			Params:      []commands.Param{commands.FloatParam("speed")},
			Invoke: func(args []commands.Value) error {
				p.Speed = args[0].Float()
				p.logger.Info("speed set", "speed", p.Speed)
				return nil
			},
		},
	}
}

// =============================================================================
// CAMERA
// =============================================================================

// Camera is the main camera.
type Camera struct {
	target *commands.Target
	logger *log.Logger

	FOV    float64
	LookAt gamemath.Vector3
	Offset gamemath.Vector2
}

func (c *Camera) ConsoleTarget() *commands.Target { return c.target }

func (c *Camera) ConsoleCommands() []commands.Declaration {
	return []commands.Declaration{
		{
			Name:        "zoom",
			Description: "Change the field of view",
			Params: []commands.Param{
				commands.FloatParam("fov"),
				commands.FloatParam("duration").WithDefault(commands.FloatValue(0.5)),
			},
			Invoke: func(args []commands.Value) error {
				fov := args[0].Float()
				if fov <= 0 || fov >= 180 {
					return fmt.Errorf("field of view %g is out of range", fov)
				}
				c.FOV = fov
				c.logger.Info("camera zoomed", "fov", fov, "duration", args[1].Float())
				return nil
			},
		},
		{
			Name:        "look",
			Description: "Point the camera at a world position",
			Params:      []commands.Param{commands.Vector3Param("at")},
			Invoke: func(args []commands.Value) error {
				c.LookAt = args[0].Vector3()
				c.logger.Info("camera looking", "at", c.LookAt)
				return nil
			},
		},
		{
			Name:        "pan",
			Description: "Offset the camera in screen space",
			Params:      []commands.Param{commands.Vector2Param("delta")},
			Invoke: func(args []commands.Value) error {
				d := args[0].Vector2()
				c.Offset = gamemath.Vector2{X: c.Offset.X + d.X, Y: c.Offset.Y + d.Y}
				c.logger.Info("camera panned", "offset", c.Offset)
				return nil
			},
		},
	}
}

// =============================================================================
// SUN
// =============================================================================

// Sun is the directional light.
type Sun struct {
	target *commands.Target
	logger *log.Logger

	Tint      gamemath.Color
	Intensity float64
}

func (s *Sun) ConsoleTarget() *commands.Target { return s.target }

func (s *Sun) ConsoleCommands() []commands.Declaration {
	return []commands.Declaration{
		{
			Name:        "tint",
			Description: "Set the light color",
			Params:      []commands.Param{commands.ColorParam("color")},
			Invoke: func(args []commands.Value) error {
				s.Tint = args[0].Color()
				s.logger.Info("sun tinted", "color", s.Tint.Hex(), "alpha", s.Tint.A)
				return nil
			},
		},
		{
			Name:        "intensity",
			Description: "Set the light intensity",
			Params: []commands.Param{
				commands.FloatParam("value").WithDefault(commands.FloatValue(1)),
			},
			Invoke: func(args []commands.Value) error {
				s.Intensity = args[0].Float()
				s.logger.Info("sun intensity", "value", s.Intensity)
				return nil
			},
		},
	}
}

// =============================================================================
// GAME MANAGER
// =============================================================================

// ErrSimulatedCrash is what the crash command panics with.
var ErrSimulatedCrash = errors.New("simulated crash")

// GameManager owns game-wide state.
type GameManager struct {
	target *commands.Target
	logger *log.Logger
	engine logsource.Ingester

	// Difficulty is an ordinal of the Difficulty enum
	Difficulty int
	Spawned    []Spawn
}

// Spawn records one spawn request.
type Spawn struct {
	Kind  string
	At    gamemath.Vector2
	Count int
}

func (g *GameManager) ConsoleTarget() *commands.Target { return g.target }

func (g *GameManager) ConsoleCommands() []commands.Declaration {
	return []commands.Declaration{
		{
			Name:        "difficulty",
			Description: "Change the difficulty",
			Params:      []commands.Param{commands.EnumParam("level", Difficulty)},
			Invoke: func(args []commands.Value) error {
				g.Difficulty = args[0].Enum().Ordinal
				g.logger.Info("difficulty changed", "level", args[0].Enum().Name())
				return nil
			},
		},
		{
			Name:        "spawn",
			Description: "Spawn enemies at a map position",
			Params: []commands.Param{
				commands.StringParam("kind"),
				commands.Vector2Param("at"),
				commands.IntParam("count").WithDefault(commands.IntValue(1)),
			},
			Invoke: func(args []commands.Value) error {
				s := Spawn{Kind: args[0].Str(), At: args[1].Vector2(), Count: args[2].Int()}
				if s.Count < 1 {
					return fmt.Errorf("count must be at least 1, got %d", s.Count)
				}
				g.Spawned = append(g.Spawned, s)
				console.Highlight(g.logger, "spawned", "kind", s.Kind, "at", s.At, "count", s.Count)
				return nil
			},
		},
		{
			Name:        "log",
			Description: "Raise an engine log event",
			Params: []commands.Param{
				commands.StringParam("message"),
				commands.EnumParam("type", LogType).WithDefault(commands.EnumValue(LogType, 0)),
			},
			Invoke: func(args []commands.Value) error {
				g.Emit(args[0].Str(), args[1].Enum().Name())
				return nil
			},
		},
		{
			Name:        "crash",
			Description: "Panic inside a command",
			Invoke: func([]commands.Value) error {
				panic(ErrSimulatedCrash)
			},
		},
	}
}

// Emit raises an engine log event with an engine-style stack trace.
func (g *GameManager) Emit(message, logType string) {
	if g.engine == nil {
		return
	}
	g.engine.Receive(message, EngineTrace("GameManager", "EmitLog", 88), logring.ParseSeverity(logType))
}

// EngineTrace builds a stack trace shaped like the engine's, pointing at
// Assets/Scripts/<class>.cs.
func EngineTrace(class, method string, line int) string {
	return fmt.Sprintf("UnityEngine.Debug:Log (object)\n"+
		"%s:%s () (at Assets/Scripts/%s.cs:%d)\n"+
		"UnityEngine.EventSystems.ExecuteEvents:Execute (at Library/PackageCache/com.unity.ugui/Runtime/EventSystem/ExecuteEvents.cs:272)\n",
		class, method, class, line)
}

// =============================================================================
// ENEMY
// =============================================================================

// Enemy is a scene object that may exist more than once under one name.
type Enemy struct {
	target *commands.Target
	logger *log.Logger

	Alive bool
}

func (e *Enemy) ConsoleTarget() *commands.Target { return e.target }

func (e *Enemy) ConsoleCommands() []commands.Declaration {
	return []commands.Declaration{
		{
			Name:        "kill",
			Description: "Kill this enemy",
			Invoke: func([]commands.Value) error {
				if !e.Alive {
					return errors.New("enemy is already dead")
				}
				e.Alive = false
				e.logger.Info("enemy killed", "id", e.target.ID)
				return nil
			},
		},
	}
}
