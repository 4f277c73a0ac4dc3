// Package config loads game rules and server settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/immuno/internal/game"
)

// RulesConfig mirrors game.Rules with file and environment bindings.
type RulesConfig struct {
	PlayerMaxHP     int           `yaml:"player_max_hp" env:"PLAYER_MAX_HP"`
	StartingTokens  int           `yaml:"starting_tokens" env:"STARTING_TOKENS"`
	InitialDraw     int           `yaml:"initial_draw" env:"INITIAL_DRAW"`
	HandCapacity    int           `yaml:"hand_capacity" env:"HAND_CAPACITY"`
	CardsPerTurn    int           `yaml:"cards_per_turn" env:"CARDS_PER_TURN"`
	FieldCapacity   int           `yaml:"field_capacity" env:"FIELD_CAPACITY"`
	ActiveSlots     int           `yaml:"active_slots" env:"ACTIVE_SLOTS"`
	MaxTurns        int           `yaml:"max_turns" env:"MAX_TURNS"`
	TurnDuration    time.Duration `yaml:"turn_duration" env:"TURN_DURATION"`
	RecycleDiscards bool          `yaml:"recycle_discards" env:"RECYCLE_DISCARDS"`
}

// Config is the full runtime configuration shared by the binaries.
type Config struct {
	Rules RulesConfig `yaml:"rules" envPrefix:"RULES_"`

	Scenario string `yaml:"scenario" env:"SCENARIO"` // empty means the built-in scenario
	Port     string `yaml:"port" env:"PORT"`         // TCP game server port
	GameAddr string `yaml:"game_addr" env:"GAME_ADDR"`
	WebPort  int    `yaml:"web_port" env:"WEB_PORT"`
	EventLog bool   `yaml:"event_log" env:"EVENT_LOG"` // echo game events on the server console
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	r := game.DefaultRules()
	return Config{
		Rules: RulesConfig{
			PlayerMaxHP:     r.PlayerMaxHP,
			StartingTokens:  r.StartingTokens,
			InitialDraw:     r.InitialDraw,
			HandCapacity:    r.HandCapacity,
			CardsPerTurn:    r.CardsPerTurn,
			FieldCapacity:   r.FieldCapacity,
			ActiveSlots:     r.ActiveSlots,
			MaxTurns:        r.MaxTurns,
			TurnDuration:    r.TurnDuration,
			RecycleDiscards: r.RecycleDiscards,
		},
		Port:     "9999",
		GameAddr: "localhost:9999",
		WebPort:  8080,
	}
}

// Load applies the YAML file at path (if any) over the defaults, then IMMUNO_*
// environment variables, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config YAML: %w", err)
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the rule ranges.
func (c Config) Validate() error {
	r := c.Rules
	var errs []error
	positive := []struct {
		name  string
		value int
	}{
		{"player_max_hp", r.PlayerMaxHP},
		{"initial_draw", r.InitialDraw},
		{"hand_capacity", r.HandCapacity},
		{"cards_per_turn", r.CardsPerTurn},
		{"field_capacity", r.FieldCapacity},
		{"active_slots", r.ActiveSlots},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, fmt.Errorf("rules.%s must be > 0, got %d", p.name, p.value))
		}
	}
	if r.StartingTokens < 0 {
		errs = append(errs, fmt.Errorf("rules.starting_tokens must be >= 0, got %d", r.StartingTokens))
	}
	if r.MaxTurns < 0 {
		errs = append(errs, fmt.Errorf("rules.max_turns must be >= 0 (0 means no limit), got %d", r.MaxTurns))
	}
	if r.InitialDraw > r.HandCapacity {
		errs = append(errs, fmt.Errorf("rules.initial_draw (%d) exceeds hand_capacity (%d)", r.InitialDraw, r.HandCapacity))
	}
	if r.TurnDuration < 0 {
		errs = append(errs, fmt.Errorf("rules.turn_duration must be >= 0, got %s", r.TurnDuration))
	}
	if c.WebPort < 0 || c.WebPort > 65535 {
		errs = append(errs, fmt.Errorf("web_port out of range: %d", c.WebPort))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GameRules converts the rules section for the engine.
func (c Config) GameRules() game.Rules {
	r := c.Rules
	return game.Rules{
		PlayerMaxHP:     r.PlayerMaxHP,
		StartingTokens:  r.StartingTokens,
		InitialDraw:     r.InitialDraw,
		HandCapacity:    r.HandCapacity,
		CardsPerTurn:    r.CardsPerTurn,
		FieldCapacity:   r.FieldCapacity,
		ActiveSlots:     r.ActiveSlots,
		MaxTurns:        r.MaxTurns,
		TurnDuration:    r.TurnDuration,
		RecycleDiscards: r.RecycleDiscards,
	}
}

// LoadScenario loads the configured scenario file, or the built-in one.
func (c Config) LoadScenario() (*game.Scenario, error) {
	if c.Scenario == "" {
		return game.DefaultScenario(), nil
	}
	return game.LoadScenario(c.Scenario)
}
