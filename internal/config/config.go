// Package config loads synergyctl settings from SYNERGY_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/jtomasevic/synergy/pkg/discovery"
	"github.com/jtomasevic/synergy/pkg/effect_composer"
	"github.com/jtomasevic/synergy/pkg/mastery"
	"github.com/jtomasevic/synergy/pkg/persistence"
	"github.com/jtomasevic/synergy/pkg/synergy"
)

type Config struct {
	// CatalogPath overrides the embedded showcase catalog.
	CatalogPath string `env:"SYNERGY_CATALOG_PATH"`

	StoreKind  string `env:"SYNERGY_STORE"       envDefault:"sqlite"`
	SQLitePath string `env:"SYNERGY_SQLITE_PATH" envDefault:"synergy.db"`
	BadgerPath string `env:"SYNERGY_BADGER_PATH" envDefault:"synergy.badger"`

	LogLevel string `env:"SYNERGY_LOG_LEVEL" envDefault:"info"`

	MaxChainDepth     int   `env:"SYNERGY_MAX_CHAIN_DEPTH"   envDefault:"5"`
	MasteryThresholds []int `env:"SYNERGY_MASTERY_THRESHOLDS" envDefault:"0,5,15,30,50,100" envSeparator:","`

	RewardCommon    int `env:"SYNERGY_REWARD_COMMON"    envDefault:"50"`
	RewardUncommon  int `env:"SYNERGY_REWARD_UNCOMMON"  envDefault:"150"`
	RewardRare      int `env:"SYNERGY_REWARD_RARE"      envDefault:"500"`
	RewardLegendary int `env:"SYNERGY_REWARD_LEGENDARY" envDefault:"1"`

	ChainBonusScale  float64 `env:"SYNERGY_CHAIN_BONUS_SCALE"  envDefault:"100"`
	RevenueWeight    float64 `env:"SYNERGY_REVENUE_WEIGHT"     envDefault:"1"`
	ReputationWeight float64 `env:"SYNERGY_REPUTATION_WEIGHT"  envDefault:"10"`
	AttendanceWeight float64 `env:"SYNERGY_ATTENDANCE_WEIGHT"  envDefault:"0.5"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch persistence.Kind(c.StoreKind) {
	case persistence.KindMemory, persistence.KindSQLite, persistence.KindBadger:
	default:
		return fmt.Errorf("config: %w: %q", persistence.ErrUnknownKind, c.StoreKind)
	}
	if c.MaxChainDepth < 1 {
		return fmt.Errorf("config: max chain depth must be positive, got %d", c.MaxChainDepth)
	}
	if err := mastery.Thresholds(c.MasteryThresholds).Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c Config) Level() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func (c Config) StoreOptions(logger *slog.Logger) persistence.Options {
	return persistence.Options{
		Kind:       persistence.Kind(c.StoreKind),
		SQLitePath: c.SQLitePath,
		BadgerPath: c.BadgerPath,
		Logger:     logger,
	}
}

func (c Config) Rewards() discovery.RewardTable {
	return discovery.RewardTable{
		synergy.Common:    {Currency: discovery.CurrencyCash, Amount: c.RewardCommon},
		synergy.Uncommon:  {Currency: discovery.CurrencyCash, Amount: c.RewardUncommon},
		synergy.Rare:      {Currency: discovery.CurrencyCash, Amount: c.RewardRare},
		synergy.Legendary: {Currency: discovery.CurrencyPremium, Amount: c.RewardLegendary},
	}
}

func (c Config) Composer() effect_composer.Config {
	return effect_composer.Config{
		ChainBonusScale:  c.ChainBonusScale,
		RevenueWeight:    c.RevenueWeight,
		ReputationWeight: c.ReputationWeight,
		AttendanceWeight: c.AttendanceWeight,
	}
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log level %q: %w", s, err)
	}
	return lvl, nil
}
