// Package config loads railplanner's runtime configuration via Viper,
// honouring (in increasing priority) defaults, a config file, and
// environment variables prefixed RAILPLANNER_.
package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/ukrail/railplanner/model"
)

// Config is the resolved set of runtime knobs the CLI and any future
// server entry point need.
type Config struct {
	// DatasetRoot is the directory Repository.Load reads from.
	DatasetRoot string

	// MaxWalkMetres is read from max_walk_metres (default 1000). No caller
	// in this module passes it to the graph builder, so the dataset's own
	// auto-walking limit stays in force.
	MaxWalkMetres int

	// WalkingPenaltyMinutes is read from walking_penalty_minutes (default
	// 2). No caller in this module passes it to the pathfinder, which
	// applies its own fixed pathfind.WalkingPenaltyMultiplier instead.
	WalkingPenaltyMinutes int

	// AutoWalkingEnabled is read from auto_walking_enabled (default true).
	// No caller in this module passes it to the graph builder, so the
	// dataset's auto_walking_connections flag decides.
	AutoWalkingEnabled bool

	// LogLevel is one of zap's level strings (debug, info, warn, error).
	LogLevel string
}

// Load resolves a Config from defaults, an optional config file at
// configPath (skipped silently if empty or missing), and
// RAILPLANNER_-prefixed environment variables.
func Load(configPath string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RAILPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("dataset_root", "./data")
	v.SetDefault("max_walk_metres", int(model.DefaultMaxWalkingDistanceKM*1000))
	v.SetDefault("walking_penalty_minutes", 2)
	v.SetDefault("auto_walking_enabled", true)
	v.SetDefault("log_level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	return Config{
		DatasetRoot:           v.GetString("dataset_root"),
		MaxWalkMetres:         v.GetInt("max_walk_metres"),
		WalkingPenaltyMinutes: v.GetInt("walking_penalty_minutes"),
		AutoWalkingEnabled:    v.GetBool("auto_walking_enabled"),
		LogLevel:              v.GetString("log_level"),
	}, nil
}
