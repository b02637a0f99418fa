// Package config holds the materializer's tunable knobs: the cost
// constants costmodel.Standard needs, plus feature toggles in the
// teacher's Config-struct-with-doc-comments style (engine.go's Config).
// Values load from an optional TOML file, overridden by environment
// variables, the same two-tier precedence the teacher applies less
// formally via os.Getenv feature flags.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cast"
)

// Config controls cost constants and optional behaviors of the
// materialization stage.
type Config struct {
	// CPUTupleCost is charged once per tuple processed by a plan node
	// (Result's no-input cost, Sort's output pass, Agg/Group's per-output
	// row cost).
	CPUTupleCost float64
	// CPUOperatorCost is charged once per comparison/operator evaluation
	// (Unique/SetOp's per-column comparisons, Agg/Group's tlist and qual
	// evaluation).
	CPUOperatorCost float64

	// EnableMergeJoin, when false, causes the join specializer to reject
	// MergeJoin paths with ErrUnknownJoinVariant instead of materializing
	// them — a debugging knob mirroring the original planner's
	// enable_mergejoin GUC.
	EnableMergeJoin bool
	// EnableHashJoin mirrors enable_mergejoin but for HashJoin paths.
	EnableHashJoin bool
}

// Default returns the classic cost constants (expressed relative to
// seq_page_cost == 1.0) with all join strategies enabled.
func Default() *Config {
	return &Config{
		CPUTupleCost:    0.01,
		CPUOperatorCost: 0.0025,
		EnableMergeJoin: true,
		EnableHashJoin:  true,
	}
}

// tomlShape mirrors Config's fields for decoding; kept distinct from
// Config itself so Config can stay free of toml struct tags.
type tomlShape struct {
	CPUTupleCost    *float64 `toml:"cpu_tuple_cost"`
	CPUOperatorCost *float64 `toml:"cpu_operator_cost"`
	EnableMergeJoin *bool    `toml:"enable_merge_join"`
	EnableHashJoin  *bool    `toml:"enable_hash_join"`
}

// Load reads path as TOML over Default()'s values, then applies
// PLANMAT_-prefixed environment variable overrides, and finally validates
// the result. A missing file at path is not an error; Load simply returns
// the environment-overridden defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			var shape tomlShape
			if _, err := toml.DecodeFile(path, &shape); err != nil {
				return nil, fmt.Errorf("config: decoding %s: %w", path, err)
			}
			applyTomlShape(cfg, &shape)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyTomlShape(cfg *Config, shape *tomlShape) {
	if shape.CPUTupleCost != nil {
		cfg.CPUTupleCost = *shape.CPUTupleCost
	}
	if shape.CPUOperatorCost != nil {
		cfg.CPUOperatorCost = *shape.CPUOperatorCost
	}
	if shape.EnableMergeJoin != nil {
		cfg.EnableMergeJoin = *shape.EnableMergeJoin
	}
	if shape.EnableHashJoin != nil {
		cfg.EnableHashJoin = *shape.EnableHashJoin
	}
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("PLANMAT_CPU_TUPLE_COST"); ok {
		if f, err := cast.ToFloat64E(v); err == nil {
			cfg.CPUTupleCost = f
		}
	}
	if v, ok := os.LookupEnv("PLANMAT_CPU_OPERATOR_COST"); ok {
		if f, err := cast.ToFloat64E(v); err == nil {
			cfg.CPUOperatorCost = f
		}
	}
	if v, ok := os.LookupEnv("PLANMAT_ENABLE_MERGE_JOIN"); ok {
		if b, err := cast.ToBoolE(v); err == nil {
			cfg.EnableMergeJoin = b
		}
	}
	if v, ok := os.LookupEnv("PLANMAT_ENABLE_HASH_JOIN"); ok {
		if b, err := cast.ToBoolE(v); err == nil {
			cfg.EnableHashJoin = b
		}
	}
}

// Validate aggregates every field-level problem into a single error via
// hashicorp/go-multierror, rather than failing fast on the first bad
// field.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.CPUTupleCost < 0 {
		result = multierror.Append(result, fmt.Errorf("cpu_tuple_cost must be >= 0, got %v", c.CPUTupleCost))
	}
	if c.CPUOperatorCost < 0 {
		result = multierror.Append(result, fmt.Errorf("cpu_operator_cost must be >= 0, got %v", c.CPUOperatorCost))
	}
	if !c.EnableMergeJoin && !c.EnableHashJoin {
		result = multierror.Append(result, fmt.Errorf("at least one of enable_merge_join/enable_hash_join must stay true; the materializer has no other join strategy to fall back to"))
	}
	return result.ErrorOrNil()
}
