package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateAggregatesMultipleErrors(t *testing.T) {
	require := require.New(t)

	cfg := &Config{CPUTupleCost: -1, CPUOperatorCost: -1, EnableMergeJoin: false, EnableHashJoin: false}
	err := cfg.Validate()
	require.Error(err)
	require.Contains(err.Error(), "cpu_tuple_cost")
	require.Contains(err.Error(), "cpu_operator_cost")
	require.Contains(err.Error(), "enable_merge_join")
}

func TestLoadAppliesTomlOverrides(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	p := filepath.Join(dir, "planmat.toml")
	require.NoError(os.WriteFile(p, []byte("cpu_tuple_cost = 0.5\nenable_hash_join = false\n"), 0o644))

	cfg, err := Load(p)
	require.NoError(err)
	require.Equal(0.5, cfg.CPUTupleCost)
	require.False(cfg.EnableHashJoin)
	require.True(cfg.EnableMergeJoin)
}

func TestLoadAppliesEnvOverrideOverToml(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	p := filepath.Join(dir, "planmat.toml")
	require.NoError(os.WriteFile(p, []byte("cpu_tuple_cost = 0.5\n"), 0o644))

	t.Setenv("PLANMAT_CPU_TUPLE_COST", "0.9")

	cfg, err := Load(p)
	require.NoError(err)
	require.Equal(0.9, cfg.CPUTupleCost)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	require := require.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(err)
	require.Equal(Default().CPUTupleCost, cfg.CPUTupleCost)
}
