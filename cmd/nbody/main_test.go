package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/nbody/internal/config"
	"github.com/san-kum/nbody/internal/dynamo"
	"github.com/san-kum/nbody/internal/sim"
	"github.com/san-kum/nbody/internal/storage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRun_Report(t *testing.T) {
	want := sim.StartMarker + "\n-0.169075164\n-0.169087605\n" + sim.EndMarker + "\n"

	for _, args := range [][]string{{"1000"}, {"run", "1000"}} {
		out, err := execute(t, args...)
		require.NoError(t, err, args)
		assert.Equal(t, want, out, args)
	}
}

func TestRun_Default(t *testing.T) {
	out, err := execute(t, "run", "--preset", "smoke")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "-0.169075164", lines[1])
	assert.Equal(t, lines[1], lines[2])
}

func TestRun_BadStepCount(t *testing.T) {
	_, err := execute(t, "run", "many")
	assert.True(t, errors.Is(err, dynamo.ErrInvalidConfig), "got %v", err)
}

func TestRun_UnknownPreset(t *testing.T) {
	_, err := execute(t, "run", "--preset", "nope")
	assert.True(t, errors.Is(err, dynamo.ErrUnknownPreset), "got %v", err)
}

func TestRun_SaveAndInspect(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "run", "600", "--sample-every", "50", "--save", "--data", dir)
	require.NoError(t, err)
	require.Contains(t, out, "run id: ")

	runs, err := storage.New(dir).List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	id := runs[0].ID
	assert.Equal(t, 600, runs[0].Steps)
	assert.Equal(t, 50, runs[0].SampleEvery)

	out, err = execute(t, "list", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, id)

	out, err = execute(t, "analyze", id, "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "max drift")
	assert.Contains(t, out, "orbital period")

	out, err = execute(t, "plot", id, "--data", dir, "--body", "saturn")
	require.NoError(t, err)
	assert.Contains(t, out, "total energy")
	assert.Contains(t, out, "saturn x (AU)")

	svgPath := filepath.Join(t.TempDir(), "orbits.svg")
	out, err = execute(t, "orbits", id, "--data", dir, "--svg", svgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "☉")
	assert.FileExists(t, svgPath)

	out, err = execute(t, "export", id, "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "`+id+`"`)
}

func TestAnalyze_UnsampledRun(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "run", "10", "--save", "--data", dir)
	require.NoError(t, err)

	runs, err := storage.New(dir).List()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	out, err := execute(t, "analyze", runs[0].ID, "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "period: n/a")
}

func TestResolveConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps: 77\nreference: saturn\nsample_every: 5\n"), 0644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--preset", "orbit", "--config", path, "--reference", "uranus"}))
	t.Setenv("NBODY_SAMPLE_EVERY", "9")

	v, err := newViper(cmd)
	require.NoError(t, err)

	cfg, err := resolveConfig(v, nil)
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.Steps, "file overrides preset")
	assert.Equal(t, "uranus", cfg.Reference, "flag overrides file")
	assert.Equal(t, 9, cfg.SampleEvery, "env overrides file")
	assert.True(t, cfg.ValidateState, "preset value survives")

	cfg, err = resolveConfig(v, []string{"12"})
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Steps, "positional count wins")
}

func TestResolveConfig_Defaults(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(nil))
	v, err := newViper(cmd)
	require.NoError(t, err)

	cfg, err := resolveConfig(v, nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestPresetsAndBench(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "50,000,000")

	out, err = execute(t, "bench", "--counts", "100,2000")
	require.NoError(t, err)
	assert.Contains(t, out, "2,000")
}
