package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moonunit/internal/engine"
)

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "post-hoc", cfg.TimeoutMode)
	assert.Equal(t, "xml", cfg.Output.Format)
}

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "moonunit.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Config{
		TimeoutMode: "preemptive",
		Suites:      []string{"Calculator"},
		Output:      Output{Path: "out/report.xml", Format: "xml"},
		Header:      Header{FileLocation: "./cmd/calc", Version: "2.0.1"},
		Filters:     Filters{Run: []string{"^Calculator/"}, Skip: []string{"Slow"}},
		History:     History{Database: "out/history.db"},
	}, cfg)

	mode, err := cfg.EngineTimeoutMode()
	require.NoError(t, err)
	assert.Equal(t, engine.Preemptive, mode)
}

func TestLoad_CUE(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "moonunit.cue"))
	require.NoError(t, err)

	assert.Equal(t, "post-hoc", cfg.TimeoutMode)
	assert.Equal(t, Output{Path: "report.json", Format: "json"}, cfg.Output)
	assert.Equal(t, Header{FileLocation: "./cmd/calc", Version: "2.0.1"}, cfg.Header)
	assert.Equal(t, []string{"Slow", "Flaky"}, cfg.Filters.Skip)
	assert.Empty(t, cfg.Filters.Run)
	assert.Empty(t, cfg.History.Database)
}

func TestLoad_RejectsUnknownYAMLField(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "unknown_field.yaml"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Message, "colour")
}

func TestLoad_RejectsSchemaViolations(t *testing.T) {
	for _, name := range []string{"bad_format.cue", "bad_mode.yaml"} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(filepath.Join("testdata", name))
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Contains(t, le.Message, "invalid config")
		})
	}
}

func TestParseCUE_RejectsUnknownField(t *testing.T) {
	_, err := ParseCUE("inline.cue", []byte(`output: colour: "red"`))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Error(), "inline.cue")
}

func TestParseCUE_RejectsIncompleteValues(t *testing.T) {
	_, err := ParseCUE("inline.cue", []byte(`header: version: string`))
	assert.Error(t, err)
}

func TestParseYAML_EmptyDocument(t *testing.T) {
	cfg, err := ParseYAML("empty.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moonunit.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "moonunit.yaml"))
	var le *LoadError
	assert.ErrorAs(t, err, &le)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	path, err := Discover(dir)
	require.NoError(t, err)
	assert.Empty(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "moonunit.cue"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "moonunit.yml"), nil, 0o644))
	path, err = Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "moonunit.yml"), path)
}

func TestRegexFilters(t *testing.T) {
	cfg := Config{Filters: Filters{Run: []string{"^Cart/"}, Skip: []string{"Slow$"}}}
	f, err := cfg.RegexFilters()
	require.NoError(t, err)
	assert.True(t, f.Match(engine.TestID{Suite: "Cart", Method: "Add"}))
	assert.False(t, f.Match(engine.TestID{Suite: "Cart", Method: "AddSlow"}))
	assert.False(t, f.Match(engine.TestID{Suite: "Order", Method: "Add"}))

	cfg.Filters.Skip = []string{"("}
	_, err = cfg.RegexFilters()
	assert.ErrorContains(t, err, "filters.skip")
}
