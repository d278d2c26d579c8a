// Package config loads moonunit.yaml or moonunit.cue.
//
// Both formats are unified with the embedded CUE schema (#Config in
// schema.cue) and must be concrete after unification. Values left unset fall
// back to Default.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/moonunit/internal/engine"
)

//go:embed schema.cue
var schemaCUE []byte

// FileNames are the config files looked for by Discover, in order.
var FileNames = []string{"moonunit.yaml", "moonunit.yml", "moonunit.cue"}

// Config is the file-level configuration of a run. Command-line flags
// override it.
type Config struct {
	TimeoutMode string   `yaml:"timeout_mode" json:"timeout_mode,omitempty"`
	Suites      []string `yaml:"suites" json:"suites,omitempty"`
	Output      Output   `yaml:"output" json:"output"`
	Header      Header   `yaml:"header" json:"header"`
	Filters     Filters  `yaml:"filters" json:"filters"`
	History     History  `yaml:"history" json:"history"`
}

// Output selects where and how the report is written. An empty path means
// standard output.
type Output struct {
	Path   string `yaml:"path" json:"path,omitempty"`
	Format string `yaml:"format" json:"format,omitempty"`
}

// Header is copied into the report header.
type Header struct {
	FileLocation string `yaml:"file_location" json:"file_location,omitempty"`
	Version      string `yaml:"version" json:"version,omitempty"`
}

// Filters are regular expressions over "Suite/Method".
type Filters struct {
	Run  []string `yaml:"run" json:"run,omitempty"`
	Skip []string `yaml:"skip" json:"skip,omitempty"`
}

// History names the SQLite database runs are recorded in. Empty disables
// recording.
type History struct {
	Database string `yaml:"database" json:"database,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		TimeoutMode: engine.PostHoc.String(),
		Output:      Output{Format: "xml"},
	}
}

// LoadError reports a config file that could not be read or does not match
// the schema.
type LoadError struct {
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Discover returns the first of FileNames present in dir, or "" if none is.
func Discover(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("discover config: %w", err)
		}
	}
	return "", nil
}

// Load reads the config file at path. An empty path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{Path: path, Message: err.Error()}
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return ParseYAML(path, data)
	case ".cue":
		return ParseCUE(path, data)
	default:
		return Config{}, &LoadError{Path: path, Message: "unsupported config format (want .yaml, .yml or .cue)"}
	}
}

// ParseYAML decodes YAML config. Unknown keys are errors.
func ParseYAML(path string, data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &LoadError{Path: path, Message: fmt.Sprintf("parse yaml: %v", err)}
	}

	ctx := cuecontext.New()
	if err := validate(ctx, path, ctx.Encode(cfg)); err != nil {
		return Config{}, err
	}
	return cfg.withDefaults(), nil
}

// ParseCUE evaluates CUE config.
func ParseCUE(path string, data []byte) (Config, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return Config{}, cueLoadError(path, "compile cue", err)
	}
	if err := validate(ctx, path, value); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return Config{}, cueLoadError(path, "decode cue", err)
	}
	return cfg.withDefaults(), nil
}

// validate unifies value with #Config and requires the result be concrete.
func validate(ctx *cue.Context, path string, value cue.Value) error {
	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cueLoadError(path, "invalid config", err)
	}
	return nil
}

func cueLoadError(path, what string, err error) *LoadError {
	le := &LoadError{Path: path, Message: fmt.Sprintf("%s: %v", what, err)}
	for _, pos := range cueerrors.Positions(err) {
		if pos.Filename() == path {
			le.Pos = pos
			break
		}
	}
	return le
}

func (c Config) withDefaults() Config {
	d := Default()
	if c.TimeoutMode == "" {
		c.TimeoutMode = d.TimeoutMode
	}
	if c.Output.Format == "" {
		c.Output.Format = d.Output.Format
	}
	return c
}

// EngineTimeoutMode parses TimeoutMode.
func (c Config) EngineTimeoutMode() (engine.TimeoutMode, error) {
	return engine.ParseTimeoutMode(c.TimeoutMode)
}

// RegexFilters compiles the run and skip patterns.
func (c Config) RegexFilters() (engine.RegexFilters, error) {
	var f engine.RegexFilters
	for _, p := range c.Filters.Run {
		if err := f.MustMatch.Set(p); err != nil {
			return engine.RegexFilters{}, fmt.Errorf("filters.run: %w", err)
		}
	}
	for _, p := range c.Filters.Skip {
		if err := f.MustNotMatch.Set(p); err != nil {
			return engine.RegexFilters{}, fmt.Errorf("filters.skip: %w", err)
		}
	}
	return f, nil
}
