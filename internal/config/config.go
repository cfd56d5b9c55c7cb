// Package config resolves runsummary settings from defaults, an optional
// config file and command-line flags.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/viper"

	"github.com/mwiater/runsummary/internal/summary"
)

// Keys understood by Load. They double as config file keys.
const (
	KeyScoreColumn    = "score_column"
	KeyRevisionSuffix = "revision_suffix"
	KeyTimesSuffix    = "times_suffix"
	KeyDNFToken       = "dnf_token"
	KeyInvalidFlag    = "invalid_flag"
	KeyUnit           = "unit"
	KeyFormat         = "format"
	KeyDebug          = "debug"
)

// ErrInvalidSettings is returned when the merged settings fail validation.
var ErrInvalidSettings = errors.New("invalid settings")

//go:embed settings.schema.json
var schemaJSON []byte

var (
	settingsSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// Settings is the resolved configuration of a run.
type Settings struct {
	ScoreColumn    string `mapstructure:"score_column" json:"score_column"`
	RevisionSuffix string `mapstructure:"revision_suffix" json:"revision_suffix"`
	TimesSuffix    string `mapstructure:"times_suffix" json:"times_suffix"`
	DNFToken       string `mapstructure:"dnf_token" json:"dnf_token"`
	InvalidFlag    string `mapstructure:"invalid_flag" json:"invalid_flag"`
	Unit           string `mapstructure:"unit" json:"unit"`
	Format         string `mapstructure:"format" json:"format"`
	Debug          bool   `mapstructure:"debug" json:"debug"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	opts := summary.DefaultOptions()
	v.SetDefault(KeyScoreColumn, opts.ScoreColumn)
	v.SetDefault(KeyRevisionSuffix, opts.RevisionSuffix)
	v.SetDefault(KeyTimesSuffix, opts.TimesSuffix)
	v.SetDefault(KeyDNFToken, opts.DNFToken)
	v.SetDefault(KeyInvalidFlag, opts.InvalidFlag)
	v.SetDefault(KeyUnit, string(summary.Microseconds))
	v.SetDefault(KeyFormat, "line")
	v.SetDefault(KeyDebug, false)
}

// Load applies defaults to v, reads the config file at path when path is not
// empty, validates the merged result and decodes it. Environment variables
// are never consulted.
func Load(v *viper.Viper, path string) (Settings, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("could not read config file: %w", err)
		}
	}

	if err := Validate(v.AllSettings()); err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("could not decode settings: %w", err)
	}
	return s, nil
}

func compileSchema() error {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal settings schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("settings.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("add settings schema resource: %w", err)
			return
		}
		settingsSchema, err = compiler.Compile("settings.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile settings schema: %w", err)
		}
	})
	return compileErr
}

// Validate checks a settings map, as returned by viper's AllSettings, against
// the embedded schema.
func Validate(settings map[string]any) error {
	if err := compileSchema(); err != nil {
		return err
	}

	// Round-trip through JSON so numbers and nested maps have the types the
	// validator expects.
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if err := settingsSchema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}

// Options returns the file naming and tokens for the summarizer.
func (s Settings) Options() summary.Options {
	return summary.Options{
		ScoreColumn:    s.ScoreColumn,
		RevisionSuffix: s.RevisionSuffix,
		TimesSuffix:    s.TimesSuffix,
		DNFToken:       s.DNFToken,
		InvalidFlag:    s.InvalidFlag,
	}
}

// DurationUnit parses the configured unit.
func (s Settings) DurationUnit() (summary.Unit, error) {
	return summary.ParseUnit(s.Unit)
}
