// Package config loads the optional YAML settings file of the converter.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("config.schema.json", schemaJSON)

type Config struct {
	Output    string `yaml:"output"`
	Layer     int    `yaml:"layer"`
	Animation bool   `yaml:"animation"`
	Codec     string `yaml:"codec"`
	Workers   int    `yaml:"workers"`
	LogLevel  string `yaml:"log_level"`
	// Preview, when set, is the path of a .glb written next to the output.
	Preview string `yaml:"preview"`
	// Thumbnail, when set, is the path of a top-view PNG.
	Thumbnail string `yaml:"thumbnail"`
}

// Default returns the settings used when neither a file nor a flag says
// otherwise.
func Default() Config {
	return Config{
		Output:   "output.dat",
		Codec:    "deflate",
		LogLevel: "info",
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := Parse(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates raw YAML against the config schema and decodes it into cfg.
// Keys absent from raw leave cfg untouched.
func Parse(raw []byte, cfg *Config) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	// the validator wants JSON types
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if err := schema.Validate(v); err != nil {
		return err
	}
	return yaml.Unmarshal(raw, cfg)
}
