package main

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds CLI settings. Values come from an optional YAML file and are
// overridden by flags.
type Config struct {
	Format                string `yaml:"format"` // json, yaml or auto
	MaxDepth              int    `yaml:"maxDepth"`
	MaxBytes              int64  `yaml:"maxBytes"`
	Duplicates            string `yaml:"duplicates"` // ignore, warn or error
	Float64               bool   `yaml:"float64"`
	Language              string `yaml:"language"`
	Indent                string `yaml:"indent"`
	DisallowUnknownFields bool   `yaml:"disallowUnknownFields"`
}

func defaultConfig() Config {
	return Config{Format: "auto", Duplicates: "ignore", Language: "en", Indent: "  "}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
