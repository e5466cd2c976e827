package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-flowcore/pkg/flowio"
)

// Config is the full configuration of an analysis run.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Export   ExportConfig   `yaml:"export"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
	Workers  int            `yaml:"workers" validate:"gte=1,lte=64"`
}

// InputConfig selects the fields of each flow record.
type InputConfig struct {
	Columns flowio.Columns `yaml:"columns"`
}

// AnalysisConfig controls what is computed besides coreness.
type AnalysisConfig struct {
	// TopN is how many hosts the report lists, highest core first. Zero
	// lists every host.
	TopN       int  `yaml:"top_n" validate:"gte=0"`
	Triangles  bool `yaml:"triangles"`
	Components bool `yaml:"components"`
}

// ExportConfig controls result files and remote sinks. An empty Dir
// disables file export.
type ExportConfig struct {
	Dir             string         `yaml:"dir"`
	MinCore         int            `yaml:"min_core" validate:"gte=0"`
	IncludePriority bool           `yaml:"include_priority"`
	Compress        bool           `yaml:"compress"`
	Layout          string         `yaml:"layout" validate:"oneof=circular force concentric"`
	Width           float64        `yaml:"width" validate:"gt=0"`
	Height          float64        `yaml:"height" validate:"gt=0"`
	S3              S3Config       `yaml:"s3"`
	Postgres        PostgresConfig `yaml:"postgres"`
}

// S3Config uploads the export directory when Bucket is set.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region" validate:"required_with=Bucket"`
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `yaml:"access_key_id" validate:"required_with=SecretAccessKey"`
	SecretAccessKey string `yaml:"secret_access_key" validate:"required_with=AccessKeyID"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// Enabled reports whether uploads are configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// PostgresConfig writes coreness rows when URL is set.
type PostgresConfig struct {
	URL   string `yaml:"url" validate:"omitempty,url"`
	Table string `yaml:"table" validate:"alphanum_underscore"`
}

// Enabled reports whether the Postgres sink is configured.
func (c PostgresConfig) Enabled() bool {
	return c.URL != ""
}

// MetricsConfig writes a Prometheus textfile after the run when Textfile is set.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// LogConfig sets the logger level.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
}

// Default returns the configuration used when no file is given. The values
// reproduce the CTU-13 report: top 20 hosts, visual export of cores above 5
// plus every Botnet-labelled host.
func Default() *Config {
	return &Config{
		Input: InputConfig{Columns: flowio.CTU13Columns()},
		Analysis: AnalysisConfig{
			TopN:       20,
			Components: true,
		},
		Export: ExportConfig{
			MinCore:         5,
			IncludePriority: true,
			Layout:          "concentric",
			Width:           1200,
			Height:          900,
			Postgres:        PostgresConfig{Table: "host_coreness"},
		},
		Log:     LogConfig{Level: "info"},
		Workers: 1,
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
