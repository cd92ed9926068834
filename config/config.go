// Package config loads the ifcconv YAML configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v2"

	"github.com/binzume/ifcconv/converter"
	"github.com/binzume/ifcconv/ifc"
)

var Schemas = []interface{}{"IFC4", "IFC4X1", "IFC4X2", "IFC4X3"}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Config represents the converter configuration.
type Config struct {
	LogLevel string       `yaml:"log_level"`
	Import   ImportConfig `yaml:"import"`
	Export   ExportConfig `yaml:"export"`
	GLTF     GLTFConfig   `yaml:"gltf"`
	Batch    BatchConfig  `yaml:"batch"`
}

type ImportConfig struct {
	CircleSegments       int  `yaml:"circle_segments"`
	EarClipCaps          bool `yaml:"ear_clip_caps"`
	ApplyObjectPlacement bool `yaml:"apply_object_placement"`
	BodyOnly             bool `yaml:"body_only"`
}

func (c *ImportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.CircleSegments, validation.Required, validation.Min(3), validation.Max(1024)),
	)
}

type ExportConfig struct {
	Schema       string `yaml:"schema"`
	Author       string `yaml:"author"`
	Organization string `yaml:"organization"`
	SiteName     string `yaml:"site_name"`
	BuildingName string `yaml:"building_name"`
	StoreyName   string `yaml:"storey_name"`
}

func (c *ExportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Schema, validation.Required, validation.In(Schemas...)),
		validation.Field(&c.SiteName, validation.Required),
		validation.Field(&c.BuildingName, validation.Required),
	)
}

type GLTFConfig struct {
	Scale       float32 `yaml:"scale"`
	YUp         bool    `yaml:"y_up"`
	DoubleSided bool    `yaml:"double_sided"`
}

func (c *GLTFConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Scale, validation.Required, validation.Min(float32(0)).Exclusive()),
	)
}

type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

func (c *BatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Concurrency, validation.Required, validation.Min(1), validation.Max(64)),
	)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.Required, validation.In("debug", "info", "warn", "error")),
	); err != nil {
		return err
	}
	if err := c.Import.Validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := c.GLTF.Validate(); err != nil {
		return fmt.Errorf("gltf: %w", err)
	}
	if err := c.Batch.Validate(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	return nil
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Import: ImportConfig{
			CircleSegments:       ifc.DefaultCircleSegments,
			ApplyObjectPlacement: true,
			BodyOnly:             true,
		},
		Export: ExportConfig{
			Schema:       "IFC4",
			SiteName:     "Site",
			BuildingName: "Building",
		},
		GLTF: GLTFConfig{
			Scale:       1.0,
			YUp:         true,
			DoubleSided: true,
		},
		Batch: BatchConfig{
			Concurrency: 4,
		},
	}
}

// Load reads path over the defaults. Environment variables in the file are
// expanded before parsing.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	if l, ok := logLevels[c.LogLevel]; ok {
		return l
	}
	return slog.LevelInfo
}

func (c *Config) ImportOption() *ifc.ImportOption {
	return &ifc.ImportOption{
		CircleSegments:       c.Import.CircleSegments,
		EarClipCaps:          c.Import.EarClipCaps,
		ApplyObjectPlacement: c.Import.ApplyObjectPlacement,
		BodyOnly:             c.Import.BodyOnly,
	}
}

func (c *Config) ExportOption() *ifc.ExportOption {
	return &ifc.ExportOption{
		Schema:       c.Export.Schema,
		Author:       c.Export.Author,
		Organization: c.Export.Organization,
		SiteName:     c.Export.SiteName,
		BuildingName: c.Export.BuildingName,
		StoreyName:   c.Export.StoreyName,
	}
}

func (c *Config) SceneToGLTFOption() *converter.SceneToGLTFOption {
	return &converter.SceneToGLTFOption{
		Scale:       c.GLTF.Scale,
		YUp:         c.GLTF.YUp,
		DoubleSided: c.GLTF.DoubleSided,
	}
}

func (c *Config) GLTFToSceneOption() *converter.GLTFToSceneOption {
	return &converter.GLTFToSceneOption{ZUp: c.GLTF.YUp}
}
