package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	MarginsConfig struct {
		Left   float64 `yaml:"left" validate:"gte=0"`
		Right  float64 `yaml:"right" validate:"gte=0"`
		Top    float64 `yaml:"top" validate:"gte=0"`
		Bottom float64 `yaml:"bottom" validate:"gte=0"`
	}

	FontConfig struct {
		Family string  `yaml:"family" validate:"required"`
		Size   float64 `yaml:"size" validate:"gt=0,lte=1638"`
	}

	ImagesConfig struct {
		ScaleFactor float64 `yaml:"scale_factor" validate:"gte=0.0"`
		JPEGQuality int     `yaml:"jpeg_quality_level" validate:"min=40,max=100"`
		Grayscale   bool    `yaml:"grayscale"`
		WrapBMP     bool    `yaml:"wrap_bmp"`
		SVGWidth    int     `yaml:"svg_width" validate:"gte=0,lte=8192"`
	}

	TableConfig struct {
		WidthPercent float64 `yaml:"width_percent" validate:"gt=0,lte=100"`
		Padding      float64 `yaml:"padding" validate:"gte=0"`
	}

	DocumentConfig struct {
		PageSize              PageSize      `yaml:"page_size"`
		Landscape             bool          `yaml:"landscape"`
		Margins               MarginsConfig `yaml:"margins"`
		DefaultFont           FontConfig    `yaml:"default_font"`
		Language              string        `yaml:"language" validate:"omitempty,bcp47_language_tag"`
		AutoTOC               bool          `yaml:"auto_toc"`
		PageNumbers           bool          `yaml:"page_numbers"`
		OutputNameTemplate    string        `yaml:"output_name_template"`
		FileNameTransliterate bool          `yaml:"file_name_transliterate"`
		Images                ImagesConfig  `yaml:"images"`
		Tables                TableConfig   `yaml:"tables"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

// PageDimensions returns page width and height in points with orientation
// applied.
func (conf *DocumentConfig) PageDimensions() (float64, float64) {
	w, h := conf.PageSize.Dimensions()
	if conf.Landscape {
		w, h = h, w
	}
	return w, h
}

// checkPageGeometry makes sure margins leave some room on the page.
func (conf *DocumentConfig) checkPageGeometry() error {
	w, h := conf.PageDimensions()
	m := conf.Margins
	if m.Left+m.Right >= w {
		return fmt.Errorf("horizontal margins (%g+%g) do not fit page width %g", m.Left, m.Right, w)
	}
	if m.Top+m.Bottom >= h {
		return fmt.Errorf("vertical margins (%g+%g) do not fit page height %g", m.Top, m.Bottom, h)
	}
	return nil
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("configuration sanitization failed: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
		if err := cfg.Document.checkPageGeometry(); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
