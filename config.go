package heightmap

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// A Config is a render configuration, typically loaded from a YAML file. Zero
// fields keep the Renderer's defaults.
type Config struct {
	Title         *string     `yaml:"title"`
	ColorbarLabel *string     `yaml:"colorbarLabel"`
	Palette       string      `yaml:"palette"`
	DPI           float64     `yaml:"dpi"`
	FigureSize    *[2]float64 `yaml:"figureSize"`
	PadInches     *float64    `yaml:"padInches"`
}

// LoadConfig loads a Config from the YAML file filename. Unknown fields are
// an error.
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	defer file.Close()

	config := &Config{}
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}
	return config, nil
}

// RendererOptions returns the RendererOptions that apply c.
func (c *Config) RendererOptions() ([]RendererOption, error) {
	var options []RendererOption
	if c.Title != nil {
		options = append(options, WithTitle(*c.Title))
	}
	if c.ColorbarLabel != nil {
		options = append(options, WithColorbarLabel(*c.ColorbarLabel))
	}
	if c.Palette != "" {
		palette, err := NewPalette(c.Palette)
		if err != nil {
			return nil, err
		}
		options = append(options, WithPalette(palette))
	}
	if c.DPI != 0 {
		options = append(options, WithDPI(c.DPI))
	}
	if c.FigureSize != nil {
		options = append(options, WithFigureSize(c.FigureSize[0], c.FigureSize[1]))
	}
	if c.PadInches != nil {
		options = append(options, WithPadInches(*c.PadInches))
	}
	return options, nil
}
