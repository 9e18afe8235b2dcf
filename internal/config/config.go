// Package config holds the user-facing formatting settings and loads them
// from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"routemap/internal/dataset"
	"routemap/internal/legend"
	"routemap/internal/palette"
)

// ErrUnknownFormat is returned by Load for files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("config: unknown file format")

// Settings is the whole configuration surface.
type Settings struct {
	Route     Route     `yaml:"route" toml:"route"`
	Legend    Legend    `yaml:"legend" toml:"legend"`
	DataPoint DataPoint `yaml:"dataPoint" toml:"dataPoint"`
	Roles     Roles     `yaml:"roles" toml:"roles"`
	Palette   Palette   `yaml:"palette" toml:"palette"`
}

type Route struct {
	LineWidth        float64 `yaml:"lineWidth" toml:"lineWidth"`
	LineColor        string  `yaml:"lineColor" toml:"lineColor"`
	BubbleSize       float64 `yaml:"bubbleSize" toml:"bubbleSize"`
	UseStraightLines bool    `yaml:"useStraightLines" toml:"useStraightLines"`
}

type Legend struct {
	Show      bool    `yaml:"show" toml:"show"`
	Position  string  `yaml:"position" toml:"position"`
	ShowTitle bool    `yaml:"showTitle" toml:"showTitle"`
	TitleText string  `yaml:"titleText" toml:"titleText"`
	FontSize  float64 `yaml:"fontSize" toml:"fontSize"`
}

type DataPoint struct {
	DefaultColor string `yaml:"defaultColor" toml:"defaultColor"`
	ShowAll      bool   `yaml:"showAll" toml:"showAll"`
}

// Roles names the CSV header bound to each role.
type Roles struct {
	Origin      string   `yaml:"origin" toml:"origin"`
	OriginLat   string   `yaml:"originLat" toml:"originLat"`
	OriginLng   string   `yaml:"originLng" toml:"originLng"`
	Destination string   `yaml:"destination" toml:"destination"`
	DestLat     string   `yaml:"destLat" toml:"destLat"`
	DestLng     string   `yaml:"destLng" toml:"destLng"`
	Legend      string   `yaml:"legend" toml:"legend"`
	Magnitude   string   `yaml:"magnitude" toml:"magnitude"`
	Highlight   string   `yaml:"highlight" toml:"highlight"`
	Color       string   `yaml:"color" toml:"color"`
	Tooltips    []string `yaml:"tooltips" toml:"tooltips"`
}

type Palette struct {
	Colors       []string     `yaml:"colors" toml:"colors"`
	HighContrast HighContrast `yaml:"highContrast" toml:"highContrast"`
}

type HighContrast struct {
	Enabled            bool   `yaml:"enabled" toml:"enabled"`
	Foreground         string `yaml:"foreground" toml:"foreground"`
	Background         string `yaml:"background" toml:"background"`
	ForegroundSelected string `yaml:"foregroundSelected" toml:"foregroundSelected"`
}

// Default returns the settings used when no file is given.
func Default() Settings {
	return Settings{
		Route: Route{LineWidth: 3, LineColor: "#007ACC", BubbleSize: 3},
		Legend: Legend{
			Show:      true,
			Position:  legend.Top.String(),
			ShowTitle: true,
			FontSize:  8,
		},
		DataPoint: DataPoint{DefaultColor: "#007ACC", ShowAll: true},
		Roles: Roles{
			Origin:      "origin",
			OriginLat:   "origin_lat",
			OriginLng:   "origin_lng",
			Destination: "destination",
			DestLat:     "dest_lat",
			DestLng:     "dest_lng",
			Legend:      "category",
			Magnitude:   "magnitude",
			Highlight:   "highlight",
			Color:       "color",
		},
		Palette: Palette{
			HighContrast: HighContrast{
				Foreground:         "#FFFFFF",
				Background:         "#000000",
				ForegroundSelected: "#FFFF00",
			},
		},
	}
}

// Load reads path over Default. The decoder is chosen by extension.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	case ".toml":
		err = toml.Unmarshal(data, &s)
	default:
		return s, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return s, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, s.Validate()
}

// Validate reports the first invalid setting.
func (s Settings) Validate() error {
	if s.Route.LineWidth <= 0 {
		return fmt.Errorf("route.lineWidth must be positive, got %v", s.Route.LineWidth)
	}
	if s.Route.BubbleSize <= 0 {
		return fmt.Errorf("route.bubbleSize must be positive, got %v", s.Route.BubbleSize)
	}
	if s.Legend.FontSize <= 0 {
		return fmt.Errorf("legend.fontSize must be positive, got %v", s.Legend.FontSize)
	}
	if _, err := legend.ParsePosition(s.Legend.Position); err != nil {
		return err
	}
	hexes := [][2]string{
		{"route.lineColor", s.Route.LineColor},
		{"dataPoint.defaultColor", s.DataPoint.DefaultColor},
		{"palette.highContrast.foreground", s.Palette.HighContrast.Foreground},
		{"palette.highContrast.background", s.Palette.HighContrast.Background},
		{"palette.highContrast.foregroundSelected", s.Palette.HighContrast.ForegroundSelected},
	}
	for _, h := range hexes {
		if _, err := colorful.Hex(h[1]); err != nil {
			return fmt.Errorf("%s: %q is not a #rrggbb color", h[0], h[1])
		}
	}
	for _, h := range s.Palette.Colors {
		if _, err := colorful.Hex(h); err != nil {
			return fmt.Errorf("palette.colors: %q is not a #rrggbb color", h)
		}
	}
	return nil
}

// Binding converts the role names to a CSV binding.
func (s Settings) Binding() dataset.Binding {
	r := s.Roles
	return dataset.Binding{
		Origin:      r.Origin,
		OriginLat:   r.OriginLat,
		OriginLng:   r.OriginLng,
		Destination: r.Destination,
		DestLat:     r.DestLat,
		DestLng:     r.DestLng,
		Legend:      r.Legend,
		Magnitude:   r.Magnitude,
		Tooltips:    r.Tooltips,
		Highlight:   r.Highlight,
		Color:       r.Color,
	}
}

// LegendOptions converts the legend card. An invalid position falls back to Top.
func (s Settings) LegendOptions() legend.Options {
	pos, _ := legend.ParsePosition(s.Legend.Position)
	return legend.Options{
		Show:      s.Legend.Show,
		ShowTitle: s.Legend.ShowTitle,
		TitleText: s.Legend.TitleText,
		Position:  pos,
		FontSize:  s.Legend.FontSize,
	}
}

// HighContrast converts the high contrast section.
func (s Settings) HighContrast() (palette.HighContrast, error) {
	hc := s.Palette.HighContrast
	return palette.ParseHighContrast(hc.Enabled, hc.Foreground, hc.Background, hc.ForegroundSelected)
}

// LineColor returns the default route color, falling back to the data point
// default when the route color does not parse.
func (s Settings) LineColor() colorful.Color {
	if c, err := colorful.Hex(s.Route.LineColor); err == nil {
		return c
	}
	c, _ := colorful.Hex(s.DataPoint.DefaultColor)
	return c
}
