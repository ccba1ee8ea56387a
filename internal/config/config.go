package config

import (
	"fmt"
	"strings"

	"img2csv/internal/types"
)

type AppConfig struct {
	Title       string
	Version     string
	BuildDate   string
	Layout      types.Layout
	LegacyIndex bool
	InputPath   string
	OutputPath  string
	Verbose     bool

	Debug        bool
	DebugWidth   int
	DebugHeight  int
	DebugPattern string
	DebugValue   int
}

func Default() AppConfig {
	return AppConfig{
		Title:        "Image normalization program",
		Version:      "dev",
		BuildDate:    "unknown",
		Layout:       types.LayoutLuma,
		DebugWidth:   52,
		DebugHeight:  52,
		DebugPattern: "spot",
		DebugValue:   128,
	}
}

func ParseLayout(value string) (types.Layout, error) {
	switch types.Layout(strings.ToLower(strings.TrimSpace(value))) {
	case "", types.LayoutLuma, "gray", "grey":
		return types.LayoutLuma, nil
	case types.LayoutRed, "color", "colour":
		return types.LayoutRed, nil
	case types.LayoutRGB:
		return types.LayoutRGB, nil
	default:
		return "", fmt.Errorf("unsupported layout %q", value)
	}
}

// Validate normalizes the config in place. The legacy index only exists for
// the color variant and always projects the red channel.
func (c *AppConfig) Validate() error {
	layout, err := ParseLayout(string(c.Layout))
	if err != nil {
		return err
	}
	c.Layout = layout
	if c.LegacyIndex {
		if !layout.Color() {
			return fmt.Errorf("legacy index requires a color layout, got %q", layout)
		}
		c.Layout = types.LayoutRed
	}
	if c.Debug {
		if c.DebugWidth < 1 || c.DebugHeight < 1 {
			return fmt.Errorf("invalid debug size %dx%d", c.DebugWidth, c.DebugHeight)
		}
		if c.DebugValue < 0 || c.DebugValue > 255 {
			return fmt.Errorf("debug value %d outside 0..255", c.DebugValue)
		}
	}
	return nil
}
