package nodewire

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mkordik/nodewire/pkg/geom"
	"github.com/mkordik/nodewire/pkg/imm"
)

// ColorIndex names an entry in [Style.Colors].
type ColorIndex int

// Style color slots.
const (
	ColorGridBackground ColorIndex = iota
	ColorGridPrimaryLines
	ColorGridSecondaryLines

	ColorNodeBackground
	ColorNodeHoveredBackground
	ColorNodeActiveBackground
	ColorNodeHeader
	ColorNodeHeaderHovered
	ColorNodeHeaderActive
	ColorNodeOutline
	ColorNodeOutlineSelected

	ColorPinBackground

	ColorSelectRegionBackground
	ColorSelectRegionOutline

	colorCount
)

// Style holds the visual parameters of a graph. Every graph owns a
// mutable copy, so two graphs in one context can look different.
// Lengths are in grid units; they are scaled by the camera when drawn.
type Style struct {
	GridPrimaryStep        float32
	GridPrimaryThickness   float32
	GridSecondaryThickness float32

	NodePadding                  float32
	NodeRounding                 float32
	NodeOutlineThickness         float32
	NodeOutlineSelectedThickness float32

	SelectRegionRounding         float32
	SelectRegionOutlineThickness float32

	ItemSpacing         float32
	PinRadius           float32
	PinOutlineThickness float32

	ConnectionThickness float32

	Colors [colorCount]imm.Color

	// PinColors maps PinType to a color; also the endpoint colors of
	// connections. Indexing past the end is a caller bug.
	PinColors []imm.Color
}

// Settings holds the camera tuning of a graph.
type Settings struct {
	ZoomRate      float32
	ZoomSmoothing float32
	ZoomBounds    geom.Vec2
}

// DefaultStyle returns the built-in dark style.
func DefaultStyle() Style {
	s := Style{
		GridPrimaryStep:        5,
		GridPrimaryThickness:   2,
		GridSecondaryThickness: 1,

		NodePadding:                  8,
		NodeRounding:                 8,
		NodeOutlineThickness:         2,
		NodeOutlineSelectedThickness: 4,

		SelectRegionRounding:         2,
		SelectRegionOutlineThickness: 2,

		ItemSpacing:         4,
		PinRadius:           8,
		PinOutlineThickness: 3,

		ConnectionThickness: 2,
	}

	s.Colors[ColorGridBackground] = imm.RGB(0x11, 0x11, 0x11)
	s.Colors[ColorGridPrimaryLines] = imm.RGB(0x88, 0x88, 0x88)
	s.Colors[ColorGridSecondaryLines] = imm.RGB(0x44, 0x44, 0x44)

	s.Colors[ColorNodeBackground] = imm.RGB(0x88, 0x88, 0x88)
	s.Colors[ColorNodeHoveredBackground] = imm.RGB(0x9C, 0x9C, 0x9C)
	s.Colors[ColorNodeActiveBackground] = imm.RGB(0x7A, 0x7A, 0x7A)
	s.Colors[ColorNodeHeader] = imm.RGB(0x55, 0x55, 0x55)
	s.Colors[ColorNodeHeaderHovered] = imm.RGB(0x66, 0x66, 0x66)
	s.Colors[ColorNodeHeaderActive] = imm.RGB(0x4A, 0x4A, 0x4A)
	s.Colors[ColorNodeOutline] = imm.RGB(0x33, 0x33, 0x33)
	s.Colors[ColorNodeOutlineSelected] = imm.RGB(0xEF, 0xAE, 0x4B)

	s.Colors[ColorPinBackground] = imm.RGB(0x22, 0x22, 0x22)

	s.Colors[ColorSelectRegionBackground] = imm.RGBA(0xC9, 0x8E, 0x36, 0x44)
	s.Colors[ColorSelectRegionOutline] = imm.RGBA(0xEF, 0xAE, 0x4B, 0xBB)

	return s
}

// DefaultSettings returns the default camera tuning.
func DefaultSettings() Settings {
	return Settings{
		ZoomRate:      0.1,
		ZoomSmoothing: 8,
		ZoomBounds:    geom.V(0.6, 2.5),
	}
}

// Color returns the color registered for idx.
func (s *Style) Color(idx ColorIndex) imm.Color { return s.Colors[idx] }

// PinColor returns the color for a pin type. It panics if t is outside
// the registered table; register enough entries with
// [Context.SetPinColors] before declaring pins of type t.
func (s *Style) PinColor(t PinType) imm.Color {
	if int(t) < 0 || int(t) >= len(s.PinColors) {
		panic(fmt.Sprintf("nodewire: pin type %d outside registered color table (len %d)", t, len(s.PinColors)))
	}
	return s.PinColors[t]
}

// ====================================================================================================================
// File format
// ====================================================================================================================

// colorNames maps the TOML [colors] keys to color slots.
var colorNames = map[string]ColorIndex{
	"grid_background":          ColorGridBackground,
	"grid_primary_lines":       ColorGridPrimaryLines,
	"grid_secondary_lines":     ColorGridSecondaryLines,
	"node_background":          ColorNodeBackground,
	"node_hovered_background":  ColorNodeHoveredBackground,
	"node_active_background":   ColorNodeActiveBackground,
	"node_header":              ColorNodeHeader,
	"node_header_hovered":      ColorNodeHeaderHovered,
	"node_header_active":       ColorNodeHeaderActive,
	"node_outline":             ColorNodeOutline,
	"node_outline_selected":    ColorNodeOutlineSelected,
	"pin_background":           ColorPinBackground,
	"select_region_background": ColorSelectRegionBackground,
	"select_region_outline":    ColorSelectRegionOutline,
}

type styleFile struct {
	Grid struct {
		PrimaryStep        *float32 `toml:"primary_step"`
		PrimaryThickness   *float32 `toml:"primary_thickness"`
		SecondaryThickness *float32 `toml:"secondary_thickness"`
	} `toml:"grid"`
	Node struct {
		Padding                  *float32 `toml:"padding"`
		Rounding                 *float32 `toml:"rounding"`
		OutlineThickness         *float32 `toml:"outline_thickness"`
		OutlineSelectedThickness *float32 `toml:"outline_selected_thickness"`
		ItemSpacing              *float32 `toml:"item_spacing"`
	} `toml:"node"`
	Pin struct {
		Radius           *float32 `toml:"radius"`
		OutlineThickness *float32 `toml:"outline_thickness"`
		Colors           []string `toml:"colors"`
	} `toml:"pin"`
	Connection struct {
		Thickness *float32 `toml:"thickness"`
	} `toml:"connection"`
	SelectRegion struct {
		Rounding         *float32 `toml:"rounding"`
		OutlineThickness *float32 `toml:"outline_thickness"`
	} `toml:"select_region"`
	Colors map[string]string `toml:"colors"`
	Camera struct {
		ZoomRate      *float32  `toml:"zoom_rate"`
		ZoomSmoothing *float32  `toml:"zoom_smoothing"`
		ZoomBounds    []float32 `toml:"zoom_bounds"`
	} `toml:"camera"`
}

// ParseColor parses "#RGB", "#RRGGBB", or "#RRGGBBAA" hex notation.
func ParseColor(s string) (imm.Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return imm.Color{}, fmt.Errorf("color %q: missing leading '#'", s)
	}
	if len(hex) == 3 {
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	}
	if len(hex) != 6 && len(hex) != 8 {
		return imm.Color{}, fmt.Errorf("color %q: want 3, 6, or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return imm.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xFF
	}
	return imm.RGBA(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

func setf(dst *float32, src *float32) {
	if src != nil {
		*dst = *src
	}
}

// LoadStyle reads a TOML style sheet and applies it over the defaults.
// Keys absent from the file keep their default values, so a sheet only
// needs to name what it changes.
func LoadStyle(path string) (Style, Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, Settings{}, fmt.Errorf("reading style sheet: %w", err)
	}
	return parseStyle(data)
}

func parseStyle(data []byte) (Style, Settings, error) {
	style := DefaultStyle()
	settings := DefaultSettings()

	var f styleFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return style, settings, fmt.Errorf("decoding style sheet: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return style, settings, fmt.Errorf("style sheet: unknown key %q", undec[0].String())
	}

	setf(&style.GridPrimaryStep, f.Grid.PrimaryStep)
	setf(&style.GridPrimaryThickness, f.Grid.PrimaryThickness)
	setf(&style.GridSecondaryThickness, f.Grid.SecondaryThickness)
	setf(&style.NodePadding, f.Node.Padding)
	setf(&style.NodeRounding, f.Node.Rounding)
	setf(&style.NodeOutlineThickness, f.Node.OutlineThickness)
	setf(&style.NodeOutlineSelectedThickness, f.Node.OutlineSelectedThickness)
	setf(&style.ItemSpacing, f.Node.ItemSpacing)
	setf(&style.PinRadius, f.Pin.Radius)
	setf(&style.PinOutlineThickness, f.Pin.OutlineThickness)
	setf(&style.ConnectionThickness, f.Connection.Thickness)
	setf(&style.SelectRegionRounding, f.SelectRegion.Rounding)
	setf(&style.SelectRegionOutlineThickness, f.SelectRegion.OutlineThickness)

	for name, val := range f.Colors {
		idx, ok := colorNames[name]
		if !ok {
			return style, settings, fmt.Errorf("style sheet: unknown color %q", name)
		}
		c, err := ParseColor(val)
		if err != nil {
			return style, settings, fmt.Errorf("style sheet: %w", err)
		}
		style.Colors[idx] = c
	}
	for i, val := range f.Pin.Colors {
		c, err := ParseColor(val)
		if err != nil {
			return style, settings, fmt.Errorf("style sheet: pin color %d: %w", i, err)
		}
		style.PinColors = append(style.PinColors, c)
	}

	setf(&settings.ZoomRate, f.Camera.ZoomRate)
	setf(&settings.ZoomSmoothing, f.Camera.ZoomSmoothing)
	if b := f.Camera.ZoomBounds; b != nil {
		if len(b) != 2 || b[0] <= 0 || b[0] > b[1] {
			return style, settings, fmt.Errorf("style sheet: zoom_bounds wants two ascending positive values, got %v", b)
		}
		settings.ZoomBounds = geom.V(b[0], b[1])
	}

	return style, settings, nil
}
