package halo

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Theme gathers every color, metric, and string the painters use. Metrics
// ending in Ratio are fractions of the logical surface size, so a theme
// scales with the diagram. The zero value is unusable; start from
// DefaultTheme.
type Theme struct {
	Background      Color
	RingProblem     Color // occupied outer-ring segments
	RingSolution    Color // occupied middle-ring segments
	RingGhost       Color // vacant segments in either ring
	HubFilled       Color // center circle with a non-zero offer count
	HubEmpty        Color // center circle in the zero/empty state
	Connection      Color
	ConnectionFaint Color // unmatched-problem lines
	NodeFill        Color
	NodeText        Color
	PrimaryRing     Color // offset indicator around the primary problem
	Label           Color
	Caption         Color

	OuterRadiusRatio  float64 // outer edge of the outer ring
	RingWidthRatio    float64 // band thickness, both rings
	MiddleRadiusRatio float64 // outer edge of the middle ring
	HubRadiusRatio    float64
	NodeRadiusRatio   float64
	PrimaryRingRatio  float64 // radius of the primary indicator circle

	SegmentGap       float64 // radians trimmed off each segment end, visual only
	ConnectionWidth  float64 // logical pixels
	PrimaryRingWidth float64 // stroke width of the primary indicator
	DashOn, DashOff  float64 // connection dash pattern, logical pixels

	LabelSize    float64 // logical pixels
	CaptionSize  float64
	NumeralSize  float64 // center offer count
	NodeTextSize float64

	HelperCaption string // shown under an empty wheel
}

// DefaultTheme returns the stock look: dark navy field, teal problems,
// amber solutions.
func DefaultTheme() *Theme {
	return &Theme{
		Background:      Color{0.055, 0.082, 0.157, 1},
		RingProblem:     Color{0.176, 0.831, 0.749, 1},
		RingSolution:    Color{0.961, 0.645, 0.141, 1},
		RingGhost:       Color{0.165, 0.2, 0.314, 1},
		HubFilled:       Color{0.31, 0.49, 0.976, 1},
		HubEmpty:        Color{0.102, 0.133, 0.251, 1},
		Connection:      Color{0.561, 0.639, 0.784, 0.9},
		ConnectionFaint: Color{0.561, 0.639, 0.784, 0.35},
		NodeFill:        Color{0.973, 0.98, 0.988, 1},
		NodeText:        Color{0.055, 0.082, 0.157, 1},
		PrimaryRing:     Color{0.961, 0.645, 0.141, 1},
		Label:           Color{0.78, 0.824, 0.91, 1},
		Caption:         Color{0.51, 0.569, 0.71, 1},

		OuterRadiusRatio:  0.44,
		RingWidthRatio:    0.09,
		MiddleRadiusRatio: 0.30,
		HubRadiusRatio:    0.13,
		NodeRadiusRatio:   0.032,
		PrimaryRingRatio:  0.046,

		SegmentGap:       0.035,
		ConnectionWidth:  2,
		PrimaryRingWidth: 2.5,
		DashOn:           6,
		DashOff:          5,

		LabelSize:    15,
		CaptionSize:  13,
		NumeralSize:  44,
		NodeTextSize: 14,

		HelperCaption: "Add problems to map this journey",
	}
}

// wheel derives the radial layout for a square surface of the given logical
// size.
func (t *Theme) wheel(size float64) Wheel {
	c := size / 2
	return Wheel{
		Center:       Point{X: c, Y: c},
		OuterRadius:  size * t.OuterRadiusRatio,
		OuterWidth:   size * t.RingWidthRatio,
		MiddleRadius: size * t.MiddleRadiusRatio,
		MiddleWidth:  size * t.RingWidthRatio,
		HubRadius:    size * t.HubRadiusRatio,
	}
}

// nodeRadius returns the node circle radius for a surface size.
func (t *Theme) nodeRadius(size float64) float64 {
	return size * t.NodeRadiusRatio
}

// primaryRingRadius returns the primary indicator radius for a surface size.
func (t *Theme) primaryRingRadius(size float64) float64 {
	return size * t.PrimaryRingRatio
}

// themeFile is the TOML shape of a theme overlay. Every field is optional;
// absent fields keep their DefaultTheme value.
type themeFile struct {
	Background      string `toml:"background"`
	RingProblem     string `toml:"ring_problem"`
	RingSolution    string `toml:"ring_solution"`
	RingGhost       string `toml:"ring_ghost"`
	HubFilled       string `toml:"hub_filled"`
	HubEmpty        string `toml:"hub_empty"`
	Connection      string `toml:"connection"`
	ConnectionFaint string `toml:"connection_faint"`
	NodeFill        string `toml:"node_fill"`
	NodeText        string `toml:"node_text"`
	PrimaryRing     string `toml:"primary_ring"`
	Label           string `toml:"label"`
	Caption         string `toml:"caption"`

	OuterRadius   float64 `toml:"outer_radius"`
	RingWidth     float64 `toml:"ring_width"`
	MiddleRadius  float64 `toml:"middle_radius"`
	HubRadius     float64 `toml:"hub_radius"`
	NodeRadius    float64 `toml:"node_radius"`
	PrimaryRadius float64 `toml:"primary_radius"`

	SegmentGap       float64 `toml:"segment_gap"`
	ConnectionWidth  float64 `toml:"connection_width"`
	PrimaryRingWidth float64 `toml:"primary_ring_width"`
	DashOn           float64 `toml:"dash_on"`
	DashOff          float64 `toml:"dash_off"`

	LabelSize    float64 `toml:"label_size"`
	CaptionSize  float64 `toml:"caption_size"`
	NumeralSize  float64 `toml:"numeral_size"`
	NodeTextSize float64 `toml:"node_text_size"`

	HelperCaption string `toml:"helper_caption"`
}

// LoadTheme reads a TOML theme overlay and merges it over DefaultTheme.
// Colors are hex strings ("#rrggbb" or "#rrggbbaa"); metrics are numbers.
// Unknown keys are an error, so typos do not silently style nothing.
func LoadTheme(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("halo: read theme %s: %w", path, err)
	}
	return ParseTheme(data)
}

// ParseTheme merges raw TOML theme data over DefaultTheme.
func ParseTheme(data []byte) (*Theme, error) {
	var f themeFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("halo: parse theme: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("halo: parse theme: unknown keys: %s", strings.Join(keys, ", "))
	}

	t := DefaultTheme()
	colors := []struct {
		hex string
		dst *Color
	}{
		{f.Background, &t.Background},
		{f.RingProblem, &t.RingProblem},
		{f.RingSolution, &t.RingSolution},
		{f.RingGhost, &t.RingGhost},
		{f.HubFilled, &t.HubFilled},
		{f.HubEmpty, &t.HubEmpty},
		{f.Connection, &t.Connection},
		{f.ConnectionFaint, &t.ConnectionFaint},
		{f.NodeFill, &t.NodeFill},
		{f.NodeText, &t.NodeText},
		{f.PrimaryRing, &t.PrimaryRing},
		{f.Label, &t.Label},
		{f.Caption, &t.Caption},
	}
	for _, c := range colors {
		if c.hex == "" {
			continue
		}
		parsed, err := ParseHexColor(c.hex)
		if err != nil {
			return nil, fmt.Errorf("halo: parse theme: %w", err)
		}
		*c.dst = parsed
	}

	metrics := []struct {
		val float64
		dst *float64
	}{
		{f.OuterRadius, &t.OuterRadiusRatio},
		{f.RingWidth, &t.RingWidthRatio},
		{f.MiddleRadius, &t.MiddleRadiusRatio},
		{f.HubRadius, &t.HubRadiusRatio},
		{f.NodeRadius, &t.NodeRadiusRatio},
		{f.PrimaryRadius, &t.PrimaryRingRatio},
		{f.SegmentGap, &t.SegmentGap},
		{f.ConnectionWidth, &t.ConnectionWidth},
		{f.PrimaryRingWidth, &t.PrimaryRingWidth},
		{f.DashOn, &t.DashOn},
		{f.DashOff, &t.DashOff},
		{f.LabelSize, &t.LabelSize},
		{f.CaptionSize, &t.CaptionSize},
		{f.NumeralSize, &t.NumeralSize},
		{f.NodeTextSize, &t.NodeTextSize},
	}
	for _, m := range metrics {
		if m.val > 0 {
			*m.dst = m.val
		}
	}
	if f.HelperCaption != "" {
		t.HelperCaption = f.HelperCaption
	}
	return t, nil
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" into a Color.
func ParseHexColor(s string) (Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return Color{}, fmt.Errorf("bad color %q, want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return Color{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	c := Color{A: 1}
	if len(hex) == 8 {
		c.A = float64(v&0xff) / 255
		v >>= 8
	}
	c.B = float64(v&0xff) / 255
	v >>= 8
	c.G = float64(v&0xff) / 255
	v >>= 8
	c.R = float64(v&0xff) / 255
	return c, nil
}
