package launchpad

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lumipad/lumipad/internal/pkg/pad"
)

// paletteEntry approximates one velocity of the device's fixed color palette.
type paletteEntry struct {
	velocity pad.Color
	color    colorful.Color
}

var palette = []paletteEntry{
	{0, rgb(0, 0, 0)},        // off
	{5, rgb(255, 0, 0)},      // red
	{6, rgb(255, 80, 80)},    // bright red
	{7, rgb(180, 60, 60)},    // dim red
	{9, rgb(255, 100, 0)},    // orange
	{11, rgb(180, 80, 40)},   // dim orange
	{13, rgb(255, 200, 0)},   // yellow
	{17, rgb(0, 180, 0)},     // green
	{19, rgb(0, 100, 0)},     // dim green
	{21, rgb(0, 255, 0)},     // bright green
	{37, rgb(0, 200, 200)},   // cyan
	{43, rgb(40, 60, 120)},   // dim blue
	{45, rgb(0, 100, 255)},   // blue
	{47, rgb(80, 150, 255)},  // bright blue
	{49, rgb(150, 0, 200)},   // purple
	{53, rgb(255, 80, 180)},  // pink
	{78, rgb(100, 100, 255)}, // light blue
	{84, rgb(255, 150, 50)},  // bright orange
	{87, rgb(150, 255, 100)}, // lime
	{97, rgb(180, 180, 60)},  // dim yellow
	{119, rgb(255, 255, 255)}, // white
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
}

// NearestColor maps an arbitrary RGB color to the closest palette velocity.
func NearestColor(c colorful.Color) pad.Color {
	best := palette[0].velocity
	bestDist := -1.0

	for _, p := range palette {
		dist := c.DistanceLab(p.color)
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = p.velocity
		}
	}
	return best
}
