package mesh

import gomath "math"

// Color is a linear RGB vertex colour.
type Color struct {
	R, G, B float64
}

// White is the colour freshly built wall geometry starts with.
var White = Color{1, 1, 1}

// ApproxEqual reports whether every channel differs by less than eps.
func (c Color) ApproxEqual(other Color, eps float64) bool {
	return gomath.Abs(c.R-other.R) < eps &&
		gomath.Abs(c.G-other.G) < eps &&
		gomath.Abs(c.B-other.B) < eps
}

// ColorFromHex converts 0xRRGGBB to a Color.
func ColorFromHex(hex uint32) Color {
	return Color{
		R: float64((hex>>16)&0xFF) / 255,
		G: float64((hex>>8)&0xFF) / 255,
		B: float64(hex&0xFF) / 255,
	}
}

// Hex converts the colour back to 0xRRGGBB, clamping each channel.
func (c Color) Hex() uint32 {
	ch := func(v float64) uint32 {
		v = gomath.Max(0, gomath.Min(1, v))
		return uint32(gomath.Round(v * 255))
	}
	return ch(c.R)<<16 | ch(c.G)<<8 | ch(c.B)
}

// FillColor sets every vertex colour to c.
func (m *Mesh) FillColor(c Color) {
	m.Colors = make([]Color, len(m.Positions))
	for i := range m.Colors {
		m.Colors[i] = c
	}
	m.ColorRevision++
}

// ColorAt returns the colour of vertex i, or White when the mesh has no colours.
func (m *Mesh) ColorAt(i int) Color {
	if i < 0 || i >= len(m.Colors) {
		return White
	}
	return m.Colors[i]
}

// SetColors writes c to every listed vertex and bumps ColorRevision once.
// Out-of-range indices are ignored.
func (m *Mesh) SetColors(indices []int, c Color) {
	if len(m.Colors) != len(m.Positions) {
		m.FillColor(White)
	}
	for _, i := range indices {
		if i >= 0 && i < len(m.Colors) {
			m.Colors[i] = c
		}
	}
	m.ColorRevision++
}
