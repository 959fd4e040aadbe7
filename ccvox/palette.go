// Package ccvox encodes voxel models into the ccvox frame format and packs
// frames into animations.
package ccvox

import (
	"fmt"

	"github.com/JadonBelair/vox-to-gmod/vox"
)

// Color is an RGB triple. Alpha from the source palette is dropped.
type Color struct {
	R, G, B uint8
}

// ColorFromVox drops the alpha channel of a source palette entry.
func ColorFromVox(c vox.Color) Color { return Color{R: c.R, G: c.G, B: c.B} }

func (c Color) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Float4 returns the color as opaque linear RGBA in [0,1].
func (c Color) Float4() [4]float32 {
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, 1}
}

// Palette is the per-frame color table. Colors keep first-occurrence order and
// never repeat. A voxel stores its color as position+1 so that 0 means empty.
type Palette struct {
	colors []Color
}

// BuildPalette collects the colors used by m, resolved through src, in the
// order voxels first reference them. Two raw indices naming the same RGB
// value share one entry.
func BuildPalette(m *vox.Model, src *vox.Palette) *Palette {
	p := &Palette{}
	var seen [256]bool
	for _, v := range m.Voxels {
		if seen[v.I] {
			continue
		}
		seen[v.I] = true
		p.Add(ColorFromVox(src[v.I]))
	}
	return p
}

// Add appends c unless it is already present and returns its position.
func (p *Palette) Add(c Color) int {
	if i := p.Index(c); i >= 0 {
		return i
	}
	p.colors = append(p.colors, c)
	return len(p.colors) - 1
}

// Index returns the position of the first entry equal to c, or -1.
func (p *Palette) Index(c Color) int {
	for i, pc := range p.colors {
		if pc == c {
			return i
		}
	}
	return -1
}

func (p *Palette) Len() int { return len(p.colors) }

// At returns the color at position i.
func (p *Palette) At(i int) Color { return p.colors[i] }

// Colors returns the table in order. The slice must not be modified.
func (p *Palette) Colors() []Color { return p.colors }
