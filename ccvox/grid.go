package ccvox

import (
	"fmt"

	"github.com/JadonBelair/vox-to-gmod/vox"
)

// MaxDimension is the largest model extent per axis; the header stores
// extent-1 in one byte.
const MaxDimension = 255

// Grid is a dense occupancy grid. Cells are laid out X outer, Y middle,
// Z inner, which is also the order the decoder replays, so Cells is the
// flattened voxel sequence.
type Grid struct {
	SizeX, SizeY, SizeZ int
	Cells               []uint16
}

// CheckDimensions fails with ErrDimensionOverflow unless every extent is in
// [1,MaxDimension].
func CheckDimensions(sx, sy, sz int) error {
	for _, d := range [3]int{sx, sy, sz} {
		if d < 1 || d > MaxDimension {
			return fmt.Errorf("%w: %dx%dx%d", ErrDimensionOverflow, sx, sy, sz)
		}
	}
	return nil
}

// NewGrid allocates an empty grid after checking the dimensions.
func NewGrid(sx, sy, sz int) (*Grid, error) {
	if err := CheckDimensions(sx, sy, sz); err != nil {
		return nil, err
	}
	return &Grid{SizeX: sx, SizeY: sy, SizeZ: sz, Cells: make([]uint16, sx*sy*sz)}, nil
}

// BuildGrid places every voxel of m into a new grid as its palette position
// plus one. pal must already contain every color m uses.
func BuildGrid(m *vox.Model, src *vox.Palette, pal *Palette) (*Grid, error) {
	g, err := NewGrid(m.SizeX, m.SizeY, m.SizeZ)
	if err != nil {
		return nil, err
	}
	// raw index -> cell value, resolved once per raw index
	var lut [256]uint16
	var resolved [256]bool
	for _, v := range m.Voxels {
		x, y, z := int(v.X), int(v.Y), int(v.Z)
		if x >= g.SizeX || y >= g.SizeY || z >= g.SizeZ {
			return nil, fmt.Errorf("%w: (%d,%d,%d) in %dx%dx%d", ErrVoxelOutOfBounds, x, y, z, g.SizeX, g.SizeY, g.SizeZ)
		}
		if !resolved[v.I] {
			pos := pal.Index(ColorFromVox(src[v.I]))
			if pos < 0 {
				pos = pal.Add(ColorFromVox(src[v.I]))
			}
			lut[v.I] = uint16(pos + 1)
			resolved[v.I] = true
		}
		g.Cells[g.offset(x, y, z)] = lut[v.I]
	}
	return g, nil
}

func (g *Grid) offset(x, y, z int) int { return (x*g.SizeY+y)*g.SizeZ + z }

// At returns the cell at (x,y,z), or 0 outside the grid.
func (g *Grid) At(x, y, z int) uint16 {
	if x < 0 || x >= g.SizeX || y < 0 || y >= g.SizeY || z < 0 || z >= g.SizeZ {
		return 0
	}
	return g.Cells[g.offset(x, y, z)]
}

// Set writes a cell. Coordinates must be inside the grid.
func (g *Grid) Set(x, y, z int, v uint16) { g.Cells[g.offset(x, y, z)] = v }

// Count returns the number of filled cells.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.Cells {
		if c != 0 {
			n++
		}
	}
	return n
}
