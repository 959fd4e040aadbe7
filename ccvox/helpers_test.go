package ccvox_test

import (
	"math/rand"
	"testing"

	"github.com/JadonBelair/vox-to-gmod/ccvox"
	"github.com/JadonBelair/vox-to-gmod/vox"
)

// distinctPalette returns a source palette whose 256 entries all differ.
func distinctPalette() *vox.Palette {
	var p vox.Palette
	for i := range p {
		p[i] = vox.Color{R: uint8(i), G: uint8(255 - i), B: uint8(i) ^ 0x5a, A: 255}
	}
	return &p
}

// lineModel places one voxel per raw index 0..n-1 so that traversal order
// matches raw index order: a single Z row up to 255 voxels, 16-wide Y/Z rows
// beyond.
func lineModel(n int) *vox.Model {
	m := &vox.Model{SizeX: 1, SizeY: 1, SizeZ: n}
	if n > 255 {
		m.SizeY, m.SizeZ = (n+15)/16, 16
	}
	for i := 0; i < n; i++ {
		m.Voxels = append(m.Voxels, vox.Voxel{Y: uint8(i / m.SizeZ), Z: uint8(i % m.SizeZ), I: uint8(i)})
	}
	return m
}

// randomModel fills roughly half of an sx*sy*sz box with raw indices drawn
// from [0,colors).
func randomModel(r *rand.Rand, sx, sy, sz, colors int) *vox.Model {
	m := &vox.Model{SizeX: sx, SizeY: sy, SizeZ: sz}
	for x := 0; x < sx; x++ {
		for y := 0; y < sy; y++ {
			for z := 0; z < sz; z++ {
				if r.Intn(2) == 0 {
					continue
				}
				m.Voxels = append(m.Voxels, vox.Voxel{X: uint8(x), Y: uint8(y), Z: uint8(z), I: uint8(r.Intn(colors))})
			}
		}
	}
	return m
}

// expected maps every voxel of m to its resolved color.
func expected(m *vox.Model, src *vox.Palette) map[[3]int]ccvox.Color {
	want := make(map[[3]int]ccvox.Color, len(m.Voxels))
	for _, v := range m.Voxels {
		want[[3]int{int(v.X), int(v.Y), int(v.Z)}] = ccvox.ColorFromVox(src[v.I])
	}
	return want
}

// decoded is a frame read back by decodeFrame.
type decoded struct {
	dims    [3]int
	palette []ccvox.Color
	mode    ccvox.Mode
	voxels  map[[3]int]ccvox.Color
}

// decodeFrame reads a frame back, checking run budgets on the way. Raw-color
// frames carry no palette block, so the caller says which kind it expects.
func decodeFrame(t *testing.T, data []byte, codec ccvox.Codec, rawColor bool) decoded {
	t.Helper()
	if len(data) >= 2 && data[0] == 0 && data[1] == 254 {
		var err error
		if data, err = codec.Decompress(data[2:]); err != nil {
			t.Fatalf("decompress: %v", err)
		}
	}
	if len(data) < 5 || data[0] != 0 || data[1] != 0 {
		t.Fatalf("bad header % x", data[:min(len(data), 5)])
	}
	d := decoded{
		dims:   [3]int{int(data[2]) + 1, int(data[3]) + 1, int(data[4]) + 1},
		voxels: map[[3]int]ccvox.Color{},
	}
	p := 5
	if rawColor {
		d.mode = ccvox.ModeRawColor
	} else {
		n := int(data[p])
		p++
		for i := 0; i < n; i++ {
			d.palette = append(d.palette, ccvox.Color{R: data[p], G: data[p+1], B: data[p+2]})
			p += 3
		}
		d.mode = ccvox.ModeFor(n)
	}

	total := d.dims[0] * d.dims[1] * d.dims[2]
	i := 0
	set := func(c ccvox.Color) {
		x := i / (d.dims[1] * d.dims[2])
		y := (i / d.dims[2]) % d.dims[1]
		z := i % d.dims[2]
		d.voxels[[3]int{x, y, z}] = c
		i++
	}
	lastEmpty := -1
	for p < len(data) {
		b := data[p]
		if b == 0 {
			n := int(data[p+1])
			if n == 0 {
				t.Fatalf("zero-length empty run at %d", p)
			}
			if lastEmpty >= 0 && lastEmpty != 255 {
				t.Fatalf("empty run of %d followed by another empty run", lastEmpty)
			}
			lastEmpty = n
			i += n
			p += 2
			continue
		}
		lastEmpty = -1
		switch d.mode {
		case ccvox.ModeMulti:
			if b < 128 {
				t.Fatalf("multi run byte %d below 128 at %d", b, p)
			}
			n := int(b) - 127
			c := d.palette[int(data[p+1])-1]
			for k := 0; k < n; k++ {
				set(c)
			}
			p += 2
		case ccvox.ModeIndexed:
			set(d.palette[int(b)-1])
			p++
		case ccvox.ModeRawColor:
			if b != 1 {
				t.Fatalf("raw color marker = %d at %d", b, p)
			}
			set(ccvox.Color{R: data[p+1], G: data[p+2], B: data[p+3]})
			p += 4
		}
	}
	if i != total {
		t.Fatalf("body covers %d cells, grid has %d", i, total)
	}
	return d
}

func sameVoxels(t *testing.T, got, want map[[3]int]ccvox.Color) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("decoded %d voxels, want %d", len(got), len(want))
	}
	for pos, c := range want {
		if got[pos] != c {
			t.Fatalf("voxel %v = %v, want %v", pos, got[pos], c)
		}
	}
}

func mustCodec(t *testing.T, name string) ccvox.Codec {
	t.Helper()
	c, err := ccvox.NewCodec(name)
	if err != nil {
		t.Fatalf("codec %s: %v", name, err)
	}
	return c
}
