// Package voxtest builds small .vox files in memory for tests.
package voxtest

import (
	"bytes"
	"encoding/binary"
	"sort"
	"strconv"

	"github.com/JadonBelair/vox-to-gmod/vox"
)

// Builder accumulates models, an optional palette and layer placements.
type Builder struct {
	models  []vox.Model
	palette *vox.Palette
	// placements[i] lists model ids of one shape and the layer it sits on
	placements []placement
	noScene    bool
}

type placement struct {
	layer  int
	models []int
}

// New returns an empty builder.
func New() *Builder { return &Builder{} }

// AddModel appends a model and returns its id.
func (b *Builder) AddModel(m vox.Model) int {
	b.models = append(b.models, m)
	return len(b.models) - 1
}

// SetPalette writes an RGBA chunk with p.
func (b *Builder) SetPalette(p vox.Palette) *Builder {
	b.palette = &p
	return b
}

// Place puts a shape holding models on layer.
func (b *Builder) Place(layer int, models ...int) *Builder {
	b.placements = append(b.placements, placement{layer: layer, models: models})
	return b
}

// WithoutScene omits every scene graph chunk.
func (b *Builder) WithoutScene() *Builder {
	b.noScene = true
	return b
}

// Solid returns an sx*sy*sz model with every cell set to palette index i.
func Solid(sx, sy, sz int, i uint8) vox.Model {
	m := vox.Model{SizeX: sx, SizeY: sy, SizeZ: sz}
	for x := 0; x < sx; x++ {
		for y := 0; y < sy; y++ {
			for z := 0; z < sz; z++ {
				m.Voxels = append(m.Voxels, vox.Voxel{X: uint8(x), Y: uint8(y), Z: uint8(z), I: i})
			}
		}
	}
	return m
}

// Bytes encodes the file.
func (b *Builder) Bytes() []byte {
	var children bytes.Buffer
	for _, m := range b.models {
		var size bytes.Buffer
		putInt(&size, m.SizeX, m.SizeY, m.SizeZ)
		writeChunk(&children, "SIZE", size.Bytes())
		var xyzi bytes.Buffer
		putInt(&xyzi, len(m.Voxels))
		for _, v := range m.Voxels {
			xyzi.Write([]byte{v.X, v.Y, v.Z, v.I})
		}
		writeChunk(&children, "XYZI", xyzi.Bytes())
	}
	if !b.noScene {
		b.writeScene(&children)
	}
	if b.palette != nil {
		var rgba bytes.Buffer
		for i := 1; i < 256; i++ {
			c := b.palette[i]
			rgba.Write([]byte{c.R, c.G, c.B, c.A})
		}
		rgba.Write([]byte{0, 0, 0, 0})
		writeChunk(&children, "RGBA", rgba.Bytes())
	}

	var out bytes.Buffer
	out.WriteString("VOX ")
	putInt(&out, 200)
	out.WriteString("MAIN")
	putInt(&out, 0, children.Len())
	out.Write(children.Bytes())
	return out.Bytes()
}

// writeScene lays nodes out the way MagicaVoxel does: 0 root transform,
// 1 group, then a transform/shape pair per placement.
func (b *Builder) writeScene(w *bytes.Buffer) {
	writeTransform(w, 0, 1, -1)
	var grp bytes.Buffer
	putInt(&grp, 1)
	putDict(&grp, nil)
	putInt(&grp, len(b.placements))
	for i := range b.placements {
		putInt(&grp, 2+i*2)
	}
	writeChunk(w, "nGRP", grp.Bytes())

	layers := map[int]bool{}
	for i, p := range b.placements {
		writeTransform(w, 2+i*2, 3+i*2, p.layer)
		var shp bytes.Buffer
		putInt(&shp, 3+i*2)
		putDict(&shp, nil)
		putInt(&shp, len(p.models))
		for f, id := range p.models {
			putInt(&shp, id)
			putDict(&shp, map[string]string{"_f": strconv.Itoa(f)})
		}
		writeChunk(w, "nSHP", shp.Bytes())
		layers[p.layer] = true
	}
	ids := make([]int, 0, len(layers))
	for id := range layers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		var l bytes.Buffer
		putInt(&l, id)
		putDict(&l, map[string]string{"_name": "layer" + strconv.Itoa(id)})
		putInt(&l, -1)
		writeChunk(w, "LAYR", l.Bytes())
	}
}

func writeTransform(w *bytes.Buffer, id, child, layer int) {
	var trn bytes.Buffer
	putInt(&trn, id)
	putDict(&trn, nil)
	putInt(&trn, child, -1, layer, 1)
	putDict(&trn, map[string]string{"_t": "0 0 0"})
	writeChunk(w, "nTRN", trn.Bytes())
}

func writeChunk(w *bytes.Buffer, id string, content []byte) {
	w.WriteString(id)
	putInt(w, len(content), 0)
	w.Write(content)
}

func putInt(w *bytes.Buffer, vs ...int) {
	for _, v := range vs {
		_ = binary.Write(w, binary.LittleEndian, int32(v))
	}
}

func putDict(w *bytes.Buffer, d map[string]string) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	putInt(w, len(keys))
	for _, k := range keys {
		putInt(w, len(k))
		w.WriteString(k)
		putInt(w, len(d[k]))
		w.WriteString(d[k])
	}
}
