// Package vox reads MagicaVoxel .vox files: models, palette, layers and the
// transform/group/shape scene graph.
package vox

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const magic = "VOX "

// Voxel is a single filled cell. I is the raw palette index (1..255).
type Voxel struct {
	X, Y, Z, I uint8
}

// Model is one SIZE/XYZI pair.
type Model struct {
	SizeX, SizeY, SizeZ int
	Voxels              []Voxel
}

// Color is an RGBA palette entry.
type Color struct {
	R, G, B, A uint8
}

// Palette is indexed by the raw voxel index. Entry 0 is unused.
type Palette [256]Color

// File is a parsed .vox file.
type File struct {
	Version int
	Models  []Model
	Palette Palette
	Nodes   map[int]*Node
	Layers  []Layer
}

var errShortChunk = errors.New("vox: chunk truncated")

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a .vox file from memory.
func Parse(data []byte) (*File, error) {
	if len(data) < 8 || string(data[:4]) != magic {
		return nil, errors.New("vox: not a valid VOX file")
	}
	f := &File{
		Version: int(binary.LittleEndian.Uint32(data[4:8])),
		Palette: DefaultPalette(),
		Nodes:   make(map[int]*Node),
	}
	r := bytes.NewReader(data[8:])
	for {
		var id [4]byte
		if _, err := io.ReadFull(r, id[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("vox: chunk header: %w", err)
		}
		var contentSize, childrenSize int32
		if err := binary.Read(r, binary.LittleEndian, &contentSize); err != nil {
			return nil, fmt.Errorf("vox: chunk %q: %w", id[:], err)
		}
		if err := binary.Read(r, binary.LittleEndian, &childrenSize); err != nil {
			return nil, fmt.Errorf("vox: chunk %q: %w", id[:], err)
		}
		if contentSize < 0 || int64(contentSize) > int64(r.Len()) {
			return nil, fmt.Errorf("vox: chunk %q: %w", id[:], errShortChunk)
		}
		content := make([]byte, contentSize)
		if _, err := io.ReadFull(r, content); err != nil {
			return nil, fmt.Errorf("vox: chunk %q: %w", id[:], err)
		}
		// MAIN has no content of its own; its children follow inline.
		if err := f.readChunk(string(id[:]), content); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *File) readChunk(id string, content []byte) error {
	cr := &chunkReader{r: bytes.NewReader(content)}
	switch id {
	case "SIZE":
		x, y, z := cr.int32(), cr.int32(), cr.int32()
		if cr.err != nil {
			return fmt.Errorf("vox: SIZE: %w", cr.err)
		}
		f.Models = append(f.Models, Model{SizeX: int(x), SizeY: int(y), SizeZ: int(z)})
	case "XYZI":
		if len(f.Models) == 0 {
			return errors.New("vox: XYZI without preceding SIZE")
		}
		n := cr.int32()
		if cr.err != nil {
			return fmt.Errorf("vox: XYZI: %w", cr.err)
		}
		if n < 0 || int64(n)*4 > int64(len(content)-4) {
			return fmt.Errorf("vox: XYZI: %w", errShortChunk)
		}
		voxels := make([]Voxel, n)
		for i := range voxels {
			b := content[4+i*4 : 8+i*4]
			voxels[i] = Voxel{X: b[0], Y: b[1], Z: b[2], I: b[3]}
		}
		f.Models[len(f.Models)-1].Voxels = voxels
	case "RGBA":
		// entry i of the chunk colors raw index i+1
		for i := 0; i < 255 && i*4+3 < len(content); i++ {
			f.Palette[i+1] = Color{R: content[i*4], G: content[i*4+1], B: content[i*4+2], A: content[i*4+3]}
		}
	case "nTRN":
		n := &Node{Type: NodeTransform}
		n.ID = int(cr.int32())
		n.Attributes = cr.dict()
		n.ChildID = int(cr.int32())
		_ = cr.int32() // reserved, always -1
		n.LayerID = int(cr.int32())
		frames := cr.int32()
		for i := int32(0); i < frames && cr.err == nil; i++ {
			n.Frames = append(n.Frames, cr.dict())
		}
		if cr.err != nil {
			return fmt.Errorf("vox: nTRN: %w", cr.err)
		}
		f.Nodes[n.ID] = n
	case "nGRP":
		n := &Node{Type: NodeGroup}
		n.ID = int(cr.int32())
		n.Attributes = cr.dict()
		children := cr.int32()
		for i := int32(0); i < children && cr.err == nil; i++ {
			n.ChildrenIDs = append(n.ChildrenIDs, int(cr.int32()))
		}
		if cr.err != nil {
			return fmt.Errorf("vox: nGRP: %w", cr.err)
		}
		f.Nodes[n.ID] = n
	case "nSHP":
		n := &Node{Type: NodeShape}
		n.ID = int(cr.int32())
		n.Attributes = cr.dict()
		models := cr.int32()
		for i := int32(0); i < models && cr.err == nil; i++ {
			m := ShapeModel{ModelID: int(cr.int32())}
			m.Attributes = cr.dict()
			n.Models = append(n.Models, m)
		}
		if cr.err != nil {
			return fmt.Errorf("vox: nSHP: %w", cr.err)
		}
		f.Nodes[n.ID] = n
	case "LAYR":
		l := Layer{ID: int(cr.int32())}
		l.Attributes = cr.dict()
		if cr.err != nil {
			return fmt.Errorf("vox: LAYR: %w", cr.err)
		}
		f.Layers = append(f.Layers, l)
	}
	return nil
}

// chunkReader reads little-endian chunk fields, keeping the first error.
type chunkReader struct {
	r   *bytes.Reader
	err error
}

func (c *chunkReader) int32() int32 {
	if c.err != nil {
		return 0
	}
	var v int32
	if err := binary.Read(c.r, binary.LittleEndian, &v); err != nil {
		c.err = errShortChunk
		return 0
	}
	return v
}

func (c *chunkReader) str() string {
	n := c.int32()
	if c.err != nil {
		return ""
	}
	if n < 0 || int(n) > c.r.Len() {
		c.err = errShortChunk
		return ""
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(c.r, b); err != nil {
		c.err = errShortChunk
		return ""
	}
	return string(b)
}

func (c *chunkReader) dict() Dict {
	n := c.int32()
	if c.err != nil || n <= 0 {
		return nil
	}
	d := make(Dict, n)
	for i := int32(0); i < n && c.err == nil; i++ {
		k := c.str()
		v := c.str()
		d[k] = v
	}
	return d
}
