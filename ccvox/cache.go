package ccvox

import (
	"bytes"
	"encoding/binary"
	"sync"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/JadonBelair/vox-to-gmod/vox"
)

// frameCache maps a model content digest to its encoded frame. Animations
// often repeat a pose; a hit skips palette, grid, body and compression.
// Callers get their own copy of a cached frame.
type frameCache struct {
	mu     sync.Mutex
	frames map[uint64][]byte
}

func newFrameCache() *frameCache {
	return &frameCache{frames: make(map[uint64][]byte)}
}

func (c *frameCache) get(key uint64) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.frames[key]
	return bytes.Clone(b), ok
}

func (c *frameCache) put(key uint64, frame []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames[key] = bytes.Clone(frame)
}

// frameKey digests everything the encoded frame depends on: the codec, the
// extents and every voxel with its resolved color, in file order (palette
// order follows voxel order).
func frameKey(m *vox.Model, src *vox.Palette, codec string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(codec)
	var b [12]byte
	binary.LittleEndian.PutUint32(b[0:4], uint32(m.SizeX))
	binary.LittleEndian.PutUint32(b[4:8], uint32(m.SizeY))
	binary.LittleEndian.PutUint32(b[8:12], uint32(m.SizeZ))
	_, _ = d.Write(b[:])
	buf := make([]byte, 0, 6*1024)
	for _, v := range m.Voxels {
		c := src[v.I]
		buf = append(buf, v.X, v.Y, v.Z, c.R, c.G, c.B)
		if len(buf) == cap(buf) {
			_, _ = d.Write(buf)
			buf = buf[:0]
		}
	}
	_, _ = d.Write(buf)
	return d.Sum64()
}
