package ccvox

import (
	"fmt"
	"log/slog"

	"github.com/JadonBelair/vox-to-gmod/vox"
)

const headerSize = 5

// compressedMarker prefixes a compressed frame. Plain frames always start
// with two zero bytes, so the second byte tells the two apart.
var compressedMarker = [2]byte{0, 254}

// Options configure an Encoder.
type Options struct {
	// Codec compresses whole frames; nil means DefaultCodec.
	Codec Codec
	// DisableCache turns off reuse of frames with identical content.
	DisableCache bool
}

// Encoder turns models into frames. It is safe for concurrent use; every call
// to EncodeFrame owns its palette and grid.
type Encoder struct {
	codec Codec
	cache *frameCache
}

// NewEncoder returns an encoder for opts.
func NewEncoder(opts Options) (*Encoder, error) {
	codec := opts.Codec
	if codec == nil {
		var err error
		if codec, err = NewCodec(DefaultCodec); err != nil {
			return nil, err
		}
	}
	e := &Encoder{codec: codec}
	if !opts.DisableCache {
		e.cache = newFrameCache()
	}
	return e, nil
}

// Codec returns the codec frames are compressed with.
func (e *Encoder) Codec() Codec { return e.codec }

// EncodeFrame encodes m, choosing the compressed form when it is strictly
// shorter than the plain one. A codec error fails the frame.
func (e *Encoder) EncodeFrame(m *vox.Model, src *vox.Palette) ([]byte, error) {
	if err := CheckDimensions(m.SizeX, m.SizeY, m.SizeZ); err != nil {
		return nil, err
	}
	var key uint64
	if e.cache != nil {
		key = frameKey(m, src, e.codec.Name())
		if out, ok := e.cache.get(key); ok {
			Logger().Debug("frame cache hit", slog.Uint64("key", key), slog.Int("bytes", len(out)))
			return out, nil
		}
	}

	raw, pal, err := EncodeUncompressed(m, src)
	if err != nil {
		return nil, err
	}
	z, err := e.codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCompressionFailure, e.codec.Name(), err)
	}
	out := raw
	compressed := len(z)+len(compressedMarker) < len(raw)
	if compressed {
		out = make([]byte, 0, len(compressedMarker)+len(z))
		out = append(out, compressedMarker[:]...)
		out = append(out, z...)
	}
	Logger().Debug("frame encoded",
		slog.String("size", fmt.Sprintf("%dx%dx%d", m.SizeX, m.SizeY, m.SizeZ)),
		slog.Int("voxels", len(m.Voxels)),
		slog.Int("colors", pal.Len()),
		slog.String("mode", ModeFor(pal.Len()).String()),
		slog.Int("raw", len(raw)),
		slog.Int("compressed", len(z)+len(compressedMarker)),
		slog.Bool("use_compressed", compressed),
	)
	if e.cache != nil {
		e.cache.put(key, out)
	}
	return out, nil
}

// EncodeUncompressed builds the plain frame: header, palette block when the
// palette has fewer than 256 colors, then the run-length body. It also
// returns the palette it built.
func EncodeUncompressed(m *vox.Model, src *vox.Palette) ([]byte, *Palette, error) {
	if err := CheckDimensions(m.SizeX, m.SizeY, m.SizeZ); err != nil {
		return nil, nil, err
	}
	pal := BuildPalette(m, src)
	grid, err := BuildGrid(m, src, pal)
	if err != nil {
		return nil, nil, err
	}
	out := make([]byte, 0, headerSize+1+3*pal.Len()+len(grid.Cells)/8)
	out = append(out, 0, 0, byte(grid.SizeX-1), byte(grid.SizeY-1), byte(grid.SizeZ-1))
	if pal.Len() < indexedLimit {
		out = append(out, byte(pal.Len()))
		for _, c := range pal.Colors() {
			out = append(out, c.R, c.G, c.B)
		}
	}
	out = append(out, EncodeRuns(grid.Cells, pal)...)
	return out, pal, nil
}
