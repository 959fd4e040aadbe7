package ccvox

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Codec is the whole-buffer compressor tried on every frame. Compress must
// use the codec's strongest setting.
type Codec interface {
	Name() string
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
}

// Codec names accepted by NewCodec.
const (
	CodecZlib    = "zlib"
	CodecZstd    = "zstd"
	CodecDeflate = "deflate"
)

// DefaultCodec has the smallest framing of the three; zlib and zstd headers
// and checksums cost more than a small frame saves.
const DefaultCodec = CodecDeflate

// NewCodec returns the codec registered under name. An empty name selects
// DefaultCodec.
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", CodecDeflate:
		return deflateCodec{}, nil
	case CodecZlib:
		return zlibCodec{}, nil
	case CodecZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression), zstd.WithEncoderCRC(false))
		if err != nil {
			return nil, err
		}
		return &zstdCodec{enc: enc}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q (want deflate, zlib or zstd)", name)
	}
}

type zlibCodec struct{}

func (zlibCodec) Name() string { return CodecZlib }

func (zlibCodec) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (zlibCodec) Decompress(src []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

type deflateCodec struct{}

func (deflateCodec) Name() string { return CodecDeflate }

func (deflateCodec) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(src); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (deflateCodec) Decompress(src []byte) ([]byte, error) {
	fr := flate.NewReader(bytes.NewReader(src))
	defer fr.Close()
	return io.ReadAll(fr)
}

// zstdCodec shares one encoder; EncodeAll is safe for concurrent use.
type zstdCodec struct {
	enc *zstd.Encoder
}

func (*zstdCodec) Name() string { return CodecZstd }

func (c *zstdCodec) Compress(src []byte) ([]byte, error) {
	return c.enc.EncodeAll(src, nil), nil
}

func (c *zstdCodec) Decompress(src []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(src, nil)
}
