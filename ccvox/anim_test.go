package ccvox_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/JadonBelair/vox-to-gmod/ccvox"
)

func TestPackAnimation_Trailer(t *testing.T) {
	frames := [][]byte{
		bytes.Repeat([]byte{0xa}, 10),
		bytes.Repeat([]byte{0xb}, 20),
		bytes.Repeat([]byte{0xc}, 30),
	}
	out, err := ccvox.PackAnimation(frames)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1+3*2+60+6 {
		t.Fatalf("len = %d", len(out))
	}
	if out[0] != 2 {
		t.Fatalf("count byte = %d, want 2", out[0])
	}
	p := 1
	for i, f := range frames {
		if out[p] != 0 || int(out[p+1]) != len(f) {
			t.Fatalf("frame %d length prefix = % x", i, out[p:p+2])
		}
		if !bytes.Equal(out[p+2:p+2+len(f)], f) {
			t.Fatalf("frame %d bytes differ", i)
		}
		p += 2 + len(f)
	}
	if !bytes.Equal(out[p:], []byte{0, 0, 1, 0, 2, 0}) {
		t.Fatalf("trailer = %v", out[p:])
	}
}

func TestPackAnimation_Limits(t *testing.T) {
	if _, err := ccvox.PackAnimation(nil); !errors.Is(err, ccvox.ErrTooManyFrames) {
		t.Fatalf("0 frames: err = %v", err)
	}
	frames := make([][]byte, 257)
	for i := range frames {
		frames[i] = []byte{byte(i)}
	}
	if _, err := ccvox.PackAnimation(frames); !errors.Is(err, ccvox.ErrTooManyFrames) {
		t.Fatalf("257 frames: err = %v", err)
	}
	out, err := ccvox.PackAnimation(frames[:256])
	if err != nil {
		t.Fatalf("256 frames: %v", err)
	}
	if out[0] != 255 || !bytes.Equal(out[len(out)-2:], []byte{255, 0}) {
		t.Fatalf("256 frames: count %d, last trailer % x", out[0], out[len(out)-2:])
	}

	big := [][]byte{make([]byte, 0x10000)}
	if _, err := ccvox.PackAnimation(big); !errors.Is(err, ccvox.ErrFrameTooLarge) {
		t.Fatalf("oversized frame: err = %v", err)
	}
	out, err = ccvox.PackAnimation([][]byte{make([]byte, 0xFFFF)})
	if err != nil {
		t.Fatalf("65535-byte frame: %v", err)
	}
	if out[1] != 0xff || out[2] != 0xff {
		t.Fatalf("length prefix = % x", out[1:3])
	}
}
