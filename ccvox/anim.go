package ccvox

import (
	"encoding/binary"
	"fmt"
)

// MaxFrames is the largest frame count the one-byte count field can hold.
const MaxFrames = 256

// PackAnimation joins already encoded frames into an animation container:
//
//	[count-1] { [len_hi len_lo] frame }... { [index 0] }...
//
// The trailer gives every frame an index and a reserved timing byte, always
// 0 for now. Frames keep their own compression; the container adds none.
func PackAnimation(frames [][]byte) ([]byte, error) {
	if len(frames) == 0 || len(frames) > MaxFrames {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyFrames, len(frames))
	}
	size := 1 + 2*len(frames)
	for i, f := range frames {
		if len(f) > 0xFFFF {
			return nil, fmt.Errorf("%w: frame %d is %d bytes", ErrFrameTooLarge, i, len(f))
		}
		size += 2 + len(f)
	}
	out := make([]byte, 0, size)
	out = append(out, byte(len(frames)-1))
	for _, f := range frames {
		out = binary.BigEndian.AppendUint16(out, uint16(len(f)))
		out = append(out, f...)
	}
	for i := range frames {
		out = append(out, byte(i), 0)
	}
	return out, nil
}
