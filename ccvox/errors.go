package ccvox

import "errors"

// Every error the encoder returns wraps one of these. All of them abort the
// conversion; there is no partial result.
var (
	ErrNoModelsInFile      = errors.New("no models in file")
	ErrUnreadableInputFile = errors.New("unreadable input file")
	ErrDimensionOverflow   = errors.New("model dimension out of range [1,255]")
	ErrVoxelOutOfBounds    = errors.New("voxel outside model bounds")
	ErrCompressionFailure  = errors.New("compression failed")
	ErrTooManyFrames       = errors.New("animation needs 1 to 256 frames")
	ErrFrameTooLarge       = errors.New("frame longer than 65535 bytes")
)
