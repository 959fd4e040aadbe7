package ccvox

// Mode is the body encoding, picked once per frame from the palette size.
type Mode uint8

const (
	// ModeMulti merges runs of one color: [length+127, index].
	ModeMulti Mode = iota
	// ModeIndexed writes one index byte per colored voxel.
	ModeIndexed
	// ModeRawColor writes [1, R, G, B] per colored voxel and drops the
	// palette block.
	ModeRawColor
)

const (
	multiLimit   = 128 // palettes smaller than this use ModeMulti
	indexedLimit = 256 // palettes smaller than this carry a palette block

	maxEmptyRun = 255
	maxColorRun = 128

	emptyRunMarker = 0
	rawColorMarker = 1
	colorRunBias   = 127
)

func (m Mode) String() string {
	switch m {
	case ModeMulti:
		return "multi"
	case ModeIndexed:
		return "indexed"
	case ModeRawColor:
		return "raw-color"
	default:
		return "unknown"
	}
}

// ModeFor returns the body encoding used for a palette of n colors.
func ModeFor(n int) Mode {
	switch {
	case n < multiLimit:
		return ModeMulti
	case n < indexedLimit:
		return ModeIndexed
	default:
		return ModeRawColor
	}
}

// runEncoder holds the run state of one frame body. A colored run is pending
// while count > 0; cell values are never 0 for colored voxels, so color is
// only meaningful together with count.
type runEncoder struct {
	mode  Mode
	pal   *Palette
	out   []byte
	empty int
	color uint16
	count int
}

// EncodeRuns run-length encodes a flattened cell sequence. Cell values are
// palette positions plus one; 0 is empty.
func EncodeRuns(cells []uint16, pal *Palette) []byte {
	e := &runEncoder{mode: ModeFor(pal.Len()), pal: pal, out: make([]byte, 0, 256)}
	for _, c := range cells {
		e.push(c)
	}
	e.finish()
	return e.out
}

func (e *runEncoder) push(c uint16) {
	if c == 0 {
		e.flushColor()
		e.empty++
		if e.empty == maxEmptyRun {
			e.flushEmpty()
		}
		return
	}
	e.flushEmpty()
	switch e.mode {
	case ModeMulti:
		if e.count > 0 && e.color != c {
			e.flushColor()
		}
		e.color = c
		e.count++
		if e.count == maxColorRun {
			e.flushColor()
		}
	case ModeIndexed:
		e.out = append(e.out, byte(c))
	case ModeRawColor:
		rgb := e.pal.At(int(c) - 1)
		e.out = append(e.out, rawColorMarker, rgb.R, rgb.G, rgb.B)
	}
}

func (e *runEncoder) flushEmpty() {
	if e.empty == 0 {
		return
	}
	e.out = append(e.out, emptyRunMarker, byte(e.empty))
	e.empty = 0
}

func (e *runEncoder) flushColor() {
	if e.count == 0 {
		return
	}
	e.out = append(e.out, byte(e.count+colorRunBias), byte(e.color))
	e.count = 0
	e.color = 0
}

// finish emits the one pending run. Only one of the two counters can be
// non-zero here since every cell resets the other kind.
func (e *runEncoder) finish() {
	if e.count > 0 {
		e.flushColor()
		return
	}
	e.flushEmpty()
}
