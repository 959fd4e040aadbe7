package vox

// DefaultPalette returns the palette MagicaVoxel assumes when a file carries
// no RGBA chunk: a 6x6x6 color cube (white first, black excluded) followed by
// red, green, blue and gray ramps of ten steps each.
func DefaultPalette() Palette {
	var p Palette
	levels := [6]uint8{0xff, 0xcc, 0x99, 0x66, 0x33, 0x00}
	i := 1
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				if r == 0 && g == 0 && b == 0 {
					continue
				}
				p[i] = Color{R: r, G: g, B: b, A: 0xff}
				i++
			}
		}
	}
	ramp := [10]uint8{0xee, 0xdd, 0xbb, 0xaa, 0x88, 0x77, 0x55, 0x44, 0x22, 0x11}
	for _, v := range ramp {
		p[i] = Color{R: v, A: 0xff}
		i++
	}
	for _, v := range ramp {
		p[i] = Color{G: v, A: 0xff}
		i++
	}
	for _, v := range ramp {
		p[i] = Color{B: v, A: 0xff}
		i++
	}
	for _, v := range ramp {
		p[i] = Color{R: v, G: v, B: v, A: 0xff}
		i++
	}
	return p
}
