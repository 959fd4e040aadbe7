package api

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/JadonBelair/vox-to-gmod/ccvox"
	"github.com/JadonBelair/vox-to-gmod/vox"
)

// DefaultThumbnailSize is the edge length, in pixels, thumbnails are fit into.
const DefaultThumbnailSize = 256

// Thumbnail renders the first model of layer seen from above as a PNG no
// larger than size x size.
func Thumbnail(data []byte, layer, size int) ([]byte, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	ids, err := SelectModels(f, layer)
	if err != nil {
		return nil, err
	}
	img, err := TopView(&f.Models[ids[0]], &f.Palette)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	b := img.Bounds()
	k := size / max(b.Dx(), b.Dy())
	if k > 1 {
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*k, b.Dy()*k))
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		img = dst
	}
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// TopView projects m along -Z, one pixel per column, darkening lower voxels.
// Image rows run from the largest Y down so the picture matches the editor's
// top view. Empty columns stay transparent.
func TopView(m *vox.Model, src *vox.Palette) (*image.NRGBA, error) {
	pal := ccvox.BuildPalette(m, src)
	g, err := ccvox.BuildGrid(m, src, pal)
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, g.SizeX, g.SizeY))
	for x := 0; x < g.SizeX; x++ {
		for y := 0; y < g.SizeY; y++ {
			for z := g.SizeZ - 1; z >= 0; z-- {
				v := g.At(x, y, z)
				if v == 0 {
					continue
				}
				c := pal.At(int(v) - 1)
				shade := func(ch uint8) uint8 {
					return uint8(int(ch) * (g.SizeZ + z + 1) / (2 * g.SizeZ))
				}
				img.SetNRGBA(x, g.SizeY-1-y, color.NRGBA{R: shade(c.R), G: shade(c.G), B: shade(c.B), A: 255})
				break
			}
		}
	}
	return img, nil
}
