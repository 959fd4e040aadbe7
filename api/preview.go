package api

import (
	"bytes"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/JadonBelair/vox-to-gmod/ccvox"
	"github.com/JadonBelair/vox-to-gmod/vox"
)

// PreviewGLB meshes the first model of layer and returns it as a binary glTF,
// for checking a conversion in any model viewer.
func PreviewGLB(data []byte, layer int) ([]byte, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	ids, err := SelectModels(f, layer)
	if err != nil {
		return nil, err
	}
	return ModelToGLB(&f.Models[ids[0]], &f.Palette)
}

// ModelToGLB greedy-meshes m with per-vertex colors. MagicaVoxel is Z-up;
// the mesh is rotated to glTF's Y-up.
func ModelToGLB(m *vox.Model, src *vox.Palette) ([]byte, error) {
	pal := ccvox.BuildPalette(m, src)
	grid, err := ccvox.BuildGrid(m, src, pal)
	if err != nil {
		return nil, err
	}
	mesh := ccvox.GenerateMesh(grid)
	if len(mesh.Vertices) == 0 {
		return nil, fmt.Errorf("model %dx%dx%d has no visible faces", m.SizeX, m.SizeY, m.SizeZ)
	}

	positions := make([][3]float32, len(mesh.Vertices))
	colors := make([][4]float32, len(mesh.Vertices))
	depth := float32(grid.SizeY)
	for i, v := range mesh.Vertices {
		p := v.Position
		positions[i] = [3]float32{p[0], p[2], depth - p[1]}
		colors[i] = pal.At(int(v.Color) - 1).Float4()
	}
	indices := mesh.Indices
	normals := make([][3]float32, len(positions))
	for t := 0; t+2 < len(indices); t += 3 {
		tri := indices[t : t+3]
		n := faceNormal(positions[tri[0]], positions[tri[1]], positions[tri[2]])
		for _, i := range tri {
			normals[i] = n
		}
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "vox2gmod"
	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, normals)
	colorAccessor := modeler.WriteColor(doc, colors)
	indicesAccessor := modeler.WriteIndices(doc, indices)
	prim := &gltf.Primitive{
		Attributes: gltf.PrimitiveAttributes{
			gltf.POSITION: posAccessor,
			gltf.NORMAL:   normalAccessor,
			gltf.COLOR_0:  colorAccessor,
		},
		Indices:  gltf.Index(indicesAccessor),
		Material: gltf.Index(0),
	}
	pbr := &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 1, 1, 1}, MetallicFactor: gltf.Float(0), RoughnessFactor: gltf.Float(1)}
	doc.Materials = []*gltf.Material{{PBRMetallicRoughness: pbr, AlphaMode: gltf.AlphaOpaque}}
	doc.Meshes = []*gltf.Mesh{{Name: "Model", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// faceNormal is the unit normal of the counter-clockwise triangle a, b, c.
// Quads never share vertices, so one normal per triangle is exact.
func faceNormal(a, b, c [3]float32) [3]float32 {
	ab := [3]float64{float64(b[0] - a[0]), float64(b[1] - a[1]), float64(b[2] - a[2])}
	ac := [3]float64{float64(c[0] - a[0]), float64(c[1] - a[1]), float64(c[2] - a[2])}
	n := [3]float64{
		ab[1]*ac[2] - ab[2]*ac[1],
		ab[2]*ac[0] - ab[0]*ac[2],
		ab[0]*ac[1] - ab[1]*ac[0],
	}
	l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if l == 0 {
		return [3]float32{}
	}
	return [3]float32{float32(n[0] / l), float32(n[1] / l), float32(n[2] / l)}
}
