package vox_test

import (
	"reflect"
	"testing"

	"github.com/JadonBelair/vox-to-gmod/vox"
	"github.com/JadonBelair/vox-to-gmod/vox/voxtest"
)

func TestParse_ModelsAndPalette(t *testing.T) {
	var pal vox.Palette
	pal[1] = vox.Color{R: 10, G: 20, B: 30, A: 255}
	pal[255] = vox.Color{R: 1, G: 2, B: 3, A: 255}

	b := voxtest.New()
	b.AddModel(voxtest.Solid(2, 3, 4, 1))
	b.AddModel(vox.Model{SizeX: 5, SizeY: 5, SizeZ: 5, Voxels: []vox.Voxel{{X: 4, Y: 3, Z: 2, I: 255}}})
	b.SetPalette(pal).Place(0, 0).Place(1, 1)

	f, err := vox.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Version != 200 {
		t.Fatalf("version = %d", f.Version)
	}
	if len(f.Models) != 2 {
		t.Fatalf("models = %d, want 2", len(f.Models))
	}
	m := f.Models[0]
	if m.SizeX != 2 || m.SizeY != 3 || m.SizeZ != 4 || len(m.Voxels) != 24 {
		t.Fatalf("model 0 = %dx%dx%d with %d voxels", m.SizeX, m.SizeY, m.SizeZ, len(m.Voxels))
	}
	if got := f.Models[1].Voxels[0]; got != (vox.Voxel{X: 4, Y: 3, Z: 2, I: 255}) {
		t.Fatalf("model 1 voxel = %+v", got)
	}
	if f.Palette[1] != pal[1] || f.Palette[255] != pal[255] {
		t.Fatalf("palette not mapped to raw indices: %+v %+v", f.Palette[1], f.Palette[255])
	}
	if len(f.Layers) != 2 || f.Layers[1].Name() != "layer1" || f.Layers[1].Hidden() {
		t.Fatalf("layers = %+v", f.Layers)
	}
}

func TestParse_DefaultPalette(t *testing.T) {
	b := voxtest.New()
	b.AddModel(voxtest.Solid(1, 1, 1, 1))
	f, err := vox.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Palette != vox.DefaultPalette() {
		t.Fatalf("expected default palette without RGBA chunk")
	}
	p := vox.DefaultPalette()
	if p[1] != (vox.Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Fatalf("first default color = %+v", p[1])
	}
	if p[255] != (vox.Color{R: 0x11, G: 0x11, B: 0x11, A: 0xff}) {
		t.Fatalf("last default color = %+v", p[255])
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string][]byte{
		"empty":      nil,
		"bad magic":  []byte("VOX!\x96\x00\x00\x00"),
		"truncated":  append([]byte("VOX \x96\x00\x00\x00SIZE\x0c\x00\x00\x00\x00\x00\x00\x00"), 1, 2),
		"xyzi first": append([]byte("VOX \x96\x00\x00\x00XYZI\x04\x00\x00\x00\x00\x00\x00\x00"), 0, 0, 0, 0),
	}
	for name, data := range cases {
		if _, err := vox.Parse(data); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestModelsInLayer(t *testing.T) {
	b := voxtest.New()
	for i := 0; i < 4; i++ {
		b.AddModel(voxtest.Solid(1, 1, 1, 1))
	}
	b.Place(1, 0).Place(0, 1).Place(1, 2, 3)
	f, err := vox.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := f.ModelsInLayer(1); !reflect.DeepEqual(got, []int{0, 2, 3}) {
		t.Fatalf("layer 1 = %v", got)
	}
	if got := f.ModelsInLayer(0); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("layer 0 = %v", got)
	}
	if got := f.ModelsInLayer(7); len(got) != 0 {
		t.Fatalf("layer 7 = %v, want empty", got)
	}
}

func TestModelsInLayer_RigidPattern(t *testing.T) {
	f := &vox.File{Nodes: map[int]*vox.Node{
		0: {ID: 0, Type: vox.NodeTransform, ChildID: 1, LayerID: -1},
		1: {ID: 1, Type: vox.NodeGroup, ChildrenIDs: []int{2, 4}},
		// a nested group is not followed
		2: {ID: 2, Type: vox.NodeGroup, ChildrenIDs: []int{3}},
		3: {ID: 3, Type: vox.NodeTransform, ChildID: 5, LayerID: 0},
		4: {ID: 4, Type: vox.NodeTransform, ChildID: 6, LayerID: 0},
		5: {ID: 5, Type: vox.NodeShape, Models: []vox.ShapeModel{{ModelID: 9}}},
		6: {ID: 6, Type: vox.NodeShape, Models: []vox.ShapeModel{{ModelID: 4}}},
	}}
	if got := f.ModelsInLayer(0); !reflect.DeepEqual(got, []int{4}) {
		t.Fatalf("got %v, want [4]", got)
	}

	noScene := &vox.File{}
	if noScene.HasScene() || noScene.ModelsInLayer(0) != nil {
		t.Fatalf("file without scene must resolve nothing")
	}
}
