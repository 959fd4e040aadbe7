// Package api converts .vox data held in memory. The CLI and the WASM build
// both go through it.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/JadonBelair/vox-to-gmod/ccvox"
	"github.com/JadonBelair/vox-to-gmod/vox"
)

// ErrNoModelsInLayer means the requested layer holds no shapes.
var ErrNoModelsInLayer = errors.New("no models in layer")

// Options select what to convert and how.
type Options struct {
	Layer     int
	Animation bool
	// Codec names the frame compressor; empty means ccvox.DefaultCodec.
	Codec string
	// Workers bounds concurrent frame encoding; 0 means GOMAXPROCS.
	Workers int
}

// Parse decodes .vox bytes, reporting failures as unreadable input.
func Parse(data []byte) (*vox.File, error) {
	f, err := vox.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ccvox.ErrUnreadableInputFile, err)
	}
	if len(f.Models) == 0 {
		return nil, ccvox.ErrNoModelsInFile
	}
	return f, nil
}

// Convert turns .vox bytes into a still frame, or an animation container
// when opts.Animation is set.
func Convert(data []byte, opts Options) ([]byte, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	codec, err := ccvox.NewCodec(opts.Codec)
	if err != nil {
		return nil, err
	}
	enc, err := ccvox.NewEncoder(ccvox.Options{Codec: codec})
	if err != nil {
		return nil, err
	}
	if opts.Animation {
		return EncodeAnimation(f, enc, opts.Layer, opts.Workers)
	}
	return EncodeStill(f, enc, opts.Layer)
}

// SelectModels resolves the models of layer. Files without a scene graph
// predate layers; all their models count as layer 0.
func SelectModels(f *vox.File, layer int) ([]int, error) {
	if len(f.Models) == 0 {
		return nil, ccvox.ErrNoModelsInFile
	}
	var ids []int
	switch {
	case f.HasScene():
		ids = f.ModelsInLayer(layer)
	case layer == 0:
		for i := range f.Models {
			ids = append(ids, i)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w %d", ErrNoModelsInLayer, layer)
	}
	for _, id := range ids {
		if id < 0 || id >= len(f.Models) {
			return nil, fmt.Errorf("%w: shape references model %d, file has %d", ccvox.ErrUnreadableInputFile, id, len(f.Models))
		}
	}
	ccvox.Logger().Debug("models selected", slog.Int("layer", layer), slog.Any("ids", ids))
	return ids, nil
}

// EncodeStill encodes the first model of layer.
func EncodeStill(f *vox.File, enc *ccvox.Encoder, layer int) ([]byte, error) {
	ids, err := SelectModels(f, layer)
	if err != nil {
		return nil, err
	}
	out, err := enc.EncodeFrame(&f.Models[ids[0]], &f.Palette)
	if err != nil {
		return nil, fmt.Errorf("model %d: %w", ids[0], err)
	}
	return out, nil
}

// EncodeAnimation encodes every model of layer as one frame each and packs
// them in layer order.
func EncodeAnimation(f *vox.File, enc *ccvox.Encoder, layer, workers int) ([]byte, error) {
	ids, err := SelectModels(f, layer)
	if err != nil {
		return nil, err
	}
	if len(ids) > ccvox.MaxFrames {
		return nil, fmt.Errorf("%w: layer %d has %d models", ccvox.ErrTooManyFrames, layer, len(ids))
	}
	frames, err := encodeFrames(f, enc, ids, workers)
	if err != nil {
		return nil, err
	}
	return ccvox.PackAnimation(frames)
}

// encodeFrames encodes models concurrently. Each result lands in its own
// slot, so the output order is the order of ids whatever the scheduling.
func encodeFrames(f *vox.File, enc *ccvox.Encoder, ids []int, workers int) ([][]byte, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	frames := make([][]byte, len(ids))
	errs := make([]error, len(ids))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(i, id int) {
			defer wg.Done()
			defer func() { <-sem }()
			frames[i], errs[i] = enc.EncodeFrame(&f.Models[id], &f.Palette)
		}(i, id)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("frame %d (model %d): %w", i, ids[i], err)
		}
	}
	return frames, nil
}

// LayerInfo summarizes one layer of a file.
type LayerInfo struct {
	ID     int
	Name   string
	Hidden bool
	// Models is the number of frames an animation of this layer would have.
	Models int
}

// Layers lists the layers of a .vox file in file order. A file without a
// scene graph reports a single layer 0 holding every model.
func Layers(data []byte) ([]LayerInfo, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if !f.HasScene() {
		return []LayerInfo{{ID: 0, Models: len(f.Models)}}, nil
	}
	out := make([]LayerInfo, 0, len(f.Layers))
	for _, l := range f.Layers {
		out = append(out, LayerInfo{
			ID:     l.ID,
			Name:   l.Name(),
			Hidden: l.Hidden(),
			Models: len(f.ModelsInLayer(l.ID)),
		})
	}
	return out, nil
}
