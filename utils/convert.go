package utils

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JadonBelair/vox-to-gmod/api"
	"github.com/JadonBelair/vox-to-gmod/ccvox"
)

// Outputs names the files one conversion writes. Frame is required; an
// empty Preview or Thumbnail is skipped.
type Outputs struct {
	Frame     string
	Preview   string
	Thumbnail string
}

type pendingFile struct {
	kind, path string
	data       []byte
}

// Run reads a .vox file and writes the encoded frame, or animation container,
// plus any requested preview and thumbnail. Every output is built before the
// first one is written, so a failing step leaves the destination untouched.
func Run(inPath string, outs Outputs, opts api.Options) error {
	data, err := readVox(inPath)
	if err != nil {
		return err
	}
	frame, err := api.Convert(data, opts)
	if err != nil {
		return err
	}
	files := []pendingFile{{"output", outs.Frame, frame}}
	if outs.Preview != "" {
		glb, err := api.PreviewGLB(data, opts.Layer)
		if err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		files = append(files, pendingFile{"preview", outs.Preview, glb})
	}
	if outs.Thumbnail != "" {
		img, err := api.Thumbnail(data, opts.Layer, api.DefaultThumbnailSize)
		if err != nil {
			return fmt.Errorf("thumbnail: %w", err)
		}
		files = append(files, pendingFile{"thumbnail", outs.Thumbnail, img})
	}
	if err := writeAll(files); err != nil {
		return err
	}
	for _, f := range files {
		ccvox.Logger().Info(f.kind+" written", slog.String("path", f.path), slog.Int("bytes", len(f.data)))
	}
	ccvox.Logger().Debug("converted",
		slog.String("input", inPath),
		slog.Int("layer", opts.Layer),
		slog.Bool("animation", opts.Animation))
	return nil
}

func readVox(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ccvox.ErrUnreadableInputFile, err)
	}
	return data, nil
}

// writeAll stages every file as a temp file first and renames them only once
// all were written.
func writeAll(files []pendingFile) error {
	tmps := make([]string, 0, len(files))
	cleanup := func() {
		for _, name := range tmps {
			os.Remove(name)
		}
	}
	for _, f := range files {
		name, err := writeTemp(f.path, f.data)
		if err != nil {
			cleanup()
			return fmt.Errorf("save %s: %w", f.kind, err)
		}
		tmps = append(tmps, name)
	}
	for i, f := range files {
		if err := os.Rename(tmps[i], f.path); err != nil {
			tmps = tmps[i:]
			cleanup()
			return fmt.Errorf("save %s: %w", f.kind, err)
		}
	}
	return nil
}

func writeTemp(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
