//go:build js && wasm

package main

import (
	"strconv"
	"syscall/js"

	"github.com/JadonBelair/vox-to-gmod/api"
)

func bytesArg(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func toUint8Array(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

// vox2ccvox(bytes, layer?, animation?)
func vox2ccvox(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing vox bytes")
	}
	opts := api.Options{Workers: 1}
	if len(args) > 1 && args[1].Type() == js.TypeNumber {
		opts.Layer = args[1].Int()
	}
	if len(args) > 2 {
		opts.Animation = args[2].Truthy()
	}
	out, err := api.Convert(bytesArg(args[0]), opts)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toUint8Array(out)
}

// vox2glb(bytes, layer?)
func vox2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing vox bytes")
	}
	layer := 0
	if len(args) > 1 && args[1].Type() == js.TypeNumber {
		layer = args[1].Int()
	}
	out, err := api.PreviewGLB(bytesArg(args[0]), layer)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toUint8Array(out)
}

// voxLayers returns an object mapping layer ids to their model counts.
func voxLayers(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing vox bytes")
	}
	layers, err := api.Layers(bytesArg(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	result := js.Global().Get("Object").New()
	for _, l := range layers {
		info := js.Global().Get("Object").New()
		info.Set("name", l.Name)
		info.Set("models", l.Models)
		info.Set("hidden", l.Hidden)
		result.Set(strconv.Itoa(l.ID), info)
	}
	return result
}

func main() {
	js.Global().Set("vox2ccvox", js.FuncOf(vox2ccvox))
	js.Global().Set("vox2glb", js.FuncOf(vox2glb))
	js.Global().Set("voxLayers", js.FuncOf(voxLayers))
	select {}
}
