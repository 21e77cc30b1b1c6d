// GoPromoGen WASM — Client-side generation.
// Compiled with: GOOS=js GOARCH=wasm go build -o promogen.wasm ./clients/wasm/

//go:build js && wasm

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/xob0t/GoPromoGen/pkg/imagegen"
	"github.com/xob0t/GoPromoGen/pkg/promo"
	"github.com/xob0t/GoPromoGen/pkg/videogen"
)

var (
	images *imagegen.Generator
	videos *videogen.Engine
)

func main() {
	var err error
	images, err = imagegen.NewGenerator()
	if err != nil {
		fmt.Println("error: image generator: " + err.Error())
		return
	}
	videos, err = videogen.NewEngine(videogen.NewAVIFactory())
	if err != nil {
		fmt.Println("error: video engine: " + err.Error())
		return
	}

	fmt.Println("GoPromoGen WASM loaded")

	// Register JS-callable functions.
	js.Global().Set("goGenerateImage", js.FuncOf(generateImage))
	js.Global().Set("goGenerateVideo", js.FuncOf(generateVideo))
	js.Global().Set("goComposePromo", js.FuncOf(composePromo))
	js.Global().Set("goReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

// goGenerateImage(prompt, style, subject, onProgress?) — returns a PNG
// data URL. onProgress, when given, is called with 10..100.
func generateImage(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf("error: need prompt, style, subject")
	}

	style, err := imagegen.ParseStyle(args[1].String())
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	subject := imagegen.SubjectAuto
	if s := args[2].String(); s != "" {
		subject, err = imagegen.ParseSubject(s)
		if err != nil {
			return js.ValueOf("error: " + err.Error())
		}
	}

	var onProgress imagegen.ProgressFunc
	if len(args) > 3 && args[3].Type() == js.TypeFunction {
		cb := args[3]
		onProgress = func(pct int) { cb.Invoke(pct) }
	}

	gen, err := images.Generate(imagegen.Request{
		Prompt:  args[0].String(),
		Style:   style,
		Subject: subject,
	}, onProgress)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf(gen.DataURL())
}

// goGenerateVideo(title, text, duration) — returns JSON with base64
// AVI data, filename, and encoding metadata.
func generateVideo(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf("error: need title, text, duration")
	}

	gen, err := videos.Generate(context.Background(), videogen.Options{
		Title:    args[0].String(),
		Text:     args[1].String(),
		Duration: args[2].Int(),
	})
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}

	out, err := json.Marshal(map[string]any{
		"data":     base64.StdEncoding.EncodeToString(gen.File),
		"filename": gen.Filename,
		"metadata": gen.Metadata,
	})
	if err != nil {
		return js.ValueOf("error: encode result: " + err.Error())
	}
	return js.ValueOf(string(out))
}

// goComposePromo(headline, subheadline, textColor, fontSize, erase) —
// returns a PNG data URL of the composed promo.
func composePromo(this js.Value, args []js.Value) interface{} {
	if len(args) < 5 {
		return js.ValueOf("error: need headline, subheadline, textColor, fontSize, erase")
	}

	comp, err := promo.NewComposition(promo.DefaultSize)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	if h := args[0].String(); h != "" {
		comp.SetHeadline(h)
	}
	if sub := args[1].String(); sub != "" {
		comp.SetSubheadline(sub)
	}
	if c := args[2].String(); c != "" {
		comp.SetTextColor(c)
	}
	if size := args[3].Int(); size > 0 {
		comp.SetFontSize(float64(size))
	}
	if args[4].Truthy() {
		comp.Erase()
	}

	url, err := comp.DataURL()
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf(url)
}
