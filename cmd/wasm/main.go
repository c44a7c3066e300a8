//go:build js && wasm

// Command wasm binds the page's file inputs to their preview containers
// and upload endpoints. Build with GOOS=js GOARCH=wasm and serve as
// static/main.wasm next to wasm_exec.js.
package main

import (
	"syscall/js"

	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/dom"
	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/logging"
	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/upload"
)

func main() {
	logger := logging.WithComponent(logging.New(logging.Config{Level: "info"}), "wasm")

	bindings, ok, err := dom.Bindings()
	if err != nil {
		logger.Warn("%v, using defaults", err)
	}
	if !ok || err != nil || len(bindings) == 0 {
		bindings = upload.DefaultBindings()
	}

	origin := js.Global().Get("location").Get("origin").String()
	binder := upload.NewBinder(upload.NewHTTPSubmitter(origin, nil), upload.WithLogger(logger))
	if _, err := binder.BindAll(dom.New(), bindings); err != nil {
		logger.Error("%v", err)
	}

	// Keep the callbacks alive for the lifetime of the page.
	select {}
}
