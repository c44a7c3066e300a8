//go:build js && wasm

// Package dom implements upload.Document on the browser DOM through
// syscall/js.
package dom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"syscall/js"

	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/upload"
)

// BindingsGlobal is the window property the dev server page sets to the
// configured bindings.
const BindingsGlobal = "path2learnBindings"

// Document wraps window.document.
type Document struct {
	doc   js.Value
	funcs []js.Func
}

// New returns the current page's document.
func New() *Document {
	return &Document{doc: js.Global().Get("document")}
}

func (d *Document) lookup(id string) (js.Value, error) {
	el := d.doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return js.Value{}, fmt.Errorf("#%s: %w", id, upload.ErrElementNotFound)
	}
	return el, nil
}

func (d *Document) Input(id string) (upload.Input, error) {
	el, err := d.lookup(id)
	if err != nil {
		return nil, err
	}
	return &input{doc: d, el: el}, nil
}

func (d *Document) Container(id string) (upload.Container, error) {
	el, err := d.lookup(id)
	if err != nil {
		return nil, err
	}
	return container{el: el}, nil
}

// Release frees the registered event callbacks.
func (d *Document) Release() {
	for _, fn := range d.funcs {
		fn.Release()
	}
	d.funcs = nil
}

type input struct {
	doc *Document
	el  js.Value
}

func (i *input) OnChange(fn func(upload.ChangeEvent)) {
	cb := js.FuncOf(func(this js.Value, _ []js.Value) any {
		fn(changeEvent(this.Get("files")))
		return nil
	})
	i.doc.funcs = append(i.doc.funcs, cb)
	i.el.Call("addEventListener", "change", cb)
}

type container struct {
	el js.Value
}

func (c container) SetHTML(html string) {
	c.el.Set("innerHTML", html)
}

func changeEvent(files js.Value) upload.ChangeEvent {
	var ev upload.ChangeEvent
	if files.IsNull() || files.IsUndefined() {
		return ev
	}
	n := files.Length()
	for idx := 0; idx < n; idx++ {
		ev.Files = append(ev.Files, fileSelection(files.Index(idx)))
	}
	return ev
}

func fileSelection(f js.Value) upload.FileSelection {
	return upload.FileSelection{
		Name: f.Get("name").String(),
		Size: int64(f.Get("size").Float()),
		Open: func() (io.ReadCloser, error) {
			buf, err := await(f.Call("arrayBuffer"))
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", f.Get("name").String(), err)
			}
			arr := js.Global().Get("Uint8Array").New(buf)
			data := make([]byte, arr.Length())
			js.CopyBytesToGo(data, arr)
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// await blocks on a JS promise. It must not run on the event loop
// goroutine (inside a js.Func callback).
func await(promise js.Value) (js.Value, error) {
	type outcome struct {
		val js.Value
		err error
	}
	done := make(chan outcome, 1)

	onResolve := js.FuncOf(func(_ js.Value, args []js.Value) any {
		done <- outcome{val: args[0]}
		return nil
	})
	defer onResolve.Release()
	onReject := js.FuncOf(func(_ js.Value, args []js.Value) any {
		done <- outcome{err: errors.New(args[0].Call("toString").String())}
		return nil
	})
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)
	res := <-done
	return res.val, res.err
}

// Bindings reads window.path2learnBindings. ok is false when the page did
// not set it.
func Bindings() (bindings []upload.Binding, ok bool, err error) {
	v := js.Global().Get(BindingsGlobal)
	if v.IsUndefined() || v.IsNull() {
		return nil, false, nil
	}
	raw := js.Global().Get("JSON").Call("stringify", v).String()
	if err := json.Unmarshal([]byte(raw), &bindings); err != nil {
		return nil, true, fmt.Errorf("decode %s: %w", BindingsGlobal, err)
	}
	return bindings, true, nil
}
