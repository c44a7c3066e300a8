// Package terminal implements upload.Document for the command line: inputs
// are fed with local file paths and preview containers print to a writer.
package terminal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"

	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/upload"
)

var (
	idColor   = color.New(color.FgCyan).SprintFunc()
	textColor = color.New(color.FgGreen).SprintFunc()
)

// Document holds the inputs and preview containers declared by a set of
// bindings.
type Document struct {
	mu         sync.Mutex
	out        io.Writer
	inputs     map[string]*input
	containers map[string]*container
}

// NewDocument declares one input and one container per binding.
func NewDocument(out io.Writer, bindings []upload.Binding) *Document {
	d := &Document{
		out:        out,
		inputs:     make(map[string]*input, len(bindings)),
		containers: make(map[string]*container, len(bindings)),
	}
	for _, b := range bindings {
		d.inputs[b.InputID] = &input{}
		d.containers[b.PreviewID] = &container{doc: d, id: b.PreviewID}
	}
	return d
}

func (d *Document) Input(id string) (upload.Input, error) {
	in, ok := d.inputs[id]
	if !ok {
		return nil, fmt.Errorf("#%s: %w", id, upload.ErrElementNotFound)
	}
	return in, nil
}

func (d *Document) Container(id string) (upload.Container, error) {
	c, ok := d.containers[id]
	if !ok {
		return nil, fmt.Errorf("#%s: %w", id, upload.ErrElementNotFound)
	}
	return c, nil
}

// HTML returns the current content of container id.
func (d *Document) HTML(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.containers[id]; ok {
		return c.html
	}
	return ""
}

// Select fires a change event on input id with the given files. No paths
// fires a cleared selection.
func (d *Document) Select(id string, paths ...string) error {
	in, ok := d.inputs[id]
	if !ok {
		return fmt.Errorf("#%s: %w", id, upload.ErrElementNotFound)
	}
	ev := upload.ChangeEvent{}
	for _, p := range paths {
		file, err := FileFromPath(p)
		if err != nil {
			return err
		}
		ev.Files = append(ev.Files, file)
	}
	in.fire(ev)
	return nil
}

// FileFromPath describes a local file as a selection. The file is opened
// lazily by the upload task.
func FileFromPath(path string) (upload.FileSelection, error) {
	info, err := os.Stat(path)
	if err != nil {
		return upload.FileSelection{}, err
	}
	if info.IsDir() {
		return upload.FileSelection{}, fmt.Errorf("%s is a directory", path)
	}
	return upload.FileSelection{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

type input struct {
	mu       sync.Mutex
	handlers []func(upload.ChangeEvent)
}

func (i *input) OnChange(fn func(upload.ChangeEvent)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.handlers = append(i.handlers, fn)
}

func (i *input) fire(ev upload.ChangeEvent) {
	i.mu.Lock()
	handlers := append([]func(upload.ChangeEvent){}, i.handlers...)
	i.mu.Unlock()
	for _, fn := range handlers {
		fn(ev)
	}
}

type container struct {
	doc  *Document
	id   string
	html string
}

func (c *container) SetHTML(html string) {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	c.html = html
	fmt.Fprintf(c.doc.out, "%s %s\n", idColor("#"+c.id), textColor(html))
}
