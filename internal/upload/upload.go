// Package upload wires file inputs to preview containers and upload
// endpoints. A change on a bound input renders a preview fragment right away
// and hands the file to a Dispatcher for a multipart POST whose outcome is
// never inspected.
package upload

import (
	"errors"
	"io"
)

// FieldName is the multipart field carrying the selected file.
const FieldName = "file"

var (
	// ErrElementNotFound is returned when a bound input or preview id is
	// missing from the document.
	ErrElementNotFound = errors.New("element not found")
	// ErrEmptyEndpoint is returned for a binding without an endpoint path.
	ErrEmptyEndpoint = errors.New("empty endpoint")
)

// FileSelection is a file picked in an input control.
type FileSelection struct {
	Name string
	Size int64
	// Open returns the file content. It is only called from the
	// dispatched upload task.
	Open func() (io.ReadCloser, error)
}

// ChangeEvent is delivered when the selection of an input changes. Files
// is empty when the selection was cleared or cancelled.
type ChangeEvent struct {
	Files []FileSelection
}

// First returns the first selected file, if any.
func (e ChangeEvent) First() (FileSelection, bool) {
	if len(e.Files) == 0 {
		return FileSelection{}, false
	}
	return e.Files[0], true
}

// Input is a file-input control.
type Input interface {
	OnChange(fn func(ChangeEvent))
}

// Container is an element whose content is replaced by previews.
type Container interface {
	SetHTML(html string)
}

// Document resolves bound elements by id.
type Document interface {
	Input(id string) (Input, error)
	Container(id string) (Container, error)
}

// Binding ties one input to its preview container and endpoint.
type Binding struct {
	InputID   string `mapstructure:"input_id" json:"input_id"`
	PreviewID string `mapstructure:"preview_id" json:"preview_id"`
	Endpoint  string `mapstructure:"endpoint" json:"endpoint"`
}

// DefaultBindings returns the syllabus and notes bindings.
func DefaultBindings() []Binding {
	return []Binding{
		{InputID: "syllabusFile", PreviewID: "syllabusPreview", Endpoint: "/upload/syllabus"},
		{InputID: "notesFile", PreviewID: "notesPreview", Endpoint: "/upload/notes"},
	}
}
