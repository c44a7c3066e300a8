package upload

import (
	"context"
	"fmt"

	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/logging"
	"github.com/sreevalligodiganuru08-collab/path2learn-smart-learning/internal/preview"
)

// Handler reacts to change events of one bound input.
type Handler struct {
	binding    Binding
	container  Container
	submitter  Submitter
	dispatcher Dispatcher
	observer   Observer
	logger     logging.Logger
}

// Binding returns the binding the handler serves.
func (h *Handler) Binding() Binding {
	return h.binding
}

// HandleChange renders the preview for the first selected file and
// dispatches its upload. An event without files changes nothing.
func (h *Handler) HandleChange(ev ChangeEvent) {
	file, ok := ev.First()
	if !ok {
		h.logger.Debug("%s: selection cleared", h.binding.InputID)
		return
	}
	h.logger.Debug("%s: selected %s (%d bytes)", h.binding.InputID, file.Name, file.Size)

	h.container.SetHTML(preview.Message(file.Name, file.Size))
	h.observer.PreviewRendered(h.binding)

	endpoint, submitter := h.binding.Endpoint, h.submitter
	h.dispatcher.Dispatch(func() {
		_ = submitter.Submit(context.Background(), endpoint, file)
	})
	h.observer.UploadDispatched(h.binding, file.Size)
}

// Binder attaches Handlers to documents.
type Binder struct {
	submitter  Submitter
	dispatcher Dispatcher
	observer   Observer
	logger     logging.Logger
}

// Option customises a Binder.
type Option func(*Binder)

// WithDispatcher replaces the default GoDispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(b *Binder) {
		if d != nil {
			b.dispatcher = d
		}
	}
}

// WithObserver records handler activity on o.
func WithObserver(o Observer) Option {
	return func(b *Binder) {
		if o != nil {
			b.observer = o
		}
	}
}

// WithLogger sets the binder and handler logger.
func WithLogger(l logging.Logger) Option {
	return func(b *Binder) {
		b.logger = logging.OrNop(l)
	}
}

// NewBinder returns a Binder that uploads through submitter.
func NewBinder(submitter Submitter, opts ...Option) *Binder {
	b := &Binder{
		submitter:  submitter,
		dispatcher: GoDispatcher{},
		observer:   nopObserver{},
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind resolves the binding's elements in doc and subscribes a Handler to
// the input's change events.
func (b *Binder) Bind(doc Document, binding Binding) (*Handler, error) {
	if binding.Endpoint == "" {
		return nil, fmt.Errorf("bind %s: %w", binding.InputID, ErrEmptyEndpoint)
	}
	input, err := doc.Input(binding.InputID)
	if err != nil {
		return nil, fmt.Errorf("bind %s: input: %w", binding.InputID, err)
	}
	container, err := doc.Container(binding.PreviewID)
	if err != nil {
		return nil, fmt.Errorf("bind %s: preview: %w", binding.InputID, err)
	}

	h := &Handler{
		binding:    binding,
		container:  container,
		submitter:  b.submitter,
		dispatcher: b.dispatcher,
		observer:   b.observer,
		logger:     b.logger,
	}
	input.OnChange(h.HandleChange)
	b.logger.Info("bound #%s -> #%s, POST %s", binding.InputID, binding.PreviewID, binding.Endpoint)
	return h, nil
}

// BindAll binds in order and stops at the first failure. Handlers bound
// before the failure stay attached and are returned with the error.
func (b *Binder) BindAll(doc Document, bindings []Binding) ([]*Handler, error) {
	handlers := make([]*Handler, 0, len(bindings))
	for _, binding := range bindings {
		h, err := b.Bind(doc, binding)
		if err != nil {
			return handlers, err
		}
		handlers = append(handlers, h)
	}
	return handlers, nil
}
