package upload

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer records handler activity. It sees dispatches, not upload
// outcomes.
type Observer interface {
	PreviewRendered(binding Binding)
	UploadDispatched(binding Binding, sizeBytes int64)
}

type nopObserver struct{}

func (nopObserver) PreviewRendered(Binding)         {}
func (nopObserver) UploadDispatched(Binding, int64) {}

// PrometheusObserver exports handler counters to Prometheus.
type PrometheusObserver struct {
	previews        *prometheus.CounterVec
	dispatches      *prometheus.CounterVec
	dispatchedBytes *prometheus.CounterVec
}

// NewPrometheusObserver registers the handler counters on reg.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "path2learn"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	observer := &PrometheusObserver{
		previews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "previews_rendered_total",
			Help:      "Preview fragments written, by input.",
		}, []string{"input"}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_dispatched_total",
			Help:      "Uploads handed to the dispatcher, by endpoint.",
		}, []string{"endpoint"}),
		dispatchedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_dispatched_bytes_total",
			Help:      "Size of files handed to the dispatcher, by endpoint.",
		}, []string{"endpoint"}),
	}

	collectors := map[string]**prometheus.CounterVec{
		"previews":   &observer.previews,
		"dispatches": &observer.dispatches,
		"bytes":      &observer.dispatchedBytes,
	}
	for name, slot := range collectors {
		if err := reg.Register(*slot); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, fmt.Errorf("register %s metric: %w", name, err)
			}
			existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, fmt.Errorf("register %s metric: %w", name, err)
			}
			*slot = existing
		}
	}
	return observer, nil
}

// PreviewRendered counts a preview write for the binding's input.
func (o *PrometheusObserver) PreviewRendered(binding Binding) {
	o.previews.WithLabelValues(binding.InputID).Inc()
}

// UploadDispatched counts a dispatched upload and its size for the binding's endpoint.
func (o *PrometheusObserver) UploadDispatched(binding Binding, sizeBytes int64) {
	o.dispatches.WithLabelValues(binding.Endpoint).Inc()
	if sizeBytes > 0 {
		o.dispatchedBytes.WithLabelValues(binding.Endpoint).Add(float64(sizeBytes))
	}
}
