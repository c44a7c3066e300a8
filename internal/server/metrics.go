package server

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	proxied *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	proxied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "path2learn",
		Subsystem: "devserver",
		Name:      "upload_requests_total",
		Help:      "Upload POSTs received by the dev server, by endpoint and response status.",
	}, []string{"endpoint", "status"})

	if err := reg.Register(proxied); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, fmt.Errorf("register devserver metric: %w", err)
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("register devserver metric: %w", err)
		}
		proxied = existing
	}
	return &metrics{proxied: proxied}, nil
}
