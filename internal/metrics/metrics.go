// Package metrics holds the domain counters exported next to the HTTP
// request metrics. All methods are safe on a nil *Metrics so components can
// be built without instrumentation in tests.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the document and share counters.
type Metrics struct {
	uploads         *prometheus.CounterVec
	downloads       prometheus.Counter
	shareOps        *prometheus.CounterVec
	shareResolves   *prometheus.CounterVec
	orphanedObjects prometheus.Counter
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docshare_uploads_total",
				Help: "Uploads handled, split by whether new content was stored or an existing document was reused.",
			},
			[]string{"result"},
		),
		downloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docshare_downloads_total",
			Help: "Completed document downloads.",
		}),
		shareOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docshare_share_operations_total",
				Help: "Share link mutations by operation.",
			},
			[]string{"op"},
		),
		shareResolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docshare_share_resolutions_total",
				Help: "Inbound share link resolutions by outcome.",
			},
			[]string{"outcome"},
		),
		orphanedObjects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docshare_orphaned_objects_total",
			Help: "Objects written to the store whose metadata row was never committed.",
		}),
	}

	for _, c := range []prometheus.Collector{m.uploads, m.downloads, m.shareOps, m.shareResolves, m.orphanedObjects} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Upload records an upload; reused is true when dedup returned an existing document.
func (m *Metrics) Upload(reused bool) {
	if m == nil {
		return
	}
	result := "created"
	if reused {
		result = "reused"
	}
	m.uploads.WithLabelValues(result).Inc()
}

// Download records a completed download.
func (m *Metrics) Download() {
	if m == nil {
		return
	}
	m.downloads.Inc()
}

// ShareOp records a share mutation ("create" or "revoke").
func (m *Metrics) ShareOp(op string) {
	if m == nil {
		return
	}
	m.shareOps.WithLabelValues(op).Inc()
}

// ShareResolve records the outcome of a share lookup ("ok", "not_found", "forbidden", "error").
func (m *Metrics) ShareResolve(outcome string) {
	if m == nil {
		return
	}
	m.shareResolves.WithLabelValues(outcome).Inc()
}

// OrphanedObject records a blob left without metadata.
func (m *Metrics) OrphanedObject() {
	if m == nil {
		return
	}
	m.orphanedObjects.Inc()
}
