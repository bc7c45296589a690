package donedone

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/SeniorPomidorro/donedone-go-kit/pkg/result"
)

// Metrics counts API call outcomes and conflict retries. A nil *Metrics
// records nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	conflicts *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "donedone_requests_total", Help: "API calls by operation and outcome"},
			[]string{"operation", "outcome"},
		),
		conflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "donedone_conflict_retries_total", Help: "Retries caused by 409 Conflict"},
			[]string{"operation"},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, collector := range []prometheus.Collector{m.requests, m.conflicts} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("donedone: register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) observe(operation string, kind result.Kind) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, kind.String()).Inc()
}

func (m *Metrics) conflict(operation string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(operation).Inc()
}
