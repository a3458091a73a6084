package we

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	calls     *prometheus.CounterVec
	conflicts prometheus.Counter
	duration  *prometheus.HistogramVec
}

func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contract",
			Name:      "calls",
			Help:      "number of contract calls by method and result",
		}, []string{"contract", "method", "result"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "contract",
			Name:      "revision_conflicts",
			Help:      "number of saves rejected by a concurrent revision",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "contract",
			Name:      "call_duration_seconds",
			Help:      "time to load, execute and save a contract call",
			Buckets:   prometheus.DefBuckets,
		}, []string{"contract", "method"}),
	}

	for _, c := range []prometheus.Collector{m.calls, m.conflicts, m.duration} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observe(contract ContractName, method MethodName, started time.Time, err error) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}

	m.calls.WithLabelValues(contract.String(), method.String(), result).Inc()
	m.duration.WithLabelValues(contract.String(), method.String()).Observe(time.Since(started).Seconds())
}

func (m *Metrics) conflict() {
	if m == nil {
		return
	}

	m.conflicts.Inc()
}
