package library

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts ledger activity on its own registry.
type Metrics struct {
	Registry *prometheus.Registry

	loansCreated    *prometheus.CounterVec
	penaltiesPosted prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		loansCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "library",
			Name:      "loans_created_total",
			Help:      "Loans created, by item kind.",
		}, []string{"kind"}),
		penaltiesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "library",
			Name:      "penalties_posted_total",
			Help:      "Sum of penalties debited to patrons at loan creation.",
		}),
	}
	m.Registry.MustRegister(m.loansCreated, m.penaltiesPosted)
	return m
}

// ObserveLoan implements LoanObserver.
func (m *Metrics) ObserveLoan(l *Loan, posted float64) error {
	m.loansCreated.WithLabelValues(l.Kind().String()).Inc()
	if posted > 0 {
		m.penaltiesPosted.Add(posted)
	}
	return nil
}

// Snapshot returns the current counter values keyed by metric name and,
// for labelled series, "name{kind}".
func (m *Metrics) Snapshot() (map[string]float64, error) {
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range metric.GetLabel() {
				key += "{" + lp.GetValue() + "}"
			}
			out[key] = metric.GetCounter().GetValue()
		}
	}
	return out, nil
}
