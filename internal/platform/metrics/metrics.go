package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for posting and reversal counters.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Recorder receives engine events. The services depend on this interface only.
type Recorder interface {
	PostingCompleted(outcome string)
	ReversalCompleted(outcome string)
	// ConsistencyWarning counts reversals whose mirror entry was posted but whose
	// original could not be flipped to REVERSED.
	ConsistencyWarning()
	BalanceQueried()
}

// PrometheusRecorder exports engine events as Prometheus counters.
type PrometheusRecorder struct {
	postings            *prometheus.CounterVec
	reversals           *prometheus.CounterVec
	consistencyWarnings prometheus.Counter
	balanceQueries      prometheus.Counter
}

// NewPrometheusRecorder registers the ledger collectors on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		postings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "posting",
			Name:      "entries_total",
			Help:      "Total Post calls by outcome.",
		}, []string{"outcome"}),
		reversals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "reversal",
			Name:      "entries_total",
			Help:      "Total Reverse calls by outcome.",
		}, []string{"outcome"}),
		consistencyWarnings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "reversal",
			Name:      "consistency_warnings_total",
			Help:      "Reversals posted whose original entry was left POSTED.",
		}),
		balanceQueries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "balance",
			Name:      "queries_total",
			Help:      "Total account balance queries.",
		}),
	}
}

func (r *PrometheusRecorder) PostingCompleted(outcome string) {
	r.postings.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRecorder) ReversalCompleted(outcome string) {
	r.reversals.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRecorder) ConsistencyWarning() {
	r.consistencyWarnings.Inc()
}

func (r *PrometheusRecorder) BalanceQueried() {
	r.balanceQueries.Inc()
}

// NopRecorder discards every event.
type NopRecorder struct{}

func (NopRecorder) PostingCompleted(string)  {}
func (NopRecorder) ReversalCompleted(string) {}
func (NopRecorder) ConsistencyWarning()      {}
func (NopRecorder) BalanceQueried()          {}

var (
	_ Recorder = (*PrometheusRecorder)(nil)
	_ Recorder = NopRecorder{}
)
