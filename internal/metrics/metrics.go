// Package metrics tracks poll and vote mutation counts plus mutation
// latency for the HTTP layer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	PollsCreated     prometheus.Counter
	PollsUpdated     prometheus.Counter
	PollsDeleted     prometheus.Counter
	VotesSubmitted   prometheus.Counter
	MutationDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PollsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "pollwise_polls_created_total",
			Help: "Total number of polls created",
		}),
		PollsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "pollwise_polls_updated_total",
			Help: "Total number of polls updated",
		}),
		PollsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pollwise_polls_deleted_total",
			Help: "Total number of polls deleted",
		}),
		VotesSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pollwise_votes_submitted_total",
			Help: "Total number of votes submitted",
		}),
		MutationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pollwise_mutation_duration_seconds",
			Help:    "Duration of poll and vote mutations",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
	}
}

// ObserveMutation records the duration of a named mutation. Call with
// time.Now() captured at the start of the operation.
func (m *Metrics) ObserveMutation(operation string, start time.Time) {
	m.MutationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
