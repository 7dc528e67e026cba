// Package metrics exposes the solver's optional prometheus sink: quote PnL,
// per-outcome fill-step counts, and fill duration. Nil-safe — a deployment
// that never calls NewSink simply never serves these series.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Sink is the metrics surface FillerObserver writes filler step outcomes to.
// A nil *Sink is a no-op; a Sink not built by NewSink has nil collectors and
// is not.
type Sink struct {
	quotePnlUsd      prometheus.Histogram
	fillStepTotal    *prometheus.CounterVec
	fillDurationSecs prometheus.Histogram
}

// NewSink builds collectors and registers them against reg.
func NewSink(reg prometheus.Registerer) (*Sink, error) {
	s := &Sink{
		quotePnlUsd: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quote_pnl_usd",
			Help:    "Estimated solver profit in USD for a produced quote.",
			Buckets: prometheus.LinearBuckets(-50, 10, 20),
		}),
		fillStepTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fill_step_total",
			Help: "Count of filler step outcomes by terminal state.",
		}, []string{"outcome"}),
		fillDurationSecs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fill_duration_seconds",
			Help:    "Wall-clock time to fill one order end to end.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{s.quotePnlUsd, s.fillStepTotal, s.fillDurationSecs} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Sink) ObserveQuotePnlUsd(usd float64) {
	if s == nil {
		return
	}
	s.quotePnlUsd.Observe(usd)
}

func (s *Sink) IncFillStep(outcome string) {
	if s == nil {
		return
	}
	s.fillStepTotal.WithLabelValues(outcome).Inc()
}

func (s *Sink) ObserveFillDuration(seconds float64) {
	if s == nil {
		return
	}
	s.fillDurationSecs.Observe(seconds)
}
