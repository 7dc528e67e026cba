package command

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xgr-network/xgr-solver/config"
	"github.com/xgr-network/xgr-solver/filler"
	"github.com/xgr-network/xgr-solver/internal/events"
	"github.com/xgr-network/xgr-solver/internal/metrics"
)

// fanoutObserver broadcasts to both the metrics sink and the websocket
// broadcaster, so filler only ever needs a single filler.Observer.
type fanoutObserver struct {
	metrics *metrics.FillerObserver
	events  *events.Broadcaster
}

func (f fanoutObserver) StepStarted(stepIndex int) {
	f.metrics.StepStarted(stepIndex)
	f.events.StepStarted(stepIndex)
}

func (f fanoutObserver) StepFinished(stepIndex int, outcome string) {
	f.metrics.StepFinished(stepIndex, outcome)
	f.events.StepFinished(stepIndex, outcome)
}

// StartObservability serves cfg.Server's metrics/events endpoints in the
// background and returns a filler.Observer wired to both.
func StartObservability(cfg config.Config) (filler.Observer, error) {
	sink, err := metrics.NewSink(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	broadcaster := events.NewBroadcaster()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	go func() { _ = http.ListenAndServe(cfg.Server.MetricsAddr, metricsMux) }()

	eventsMux := http.NewServeMux()
	eventsMux.HandleFunc("/events", broadcaster.Handler)
	go func() { _ = http.ListenAndServe(cfg.Server.EventsAddr, eventsMux) }()

	return fanoutObserver{metrics: metrics.NewFillerObserver(sink), events: broadcaster}, nil
}
