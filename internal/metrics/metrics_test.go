package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestFillerObserver_IncrementsCounterPerOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewSink(reg)
	require.NoError(t, err)

	obs := NewFillerObserver(sink)
	obs.StepStarted(0)
	obs.StepFinished(0, "completed")

	require.Equal(t, float64(1), testutil.ToFloat64(sink.fillStepTotal.WithLabelValues("completed")))
}

func TestNewSink_RegistersAllCollectorsExactlyOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewSink(reg)
	require.NoError(t, err)

	_, err = NewSink(reg)
	require.Error(t, err, "registering a second Sink against the same registry must collide")
}
