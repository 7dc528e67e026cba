package metrics

import "time"

// FillerObserver adapts a Sink into a filler.Observer without giving
// internal/metrics a dependency on the filler package itself (filler only
// needs the Observer interface's two methods).
type FillerObserver struct {
	Sink    *Sink
	started map[int]time.Time
}

func NewFillerObserver(sink *Sink) *FillerObserver {
	return &FillerObserver{Sink: sink, started: make(map[int]time.Time)}
}

func (o *FillerObserver) StepStarted(stepIndex int) {
	o.started[stepIndex] = time.Now()
}

func (o *FillerObserver) StepFinished(stepIndex int, outcome string) {
	o.Sink.IncFillStep(outcome)
	if start, ok := o.started[stepIndex]; ok {
		o.Sink.ObserveFillDuration(time.Since(start).Seconds())
		delete(o.started, stepIndex)
	}
}
