package telemetry

import "log/slog"

// EventSink receives the viable-replicator population transition
// messages, decoupled from the report writer so a headless run can
// route them to slog while a future sink could route them elsewhere.
type EventSink interface {
	ViableReplicatorsExtinct()
	ViableReplicatorsAppeared()
}

// SlogEventSink logs transitions at Warn level, the teacher's severity
// for population-health events that don't halt the run.
type SlogEventSink struct {
	Logger *slog.Logger
}

// ViableReplicatorsExtinct logs the extinction transition, worded
// after the reference implementation's own console message.
func (s SlogEventSink) ViableReplicatorsExtinct() {
	s.Logger.Warn("Viable replicators have gone extinct. Please reserve a moment of silence.")
}

// ViableReplicatorsAppeared logs the appearance transition.
func (s SlogEventSink) ViableReplicatorsAppeared() {
	s.Logger.Warn("Viable replicators have appeared!")
}

// TransitionTracker watches the viable-replicator count across reports
// and fires sink callbacks on a 0→positive or positive→0 edge.
type TransitionTracker struct {
	sink        EventSink
	wasPositive bool
}

// NewTransitionTracker returns a tracker starting from zero viable
// replicators.
func NewTransitionTracker(sink EventSink) *TransitionTracker {
	return &TransitionTracker{sink: sink}
}

// Observe feeds the current report's viable replicator count and
// fires the appropriate transition event, if any.
func (t *TransitionTracker) Observe(viableReplicators uint64) {
	isPositive := viableReplicators > 0
	if isPositive == t.wasPositive {
		return
	}
	if isPositive {
		t.sink.ViableReplicatorsAppeared()
	} else {
		t.sink.ViableReplicatorsExtinct()
	}
	t.wasPositive = isPositive
}
