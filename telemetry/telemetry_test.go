package telemetry

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/rountree/nanopond/pond"
)

func newTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}

func TestScanCountsOnlyAliveCells(t *testing.T) {
	p := pond.New(4, 4, 16)
	p.At(0, 0).Energy = 5
	p.At(1, 0).Energy = 0
	p.At(2, 0).Energy = 3
	p.At(2, 0).Generation = 3

	snap := Scan(p)
	if snap.AliveCells != 2 {
		t.Fatalf("AliveCells = %d, want 2", snap.AliveCells)
	}
	if snap.TotalEnergy != 8 {
		t.Fatalf("TotalEnergy = %d, want 8", snap.TotalEnergy)
	}
	if snap.ViableReplicators != 1 {
		t.Fatalf("ViableReplicators = %d, want 1", snap.ViableReplicators)
	}
	if snap.MaxGeneration != 3 {
		t.Fatalf("MaxGeneration = %d, want 3", snap.MaxGeneration)
	}
}

func TestBuildReportRowZeroExecutionsGuards(t *testing.T) {
	c := &Collector{}
	row := BuildReportRow(0, Snapshot{}, c)
	if row.InstrRatio0 != "0.0000" || row.MetabolismRatio != "0.0000" {
		t.Fatalf("expected 0.0000 guards, got %q / %q", row.InstrRatio0, row.MetabolismRatio)
	}
}

func TestBuildReportRowRatiosFourDecimals(t *testing.T) {
	c := &Collector{}
	c.RecordCellExecution()
	c.RecordCellExecution()
	c.RecordCellExecution()
	c.RecordInstruction(0)
	c.RecordInstruction(0)

	row := BuildReportRow(42, Snapshot{}, c)
	if row.InstrRatio0 != "0.6667" {
		t.Fatalf("InstrRatio0 = %q, want 0.6667", row.InstrRatio0)
	}
	if row.Clock != 42 {
		t.Fatalf("Clock = %d, want 42", row.Clock)
	}
}

func TestBuildReportRowCarriesEventCounts(t *testing.T) {
	c := &Collector{}
	c.RecordViableKilled()
	c.RecordViableShares()
	c.RecordViableShares()
	c.RecordViableReplaced()

	row := BuildReportRow(1, Snapshot{}, c)
	if row.ViableKilled != 1 || row.ViableShares != 2 || row.ViableReplaced != 1 {
		t.Fatalf("unexpected event counts in row: %+v", row)
	}
}

func TestCollectorReset(t *testing.T) {
	c := &Collector{}
	c.RecordInstruction(3)
	c.RecordCellExecution()
	c.Reset()
	if c.instr[3] != 0 || c.cellExecutions != 0 {
		t.Fatal("Reset did not zero counters")
	}
}

type recordingSink struct {
	events []string
}

func (r *recordingSink) ViableReplicatorsExtinct()  { r.events = append(r.events, "extinct") }
func (r *recordingSink) ViableReplicatorsAppeared() { r.events = append(r.events, "appeared") }

func TestTransitionTrackerFiresOnEdgesOnly(t *testing.T) {
	sink := &recordingSink{}
	tr := NewTransitionTracker(sink)

	tr.Observe(0)
	tr.Observe(0)
	tr.Observe(5)
	tr.Observe(3)
	tr.Observe(0)
	tr.Observe(0)
	tr.Observe(1)

	want := []string{"appeared", "extinct", "appeared"}
	if len(sink.events) != len(want) {
		t.Fatalf("events = %v, want %v", sink.events, want)
	}
	for i := range want {
		if sink.events[i] != want[i] {
			t.Fatalf("events = %v, want %v", sink.events, want)
		}
	}
}

func TestSlogEventSinkMessages(t *testing.T) {
	var buf strings.Builder
	logger := newTestLogger(&buf)
	sink := SlogEventSink{Logger: logger}

	sink.ViableReplicatorsExtinct()
	if !strings.Contains(buf.String(), "moment of silence") {
		t.Fatalf("extinct message missing expected text: %s", buf.String())
	}

	buf.Reset()
	sink.ViableReplicatorsAppeared()
	if !strings.Contains(buf.String(), "appeared") {
		t.Fatalf("appeared message missing expected text: %s", buf.String())
	}
}
