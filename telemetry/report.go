package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// ReportRow is one flattened CSV record: exactly 25 fields, no header,
// matching the field order the report format fixes. Ratio fields are
// pre-formatted to four decimals as strings rather than left as
// float64, since gocsv would otherwise round-trip Go's default float
// formatting instead of the fixed width the format requires.
type ReportRow struct {
	Clock               uint64 `csv:"clock"`
	TotalEnergy         uint64 `csv:"total_energy"`
	AliveCells          uint64 `csv:"alive_cells"`
	ViableReplicators   uint64 `csv:"viable_replicators"`
	MaxGeneration       uint64 `csv:"max_generation"`
	ViableReplaced      uint64 `csv:"viable_replaced"`
	ViableKilled        uint64 `csv:"viable_killed"`
	ViableShares        uint64 `csv:"viable_shares"`
	InstrRatio0         string `csv:"instr_ratio_0"`
	InstrRatio1         string `csv:"instr_ratio_1"`
	InstrRatio2         string `csv:"instr_ratio_2"`
	InstrRatio3         string `csv:"instr_ratio_3"`
	InstrRatio4         string `csv:"instr_ratio_4"`
	InstrRatio5         string `csv:"instr_ratio_5"`
	InstrRatio6         string `csv:"instr_ratio_6"`
	InstrRatio7         string `csv:"instr_ratio_7"`
	InstrRatio8         string `csv:"instr_ratio_8"`
	InstrRatio9         string `csv:"instr_ratio_9"`
	InstrRatio10        string `csv:"instr_ratio_10"`
	InstrRatio11        string `csv:"instr_ratio_11"`
	InstrRatio12        string `csv:"instr_ratio_12"`
	InstrRatio13        string `csv:"instr_ratio_13"`
	InstrRatio14        string `csv:"instr_ratio_14"`
	InstrRatio15        string `csv:"instr_ratio_15"`
	MetabolismRatio     string `csv:"metabolism_ratio"`
}

// ratio formats n/d to four decimals, or "0.0000" if d is zero.
func ratio(n, d uint64) string {
	if d == 0 {
		return "0.0000"
	}
	return fmt.Sprintf("%.4f", float64(n)/float64(d))
}

// BuildReportRow combines a pond snapshot and the collector's current
// window counts into one report row. It does not reset the collector;
// callers reset separately once the row has been written.
func BuildReportRow(clock uint64, snap Snapshot, c *Collector) ReportRow {
	row := ReportRow{
		Clock:             clock,
		TotalEnergy:       snap.TotalEnergy,
		AliveCells:        snap.AliveCells,
		ViableReplicators: snap.ViableReplicators,
		MaxGeneration:     snap.MaxGeneration,
		ViableReplaced:    c.viableReplaced,
		ViableKilled:      c.viableKilled,
		ViableShares:      c.viableShares,
	}

	ratios := [NumOpcodes]string{}
	var sum uint64
	for i, n := range c.instr {
		ratios[i] = ratio(n, c.cellExecutions)
		sum += n
	}
	row.InstrRatio0 = ratios[0]
	row.InstrRatio1 = ratios[1]
	row.InstrRatio2 = ratios[2]
	row.InstrRatio3 = ratios[3]
	row.InstrRatio4 = ratios[4]
	row.InstrRatio5 = ratios[5]
	row.InstrRatio6 = ratios[6]
	row.InstrRatio7 = ratios[7]
	row.InstrRatio8 = ratios[8]
	row.InstrRatio9 = ratios[9]
	row.InstrRatio10 = ratios[10]
	row.InstrRatio11 = ratios[11]
	row.InstrRatio12 = ratios[12]
	row.InstrRatio13 = ratios[13]
	row.InstrRatio14 = ratios[14]
	row.InstrRatio15 = ratios[15]
	row.MetabolismRatio = ratio(sum, c.cellExecutions)

	return row
}

// Writer appends report rows to <dir>/report.csv without ever writing
// a header row, per the report format.
type Writer struct {
	file *os.File
}

// NewWriter opens (creating if necessary) <dir>/report.csv for
// append. dir is created if it does not already exist.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "report.csv"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening report.csv: %w", err)
	}
	return &Writer{file: f}, nil
}

// Write appends one row.
func (w *Writer) Write(row ReportRow) error {
	if err := gocsv.MarshalWithoutHeaders([]ReportRow{row}, w.file); err != nil {
		return fmt.Errorf("writing report row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	return w.file.Close()
}
