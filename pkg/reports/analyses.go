package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/slipcast-io/slipcast/pkg/store"
)

// AnalysesReport generates CSV exports of the analysis audit log.
type AnalysesReport struct {
	store store.AnalysisStore
}

// NewAnalysesReport creates a new AnalysesReport generator.
func NewAnalysesReport(s store.AnalysisStore) *AnalysesReport {
	return &AnalysesReport{store: s}
}

// Generate creates a CSV report of recent analyses. Records outside the
// [Start, End] window are skipped; a zero window means no filtering.
func (r *AnalysesReport) Generate(ctx context.Context, params ReportParams) (io.Reader, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	headers := []string{"analysis_id", "kind", "ts_started", "node_count", "edge_count", "outcome", "duration_ms"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 500
	}
	records, err := r.store.RecentAnalyses(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}

	for _, rec := range records {
		if !params.Start.IsZero() && rec.TsStarted.Before(params.Start) {
			continue
		}
		if !params.End.IsZero() && rec.TsStarted.After(params.End) {
			continue
		}
		row := []string{
			rec.AnalysisID,
			string(rec.Kind),
			rec.TsStarted.Format(time.RFC3339),
			fmt.Sprintf("%d", rec.NodeCount),
			fmt.Sprintf("%d", rec.EdgeCount),
			rec.Outcome,
			fmt.Sprintf("%d", rec.DurationMs),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush writer: %w", err)
	}

	return buf, nil
}

// NewReportGenerator creates a report generator based on the report type.
func NewReportGenerator(reportType ReportType, s store.AnalysisStore) (Generator, error) {
	switch reportType {
	case ReportTypeAnalyses:
		return NewAnalysesReport(s), nil
	default:
		return nil, fmt.Errorf("unknown report type: %s", reportType)
	}
}
