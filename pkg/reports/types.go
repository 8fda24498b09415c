package reports

import (
	"context"
	"io"
	"time"
)

type ReportType string

const (
	ReportTypeAnalyses ReportType = "analyses"
)

type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
)

type ReportParams struct {
	Start time.Time
	End   time.Time
	Limit int
}

type Generator interface {
	Generate(ctx context.Context, params ReportParams) (io.Reader, error)
}
