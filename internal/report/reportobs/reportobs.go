// Package reportobs provides observability middleware for the reporter.
package reportobs

import (
	"context"
	"time"

	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/logger"
	"kalshi-hedge-fund/internal/trace"
)

type observableReporter struct {
	reporter interfaces.Reporter
}

var _ interfaces.Reporter = (*observableReporter)(nil)

func Wrap(reporter interfaces.Reporter) interfaces.Reporter {
	return &observableReporter{
		reporter: reporter,
	}
}

func (or *observableReporter) SummarizeDay(t time.Time) (string, error) {
	ctx := context.Background()
	ctx, span := trace.StartSpan(ctx, "report.SummarizeDay")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Starting daily trade summary",
		"date", t.UTC().Format("2006-01-02"),
	)

	csvPath, err := or.reporter.SummarizeDay(t)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Daily trade summary failed", err,
			"date", t.UTC().Format("2006-01-02"),
		)
		return "", err
	}

	if csvPath == "" {
		logger.InfoSkip(ctx, 1, "No trades found for daily summary",
			"date", t.UTC().Format("2006-01-02"),
		)
		return "", nil
	}

	logger.InfoSkip(ctx, 1, "Daily trade summary written",
		"date", t.UTC().Format("2006-01-02"),
		"csv_path", csvPath,
	)

	return csvPath, nil
}

func (or *observableReporter) SummarizeToday() (string, error) {
	ctx := context.Background()
	ctx, span := trace.StartSpan(ctx, "report.SummarizeToday")
	defer span.End()

	csvPath, err := or.reporter.SummarizeToday()
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Today's trade summary failed", err)
		return "", err
	}

	logger.DebugSkip(ctx, 1, "Today's trade summary completed",
		"csv_path", csvPath,
	)

	return csvPath, nil
}
