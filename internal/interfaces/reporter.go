package interfaces

import "time"

// Reporter aggregates a day's trade log into a CSV summary.
type Reporter interface {
	// SummarizeDay writes the summary for the given date and returns
	// the CSV path. An empty path with nil error means no trades.
	SummarizeDay(t time.Time) (csvPath string, err error)
	SummarizeToday() (csvPath string, err error)
}
