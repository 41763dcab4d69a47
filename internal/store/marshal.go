package store

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/moneytck/internal/report"
)

// marshalReport converts a report to JSON TEXT for storage.
func marshalReport(r *report.Report) (string, error) {
	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, r); err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalReport parses JSON TEXT to a report, verifying its digest.
func unmarshalReport(data string) (*report.Report, error) {
	r, err := report.Parse([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return r, nil
}

// Timestamps are stored as Unix nanoseconds.
func toNanos(t time.Time) int64 { return t.UTC().UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }
