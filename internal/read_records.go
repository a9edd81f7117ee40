// Package internal holds the batch loading shared by the CLI and the HTTP
// function.
package internal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"rowfold.dev/arrange/pkg/records"
)

// LineError describes one input line that failed to parse. A bad line
// never stops the rest of the batch.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

// ReadRecords parses newline-delimited "<record> <groups>" lines from r.
// Malformed lines are collected as LineErrors and the scan continues; blank
// lines are skipped. The returned error covers reader and context failure
// only.
func ReadRecords(ctx context.Context, r io.Reader) ([]records.RecordSpec, []LineError, error) {
	var (
		specs []records.RecordSpec
		fails []LineError
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rs, err := records.ParseLine(line)
		if err != nil {
			fails = append(fails, LineError{Line: lineNo, Text: line, Err: err})
			continue
		}
		specs = append(specs, rs)
	}
	return specs, fails, scanner.Err()
}
