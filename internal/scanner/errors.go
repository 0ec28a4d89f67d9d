package scanner

import (
	"errors"
	"fmt"
)

var (
	// ErrNoScanners indicates the report contained no scanner blocks.
	ErrNoScanners = errors.New("scanner: report contains no scanners")
	// ErrMalformedCoordinate indicates a beacon line is not three
	// comma-separated integers.
	ErrMalformedCoordinate = errors.New("scanner: malformed coordinate")
)

// ParseError reports the line that stopped a parse.
type ParseError struct {
	Line int    // 1-based line number in the report
	Text string // offending line, trimmed
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("scanner: line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
