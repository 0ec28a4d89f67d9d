package scanner

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/beaconmap/internal/geom"
)

// maxLineBytes bounds a single report line.
const maxLineBytes = 64 * 1024

// Parse reads a full report. Any malformed beacon line aborts the parse
// with a *ParseError; no partial result is returned.
func Parse(r io.Reader) ([]Scanner, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)

	var (
		scanners []Scanner
		current  *Scanner
		lineNo   int
	)
	flush := func() {
		if current != nil {
			scanners = append(scanners, *current)
			current = nil
		}
	}

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			flush()
			continue
		}
		if current == nil {
			current = &Scanner{ID: len(scanners), Header: line}
			continue
		}
		v, err := ParseVector(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		current.Beacons = append(current.Beacons, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanner: read report: %w", err)
	}
	flush()

	if len(scanners) == 0 {
		return nil, ErrNoScanners
	}
	return scanners, nil
}

// ParseString parses a report held in memory.
func ParseString(s string) ([]Scanner, error) {
	return Parse(strings.NewReader(s))
}

// ParseVector parses one "x,y,z" beacon reading.
func ParseVector(s string) (geom.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geom.Vector3{}, fmt.Errorf("%w: want 3 fields, got %d", ErrMalformedCoordinate, len(parts))
	}
	var xyz [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geom.Vector3{}, fmt.Errorf("%w: %w", ErrMalformedCoordinate, err)
		}
		xyz[i] = n
	}
	return geom.V(xyz[0], xyz[1], xyz[2]), nil
}
