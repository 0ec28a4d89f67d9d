// Package testutil provides shared test utilities and fixtures.
//
// The published five-scanner sample report lives in testdata/sample.txt
// and is embedded here so every package tests against the same bytes.
package testutil

import (
	_ "embed"
	"strings"
	"testing"

	"github.com/banshee-data/beaconmap/internal/geom"
)

//go:embed testdata/sample.txt
var sample string

// Known answers for the five-scanner sample.
const (
	SampleScannerCount = 5
	SampleBeaconCount  = 79
	SampleMaxDistance  = 3621

	// SampleTwoScannerBeacons is the merged count for scanners 0 and 1
	// alone: 25 + 25 readings sharing 12 beacons.
	SampleTwoScannerBeacons = 38
)

// SamplePositions are the published global positions of the sample's
// scanners, indexed by scanner ID.
var SamplePositions = []geom.Vector3{
	geom.V(0, 0, 0),
	geom.V(68, -1246, -43),
	geom.V(1105, -1205, 1229),
	geom.V(-92, -2380, -20),
	geom.V(-20, -1133, 1061),
}

// Sample returns the full five-scanner report.
func Sample() string {
	return sample
}

// SampleBlocks returns the first n scanner blocks of the sample report.
func SampleBlocks(n int) string {
	blocks := strings.Split(strings.TrimSpace(sample), "\n\n")
	if n > len(blocks) {
		n = len(blocks)
	}
	return strings.Join(blocks[:n], "\n\n") + "\n"
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
