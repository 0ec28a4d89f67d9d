package version

import "testing"

func TestString(t *testing.T) {
	origV, origSHA, origTime := Version, GitSHA, BuildTime
	defer func() { Version, GitSHA, BuildTime = origV, origSHA, origTime }()

	Version, GitSHA, BuildTime = "1.2.3", "abc123", "2026-01-02T03:04:05Z"
	got := String("beaconmap")
	want := "beaconmap 1.2.3 (commit abc123, built 2026-01-02T03:04:05Z)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
