package align

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/beaconmap/internal/config"
	"github.com/banshee-data/beaconmap/internal/geom"
	"github.com/banshee-data/beaconmap/internal/scanner"
	"github.com/banshee-data/beaconmap/internal/testutil"
)

func parseSample(t *testing.T, blocks int) []scanner.Scanner {
	t.Helper()
	scanners, err := scanner.ParseString(testutil.SampleBlocks(blocks))
	require.NoError(t, err)
	return scanners
}

func TestRun_Sample(t *testing.T) {
	a := New(parseSample(t, testutil.SampleScannerCount))
	res, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Complete())
	assert.Equal(t, testutil.SampleBeaconCount, res.BeaconCount())
	assert.Equal(t, testutil.SampleMaxDistance, res.MaxManhattan())
	assert.Equal(t, testutil.SamplePositions, res.Positions())
	assert.Empty(t, res.Unplaced())
	assert.Equal(t, 3, res.Rounds())
	assert.Equal(t, []int{0, 1, 3, 4, 2}, res.Order())
	assert.Len(t, res.Beacons(), testutil.SampleBeaconCount)

	wantRot := map[int]geom.Rotation{0: geom.Identity, 1: 5, 2: 4, 3: 5, 4: 20}
	for id, rot := range wantRot {
		p, ok := res.Placement(id)
		require.True(t, ok, "scanner %d not placed", id)
		assert.Equal(t, rot, p.Rotation, "scanner %d rotation", id)
	}
}

func TestRun_SampleChainAndDepths(t *testing.T) {
	res, err := New(parseSample(t, testutil.SampleScannerCount)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 4, 2}, res.Chain(2))
	assert.Equal(t, []int{0}, res.Chain(0))
	assert.Nil(t, res.Chain(99))

	want := map[int]int{0: 0, 1: 1, 3: 2, 4: 2, 2: 3}
	if diff := cmp.Diff(want, res.Depths()); diff != "" {
		t.Errorf("Depths mismatch (-want +got):\n%s", diff)
	}

	root, _ := res.Placement(0)
	assert.Equal(t, NoAnchor, root.Anchor)
	assert.Equal(t, geom.Zero, root.Translation)
}

func TestRun_TwoScanners(t *testing.T) {
	scanners := parseSample(t, 2)
	res, err := New(scanners).Run(context.Background())
	require.NoError(t, err)

	p, ok := res.Placement(1)
	require.True(t, ok)
	assert.Equal(t, geom.V(68, -1246, -43), p.Translation)
	assert.Equal(t, 0, p.Anchor)
	assert.Equal(t, geom.V(-1, 1, -1), p.Rotation.Apply(geom.V(1, 1, 1)))

	assert.Equal(t, testutil.SampleTwoScannerBeacons, res.BeaconCount())
	assert.Equal(t, scanners[0].Len()+scanners[1].Len()-12, res.BeaconCount())

	// Published overlap, first pair in each frame.
	assert.Contains(t, res.Beacons(), geom.V(-618, -824, -621))
	assert.Equal(t, geom.V(-618, -824, -621), p.Rotation.Apply(geom.V(686, 422, 578)).Add(p.Translation))
}

func TestRun_WorkersAgree(t *testing.T) {
	serial, err := New(parseSample(t, 5), WithWorkers(1)).Run(context.Background())
	require.NoError(t, err)
	parallel, err := New(parseSample(t, 5), WithWorkers(4)).Run(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(serial.Placements(), parallel.Placements()); diff != "" {
		t.Errorf("placements differ between 1 and 4 workers (-serial +parallel):\n%s", diff)
	}
	assert.Equal(t, serial.Beacons(), parallel.Beacons())
}

func TestRun_ScannerTooSmallIsNeverPlaced(t *testing.T) {
	scanners := parseSample(t, 2)
	// Eleven of scanner 0's own readings: a true overlap, one short.
	small := scanner.Scanner{ID: 2, Beacons: append([]geom.Vector3(nil), scanners[0].Beacons[:11]...)}
	scanners = append(scanners, small)

	a := New(scanners)
	var res *Result
	var err error
	require.NotPanics(t, func() { res, err = a.Run(context.Background()) })

	assert.ErrorIs(t, err, ErrDisconnected)
	require.NotNil(t, res)
	assert.False(t, res.Complete())
	assert.Equal(t, []int{2}, res.Unplaced())
	assert.False(t, a.Placed(2))
	assert.True(t, a.Placed(1))
	assert.Equal(t, testutil.SampleTwoScannerBeacons, res.BeaconCount())
}

func TestRun_RepeatedReadingsCountOnce(t *testing.T) {
	base := parseSample(t, 1)[0]
	// Eleven distinct shared beacons, one of them reported twice.
	readings := append([]geom.Vector3(nil), base.Beacons[:11]...)
	readings = append(readings, base.Beacons[0])
	scanners := []scanner.Scanner{base, {ID: 1, Beacons: readings}}

	res, err := New(scanners).Run(context.Background())
	assert.ErrorIs(t, err, ErrDisconnected)
	require.NotNil(t, res)
	assert.False(t, res.Complete())
	assert.Equal(t, []int{1}, res.Unplaced())
}

func TestRun_SmallScannerPlacedWithLowerThreshold(t *testing.T) {
	scanners := parseSample(t, 2)
	small := scanner.Scanner{ID: 2, Beacons: append([]geom.Vector3(nil), scanners[0].Beacons[:11]...)}
	scanners = append(scanners, small)

	cfg := config.DefaultAlignConfig()
	eleven := 11
	cfg.MinOverlap = &eleven

	a := New(scanners, WithConfig(cfg))
	assert.Equal(t, 11, a.MinOverlap())
	res, err := a.Run(context.Background())
	require.NoError(t, err)

	p, _ := res.Placement(2)
	assert.Equal(t, geom.Zero, p.Translation)
	assert.Equal(t, geom.Identity, p.Rotation)
}

func TestLocate_Idempotent(t *testing.T) {
	a := New(parseSample(t, 5))
	res, err := a.Run(context.Background())
	require.NoError(t, err)

	for _, want := range res.Placements() {
		got, ok := a.Locate(want.Scanner)
		require.True(t, ok, "scanner %d not relocated", want.Scanner)
		assert.Equal(t, want.Rotation, got.Rotation, "scanner %d rotation", want.Scanner)
		assert.Equal(t, want.Translation, got.Translation, "scanner %d translation", want.Scanner)
		if want.Anchor != NoAnchor {
			assert.Equal(t, want.Anchor, got.Anchor, "scanner %d anchor", want.Scanner)
		}
	}

	// Locate must not disturb the run.
	after := a.Result()
	if diff := cmp.Diff(res.Placements(), after.Placements()); diff != "" {
		t.Errorf("Locate changed placements:\n%s", diff)
	}
	_, ok := a.Locate(-1)
	assert.False(t, ok)
}

func TestRun_RemembersMisses(t *testing.T) {
	a := New(parseSample(t, 5))
	_, err := a.Run(context.Background())
	require.NoError(t, err)

	want := map[pair]struct{}{
		{candidate: 2, anchor: 0}: {},
		{candidate: 3, anchor: 0}: {},
		{candidate: 4, anchor: 0}: {},
		{candidate: 2, anchor: 1}: {},
		{candidate: 2, anchor: 3}: {},
	}
	if diff := cmp.Diff(want, a.tried, cmp.AllowUnexported(pair{})); diff != "" {
		t.Errorf("tried pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Step(t *testing.T) {
	a := New(parseSample(t, 5))

	placed, err := a.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, placed)
	assert.True(t, a.Placed(1))

	placed, err = a.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, placed)

	// A snapshot taken now is not affected by later rounds.
	snap := a.Result()
	_, err = a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2}, snap.Unplaced())
	assert.Equal(t, 2, snap.Rounds())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(parseSample(t, 5)).Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled), "err = %v", err)
	require.NotNil(t, res)
	assert.Equal(t, []int{1, 2, 3, 4}, res.Unplaced())
}

func TestRun_NoScanners(t *testing.T) {
	res, err := New(nil).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoScannersToAlign)
	assert.Nil(t, res)
}

func TestRun_SingleScanner(t *testing.T) {
	res, err := New(parseSample(t, 1)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, res.BeaconCount())
	assert.Equal(t, 0, res.MaxManhattan())
	assert.Equal(t, 0, res.Rounds())
}

func TestOptions_IgnoreInvalid(t *testing.T) {
	a := New(nil, WithMinOverlap(0), WithWorkers(-3), WithConfig(nil))
	assert.Equal(t, config.DefaultMinOverlap, a.minOverlap)
	assert.Equal(t, config.DefaultWorkers, a.workers)
}
