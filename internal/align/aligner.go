package align

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/beaconmap/internal/config"
	"github.com/banshee-data/beaconmap/internal/geom"
	"github.com/banshee-data/beaconmap/internal/scanner"
)

// NoAnchor is the Anchor of scanner 0, which defines the global frame.
const NoAnchor = -1

// Placement is a scanner's resolved pose. Once recorded it never changes.
type Placement struct {
	Scanner     int
	Anchor      int           // scanner this one was matched against
	Rotation    geom.Rotation // local readings -> global orientation
	Translation geom.Vector3  // scanner position in the global frame
}

// pair is a (candidate, anchor) combination known not to overlap.
type pair struct {
	candidate, anchor int
}

// searchOutcome is what one candidate's search produced in a round.
type searchOutcome struct {
	found    bool
	anchor   int
	rotation geom.Rotation
	offset   geom.Vector3 // relative to the anchor's position
	misses   []int
}

// Aligner drives a run. It is not safe for concurrent use; Run manages
// its own worker goroutines.
type Aligner struct {
	scanners   []scanner.Scanner
	oriented   [][geom.NumRotations][]geom.Vector3
	minOverlap int
	workers    int
	logger     zerolog.Logger

	placements map[int]Placement
	order      []int          // scanner ids in placement order
	anchors    map[int]*Cloud // placed readings, global orientation, anchor-relative
	beacons    map[geom.Vector3]struct{}
	tried      map[pair]struct{}
	rounds     int
}

// Option configures an Aligner.
type Option func(*Aligner)

// WithMinOverlap sets the shared-beacon threshold. Values below 1 are
// ignored.
func WithMinOverlap(n int) Option {
	return func(a *Aligner) {
		if n >= 1 {
			a.minOverlap = n
		}
	}
}

// WithWorkers sets how many candidates are searched concurrently in a
// round. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(a *Aligner) {
		if n >= 1 {
			a.workers = n
		}
	}
}

// WithLogger sets the logger used for round and placement events.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Aligner) {
		a.logger = l
	}
}

// WithConfig applies min_overlap and workers from cfg.
func WithConfig(cfg *config.AlignConfig) Option {
	return func(a *Aligner) {
		if cfg == nil {
			return
		}
		WithMinOverlap(cfg.GetMinOverlap())(a)
		WithWorkers(cfg.GetWorkers())(a)
	}
}

// New prepares a run over scanners. Every scanner's 24 orientations are
// computed here, once. Scanner 0 is placed immediately with the identity
// rotation at the origin.
func New(scanners []scanner.Scanner, opts ...Option) *Aligner {
	a := &Aligner{
		scanners:   scanners,
		oriented:   make([][geom.NumRotations][]geom.Vector3, len(scanners)),
		minOverlap: config.DefaultMinOverlap,
		workers:    config.DefaultWorkers,
		logger:     zerolog.Nop(),
		placements: make(map[int]Placement, len(scanners)),
		anchors:    make(map[int]*Cloud, len(scanners)),
		beacons:    make(map[geom.Vector3]struct{}),
		tried:      make(map[pair]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	for i, s := range scanners {
		a.oriented[i] = s.Orientations()
	}
	if len(scanners) > 0 {
		a.commit(Placement{Scanner: 0, Anchor: NoAnchor, Rotation: geom.Identity, Translation: geom.Zero})
	}
	return a
}

// MinOverlap returns the threshold in use.
func (a *Aligner) MinOverlap() int {
	return a.minOverlap
}

// Placed reports whether scanner id has a placement.
func (a *Aligner) Placed(id int) bool {
	_, ok := a.placements[id]
	return ok
}

// Placement returns scanner id's placement, if any.
func (a *Aligner) Placement(id int) (Placement, bool) {
	p, ok := a.placements[id]
	return p, ok
}

// Run places scanners round by round until all are placed. If a round
// places nothing, Run stops with an error wrapping ErrDisconnected. The
// returned Result is always non-nil once scanners exist, so callers can
// inspect a partial run.
func (a *Aligner) Run(ctx context.Context) (*Result, error) {
	if len(a.scanners) == 0 {
		return nil, ErrNoScannersToAlign
	}
	for len(a.order) < len(a.scanners) {
		if err := ctx.Err(); err != nil {
			return a.Result(), fmt.Errorf("align: round %d: %w", a.rounds+1, err)
		}
		placed, err := a.Step(ctx)
		if err != nil {
			return a.Result(), err
		}
		if placed == 0 {
			unplaced := a.unplaced()
			a.logger.Warn().
				Ints("unplaced", unplaced).
				Int("round", a.rounds).
				Msg("round placed no scanners")
			return a.Result(), fmt.Errorf("%w: scanners %v share fewer than %d beacons with every placed scanner",
				ErrDisconnected, unplaced, a.minOverlap)
		}
	}
	a.logger.Info().
		Int("scanners", len(a.scanners)).
		Int("rounds", a.rounds).
		Int("beacons", len(a.beacons)).
		Msg("all scanners placed")
	return a.Result(), nil
}

// Step runs one round and returns how many scanners it placed.
func (a *Aligner) Step(ctx context.Context) (int, error) {
	snapshot := append([]int(nil), a.order...)
	candidates := a.unplaced()
	outcomes := make([]searchOutcome, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, id := range candidates {
		i, id := i, id
		g.Go(func() error {
			out, err := a.search(gctx, id, snapshot, true)
			outcomes[i] = out
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("align: round %d: %w", a.rounds+1, err)
	}

	placed := 0
	for i, id := range candidates {
		out := outcomes[i]
		for _, anchor := range out.misses {
			a.tried[pair{candidate: id, anchor: anchor}] = struct{}{}
		}
		if !out.found {
			continue
		}
		a.commit(Placement{
			Scanner:     id,
			Anchor:      out.anchor,
			Rotation:    out.rotation,
			Translation: a.placements[out.anchor].Translation.Add(out.offset),
		})
		placed++
	}
	a.rounds++

	a.logger.Debug().
		Int("round", a.rounds).
		Int("placed", placed).
		Int("remaining", len(a.scanners)-len(a.order)).
		Msg("round complete")
	return placed, nil
}

// Locate repeats the placement search for scanner id against every other
// placed scanner, ignoring remembered misses, and returns what it would
// record. It does not change the aligner's state.
func (a *Aligner) Locate(id int) (Placement, bool) {
	if id < 0 || id >= len(a.scanners) {
		return Placement{}, false
	}
	out, err := a.search(context.Background(), id, a.order, false)
	if err != nil || !out.found {
		return Placement{}, false
	}
	return Placement{
		Scanner:     id,
		Anchor:      out.anchor,
		Rotation:    out.rotation,
		Translation: a.placements[out.anchor].Translation.Add(out.offset),
	}, true
}

// search tries candidate id against anchors in order. It only reads
// aligner state.
func (a *Aligner) search(ctx context.Context, id int, anchors []int, skipTried bool) (searchOutcome, error) {
	var out searchOutcome
	for _, anchor := range anchors {
		if anchor == id {
			continue
		}
		if skipTried {
			if _, skip := a.tried[pair{candidate: id, anchor: anchor}]; skip {
				continue
			}
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}
		rot, offset, ok := MatchOriented(a.anchors[anchor], &a.oriented[id], a.minOverlap)
		if !ok {
			out.misses = append(out.misses, anchor)
			continue
		}
		out.found = true
		out.anchor = anchor
		out.rotation = rot
		out.offset = offset
		return out, nil
	}
	return out, nil
}

// commit records p and merges the scanner's beacons into the global set.
func (a *Aligner) commit(p Placement) {
	readings := a.oriented[p.Scanner][p.Rotation]
	a.placements[p.Scanner] = p
	a.order = append(a.order, p.Scanner)
	a.anchors[p.Scanner] = NewCloud(readings)
	for _, r := range readings {
		a.beacons[r.Add(p.Translation)] = struct{}{}
	}

	a.logger.Debug().
		Int("scanner", p.Scanner).
		Int("anchor", p.Anchor).
		Uint8("rotation", uint8(p.Rotation)).
		Str("position", p.Translation.String()).
		Msg("scanner placed")
}

func (a *Aligner) unplaced() []int {
	var ids []int
	for i := range a.scanners {
		if _, ok := a.placements[i]; !ok {
			ids = append(ids, i)
		}
	}
	return ids
}
