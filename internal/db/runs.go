package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/beaconmap/internal/align"
	"github.com/banshee-data/beaconmap/internal/geom"
	"github.com/banshee-data/beaconmap/internal/timeutil"
)

// Run is the summary row of one persisted alignment.
type Run struct {
	RunID        string `json:"run_id"`
	InputName    string `json:"input_name"`
	ScannerCount int    `json:"scanner_count"`
	PlacedCount  int    `json:"placed_count"`
	BeaconCount  int    `json:"beacon_count"`
	MaxManhattan int    `json:"max_manhattan"`
	MinOverlap   int    `json:"min_overlap"`
	Rounds       int    `json:"rounds"`
	Complete     bool   `json:"complete"`
	CreatedAt    int64  `json:"created_at"`
}

// RunStore persists alignment results.
type RunStore struct {
	db    *DB
	clock timeutil.Clock
}

// NewRunStore creates a new RunStore stamping runs with the system clock.
func NewRunStore(db *DB) *RunStore {
	return NewRunStoreWithClock(db, timeutil.RealClock{})
}

// NewRunStoreWithClock creates a RunStore that stamps runs using clock.
func NewRunStoreWithClock(db *DB, clock timeutil.Clock) *RunStore {
	return &RunStore{db: db, clock: clock}
}

// Insert stores res under run in a single transaction. The summary
// fields of run are filled from res. If RunID is empty, a UUID is
// generated.
func (s *RunStore) Insert(run *Run, res *align.Result) error {
	if res == nil {
		return errors.New("insert run: nil result")
	}
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = s.clock.Now().UnixNano()
	}
	placements := res.Placements()
	depths := res.Depths()
	run.ScannerCount = res.ScannerCount()
	run.PlacedCount = len(placements)
	run.BeaconCount = res.BeaconCount()
	run.MaxManhattan = res.MaxManhattan()
	run.MinOverlap = res.MinOverlap()
	run.Rounds = res.Rounds()
	run.Complete = res.Complete()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin run %s: %w", run.RunID, err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO alignment_runs (
			run_id, input_name, scanner_count, placed_count, beacon_count,
			max_manhattan, min_overlap, rounds, complete, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.InputName, run.ScannerCount, run.PlacedCount, run.BeaconCount,
		run.MaxManhattan, run.MinOverlap, run.Rounds, run.Complete, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	placementStmt, err := tx.Prepare(`
		INSERT INTO alignment_placements (run_id, scanner_id, anchor_id, rotation, x, y, z, depth)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare placements: %w", err)
	}
	defer placementStmt.Close()
	for _, p := range placements {
		t := p.Translation
		if _, err := placementStmt.Exec(run.RunID, p.Scanner, p.Anchor, int(p.Rotation), t.X, t.Y, t.Z, depths[p.Scanner]); err != nil {
			return fmt.Errorf("insert placement %d: %w", p.Scanner, err)
		}
	}

	beaconStmt, err := tx.Prepare(`INSERT INTO alignment_beacons (run_id, x, y, z) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare beacons: %w", err)
	}
	defer beaconStmt.Close()
	for _, b := range res.Beacons() {
		if _, err := beaconStmt.Exec(run.RunID, b.X, b.Y, b.Z); err != nil {
			return fmt.Errorf("insert beacon %s: %w", b, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.RunID, err)
	}
	return nil
}

// Get returns a single run by ID. A missing run yields an error wrapping
// sql.ErrNoRows.
func (s *RunStore) Get(runID string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT run_id, input_name, scanner_count, placed_count, beacon_count,
		       max_manhattan, min_overlap, rounds, complete, created_at
		FROM alignment_runs
		WHERE run_id = ?`, runID)

	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %s: %w", runID, sql.ErrNoRows)
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return r, nil
}

// List returns every run, newest first.
func (s *RunStore) List() ([]*Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, input_name, scanner_count, placed_count, beacon_count,
		       max_manhattan, min_overlap, rounds, complete, created_at
		FROM alignment_runs
		ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Placements returns the stored placements of a run ordered by scanner.
func (s *RunStore) Placements(runID string) ([]align.Placement, error) {
	rows, err := s.db.Query(`
		SELECT scanner_id, anchor_id, rotation, x, y, z
		FROM alignment_placements
		WHERE run_id = ?
		ORDER BY scanner_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query placements: %w", err)
	}
	defer rows.Close()

	var out []align.Placement
	for rows.Next() {
		var p align.Placement
		var rot int
		if err := rows.Scan(&p.Scanner, &p.Anchor, &rot, &p.Translation.X, &p.Translation.Y, &p.Translation.Z); err != nil {
			return nil, fmt.Errorf("scan placement row: %w", err)
		}
		p.Rotation = geom.Rotation(rot)
		if !p.Rotation.Valid() {
			return nil, fmt.Errorf("placement %d: rotation %d out of range", p.Scanner, rot)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Depths returns how many placements separate each stored scanner from
// scanner 0.
func (s *RunStore) Depths(runID string) (map[int]int, error) {
	rows, err := s.db.Query(`
		SELECT scanner_id, depth FROM alignment_placements
		WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query depths: %w", err)
	}
	defer rows.Close()

	depths := make(map[int]int)
	for rows.Next() {
		var id, depth int
		if err := rows.Scan(&id, &depth); err != nil {
			return nil, fmt.Errorf("scan depth row: %w", err)
		}
		depths[id] = depth
	}
	return depths, rows.Err()
}

// Beacons returns the stored global beacons of a run ordered by X, Y, Z.
func (s *RunStore) Beacons(runID string) ([]geom.Vector3, error) {
	rows, err := s.db.Query(`
		SELECT x, y, z FROM alignment_beacons
		WHERE run_id = ?
		ORDER BY x, y, z`, runID)
	if err != nil {
		return nil, fmt.Errorf("query beacons: %w", err)
	}
	defer rows.Close()

	var out []geom.Vector3
	for rows.Next() {
		var v geom.Vector3
		if err := rows.Scan(&v.X, &v.Y, &v.Z); err != nil {
			return nil, fmt.Errorf("scan beacon row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Delete removes a run and its details. A missing run yields an error
// wrapping sql.ErrNoRows.
func (s *RunStore) Delete(runID string) error {
	result, err := s.db.Exec(`DELETE FROM alignment_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s: %w", runID, sql.ErrNoRows)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	err := row.Scan(
		&r.RunID, &r.InputName, &r.ScannerCount, &r.PlacedCount, &r.BeaconCount,
		&r.MaxManhattan, &r.MinOverlap, &r.Rounds, &r.Complete, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
