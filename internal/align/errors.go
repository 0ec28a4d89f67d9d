package align

import "errors"

var (
	// ErrNoScannersToAlign indicates the aligner was given no scanners.
	ErrNoScannersToAlign = errors.New("align: no scanners to align")
	// ErrDisconnected indicates a full round placed nothing while some
	// scanners were still unplaced: they share too few beacons with every
	// placed scanner, so the run can never finish.
	ErrDisconnected = errors.New("align: scanners cannot be connected to scanner 0")
)
