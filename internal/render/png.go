package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/beaconmap/internal/align"
	"github.com/banshee-data/beaconmap/internal/geom"
)

// Default PNG size.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 10 * vg.Inch
)

var (
	beaconColor  = color.RGBA{R: 49, G: 104, B: 142, A: 255}
	scannerColor = color.RGBA{R: 220, G: 50, B: 47, A: 255}
)

// ErrNothingToDraw is returned for a result with no placed scanners.
var ErrNothingToDraw = errors.New("render: result has no placed scanners")

// newProjection builds the top-down (X/Y) plot of beacons and scanner
// positions.
func newProjection(res *align.Result) (*plot.Plot, error) {
	if res == nil || len(res.Placements()) == 0 {
		return nil, ErrNothingToDraw
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Beacon map - %d beacons, %d/%d scanners",
		res.BeaconCount(), len(res.Placements()), res.ScannerCount())
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Add(plotter.NewGrid())

	beacons, err := plotter.NewScatter(toXYs(res.Beacons()))
	if err != nil {
		return nil, fmt.Errorf("beacon scatter: %w", err)
	}
	beacons.GlyphStyle.Color = beaconColor
	beacons.GlyphStyle.Radius = vg.Points(2)
	beacons.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(beacons)
	p.Legend.Add("beacons", beacons)

	scanners, err := plotter.NewScatter(toXYs(res.Positions()))
	if err != nil {
		return nil, fmt.Errorf("scanner scatter: %w", err)
	}
	scanners.GlyphStyle.Color = scannerColor
	scanners.GlyphStyle.Radius = vg.Points(5)
	scanners.GlyphStyle.Shape = draw.PyramidGlyph{}
	p.Add(scanners)
	p.Legend.Add("scanners", scanners)

	labels, err := plotter.NewLabels(scannerLabels(res))
	if err != nil {
		return nil, fmt.Errorf("scanner labels: %w", err)
	}
	p.Add(labels)

	return p, nil
}

// WritePNG renders res as a PNG of the given size to w.
func WritePNG(w io.Writer, res *align.Result, width, height vg.Length) error {
	p, err := newProjection(res)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// SavePNG renders res to the file at path using the default size.
func SavePNG(path string, res *align.Result) error {
	p, err := newProjection(res)
	if err != nil {
		return err
	}
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func toXYs(vs []geom.Vector3) plotter.XYs {
	pts := make(plotter.XYs, len(vs))
	for i, v := range vs {
		pts[i] = plotter.XY{X: float64(v.X), Y: float64(v.Y)}
	}
	return pts
}

func scannerLabels(res *align.Result) plotter.XYLabels {
	ps := res.Placements()
	labels := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(ps)),
		Labels: make([]string, len(ps)),
	}
	for i, p := range ps {
		labels.XYs[i] = plotter.XY{X: float64(p.Translation.X), Y: float64(p.Translation.Y)}
		labels.Labels[i] = fmt.Sprintf("s%d", p.Scanner)
	}
	return labels
}
