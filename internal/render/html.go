package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/beaconmap/internal/align"
	"github.com/banshee-data/beaconmap/internal/geom"
)

// AssetsHost is where the rendered page loads echarts from.
var AssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// axis picks one coordinate of a vector for a projection.
type axis struct {
	name string
	get  func(geom.Vector3) int
}

var (
	axisX = axis{"X", func(v geom.Vector3) int { return v.X }}
	axisY = axis{"Y", func(v geom.Vector3) int { return v.Y }}
	axisZ = axis{"Z", func(v geom.Vector3) int { return v.Z }}
)

// WriteHTML renders res as a page of two scatter projections (X/Y and
// X/Z) of beacons and scanner positions.
func WriteHTML(w io.Writer, res *align.Result) error {
	if res == nil || len(res.Placements()) == 0 {
		return ErrNothingToDraw
	}

	page := components.NewPage()
	page.SetAssetsHost(AssetsHost)
	page.AddCharts(
		projectionChart(res, axisX, axisY),
		projectionChart(res, axisX, axisZ),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func projectionChart(res *align.Result, h, v axis) *charts.Scatter {
	beacons := res.Beacons()
	beaconData := make([]opts.ScatterData, 0, len(beacons))
	for _, b := range beacons {
		beaconData = append(beaconData, opts.ScatterData{Value: []interface{}{h.get(b), v.get(b)}, Name: b.String()})
	}

	placements := res.Placements()
	scannerData := make([]opts.ScatterData, 0, len(placements))
	for _, p := range placements {
		t := p.Translation
		scannerData = append(scannerData, opts.ScatterData{
			Value: []interface{}{h.get(t), v.get(t)},
			Name:  fmt.Sprintf("scanner %d (%s)", p.Scanner, t),
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Beacon map", Theme: "dark", Width: "900px", Height: "900px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s/%s projection", h.name, v.name),
			Subtitle: fmt.Sprintf("beacons=%d scanners=%d/%d", len(beacons), len(placements), res.ScannerCount()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: h.name, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: v.name, NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("beacons", beaconData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))
	scatter.AddSeries("scanners", scannerData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}))
	return scatter
}
