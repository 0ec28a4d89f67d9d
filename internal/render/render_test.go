package render

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/beaconmap/internal/align"
	"github.com/banshee-data/beaconmap/internal/scanner"
	"github.com/banshee-data/beaconmap/internal/testutil"
)

func sampleResult(t *testing.T) *align.Result {
	t.Helper()
	scanners, err := scanner.ParseString(testutil.Sample())
	testutil.AssertNoError(t, err)
	res, err := align.New(scanners).Run(context.Background())
	testutil.AssertNoError(t, err)
	return res
}

func TestWritePNG(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	if err := WritePNG(&buf, res, DefaultWidth/2, DefaultHeight/2); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		t.Errorf("empty image bounds %v", b)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	if err := SavePNG(path, sampleResult(t)); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("PNG file is empty")
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, sampleResult(t)); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<html", "echarts", "projection", "scanners"} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestNothingToDraw(t *testing.T) {
	var empty align.Result
	if err := WritePNG(&bytes.Buffer{}, &empty, DefaultWidth, DefaultHeight); err != ErrNothingToDraw {
		t.Errorf("WritePNG(empty) = %v, want ErrNothingToDraw", err)
	}
	if err := WriteHTML(&bytes.Buffer{}, nil); err != ErrNothingToDraw {
		t.Errorf("WriteHTML(nil) = %v, want ErrNothingToDraw", err)
	}
}
