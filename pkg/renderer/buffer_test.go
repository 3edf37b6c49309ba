package renderer

import (
	"testing"

	"github.com/df07/go-progressive-raytracer/pkg/core"
)

func TestRenderBufferProgressiveMeanMatchesAverage(t *testing.T) {
	buf := NewRenderBuffer(1, 1)
	samples := []core.Color{
		{R: 1, G: 0, B: 0, A: 1},
		{R: 0, G: 1, B: 0, A: 1},
		{R: 0, G: 0, B: 1, A: 1},
	}
	for _, s := range samples {
		buf.AddSample(0, 0, s)
	}

	mean, n := buf.Mean(0, 0)
	if n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
	wantR, wantG, wantB := 1.0/3, 1.0/3, 1.0/3
	if abs(mean.R-wantR) > 1e-9 || abs(mean.G-wantG) > 1e-9 || abs(mean.B-wantB) > 1e-9 {
		t.Errorf("mean = %v, want (%v, %v, %v)", mean, wantR, wantG, wantB)
	}
}

func TestRenderBufferToImageToneMaps(t *testing.T) {
	buf := NewRenderBuffer(2, 2)
	buf.AddSample(0, 0, core.White)
	buf.AddSample(1, 1, core.Black)

	img := buf.ToImage()
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected image bounds %v", img.Bounds())
	}
	white := img.RGBAAt(0, 0)
	if white.R != 255 || white.A != 255 {
		t.Errorf("expected (0,0) to tone-map to opaque white, got %v", white)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
