package renderer

import (
	"image"
	"testing"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/material"
)

// flatScene always misses and returns a fixed background - enough to
// exercise the tile loop without needing real geometry.
type flatScene struct {
	background core.Color
}

func (s *flatScene) Intersect(ray core.LightRay, tMin, tMax float64) (material.HitRecord, bool) {
	return material.HitRecord{}, false
}

func (s *flatScene) Background(ray core.LightRay) core.Color {
	return s.background
}

// orthoCamera fires a straight -Z ray per pixel, ignoring the sampler.
type orthoCamera struct{}

func (orthoCamera) GetRay(x, y int, sampler core.Sampler) core.LightRay {
	return core.NewLightRay(core.Vec3{X: float64(x), Y: float64(y), Z: 0}, core.Vec3{X: 0, Y: 0, Z: -1}, core.RayCamera)
}

func TestTileRendererFillsEveryPixelInTile(t *testing.T) {
	background := core.Color{R: 0.2, G: 0.4, B: 0.6, A: 1}
	buf := NewRenderBuffer(8, 8)
	tr := NewTileRenderer(&flatScene{background: background}, orthoCamera{}, buf, 4, 2)

	tile := RenderTile{Num: 0, Begin: image.Point{X: 2, Y: 2}, End: image.Point{X: 6, Y: 6}}
	samples, _ := tr.Render(tile)

	if samples != 4*4*2 {
		t.Errorf("samples taken = %d, want %d", samples, 4*4*2)
	}
	for y := tile.Begin.Y; y < tile.End.Y; y++ {
		for x := tile.Begin.X; x < tile.End.X; x++ {
			mean, n := buf.Mean(x, y)
			if n != 2 {
				t.Fatalf("pixel (%d,%d) got %d samples, want 2", x, y, n)
			}
			if !mean.Equals(background) {
				t.Errorf("pixel (%d,%d) mean = %v, want %v", x, y, mean, background)
			}
		}
	}
	// Pixels outside the tile must be untouched.
	if mean, n := buf.Mean(0, 0); n != 0 || !mean.Equals(core.Color{}) {
		t.Errorf("pixel outside tile was written: mean=%v n=%d", mean, n)
	}
}
