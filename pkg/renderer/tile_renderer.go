package renderer

import (
	"time"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/integrator"
)

// TileRenderer fills one RenderTile at a time into a shared RenderBuffer.
// Multiple TileRenderers (one per worker thread) can run concurrently
// against the same buffer as long as they're handed disjoint tiles - the
// scene, camera and buffer are all safe for concurrent read/write under
// that discipline.
type TileRenderer struct {
	Scene            integrator.Scene
	Camera           core.Camera
	Buffer           *RenderBuffer
	MaxBounces       int
	SamplesPerPixel  int
	SamplingStrategy core.Strategy
}

// NewTileRenderer creates a renderer for one scene/camera/buffer triple.
func NewTileRenderer(scene integrator.Scene, camera core.Camera, buffer *RenderBuffer, maxBounces, samplesPerPixel int) *TileRenderer {
	return &TileRenderer{
		Scene:            scene,
		Camera:           camera,
		Buffer:           buffer,
		MaxBounces:       maxBounces,
		SamplesPerPixel:  samplesPerPixel,
		SamplingStrategy: core.StrategyRandom,
	}
}

// Render renders every pixel of tile, bottom row to top row (matching the
// grid's scan order) and left to right within a row, taking
// SamplesPerPixel independent samples per pixel and folding each into the
// buffer's running mean. It returns the number of individual samples taken
// across the tile.
func (tr *TileRenderer) Render(tile RenderTile) (samplesTaken int, elapsed time.Duration) {
	start := time.Now()

	for y := tile.End.Y - 1; y >= tile.Begin.Y; y-- {
		for x := tile.Begin.X; x < tile.End.X; x++ {
			pixelIndex := y*tr.Buffer.Width + x
			for s := 0; s < tr.SamplesPerPixel; s++ {
				sampler := core.NewSampler(tr.SamplingStrategy, s, tr.SamplesPerPixel, pixelIndex)
				ray := tr.Camera.GetRay(x, y, sampler)
				color := integrator.PathTrace(ray, tr.Scene, tr.MaxBounces, sampler)
				tr.Buffer.AddSample(x, y, color)
				samplesTaken++
			}
		}
	}

	return samplesTaken, time.Since(start)
}
