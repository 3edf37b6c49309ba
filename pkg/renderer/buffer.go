// Package renderer drives the path tracer across an image: a RenderBuffer
// holds the per-pixel running mean, a TileRenderer fills one rectangular
// tile of it at a time, and RendererState tracks whether a render is in
// progress, finished, or aborted.
package renderer

import (
	"image"
	"sync"

	"github.com/df07/go-progressive-raytracer/pkg/core"
)

// RenderBuffer is the progressive accumulation target for an image: one
// running mean per pixel, safe for concurrent tile renderers to write into
// as long as they own disjoint pixel ranges (the tile grid guarantees
// this - the buffer's mutex additionally serializes every read and write
// of the per-pixel mean and sample count).
type RenderBuffer struct {
	Width, Height int

	mu      sync.Mutex
	mean    []core.Color // running per-pixel mean, row-major
	samples []int        // samples accumulated per pixel
}

// NewRenderBuffer allocates a buffer for an image of the given dimensions.
func NewRenderBuffer(width, height int) *RenderBuffer {
	return &RenderBuffer{
		Width:   width,
		Height:  height,
		mean:    make([]core.Color, width*height),
		samples: make([]int, width*height),
	}
}

func (b *RenderBuffer) index(x, y int) int {
	return y*b.Width + x
}

// AddSample folds one more path trace sample into pixel (x, y)'s running
// mean: mean' = mean + (sample - mean) / (n + 1). This is mathematically
// identical to (sum of samples)/n but never re-derives the sum, so no
// single pixel's accumulator ever drifts from repeated floating-point
// division the way a naively maintained running average can.
func (b *RenderBuffer) AddSample(x, y int, sample core.Color) {
	i := b.index(x, y)

	b.mu.Lock()
	n := float64(b.samples[i] + 1)
	old := b.mean[i]
	b.mean[i] = core.Color{
		R: old.R + (sample.R-old.R)/n,
		G: old.G + (sample.G-old.G)/n,
		B: old.B + (sample.B-old.B)/n,
		A: old.A + (sample.A-old.A)/n,
	}
	b.samples[i]++
	b.mu.Unlock()
}

// Mean returns the current running-mean color and sample count at (x, y).
func (b *RenderBuffer) Mean(x, y int) (core.Color, int) {
	i := b.index(x, y)
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mean[i], b.samples[i]
}

// ToImage tone-maps the full accumulation buffer to an 8-bit RGBA image.
func (b *RenderBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	b.mu.Lock()
	defer b.mu.Unlock()
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			r, g, bl, a := core.ToneMap8(b.mean[b.index(x, y)])
			o := img.PixOffset(x, y)
			img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = r, g, bl, a
		}
	}
	return img
}
