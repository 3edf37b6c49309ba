// Package texture implements the texture evaluator: bilinear sampling of a
// dense pixel buffer by UV coordinate, and the barycentric surface-sample
// operation that resolves a texture color at a triangle hit point.
package texture

import (
	"math"

	"github.com/df07/go-progressive-raytracer/pkg/core"
)

// Semantic distinguishes how a sampled texture's color should be
// interpreted. Diffuse textures are stored in sRGB and linearized on read;
// normal/specular maps are already linear.
type Semantic int

const (
	Diffuse Semantic = iota
	Normal
	Specular
)

// Texture is a dense, row-major pixel buffer. Decoding image files into this
// buffer (BMP/PNG) is left to a separate loader; this type only holds and
// samples already-decoded pixels.
type Texture struct {
	Width, Height int
	Channels      int
	Pixels        []core.Color // row-major, len == Width*Height
}

// NewTexture allocates a texture of the given dimensions.
func NewTexture(width, height, channels int) *Texture {
	return &Texture{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pixels:   make([]core.Color, width*height),
	}
}

// SetPixel stores a color at (x, y), wrapping negative/overflowing
// coordinates is the caller's responsibility - this is a raw accessor.
func (t *Texture) SetPixel(x, y int, c core.Color) {
	t.Pixels[y*t.Width+x] = c
}

func (t *Texture) texelClamped(x, y int) core.Color {
	if x < 0 {
		x = 0
	}
	if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	return t.Pixels[y*t.Width+x]
}

// Sample performs bilinear filtering of tex at uv in [0,1]² (values outside
// are clamped). A nil texture samples as "missing": the returned bool is
// false and the color is the zero value - callers that want the magenta
// sentinel explicitly opt into core.MissingTextureColor.
func Sample(tex *Texture, u, v float64) (core.Color, bool) {
	if tex == nil || tex.Width == 0 || tex.Height == 0 {
		return core.Color{}, false
	}

	u = clamp01(u)
	v = clamp01(v)

	// Map uv onto texel centers so the four nearest texels bracket (fx, fy).
	fx := u*float64(tex.Width) - 0.5
	fy := v*float64(tex.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := tex.texelClamped(x0, y0)
	c10 := tex.texelClamped(x0+1, y0)
	c01 := tex.texelClamped(x0, y0+1)
	c11 := tex.texelClamped(x0+1, y0+1)

	top := lerpColor(c00, c10, tx)
	bottom := lerpColor(c01, c11, tx)
	return lerpColor(top, bottom, ty), true
}

// SampleSurface resolves the texture color at a triangle hit point by
// interpolating the polygon's three UV-table entries with the intersection's
// barycentric (u, v) coordinates, then sampling the texture:
//
//	uv = u·UV1 + v·UV2 + (1-u-v)·UV0
//
// uvTable is the scene-owned, read-only UV table shared by every render
// thread; polygon.TextureIndex indexes into it. If tex is nil or the
// polygon lacks valid UV indices, ok is false.
func SampleSurface(tex *Texture, uvTable []core.Vec2, polygon core.Polygon, u, v float64, semantic Semantic) (core.Color, bool) {
	if tex == nil || !polygon.HasUV() {
		return core.Color{}, false
	}

	uv0 := uvTable[polygon.TextureIndex[0]]
	uv1 := uvTable[polygon.TextureIndex[1]]
	uv2 := uvTable[polygon.TextureIndex[2]]
	w := 1 - u - v

	texCoord := uv1.Multiply(u).Add(uv2.Multiply(v)).Add(uv0.Multiply(w))

	c, ok := Sample(tex, texCoord.X, texCoord.Y)
	if !ok {
		return core.Color{}, false
	}
	if semantic == Diffuse {
		c = core.FromSRGB(c)
	}
	return c, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerpColor(a, b core.Color, t float64) core.Color {
	c := a.Multiply(1 - t).Add(b.Multiply(t))
	// Multiply leaves alpha untouched, so Add would sum it; blend it too.
	c.A = a.A*(1-t) + b.A*t
	return c
}
