// Package demoscene provides a self-contained worker.SceneBuilder: a small
// fixed set of spheres lit by a gradient sky, built straight from a scene
// payload's width/height/sample counts with no file I/O. Parsing a real
// asset-backed scene description (meshes, textures, lights pulled from
// AssetPath) is a separate, pluggable concern - see worker.SceneBuilder -
// and this package intentionally doesn't attempt it; it exists so
// cmd/worker has a real collaborator to render against out of the box.
package demoscene

import (
	"math"

	"github.com/df07/go-progressive-raytracer/pkg/core"
)

// Camera is a pinhole camera: rays are cast from a fixed eye through a
// view plane built from eye/lookAt/up/vfov, with one sample of pixel-area
// jitter per ray for antialiasing.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	width, height   int
}

// NewCamera builds a pinhole camera looking from eye toward lookAt, with up
// as the reference up vector, vfovDegrees vertical field of view, and a
// width x height pixel grid (used only to convert pixel coordinates into
// the [0,1] screen space the view plane is parameterized over).
func NewCamera(eye, lookAt, up core.Vec3, vfovDegrees float64, width, height int) *Camera {
	aspectRatio := float64(width) / float64(height)
	theta := vfovDegrees * (math.Pi / 180.0)
	halfHeight := math.Tan(theta / 2)
	halfWidth := aspectRatio * halfHeight

	w := eye.Subtract(lookAt).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	lowerLeftCorner := eye.
		Subtract(u.Multiply(halfWidth)).
		Subtract(v.Multiply(halfHeight)).
		Subtract(w)

	return &Camera{
		origin:          eye,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      u.Multiply(2 * halfWidth),
		vertical:        v.Multiply(2 * halfHeight),
		width:           width,
		height:          height,
	}
}

// GetRay returns a camera ray through pixel (x, y), jittered within the
// pixel's footprint by one sampler draw for antialiasing.
func (c *Camera) GetRay(x, y int, sampler core.Sampler) core.LightRay {
	jx, jy := core.Next2(sampler)
	s := (float64(x) + jx) / float64(c.width)
	// Pixel row 0 is the top of the image; the view plane is built bottom-up.
	t := 1.0 - (float64(y)+jy)/float64(c.height)

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewLightRay(c.origin, direction.Normalize(), core.RayCamera)
}
