// Package integrator implements the path tracer: the loop that turns one
// camera ray into one color sample by repeatedly intersecting the scene,
// accumulating emission, and following the BSDF's chosen scattered
// direction until it escapes, is absorbed, or hits the bounce limit.
package integrator

import (
	"math"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/material"
)

// epsilon is the minimum hit distance passed to Intersect, so a scattered
// ray starting on a surface doesn't immediately re-hit the surface it just
// left.
const epsilon = 1e-4

// Scene is the read-only, thread-safe collaborator a path trace queries.
// Building and accelerating the scene (BVH, geometry loading, light lists)
// is a separate concern; the integrator only needs to ask it two things.
type Scene interface {
	// Intersect finds the closest hit along ray within [tMin, tMax].
	Intersect(ray core.LightRay, tMin, tMax float64) (material.HitRecord, bool)
	// Background returns the radiance seen when a ray escapes the scene.
	Background(ray core.LightRay) core.Color
}

// PathTrace estimates the radiance arriving along ray by unidirectional
// path tracing: at each bounce it adds the hit material's emission, then
// either terminates (absorption) or multiplies the running throughput by
// the BSDF's attenuation and continues along the scattered ray. The loop
// stops after maxBounces bounces, on a miss, or on absorption - whichever
// comes first.
func PathTrace(ray core.LightRay, scene Scene, maxBounces int, sampler core.Sampler) core.Color {
	radiance := core.Black
	throughput := core.White
	current := ray

	for bounce := 0; bounce < maxBounces; bounce++ {
		hit, ok := scene.Intersect(current, epsilon, math.Inf(1))
		if !ok {
			radiance = radiance.Add(throughput.MultiplyColor(scene.Background(current)))
			break
		}

		emitted := material.Emit(hit.Material)
		if emitted.Luminance() > 0 {
			radiance = radiance.Add(throughput.MultiplyColor(emitted))
		}

		hit.Incident = current
		absorbed, attenuation, next := material.Sample(&hit, sampler)
		if absorbed {
			break
		}

		throughput = throughput.MultiplyColor(attenuation)
		current = core.NewLightRay(hit.Point, next.Direction, next.Tag)
	}

	// A sample is opaque: only R, G and B accumulate radiance.
	radiance.A = 1
	return radiance.ClampNaN()
}
