package integrator

import (
	"testing"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/material"
)

// fakeScene is a tiny hand-built scene: an optional single plane at z=0
// with a fixed material, and a constant background.
type fakeScene struct {
	hasPlane   bool
	planeMat   *material.Material
	background core.Color
}

func (s *fakeScene) Intersect(ray core.LightRay, tMin, tMax float64) (material.HitRecord, bool) {
	if !s.hasPlane || ray.Direction.Z == 0 {
		return material.HitRecord{}, false
	}
	t := -ray.Origin.Z / ray.Direction.Z
	if t < tMin || t > tMax {
		return material.HitRecord{}, false
	}
	hit := material.HitRecord{
		Point:    ray.At(t),
		T:        t,
		Material: s.planeMat,
	}
	hit.SetFaceNormal(ray, core.Vec3{X: 0, Y: 0, Z: 1})
	return hit, true
}

func (s *fakeScene) Background(ray core.LightRay) core.Color {
	return s.background
}

func TestPathTraceMissReturnsBackground(t *testing.T) {
	scene := &fakeScene{background: core.Color{R: 0.5, G: 0.6, B: 0.7, A: 1}}
	ray := core.NewLightRay(core.Vec3{X: 0, Y: 0, Z: 5}, core.Vec3{X: 0, Y: 1, Z: 0}, core.RayCamera)
	sampler := core.NewSampler(core.StrategyRandom, 0, 1, 0)

	got := PathTrace(ray, scene, 8, sampler)
	if !got.Equals(scene.background) {
		t.Errorf("PathTrace miss = %v, want background %v", got, scene.background)
	}
}

func TestPathTraceEmissiveSurfaceTerminates(t *testing.T) {
	emission := core.Color{R: 4, G: 4, B: 4, A: 1}
	scene := &fakeScene{hasPlane: true, planeMat: material.NewEmissive(emission), background: core.Black}
	ray := core.NewLightRay(core.Vec3{X: 0, Y: 0, Z: 5}, core.Vec3{X: 0, Y: 0, Z: -1}, core.RayCamera)
	sampler := core.NewSampler(core.StrategyRandom, 0, 1, 0)

	got := PathTrace(ray, scene, 8, sampler)
	if !got.Equals(emission) {
		t.Errorf("PathTrace on emissive hit = %v, want %v", got, emission)
	}
}

func TestPathTraceBounceLimitStopsAccumulation(t *testing.T) {
	// A lambertian plane with no emission and no exit: every bounce keeps
	// re-hitting the same plane, so radiance should stay exactly Black and
	// the loop must still terminate within maxBounces.
	scene := &fakeScene{hasPlane: true, planeMat: material.NewLambertian(core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}), background: core.Black}
	ray := core.NewLightRay(core.Vec3{X: 0, Y: 0, Z: 5}, core.Vec3{X: 0, Y: 0, Z: -1}, core.RayCamera)
	sampler := core.NewSampler(core.StrategyRandom, 0, 1, 0)

	got := PathTrace(ray, scene, 4, sampler)
	if !got.Equals(core.Black) {
		t.Errorf("PathTrace with no emission/no escape = %v, want Black", got)
	}
}

func TestPathTraceThroughputAttenuatesMetalReflection(t *testing.T) {
	dim := core.Color{R: 0.1, G: 0.1, B: 0.1, A: 1}
	scene := &fakeScene{hasPlane: true, planeMat: material.NewMetal(dim, 0), background: core.White}
	ray := core.NewLightRay(core.Vec3{X: 0, Y: 0, Z: 5}, core.Vec3{X: 0, Y: 0, Z: -1}, core.RayCamera)
	sampler := core.NewSampler(core.StrategyRandom, 0, 1, 0)

	got := PathTrace(ray, scene, 8, sampler)
	if got.R >= 1 || got.R <= 0 {
		t.Errorf("expected dimmed background reflection in (0,1), got %v", got.R)
	}
}
