package demoscene

import (
	"math"

	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/material"
)

// Sphere is the one primitive this package renders.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material *material.Material
}

// Scene is a handful of spheres over a ground sphere, lit by a gradient
// sky in place of a real environment light. It satisfies integrator.Scene.
type Scene struct {
	Spheres []Sphere
	SkyTop  core.Color
	SkyBase core.Color
}

// Default builds the scene every worker falls back to when a load-scene
// payload doesn't request anything more specific: a center, left and
// right sphere over a large ground sphere plus a small emissive sphere
// for direct light, with no mesh or texture loading involved.
func Default() Scene {
	ground := Sphere{Center: core.NewVec3(0, -100.5, -1), Radius: 100, Material: material.NewLambertian(core.NewColor(0.6, 0.7, 0.3, 1))}
	center := Sphere{Center: core.NewVec3(0, 0, -1), Radius: 0.5, Material: material.NewLambertian(core.NewColor(0.6, 0.2, 0.2, 1))}
	left := Sphere{Center: core.NewVec3(-1, 0, -1), Radius: 0.5, Material: material.NewMetal(core.NewColor(0.8, 0.8, 0.8, 1), 0.1)}
	right := Sphere{Center: core.NewVec3(1, 0, -1), Radius: 0.5, Material: material.NewDielectric(1.5)}
	light := Sphere{Center: core.NewVec3(0, 2.5, -0.5), Radius: 0.4, Material: material.NewEmissive(core.NewColor(8, 8, 7, 1))}

	return Scene{
		Spheres: []Sphere{ground, center, left, right, light},
		SkyTop:  core.NewColor(0.5, 0.7, 1.0, 1),
		SkyBase: core.NewColor(1.0, 1.0, 1.0, 1),
	}
}

// Intersect finds the closest sphere hit along ray within [tMin, tMax].
func (s Scene) Intersect(ray core.LightRay, tMin, tMax float64) (material.HitRecord, bool) {
	var closest material.HitRecord
	hitAnything := false
	nearest := tMax

	for _, sphere := range s.Spheres {
		if hit, ok := sphere.hit(ray, tMin, nearest); ok {
			hitAnything = true
			nearest = hit.T
			closest = hit
		}
	}
	return closest, hitAnything
}

// Background returns a vertical gradient between SkyBase (horizon) and
// SkyTop (zenith), standing in for an environment light.
func (s Scene) Background(ray core.LightRay) core.Color {
	unit := ray.Direction.Normalize()
	t := math.Max(0, unit.Y)
	return s.SkyBase.Multiply(1 - t).Add(s.SkyTop.Multiply(t))
}

// hit implements the standard ray/sphere quadratic, picking the nearest
// root inside [tMin, tMax].
func (sp Sphere) hit(ray core.LightRay, tMin, tMax float64) (material.HitRecord, bool) {
	r := ray.Ray()
	oc := r.Origin.Subtract(sp.Center)
	a := r.Direction.Dot(r.Direction)
	halfB := oc.Dot(r.Direction)
	c := oc.Dot(oc) - sp.Radius*sp.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return material.HitRecord{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return material.HitRecord{}, false
		}
	}

	point := r.At(root)
	outwardNormal := point.Subtract(sp.Center).Multiply(1.0 / sp.Radius)

	hit := material.HitRecord{
		Point:    point,
		T:        root,
		Incident: ray,
		Material: sp.Material,
	}
	hit.SetFaceNormal(ray, outwardNormal)
	return hit, true
}
