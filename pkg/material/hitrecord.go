// Package material implements the fixed set of surface behaviors a path
// traced ray can hit: Lambertian, Metal, Dielectric, Plastic and Emissive.
// Rather than one interface implementation per behavior, a single tagged
// Material struct is dispatched on its Kind - the behaviors are a closed,
// enumerable set, and a switch over a kind is both cheaper and easier to
// audit for completeness than a handful of tiny interface types.
package material

import (
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/texture"
)

// HitRecord describes a ray/surface intersection: where it happened, the
// surface's local frame, the triangle's barycentric coordinates and polygon
// (for texture lookups), and the material to shade with.
type HitRecord struct {
	Point    core.Vec3
	Normal   core.Vec3 // always points against Incident, see SetFaceNormal
	T        float64
	Incident core.LightRay

	FrontFace bool

	U, V     float64 // barycentric coordinates of the hit within Polygon
	Polygon  core.Polygon
	UVTable  []core.Vec2 // scene-owned, read-only; indexed by Polygon.TextureIndex

	Material *Material
}

// SetFaceNormal orients Normal to oppose the incident ray and records which
// face was hit, so BSDFs never have to re-derive "am I entering or leaving".
func (h *HitRecord) SetFaceNormal(incident core.LightRay, outwardNormal core.Vec3) {
	h.FrontFace = incident.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// diffuseColor resolves the material's base color at this hit, preferring
// the albedo texture over the constant Diffuse color when one is bound.
func (h *HitRecord) diffuseColor() core.Color {
	if h.Material.Albedo != nil {
		if c, ok := texture.SampleSurface(h.Material.Albedo, h.UVTable, h.Polygon, h.U, h.V, texture.Diffuse); ok {
			return c
		}
	}
	return h.Material.Diffuse
}

// roughnessValue resolves roughness/fuzz, preferring the specular map's red
// channel over the constant Roughness scalar when one is bound.
func (h *HitRecord) roughnessValue() float64 {
	if h.Material.SpecularMap != nil {
		if c, ok := texture.SampleSurface(h.Material.SpecularMap, h.UVTable, h.Polygon, h.U, h.V, texture.Specular); ok {
			return c.R
		}
	}
	return h.Material.Roughness
}
