package material

import (
	"github.com/df07/go-progressive-raytracer/pkg/core"
	"github.com/df07/go-progressive-raytracer/pkg/texture"
)

// Kind is the closed set of surface behaviors a Material can dispatch to.
type Kind int

const (
	Lambertian Kind = iota
	Metal
	Dielectric
	Plastic
	Emission
)

func (k Kind) String() string {
	switch k {
	case Lambertian:
		return "lambertian"
	case Metal:
		return "metal"
	case Dielectric:
		return "dielectric"
	case Plastic:
		return "plastic"
	case Emission:
		return "emission"
	default:
		return "unknown"
	}
}

// Material is a tagged variant over the five supported BSDFs. Only the
// fields relevant to Kind are meaningful; the zero value of the others is
// harmless (e.g. IOR is ignored by Lambertian).
type Material struct {
	Kind Kind

	Diffuse   core.Color // Lambertian/Plastic/Dielectric base color
	Roughness float64    // Metal fuzz / Plastic coating roughness, 0 = perfectly smooth; Dielectric ignores it
	IOR       float64    // Dielectric/Plastic index of refraction

	Emission core.Color // Emission radiance

	Albedo      *texture.Texture // overrides Diffuse when bound
	NormalMap   *texture.Texture // stored only; no BSDF reads it, so the shading normal is never perturbed
	SpecularMap *texture.Texture // red channel overrides Roughness when bound
}

// NewLambertian creates a perfectly diffuse material.
func NewLambertian(diffuse core.Color) *Material {
	return &Material{Kind: Lambertian, Diffuse: diffuse}
}

// NewMetal creates a specular reflector with the given fuzz in [0,1].
func NewMetal(diffuse core.Color, roughness float64) *Material {
	return &Material{Kind: Metal, Diffuse: diffuse, Roughness: clamp01(roughness)}
}

// NewDielectric creates a clear refractive material (glass, water) with the
// given index of refraction.
func NewDielectric(ior float64) *Material {
	return &Material{Kind: Dielectric, Diffuse: core.White, IOR: ior}
}

// NewPlastic creates a dielectric-coated diffuse material: Fresnel decides,
// per sample, between a specular reflection off the coating and a diffuse
// bounce off the substrate.
func NewPlastic(diffuse core.Color, ior float64) *Material {
	return &Material{Kind: Plastic, Diffuse: diffuse, IOR: ior}
}

// NewEmissive creates a light-emitting material that absorbs every ray it
// is hit by and contributes Emission to the path's accumulated radiance.
func NewEmissive(emission core.Color) *Material {
	return &Material{Kind: Emission, Emission: emission}
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
