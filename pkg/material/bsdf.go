package material

import (
	"math"

	"github.com/df07/go-progressive-raytracer/pkg/core"
)

// Sample draws one outgoing direction from the material at hit and reports
// whether the ray survives. When absorbed is true the path ends here (an
// Emission hit, or a Metal reflection that falls below the surface), and
// attenuation/outRay are zero.
func Sample(hit *HitRecord, sampler core.Sampler) (absorbed bool, attenuation core.Color, outRay core.LightRay) {
	switch hit.Material.Kind {
	case Lambertian:
		return lambertianBSDF(hit, sampler)
	case Metal:
		return metalBSDF(hit, sampler)
	case Dielectric:
		return dielectricBSDF(hit, sampler)
	case Plastic:
		return plasticBSDF(hit, sampler)
	case Emission:
		return true, core.Color{}, core.LightRay{}
	default:
		return true, core.Color{}, core.LightRay{}
	}
}

// Emit returns the radiance contributed by an Emission material, or Black
// for any other kind.
func Emit(m *Material) core.Color {
	if m.Kind == Emission {
		return m.Emission
	}
	return core.Black
}

func lambertianBSDF(hit *HitRecord, sampler core.Sampler) (bool, core.Color, core.LightRay) {
	scatterDir := hit.Normal.Add(core.UniformUnitSphere(sampler)).Normalize()
	if scatterDir.IsZero() {
		scatterDir = hit.Normal
	}
	return false, hit.diffuseColor(), core.NewLightRay(hit.Point, scatterDir, core.RayScattered)
}

func metalBSDF(hit *HitRecord, sampler core.Sampler) (bool, core.Color, core.LightRay) {
	reflected := reflect(hit.Incident.Direction.Normalize(), hit.Normal)
	if rough := hit.roughnessValue(); rough > 0 {
		reflected = reflected.Add(core.UniformUnitSphere(sampler).Multiply(rough)).Normalize()
	}
	if reflected.Dot(hit.Normal) <= 0 {
		return true, core.Color{}, core.LightRay{} // absorbed below the surface
	}
	return false, hit.diffuseColor(), core.NewLightRay(hit.Point, reflected, core.RayReflected)
}

func dielectricBSDF(hit *HitRecord, sampler core.Sampler) (bool, core.Color, core.LightRay) {
	attenuation := hit.diffuseColor()
	unitDir := hit.Incident.Direction.Normalize()

	outwardNormal, niOverNt, cosine := dielectricGeometry(hit, unitDir)
	refracted, canRefract := refract(unitDir, outwardNormal, niOverNt)

	reflectProb := 1.0
	if canRefract {
		reflectProb = schlick(cosine, hit.Material.IOR)
	}

	if sampler.Next() < reflectProb {
		reflected := reflect(unitDir, hit.Normal)
		return false, attenuation, core.NewLightRay(hit.Point, reflected, core.RayReflected)
	}
	return false, attenuation, core.NewLightRay(hit.Point, refracted, core.RayRefracted)
}

// plasticBSDF models a dielectric coating over a diffuse substrate: Fresnel
// decides, per sample, whether this bounce reflects specularly off the
// coating (dispatching to shinyBSDF: a white mirror using the material's
// roughness) or scatters
// diffusely off the substrate beneath it. The refracted direction itself is
// only ever used to compute the Schlick probability - it never becomes the
// outgoing ray, since the coating is a thin, colorless layer above the
// substrate rather than a bulk refractive volume.
func plasticBSDF(hit *HitRecord, sampler core.Sampler) (bool, core.Color, core.LightRay) {
	unitDir := hit.Incident.Direction.Normalize()
	outwardNormal, niOverNt, cosine := dielectricGeometry(hit, unitDir)

	reflectProb := 1.0
	if _, canRefract := refract(unitDir, outwardNormal, niOverNt); canRefract {
		reflectProb = schlick(cosine, hit.Material.IOR)
	}

	if sampler.Next() < reflectProb {
		return shinyBSDF(hit, sampler)
	}
	return lambertianBSDF(hit, sampler)
}

// shinyBSDF is a colorless, roughness-aware mirror: the specular half of
// the Plastic coating.
func shinyBSDF(hit *HitRecord, sampler core.Sampler) (bool, core.Color, core.LightRay) {
	reflected := reflect(hit.Incident.Direction.Normalize(), hit.Normal)
	if rough := hit.roughnessValue(); rough > 0 {
		reflected = reflected.Add(core.UniformUnitSphere(sampler).Multiply(rough)).Normalize()
	}
	return false, core.White, core.NewLightRay(hit.Point, reflected, core.RayReflected)
}

// dielectricGeometry resolves the outward-facing normal, the ni/nt ratio and
// the Schlick cosine term from whether the ray is entering or leaving the
// surface, shared by Dielectric and Plastic.
func dielectricGeometry(hit *HitRecord, unitDir core.Vec3) (outwardNormal core.Vec3, niOverNt, cosine float64) {
	if unitDir.Dot(hit.Normal) > 0 {
		outwardNormal = hit.Normal.Negate()
		niOverNt = hit.Material.IOR
		cosine = hit.Material.IOR * unitDir.Dot(hit.Normal)
	} else {
		outwardNormal = hit.Normal
		niOverNt = 1.0 / hit.Material.IOR
		cosine = -unitDir.Dot(hit.Normal)
	}
	return outwardNormal, niOverNt, cosine
}

// reflect mirrors v about a surface with normal n.
func reflect(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// refract applies Snell's law; ok is false under total internal reflection.
func refract(uv, n core.Vec3, niOverNt float64) (refracted core.Vec3, ok bool) {
	dt := uv.Dot(n)
	discriminant := 1.0 - niOverNt*niOverNt*(1-dt*dt)
	if discriminant <= 0 {
		return core.Vec3{}, false
	}
	a := n.Multiply(dt)
	b := uv.Subtract(a)
	c := b.Multiply(niOverNt)
	d := n.Multiply(math.Sqrt(discriminant))
	return c.Subtract(d), true
}

// schlick is the Schlick approximation to the Fresnel reflectance at the
// given cosine and index of refraction.
func schlick(cosine, ior float64) float64 {
	r0 := (1 - ior) / (1 + ior)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
