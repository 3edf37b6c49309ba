package core

import "math"

// UniformUnitSphere draws a uniformly distributed unit vector from two
// sampler scalars using Archimedes' cylindrical projection. Tests pin the
// RNG seed and compare pixel values, so this exact construction must not be
// "improved" or reformulated even though equivalent ones exist.
func UniformUnitSphere(sampler Sampler) Vec3 {
	a, b := Next2(sampler)
	phi := 2 * math.Pi * a
	s := 2 * math.Sqrt(math.Max(0, b*(1-b)))
	return Vec3{
		X: math.Cos(phi) * s,
		Y: math.Sin(phi) * s,
		Z: 1 - 2*b,
	}
}
