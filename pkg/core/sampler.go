package core

import "math/rand"

// Strategy selects the scalar-generation algorithm a Sampler uses. Random is
// the only strategy this module ships; the type exists so alternate
// low-discrepancy strategies can be substituted without changing callers.
type Strategy int

const (
	StrategyRandom Strategy = iota
)

// RandomSampler implements Sampler with a seeded PRNG. For fixed
// (strategy, sampleIndex, pixelIndex) the produced sequence is identical
// across runs and platforms, since math/rand's algorithm is pure Go and its
// seeding here depends only on its integer inputs.
type RandomSampler struct {
	rng *rand.Rand
}

// NewSampler constructs a Sampler for one (pixel, sample-index) draw.
// totalSamples is accepted for symmetry with strategies (e.g. stratified or
// low-discrepancy ones) that need the sample budget to place a point in a
// sequence; RandomSampler ignores it.
func NewSampler(strategy Strategy, sampleIndex, totalSamples, pixelIndex int) Sampler {
	switch strategy {
	case StrategyRandom:
		return &RandomSampler{rng: rand.New(rand.NewSource(seedFor(sampleIndex, pixelIndex)))}
	default:
		return &RandomSampler{rng: rand.New(rand.NewSource(seedFor(sampleIndex, pixelIndex)))}
	}
}

// seedFor combines the sample index and pixel index into a single seed.
// The multiplier is a large odd 64-bit constant (the golden-ratio increment)
// so neighboring pixels and neighboring sample indices don't collide into
// correlated seeds. The arithmetic wraps in uint64.
func seedFor(sampleIndex, pixelIndex int) int64 {
	const pixelMixer uint64 = 0x9E3779B97F4A7C15
	return int64(uint64(sampleIndex)*pixelMixer + uint64(pixelIndex))
}

// Next returns the next uniform scalar in [0,1).
func (s *RandomSampler) Next() float64 {
	return s.rng.Float64()
}

// Next2 draws two independent scalars in one call - a convenience for BSDFs
// that always need a 2D sample (e.g. unit-sphere sampling).
func Next2(s Sampler) (float64, float64) {
	return s.Next(), s.Next()
}
