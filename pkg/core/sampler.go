package core

import "math/rand"

// Sampler is a source of canonical random numbers on [0,1) used throughout
// the integrator. Each render worker owns exactly one Sampler; it is never
// shared across goroutines.
type Sampler interface {
	Float64() float64
	Vec2() Vec2
	Vec3() Vec3
}

// RandSampler wraps a *rand.Rand seeded deterministically per pixel/sample so
// renders are reproducible given the same pixel coordinate and sample index.
type RandSampler struct {
	rng *rand.Rand
}

// NewRandSampler seeds a sampler from a (pixelX, pixelY, sampleIndex) tuple,
// the reproducibility contract the render driver relies on.
func NewRandSampler(pixelX, pixelY, sampleIndex int) *RandSampler {
	seed := hashSeed(pixelX, pixelY, sampleIndex)
	return &RandSampler{rng: rand.New(rand.NewSource(seed))}
}

func hashSeed(x, y, s int) int64 {
	// Splitmix64-style mixing so nearby pixels don't produce correlated streams.
	h := uint64(x)*2654435761 ^ uint64(y)*2246822519 ^ uint64(s)*3266489917
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return int64(h)
}

func (s *RandSampler) Float64() float64 {
	return s.rng.Float64()
}

func (s *RandSampler) Vec2() Vec2 {
	return Vec2{X: s.rng.Float64(), Y: s.rng.Float64()}
}

func (s *RandSampler) Vec3() Vec3 {
	return Vec3{X: s.rng.Float64(), Y: s.rng.Float64(), Z: s.rng.Float64()}
}
