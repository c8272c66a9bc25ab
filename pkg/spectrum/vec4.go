package spectrum

import "math"

// Vec4 is a spectral quantity sampled at four correlated (hero-wavelength)
// wavelengths, or a throughput/radiance accumulator indexed the same way.
type Vec4 struct {
	X, Y, Z, W float64
}

func NewVec4(x, y, z, w float64) Vec4 { return Vec4{x, y, z, w} }

func SplatVec4(v float64) Vec4 { return Vec4{v, v, v, v} }

var (
	ZeroVec4 = Vec4{}
	OneVec4  = Vec4{1, 1, 1, 1}
)

func (v Vec4) Add(o Vec4) Vec4 {
	return Vec4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W}
}

func (v Vec4) Sub(o Vec4) Vec4 {
	return Vec4{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W}
}

func (v Vec4) Mul(o Vec4) Vec4 {
	return Vec4{v.X * o.X, v.Y * o.Y, v.Z * o.Z, v.W * o.W}
}

func (v Vec4) Div(o Vec4) Vec4 {
	return Vec4{divOrZero(v.X, o.X), divOrZero(v.Y, o.Y), divOrZero(v.Z, o.Z), divOrZero(v.W, o.W)}
}

func divOrZero(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// HeroOnly zeros the three secondary components and scales the hero
// component by 4, keeping the radiance estimator unbiased after a
// wavelength-decorrelating event.
func (v Vec4) HeroOnly() Vec4 {
	return Vec4{v.X * 4.0, 0, 0, 0}
}

// Hero4 replicates the hero (index 0) component across all four lanes —
// used to evaluate the majorant when the walk has already decorrelated.
func (v Vec4) Hero4() Vec4 {
	return Vec4{v.X, v.X, v.X, v.X}
}

func (v Vec4) MaxComponent() float64 {
	m := v.X
	m = math.Max(m, v.Y)
	m = math.Max(m, v.Z)
	m = math.Max(m, v.W)
	return m
}

func (v Vec4) Sum() float64 {
	return v.X + v.Y + v.Z + v.W
}

func (v Vec4) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0 && v.W == 0
}

// ClampNonNegativeFinite replaces any NaN or negative component with zero,
// the guarantee the film accumulator depends on (spec §7: NaNs must not
// reach the film).
func (v Vec4) ClampNonNegativeFinite() Vec4 {
	clamp := func(x float64) float64 {
		if math.IsNaN(x) || x < 0 || math.IsInf(x, 0) {
			return 0
		}
		return x
	}
	return Vec4{clamp(v.X), clamp(v.Y), clamp(v.Z), clamp(v.W)}
}
