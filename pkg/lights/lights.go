// Package lights implements emitters the path integrator can sample for
// next-event estimation: currently the distant disk light (a sun-like
// emitter with angular radius, used both standalone and as the emitter
// behind the atmosphere presets).
package lights

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/random"
	"github.com/aetherray/pbr/pkg/spectrum"
)

// Sample is the result of importance-sampling a light from a shading
// point: a direction, distance (+Inf for directional lights), the PDF of
// that direction, and the light's emission along it.
type Sample struct {
	Dir      core.Vec3
	Dist     float64
	PDF      float64
	Emission spectrum.Vec4
}

// Light is implemented by every emitter.
type Light interface {
	Emission(pos, dir core.Vec3, lambdas spectrum.Vec4, maxT float64) spectrum.Vec4
	Sample(pos core.Vec3, lambdas spectrum.Vec4, u core.Vec3) Sample
	PDF(pos, dir core.Vec3, lambdas spectrum.Vec4) float64
}

// DistantDiskLight models a light infinitely far away subtending a small
// solid angle, like the sun: Dir is the direction toward the light,
// CosRadius is the cosine of its angular radius, and EmissionSpectrum is
// already in radiance (use NewDistantDiskLightFromIrradiance to convert from an
// irradiance spectrum).
type DistantDiskLight struct {
	EmissionSpectrum spectrum.Spectrum
	Dir              core.Vec3
	CosRadius        float64
}

// NewDistantDiskLightFromIrradiance converts a measured irradiance
// spectrum into the radiance a disk of the given angular radius must
// emit to produce that irradiance, by dividing by its solid angle.
func NewDistantDiskLightFromIrradiance(dir core.Vec3, cosRadius float64, irradiance spectrum.Spectrum) DistantDiskLight {
	sizeSteradians := 2.0 * math.Pi * (1.0 - cosRadius)
	return DistantDiskLight{
		EmissionSpectrum: spectrum.Amplified{Factor: 1.0 / sizeSteradians, Inner: irradiance},
		Dir:              dir,
		CosRadius:        cosRadius,
	}
}

func (l DistantDiskLight) Emission(pos, dir core.Vec3, lambdas spectrum.Vec4, maxT float64) spectrum.Vec4 {
	if math.IsInf(maxT, 1) && dir.Dot(l.Dir) >= l.CosRadius {
		return spectrum.Sample4(l.EmissionSpectrum, lambdas)
	}
	return spectrum.ZeroVec4
}

func (l DistantDiskLight) Sample(pos core.Vec3, lambdas spectrum.Vec4, u core.Vec3) Sample {
	z := lerp(l.CosRadius, 1.0, u.X)
	sinPhi, cosPhi := math.Sincos(u.Y * 2.0 * math.Pi)
	r := math.Sqrt(math.Max(0, 1.0-z*z))

	tangent, bitangent := random.AnyOrthonormalPair(l.Dir)
	dir := tangent.Multiply(cosPhi * r).Add(bitangent.Multiply(sinPhi * r)).Add(l.Dir.Multiply(z))

	return Sample{
		Dir:      dir,
		Dist:     math.Inf(1),
		PDF:      l.PDF(pos, dir, lambdas),
		Emission: l.Emission(pos, dir, lambdas, math.Inf(1)),
	}
}

func (l DistantDiskLight) PDF(pos, dir core.Vec3, lambdas spectrum.Vec4) float64 {
	if dir.Dot(l.Dir) >= l.CosRadius {
		return 1.0 / ((1.0 - l.CosRadius) * 2.0 * math.Pi)
	}
	return 0
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
