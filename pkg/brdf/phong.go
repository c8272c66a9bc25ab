package brdf

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/spectrum"
)

// PhongSpecular is a mirror-like lobe centered on reflect(outgoing, normal)
// with concentration exponent Power.
type PhongSpecular struct {
	Albedo spectrum.Spectrum
	Power  float64
}

func (p PhongSpecular) F(incoming, outgoing, normal core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	if outgoing.Dot(normal) > 0 || incoming.Dot(normal) < 0 {
		return spectrum.ZeroVec4
	}
	reflect := outgoing.Reflect(normal)
	cosAlpha := math.Max(0, incoming.Dot(reflect))
	return spectrum.Sample4(p.Albedo, lambdas).Scale((p.Power + 2.0) / (2.0 * math.Pi) * math.Pow(cosAlpha, p.Power))
}

func (p PhongSpecular) Sample(outgoing, normal core.Vec3, lambdas spectrum.Vec4, u core.Vec3) Sample {
	reflect := outgoing.Reflect(normal)
	incoming := lobeSample(reflect, normal, p.Power, u)
	return Sample{
		Dir: incoming,
		PDF: p.PDF(incoming, outgoing, normal, lambdas.X),
		F:   p.F(incoming, outgoing, normal, lambdas),
	}
}

func (p PhongSpecular) PDF(incoming, outgoing, normal core.Vec3, lambda float64) float64 {
	_ = lambda
	reflect := outgoing.Reflect(normal)
	cosAlpha := math.Max(0, incoming.Dot(reflect))
	return (p.Power + 1.0) / (2.0 * math.Pi) * math.Pow(cosAlpha, p.Power)
}

// PhongRetro mirrors the same lobe shape around -outgoing instead of the
// mirror direction, modeling retroreflective materials.
type PhongRetro struct {
	Albedo spectrum.Spectrum
	Power  float64
}

func (p PhongRetro) F(incoming, outgoing, normal core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	if outgoing.Dot(normal) > 0 || incoming.Dot(normal) < 0 {
		return spectrum.ZeroVec4
	}
	retro := outgoing.Negate()
	cosAlpha := math.Max(0, incoming.Dot(retro))
	return spectrum.Sample4(p.Albedo, lambdas).Scale((p.Power + 2.0) / (2.0 * math.Pi) * math.Pow(cosAlpha, p.Power))
}

func (p PhongRetro) Sample(outgoing, normal core.Vec3, lambdas spectrum.Vec4, u core.Vec3) Sample {
	retro := outgoing.Negate()
	incoming := lobeSample(retro, normal, p.Power, u)
	return Sample{
		Dir: incoming,
		PDF: p.PDF(incoming, outgoing, normal, lambdas.X),
		F:   p.F(incoming, outgoing, normal, lambdas),
	}
}

func (p PhongRetro) PDF(incoming, outgoing, normal core.Vec3, lambda float64) float64 {
	_ = normal
	_ = lambda
	retro := outgoing.Negate()
	cosAlpha := math.Max(0, incoming.Dot(retro))
	return (p.Power + 1.0) / (2.0 * math.Pi) * math.Pow(cosAlpha, p.Power)
}

// lobeSample draws a direction from a cos^power lobe around axis, using
// normal only to build the tangent frame (mirrors the reference
// implementation's axis.cross(normal) construction).
func lobeSample(axis, normal core.Vec3, power float64, u core.Vec3) core.Vec3 {
	z := math.Pow(u.X, 1.0/(power+1.0))
	angle := 2.0 * math.Pi * u.Y
	r := math.Sqrt(math.Max(0, 1-z*z))
	x := math.Cos(angle) * r
	y := math.Sin(angle) * r

	tangent := axis.Cross(normal).Normalize()
	bitangent := axis.Cross(tangent)
	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(axis.Multiply(z))
}
