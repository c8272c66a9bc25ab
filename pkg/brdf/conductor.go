package brdf

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/spectrum"
)

// SmoothConductor is a singular mirror whose reflectance is the complex
// Fresnel term for the conductor's (wavelength-dependent) IOR.
type SmoothConductor struct {
	IORReal      spectrum.Spectrum
	IORImaginary spectrum.Spectrum
}

func (c SmoothConductor) F(incoming, outgoing, normal core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	return spectrum.ZeroVec4
}

func (c SmoothConductor) Sample(outgoing, normal core.Vec3, lambdas spectrum.Vec4, u core.Vec3) Sample {
	cosI := -outgoing.Dot(normal)
	if cosI < 0 {
		return Sample{Singular: true}
	}
	incoming := outgoing.Reflect(normal)
	ior := spectrum.Sample4(c.IORReal, lambdas)
	iorIm := spectrum.Sample4(c.IORImaginary, lambdas)
	fresnel := spectrum.Vec4{
		X: FresnelComplex(cosI, complex(ior.X, iorIm.X)),
		Y: FresnelComplex(cosI, complex(ior.Y, iorIm.Y)),
		Z: FresnelComplex(cosI, complex(ior.Z, iorIm.Z)),
		W: FresnelComplex(cosI, complex(ior.W, iorIm.W)),
	}
	return Sample{
		Dir:      incoming,
		PDF:      1.0,
		F:        fresnel.Scale(1.0 / cosI),
		Singular: true,
	}
}

func (c SmoothConductor) PDF(incoming, outgoing, normal core.Vec3, lambda float64) float64 {
	return 0
}

// TrowbridgeReitz is the GGX microfacet normal distribution, parametrized
// by an isotropic roughness Alpha.
type TrowbridgeReitz struct {
	Alpha float64
}

// EffectivelySmooth matches the 1e-3 threshold spec §8 uses to decide a
// rough-conductor lobe is indistinguishable from a mirror.
func (d TrowbridgeReitz) EffectivelySmooth() bool {
	return d.Alpha < 1e-3
}

func (d TrowbridgeReitz) D(microNormal, normal core.Vec3) float64 {
	cosTheta := microNormal.Dot(normal)
	if cosTheta <= 0 {
		return 0
	}
	cos2 := cosTheta * cosTheta
	tan2 := (1 - cos2) / cos2
	alpha2 := d.Alpha * d.Alpha
	denom := cos2 * cos2 * (alpha2 + tan2) * (alpha2 + tan2)
	return alpha2 / (piConst * denom)
}

func (d TrowbridgeReitz) lambda(w, normal core.Vec3) float64 {
	cosTheta := absF(w.Dot(normal))
	if cosTheta >= 1 {
		return 0
	}
	sin2 := 1 - cosTheta*cosTheta
	tan2 := sin2 / (cosTheta * cosTheta)
	alpha2Tan2 := d.Alpha * d.Alpha * tan2
	return (sqrtF(1+alpha2Tan2) - 1) / 2
}

func (d TrowbridgeReitz) G1(w, normal core.Vec3) float64 {
	return 1.0 / (1.0 + d.lambda(w, normal))
}

func (d TrowbridgeReitz) G(incoming, outgoing, normal core.Vec3) float64 {
	return 1.0 / (1.0 + d.lambda(incoming, normal) + d.lambda(outgoing, normal))
}

// sampleMicroNormal draws a micro-normal from the visible normal
// distribution (VNDF) for outgoing, following the standard
// Heitz (2018) isotropic GGX VNDF sampling routine.
func (d TrowbridgeReitz) sampleMicroNormal(outgoing, normal core.Vec3, u core.Vec3) core.Vec3 {
	tangent, bitangent := orthonormalBasis(normal)
	// Transform -outgoing (the view direction in the hemisphere convention
	// this function expects) into the local frame stretched by alpha.
	woLocal := core.NewVec3(
		outgoing.Negate().Dot(tangent)*d.Alpha,
		outgoing.Negate().Dot(bitangent)*d.Alpha,
		outgoing.Negate().Dot(normal),
	)
	woHemi := woLocal.Normalize()

	t1 := core.NewVec3(-woHemi.Y, woHemi.X, 0)
	if woHemi.X*woHemi.X+woHemi.Y*woHemi.Y < 1e-14 {
		t1 = core.NewVec3(1, 0, 0)
	} else {
		t1 = t1.Normalize()
	}
	t2 := woHemi.Cross(t1)

	r := sqrtF(u.X)
	phi := 2 * piConst * u.Y
	p1 := r * cosF(phi)
	p2 := r * sinF(phi)
	s := 0.5 * (1 + woHemi.Z)
	p2 = (1-s)*sqrtF(maxF(0, 1-p1*p1)) + s*p2

	pz := sqrtF(maxF(0, 1-p1*p1-p2*p2))
	nHemi := t1.Multiply(p1).Add(t2.Multiply(p2)).Add(woHemi.Multiply(pz))

	microLocal := core.NewVec3(nHemi.X*d.Alpha, nHemi.Y*d.Alpha, maxF(1e-6, nHemi.Z))
	microLocal = microLocal.Normalize()

	return tangent.Multiply(microLocal.X).Add(bitangent.Multiply(microLocal.Y)).Add(normal.Multiply(microLocal.Z))
}

func (d TrowbridgeReitz) microNormalPDF(outgoing, microNormal, normal core.Vec3) float64 {
	cosO := absF(outgoing.Dot(normal))
	if cosO == 0 {
		return 0
	}
	return d.G1(outgoing, normal) / cosO * d.D(microNormal, normal) * absF(outgoing.Dot(microNormal))
}

func orthonormalBasis(n core.Vec3) (core.Vec3, core.Vec3) {
	var up core.Vec3
	if absF(n.Z) < 0.999 {
		up = core.NewVec3(0, 0, 1)
	} else {
		up = core.NewVec3(1, 0, 0)
	}
	tangent := up.Cross(n).Normalize()
	bitangent := n.Cross(tangent)
	return tangent, bitangent
}

// RoughConductor is a Trowbridge-Reitz microfacet conductor, VNDF-sampled.
type RoughConductor struct {
	IORReal      spectrum.Spectrum
	IORImaginary spectrum.Spectrum
	Distribution TrowbridgeReitz
}

func (c RoughConductor) fresnelVec4(cosI float64, lambdas spectrum.Vec4) spectrum.Vec4 {
	ior := spectrum.Sample4(c.IORReal, lambdas)
	iorIm := spectrum.Sample4(c.IORImaginary, lambdas)
	return spectrum.Vec4{
		X: FresnelComplex(cosI, complex(ior.X, iorIm.X)),
		Y: FresnelComplex(cosI, complex(ior.Y, iorIm.Y)),
		Z: FresnelComplex(cosI, complex(ior.Z, iorIm.Z)),
		W: FresnelComplex(cosI, complex(ior.W, iorIm.W)),
	}
}

func (c RoughConductor) F(incoming, outgoing, normal core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	if incoming.Dot(normal)*outgoing.Dot(normal) > 0 {
		return spectrum.ZeroVec4
	}
	cosOut := absF(outgoing.Dot(normal))
	cosIn := absF(incoming.Dot(normal))
	if cosOut == 0 || cosIn == 0 {
		return spectrum.ZeroVec4
	}
	microNormal := incoming.Subtract(outgoing)
	if microNormal.LengthSquared() == 0 {
		return spectrum.ZeroVec4
	}
	microNormal = microNormal.Normalize()

	fresnel := c.fresnelVec4(absF(outgoing.Dot(microNormal)), lambdas)
	factor := c.Distribution.D(microNormal, normal) * c.Distribution.G(incoming, outgoing, normal) / (4 * cosIn * cosOut)
	return fresnel.Scale(factor)
}

func (c RoughConductor) Sample(outgoing, normal core.Vec3, lambdas spectrum.Vec4, u core.Vec3) Sample {
	cosOut := -outgoing.Dot(normal)
	if cosOut < 0 {
		return Sample{Singular: true}
	}

	if c.Distribution.EffectivelySmooth() {
		smooth := SmoothConductor{IORReal: c.IORReal, IORImaginary: c.IORImaginary}
		return smooth.Sample(outgoing, normal, lambdas, u)
	}

	microNormal := c.Distribution.sampleMicroNormal(outgoing, normal, u)
	incoming := outgoing.Reflect(microNormal)
	if outgoing.Dot(normal)*incoming.Dot(normal) > 0 {
		return Sample{Singular: true}
	}

	pdf := c.Distribution.microNormalPDF(outgoing, microNormal, normal) / (4 * absF(outgoing.Dot(microNormal)))
	cosIn := absF(incoming.Dot(normal))

	fresnel := c.fresnelVec4(absF(outgoing.Dot(microNormal)), lambdas)
	factor := c.Distribution.D(microNormal, normal) * c.Distribution.G(incoming, outgoing, normal) / (4 * cosIn * cosOut)

	return Sample{
		Dir:      incoming,
		PDF:      pdf,
		F:        fresnel.Scale(factor),
		Singular: false,
	}
}

func (c RoughConductor) PDF(incoming, outgoing, normal core.Vec3, lambda float64) float64 {
	diff := incoming.Subtract(outgoing)
	if diff.LengthSquared() == 0 {
		return 0
	}
	microNormal := diff.Normalize()
	if microNormal.Dot(normal) < 0 {
		microNormal = microNormal.Negate()
	}
	return c.Distribution.microNormalPDF(outgoing, microNormal, normal) / (4 * absF(outgoing.Dot(microNormal)))
}

const piConst = math.Pi

func absF(x float64) float64 {
	return math.Abs(x)
}
func maxF(a, b float64) float64 {
	return math.Max(a, b)
}
func sqrtF(x float64) float64 {
	return math.Sqrt(x)
}
func cosF(x float64) float64 { return math.Cos(x) }
func sinF(x float64) float64 { return math.Sin(x) }
