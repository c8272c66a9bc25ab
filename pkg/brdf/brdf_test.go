package brdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/spectrum"
)

var testLambdas = spectrum.Vec4{X: 550, Y: 600, Z: 650, W: 700}

// view returns a direction pointing down onto an up-facing (+z) surface,
// slightly off-axis so tangent-frame construction never degenerates.
func view() core.Vec3 {
	return core.NewVec3(0.3, 0.1, -0.9).Normalize()
}

func TestLambertianSampleAgreesWithPDFAndF(t *testing.T) {
	l := Lambertian{Albedo: spectrum.Constant(0.5)}
	normal := core.NewVec3(0, 0, 1)
	outgoing := view()

	s := l.Sample(outgoing, normal, testLambdas, core.NewVec3(0.3, 0.7, 0.1))
	require.Greater(t, s.PDF, 0.0)
	assert.Greater(t, s.Dir.Dot(normal), 0.0)

	f := l.F(s.Dir, outgoing, normal, testLambdas)
	pdf := l.PDF(s.Dir, outgoing, normal, testLambdas.X)
	assert.InDelta(t, s.PDF, pdf, 1e-9)
	assert.InDelta(t, 0.5/math.Pi, f.X, 1e-9)
}

func TestLambertianSameSideOnly(t *testing.T) {
	l := Lambertian{Albedo: spectrum.Constant(0.5)}
	normal := core.NewVec3(0, 0, 1)
	outgoing := view()

	below := core.NewVec3(0.2, 0.2, -0.9).Normalize()
	assert.True(t, l.F(below, outgoing, normal, testLambdas).IsZero())
}

// Monte-Carlo estimate of the reflected energy integral
// E[f*cos/pdf] over the built-in sampler; must stay <= 1.
func TestLambertianEnergyConservation(t *testing.T) {
	l := Lambertian{Albedo: spectrum.Constant(0.8)}
	normal := core.NewVec3(0, 0, 1)
	outgoing := view()
	rng := rand.New(rand.NewSource(11))

	const n = 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		u := core.NewVec3(rng.Float64(), rng.Float64(), rng.Float64())
		s := l.Sample(outgoing, normal, testLambdas, u)
		if s.PDF <= 0 {
			continue
		}
		sum += s.F.X * s.Dir.AbsDot(normal) / s.PDF
	}
	estimate := sum / n
	assert.InDelta(t, 0.8, estimate, 0.02)
	assert.LessOrEqual(t, estimate, 1.0+0.02)
}

func TestPhongSpecularEnergyConservation(t *testing.T) {
	p := PhongSpecular{Albedo: spectrum.Constant(0.9), Power: 30}
	normal := core.NewVec3(0, 0, 1)
	outgoing := view()
	rng := rand.New(rand.NewSource(12))

	const n = 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		u := core.NewVec3(rng.Float64(), rng.Float64(), rng.Float64())
		s := p.Sample(outgoing, normal, testLambdas, u)
		if s.PDF <= 0 {
			continue
		}
		sum += s.F.X * s.Dir.AbsDot(normal) / s.PDF
	}
	assert.LessOrEqual(t, sum/n, 1.0+0.02)
}

func TestPhongSpecularLobePeaksAtMirror(t *testing.T) {
	p := PhongSpecular{Albedo: spectrum.Constant(1.0), Power: 50}
	normal := core.NewVec3(0, 0, 1)
	outgoing := view()
	mirror := outgoing.Reflect(normal)

	atPeak := p.F(mirror, outgoing, normal, testLambdas)
	offPeak := p.F(mirror.Add(core.NewVec3(0.3, 0, 0)).Normalize(), outgoing, normal, testLambdas)
	assert.Greater(t, atPeak.X, offPeak.X)
}

func TestSmoothConductorIsSingularMirror(t *testing.T) {
	c := SmoothConductor{
		IORReal:      spectrum.Constant(0.2),
		IORImaginary: spectrum.Constant(3.0),
	}
	normal := core.NewVec3(0, 0, 1)
	outgoing := view()

	s := c.Sample(outgoing, normal, testLambdas, core.NewVec3(0, 0, 0))
	assert.True(t, s.Singular)
	assert.InDelta(t, 1.0, s.PDF, 1e-12)
	assert.Greater(t, s.Dir.Dot(normal), 0.0)

	// The sampled direction is the exact mirror of the view ray.
	mirror := outgoing.Reflect(normal)
	assert.InDelta(t, 1.0, s.Dir.Dot(mirror), 1e-12)
}

func TestComplexFresnelNormalIncidence(t *testing.T) {
	eta, k := 0.2, 3.0
	got := FresnelComplex(1.0, complex(eta, k))
	want := ((eta-1)*(eta-1) + k*k) / ((eta+1)*(eta+1) + k*k)
	assert.InDelta(t, want, got, 1e-12)
}

func TestRealFresnelGrazingIsOne(t *testing.T) {
	assert.InDelta(t, 1.0, FresnelReal(0.0, 1.5), 1e-12)
	assert.InDelta(t, 1.0, FresnelReal(0.0, 1.0/1.5), 1e-12)
}

func TestRoughConductorSmoothLimitMatchesMirror(t *testing.T) {
	rc := RoughConductor{
		IORReal:      spectrum.Constant(0.2),
		IORImaginary: spectrum.Constant(3.0),
		Distribution: TrowbridgeReitz{Alpha: 0.0001},
	}
	assert.True(t, rc.Distribution.EffectivelySmooth())

	normal := core.NewVec3(0, 0, 1)
	outgoing := view()
	s := rc.Sample(outgoing, normal, testLambdas, core.NewVec3(0.1, 0.2, 0.3))
	assert.True(t, s.Singular)
	mirror := outgoing.Reflect(normal)
	assert.InDelta(t, 1.0, s.Dir.Dot(mirror), 1e-9)
}

func TestRoughConductorSampleMatchesDeclaredPDF(t *testing.T) {
	rc := RoughConductor{
		IORReal:      spectrum.Constant(0.2),
		IORImaginary: spectrum.Constant(3.0),
		Distribution: TrowbridgeReitz{Alpha: 0.3},
	}
	normal := core.NewVec3(0, 0, 1)
	outgoing := view()
	rng := rand.New(rand.NewSource(13))

	for i := 0; i < 200; i++ {
		u := core.NewVec3(rng.Float64(), rng.Float64(), rng.Float64())
		s := rc.Sample(outgoing, normal, testLambdas, u)
		if s.Dir.IsZero() {
			continue
		}
		pdf := rc.PDF(s.Dir, outgoing, normal, testLambdas.X)
		assert.InDelta(t, s.PDF, pdf, 1e-9*math.Max(1, s.PDF))

		f := rc.F(s.Dir, outgoing, normal, testLambdas)
		assert.InDelta(t, s.F.X, f.X, 1e-9*math.Max(1, s.F.X))
	}
}

func TestDielectricReflectOrRefract(t *testing.T) {
	d := Dielectric{IOR: spectrum.Constant(1.5)}
	normal := core.NewVec3(0, 0, 1)
	outgoing := core.NewVec3(0, 0, -1)

	reflectSample := d.Sample(outgoing, normal, testLambdas, core.NewVec3(0, 0, 0))
	assert.True(t, reflectSample.Singular)
	assert.False(t, reflectSample.TerminateSecondary)
	assert.Greater(t, reflectSample.Dir.Dot(normal), 0.0)
	// Normal-incidence reflectance of IOR 1.5 is ((1.5-1)/(1.5+1))^2.
	assert.InDelta(t, 0.04, reflectSample.PDF, 1e-9)

	refractSample := d.Sample(outgoing, normal, testLambdas, core.NewVec3(0, 0, 0.999))
	assert.True(t, refractSample.Singular)
	assert.True(t, refractSample.TerminateSecondary)
	assert.Less(t, refractSample.Dir.Dot(normal), 0.0)
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	d := Dielectric{IOR: spectrum.Constant(1.5)}
	normal := core.NewVec3(0, 0, 1)
	// From inside the glass, hitting the surface at ~64 degrees from the
	// normal, well beyond the ~41.8 degree critical angle.
	outgoing := core.NewVec3(0.9, 0, 0.435).Normalize()
	require.Greater(t, outgoing.Dot(normal), 0.0)

	s := d.Sample(outgoing, normal, testLambdas, core.NewVec3(0, 0, 0.999))
	assert.True(t, s.Singular)
	assert.False(t, s.TerminateSecondary)
	assert.InDelta(t, 1.0, s.PDF, 1e-9)
	assert.Less(t, s.Dir.Dot(normal), 0.0)
}

func TestThinDielectricPassesThroughUndeviated(t *testing.T) {
	d := ThinDielectric{IOR: spectrum.Constant(1.5)}
	normal := core.NewVec3(0, 0, 1)
	outgoing := core.NewVec3(0, 0, -1)

	s := d.Sample(outgoing, normal, testLambdas, core.NewVec3(0, 0, 0.999))
	assert.False(t, s.TerminateSecondary)
	assert.True(t, s.Singular)
	assert.Equal(t, outgoing, s.Dir)
}

func TestThinDielectricTwoInterfaceFresnel(t *testing.T) {
	// R_total = R + T^2*R/(1-R^2) at normal incidence: R = 0.04 for IOR
	// 1.5, so R_total = 0.04 + 0.96^2*0.04/(1-0.0016).
	r := 0.04
	want := r + (1-r)*(1-r)*r/(1-r*r)
	got := thinFresnel(1.0, 1.5)
	assert.InDelta(t, want, got, 1e-9)
}

func TestCompositeRescalesPDF(t *testing.T) {
	c := Composite{
		A:      Lambertian{Albedo: spectrum.Constant(0.5)},
		B:      PhongSpecular{Albedo: spectrum.Constant(0.5), Power: 20},
		Weight: 0.5,
	}
	normal := core.NewVec3(0, 0, 1)
	outgoing := view()

	s := c.Sample(outgoing, normal, testLambdas, core.NewVec3(0.2, 0.4, 0.1))
	assert.Greater(t, s.PDF, 0.0)
	assert.False(t, s.Singular)

	pdf := c.PDF(s.Dir, outgoing, normal, testLambdas.X)
	assert.InDelta(t, s.PDF, pdf, 1e-9)
}
