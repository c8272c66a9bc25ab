package integrator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aetherray/pbr/pkg/brdf"
	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/geometry"
	"github.com/aetherray/pbr/pkg/lights"
	"github.com/aetherray/pbr/pkg/material"
	"github.com/aetherray/pbr/pkg/medium"
	"github.com/aetherray/pbr/pkg/scene"
	"github.com/aetherray/pbr/pkg/spectrum"
)

var testLambdas = spectrum.Vec4{X: 550, Y: 600, Z: 650, W: 700}

func TestPathTraceMissReturnsSkyLightEmission(t *testing.T) {
	sun := lights.DistantDiskLight{EmissionSpectrum: spectrum.Constant(2.0), Dir: core.NewVec3(0, 0, 1), CosRadius: 0.999}
	s := scene.NewScene(nil, []lights.Light{sun}, medium.Vacuum{})

	sampler := core.NewRandSampler(0, 0, 0)
	radiance := PathTrace(s, core.Vec3{}, core.NewVec3(0, 0, 1), testLambdas, medium.Vacuum{}, sampler)

	assert.Greater(t, radiance.X, 0.0)
}

func TestPathTraceHitsEmissiveSurfaceDirectly(t *testing.T) {
	// An opaque emitter: the walk adds its emission once, then the diffuse
	// bounce leaves the sphere and escapes a lightless scene, so the only
	// radiance is the emission itself.
	emitter := &material.Material{
		Emission: spectrum.Constant(5.0),
		BRDF:     brdf.Lambertian{Albedo: spectrum.Constant(0.8)},
	}
	sphere := geometry.Sphere{Center: core.NewVec3(0, 0, 5), Radius: 1.0, Material: emitter}
	s := scene.NewScene([]geometry.Object{sphere}, nil, medium.Vacuum{})

	sampler := core.NewRandSampler(1, 1, 0)
	radiance := PathTrace(s, core.NewVec3(0.05, 0.02, 0), core.NewVec3(0, 0, 1), testLambdas, medium.Vacuum{}, sampler)

	assert.InDelta(t, 5.0, radiance.X, 1e-9)
}

func TestPathTraceDiffuseBounceStaysNonNegative(t *testing.T) {
	diffuse := &material.Material{BRDF: brdf.Lambertian{Albedo: spectrum.Constant(0.8)}}
	plane := geometry.Plane{Point: core.NewVec3(0, -1, 0), Normal: core.NewVec3(0, 1, 0), Material: diffuse}
	sun := lights.DistantDiskLight{EmissionSpectrum: spectrum.Constant(3.0), Dir: core.NewVec3(0, 1, 0), CosRadius: 0.95}
	s := scene.NewScene([]geometry.Object{plane}, []lights.Light{sun}, medium.Vacuum{})

	sampler := core.NewRandSampler(2, 2, 0)
	radiance := PathTrace(s, core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0), testLambdas, medium.Vacuum{}, sampler)

	v := radiance.ClampNonNegativeFinite()
	assert.Equal(t, radiance, v)
}

func TestTransmittanceOccludedByOpaqueSurfaceIsZero(t *testing.T) {
	opaque := &material.Material{BRDF: brdf.Lambertian{Albedo: spectrum.Constant(0.5)}}
	wall := geometry.Sphere{Center: core.NewVec3(0, 0, 5), Radius: 1.0, Material: opaque}
	s := scene.NewScene([]geometry.Object{wall}, nil, medium.Vacuum{})

	sampler := core.NewRandSampler(3, 3, 0)
	tr := Transmittance(s, core.Vec3{}, core.NewVec3(0, 0, 1), testLambdas, false, medium.Vacuum{}, math.Inf(1), sampler)

	assert.True(t, tr.IsZero())
}

func TestTransmittanceUnobstructedIsOne(t *testing.T) {
	s := scene.NewScene(nil, nil, medium.Vacuum{})
	sampler := core.NewRandSampler(4, 4, 0)
	tr := Transmittance(s, core.Vec3{}, core.NewVec3(0, 0, 1), testLambdas, false, medium.Vacuum{}, 10.0, sampler)

	assert.Equal(t, spectrum.OneVec4, tr)
}

func TestTransmittanceAttenuatesThroughUnboundedParticipatingMedium(t *testing.T) {
	s := scene.NewScene(nil, nil, medium.Vacuum{})
	fog := medium.TestHomogeneous{
		Absorption: spectrum.Constant(5.0),
		Scattering: spectrum.Constant(0.0),
		Emission:   spectrum.Constant(0.0),
	}

	sampler := core.NewRandSampler(6, 6, 0)
	tr := Transmittance(s, core.Vec3{}, core.NewVec3(0, 0, 1), testLambdas, false, fog, 10.0, sampler)

	assert.Less(t, tr.X, 1.0)
	assert.GreaterOrEqual(t, tr.X, 0.0)
}

func TestShadowRayDistanceClampsInfiniteToFiniteSceneHorizon(t *testing.T) {
	sphere := geometry.Sphere{Center: core.NewVec3(0, 0, 0), Radius: 3.0, Material: &material.Material{}}
	s := scene.NewScene([]geometry.Object{sphere}, nil, medium.Vacuum{})

	d := shadowRayDistance(s, math.Inf(1))
	assert.False(t, math.IsInf(d, 1))
	assert.Greater(t, d, 0.0)

	assert.Equal(t, 7.5, shadowRayDistance(s, 7.5))
}

func TestPathTraceThroughUnboundedParticipatingMediumReachesSky(t *testing.T) {
	// No enclosing surface at all (nil objects) and a camera medium that
	// reports itself as participating: the ray never hits anything, so
	// the volume-sampling branch must delta-track out to a finite
	// horizon and fall through to the sky-light check rather than
	// bailing out to zero radiance, the regression this test guards
	// against (the scenario-6 atmosphere preset hits this on most
	// pixels, since the camera sits inside the atmosphere medium with
	// no bounding geometry above it).
	sunDir := core.NewVec3(0, 0, 1)
	sun := lights.DistantDiskLight{EmissionSpectrum: spectrum.Constant(4.0), Dir: sunDir, CosRadius: 0.999}
	s := scene.NewScene(nil, []lights.Light{sun}, medium.Vacuum{})

	emptyFog := medium.TestHomogeneous{
		Absorption: spectrum.Zero,
		Scattering: spectrum.Zero,
		Emission:   spectrum.Zero,
	}

	sampler := core.NewRandSampler(7, 7, 0)
	radiance := PathTrace(s, core.Vec3{}, sunDir, testLambdas, emptyFog, sampler)

	assert.InDelta(t, 4.0, radiance.X, 1e-9)
}

func TestPathTraceThroughAbsorbingMediumAttenuates(t *testing.T) {
	absorber := medium.TestHomogeneous{
		Absorption: spectrum.Constant(2.0),
		Scattering: spectrum.Constant(0.0),
		Emission:   spectrum.Constant(0.0),
	}
	boundaryMat := &material.Material{EnterMedium: absorber, ExitMedium: medium.Vacuum{}}
	shell := geometry.Sphere{Center: core.Vec3{}, Radius: 2.0, Material: boundaryMat}
	emitter := &material.Material{Emission: spectrum.Constant(10.0), EnterMedium: absorber, ExitMedium: absorber}
	core_ := geometry.Sphere{Center: core.Vec3{}, Radius: 0.1, Material: emitter}
	s := scene.NewScene([]geometry.Object{shell, core_}, nil, medium.Vacuum{})

	sampler := core.NewRandSampler(5, 5, 0)
	radiance := PathTrace(s, core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), testLambdas, medium.Vacuum{}, sampler)

	assert.GreaterOrEqual(t, radiance.X, 0.0)
}
