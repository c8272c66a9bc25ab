package medium

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/phase"
	"github.com/aetherray/pbr/pkg/spectrum"
)

var testLambdas = spectrum.Vec4{X: 550, Y: 600, Z: 650, W: 700}

func TestVacuumIsNotParticipating(t *testing.T) {
	v := Vacuum{}
	assert.False(t, v.Participating())
	assert.Equal(t, 0.0, v.Majorant(testLambdas))
}

func TestTestHomogeneousFalloffAtCenter(t *testing.T) {
	m := TestHomogeneous{
		Absorption: spectrum.Constant(0.1),
		Scattering: spectrum.Constant(0.2),
		Emission:   spectrum.Zero,
		PhaseFn:    phase.Isotropic{},
	}
	center := m.Properties(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), testLambdas)
	assert.InDelta(t, 0.1, center.Absorption.X, 1e-9)

	edge := m.Properties(core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), testLambdas)
	assert.InDelta(t, 0.0, edge.Absorption.X, 1e-9)
}

func TestMajorantBoundsAttenuation(t *testing.T) {
	m := TestHomogeneous{
		Absorption: spectrum.Constant(0.3),
		Scattering: spectrum.Constant(0.4),
		Emission:   spectrum.Zero,
		PhaseFn:    phase.Isotropic{},
	}
	majorant := m.Majorant(testLambdas)
	p := m.Properties(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), testLambdas)
	assert.LessOrEqual(t, Attenuation(p).X, majorant+1e-9)
}

func TestHomogeneousHasNoFalloff(t *testing.T) {
	m := Homogeneous{Absorption: spectrum.Constant(0.3), Scattering: spectrum.Zero, Emission: spectrum.Zero, PhaseFn: phase.Isotropic{}}
	center := m.Properties(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), testLambdas)
	edge := m.Properties(core.NewVec3(0.99, 0, 0), core.NewVec3(0, 0, 1), testLambdas)
	assert.Equal(t, center.Absorption.X, edge.Absorption.X)
	assert.InDelta(t, 0.3, edge.Absorption.X, 1e-9)
}

func TestCombinedAddsCoefficients(t *testing.T) {
	a := TestHomogeneous{Absorption: spectrum.Constant(0.1), Scattering: spectrum.Constant(0.2), Emission: spectrum.Zero, PhaseFn: phase.Isotropic{}}
	b := TestHomogeneous{Absorption: spectrum.Constant(0.05), Scattering: spectrum.Constant(0.1), Emission: spectrum.Zero, PhaseFn: phase.Isotropic{}}
	c := Combined{A: a, B: b}
	p := c.Properties(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), testLambdas)
	assert.InDelta(t, 0.15, p.Absorption.X, 1e-9)
	assert.InDelta(t, 0.3, p.Scattering.X, 1e-9)
	assert.True(t, c.Participating())
}

func TestAtmosphereDryAirDensityDecaysWithAltitude(t *testing.T) {
	a := AtmosphereDryAir{
		PlanetRadius:       PlanetRadiusEarth,
		ScaleHeight:        8500,
		RayleighAtSeaLevel: spectrum.Constant(0.01),
		OzoneCrossSection:  spectrum.Constant(1e-5),
		OzoneProfile:       OzoneTentProfile{StartAltitude: 10000, PeakAltitude: 25000, FalloffScaleHeight: 5000},
		OzonePeakDensity:   3e-6,
	}
	ground := a.Properties(core.NewVec3(PlanetRadiusEarth, 0, 0), core.NewVec3(0, 0, 1), testLambdas)
	high := a.Properties(core.NewVec3(PlanetRadiusEarth+50000, 0, 0), core.NewVec3(0, 0, 1), testLambdas)
	assert.Greater(t, ground.Scattering.X, high.Scattering.X)
}

func TestOzoneTentProfileShape(t *testing.T) {
	p := OzoneTentProfile{StartAltitude: 10000, PeakAltitude: 25000, FalloffScaleHeight: 5000}
	assert.Equal(t, 0.0, p.density(5000))
	assert.InDelta(t, 0.5, p.density(17500), 1e-9)
	assert.InDelta(t, 1.0, p.density(25000), 1e-9)
	assert.Less(t, p.density(30000), 1.0)
}

func TestAerosolCutoffMasksDensity(t *testing.T) {
	a := AtmosphereAerosol{
		PlanetRadius:         PlanetRadiusEarth,
		ScaleHeight:          1200,
		CutoffAltitude:       30000,
		ScatteringAtSeaLevel: spectrum.Constant(0.02),
		PhaseFn:              phase.Draine{Alpha: 1, G: 0.76},
	}
	beyond := a.Properties(core.NewVec3(PlanetRadiusEarth+40000, 0, 0), core.NewVec3(0, 0, 1), testLambdas)
	assert.Equal(t, 0.0, beyond.Scattering.X)

	below := a.Properties(core.NewVec3(PlanetRadiusEarth, 0, 0), core.NewVec3(0, 0, 1), testLambdas)
	assert.InDelta(t, below.Scattering.X*0.1, below.Absorption.X, 1e-12)
}
