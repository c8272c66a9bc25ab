package material

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aetherray/pbr/pkg/brdf"
	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/medium"
	"github.com/aetherray/pbr/pkg/spectrum"
)

func TestEmissiveMaterialHasNoBRDF(t *testing.T) {
	m := Material{Emission: spectrum.Constant(5.0)}
	assert.False(t, m.HasBRDF())
	lambdas := spectrum.Vec4{X: 550, Y: 600, Z: 650, W: 700}
	assert.Equal(t, 5.0, m.EmissionSample(lambdas).X)
}

func TestDiffuseMaterialHasBRDFAndZeroEmission(t *testing.T) {
	m := Material{
		BRDF:        brdf.Lambertian{Albedo: spectrum.Constant(0.8)},
		EnterMedium: medium.Vacuum{},
		ExitMedium:  medium.Vacuum{},
	}
	assert.True(t, m.HasBRDF())
	lambdas := spectrum.Vec4{X: 550, Y: 600, Z: 650, W: 700}
	assert.True(t, m.EmissionSample(lambdas).IsZero())
}

func TestMediumForEnterExit(t *testing.T) {
	inner := medium.TestHomogeneous{Absorption: spectrum.Constant(0.1), Scattering: spectrum.Zero, Emission: spectrum.Zero}
	m := Material{EnterMedium: inner, ExitMedium: medium.Vacuum{}}
	normal := core.NewVec3(0, 0, 1)

	entering := core.NewVec3(0, 0, -1)
	assert.Equal(t, inner, m.MediumFor(normal, entering))

	exiting := core.NewVec3(0, 0, 1)
	assert.Equal(t, medium.Vacuum{}, m.MediumFor(normal, exiting))
}
