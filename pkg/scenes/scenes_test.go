package scenes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/integrator"
	"github.com/aetherray/pbr/pkg/spectrum"
)

func TestBuildKnownScenesSucceed(t *testing.T) {
	for _, name := range Names() {
		built, err := Build(name, 45.0, 10.0)
		require.NoError(t, err, name)
		assert.NotNil(t, built.Scene, name)
		assert.NotNil(t, built.Camera, name)
		assert.NotNil(t, built.CameraMedium, name)
	}
}

func TestBuildUnknownSceneErrors(t *testing.T) {
	_, err := Build("not-a-scene", 0, 0)
	assert.Error(t, err)
}

func TestSunDiskHasOneLightAndNoObjects(t *testing.T) {
	built := SunDisk()
	assert.Len(t, built.Scene.Lights, 1)
	assert.False(t, built.CameraMedium.Participating())
}

func TestAbsorbingSphereSurfaceIsRaycastable(t *testing.T) {
	built := AbsorbingSphere(1.0, 0.5)
	_, hit := built.Scene.Raycast(core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 1), 1e9)
	assert.True(t, hit)
}

var scenarioLambdas = spectrum.Vec4{X: 550, Y: 600, Z: 650, W: 700}

// A ray aimed straight into the sun disk of an empty scene returns the
// disk's radiance exactly; one aimed outside the disk returns nothing.
func TestSunDiskRadianceInsideAndOutsideDisk(t *testing.T) {
	built := SunDisk()

	sampler := core.NewRandSampler(0, 0, 0)
	inDisk := integrator.PathTrace(built.Scene, core.Vec3{}, core.NewVec3(0, 1, 0), scenarioLambdas, built.CameraMedium, sampler)
	assert.InDelta(t, 1.0, inDisk.X, 1e-12)

	outside := integrator.PathTrace(built.Scene, core.Vec3{}, core.NewVec3(1, 0, 0), scenarioLambdas, built.CameraMedium, sampler)
	assert.True(t, outside.IsZero())
}

// A Lambertian plane of albedo 0.5 under a distant light of irradiance E
// reflects 0.5*E/pi: next-event estimation makes the first-hit estimate
// nearly exact for a single sample, since emission/pdf cancels to E over
// the light's small cone.
func TestLambertPlaneDiffuseReflectanceClosedForm(t *testing.T) {
	const irradiance = 2.0
	built := LambertPlane(irradiance)

	origin := core.NewVec3(0, 3, 0.001)
	dir := core.NewVec3(0.02, -1, 0.013).Normalize()

	want := 0.5 * irradiance / math.Pi
	for i := 0; i < 16; i++ {
		sampler := core.NewRandSampler(i, 0, 0)
		radiance := integrator.PathTrace(built.Scene, origin, dir, scenarioLambdas, built.CameraMedium, sampler)
		assert.InDelta(t, want, radiance.X, 1e-3*want)
	}
}

// An axial ray through a constant-absorption sphere transmits
// exp(-sigma_a * 2r) of the light behind it. Delta tracking makes each
// walk a Bernoulli trial, so average many. Entering the medium does not
// terminate the secondary wavelengths, so the hero lane carries the
// physical radiance.
func TestAbsorbingSphereBeerLambertTransmittance(t *testing.T) {
	const radius, sigma = 1.0, 0.5
	built := AbsorbingSphere(radius, sigma)

	origin := core.NewVec3(0, 0, -radius*5)
	dir := core.NewVec3(0, 0, 1)

	const n = 4000
	sum := 0.0
	for i := 0; i < n; i++ {
		sampler := core.NewRandSampler(i, 1, 0)
		radiance := integrator.PathTrace(built.Scene, origin, dir, scenarioLambdas, built.CameraMedium, sampler)
		sum += radiance.X
	}
	want := math.Exp(-sigma * 2 * radius)
	assert.InDelta(t, want, sum/n, 0.05)
}

// The centre ray through a smooth glass sphere transmits about
// (1-R)^2 at normal incidence (plus a ~0.15% double-internal-reflection
// term), with R = ((1.5-1)/(1.5+1))^2 = 0.04. Refraction terminates the
// secondary wavelengths, so the hero lane carries 4x.
func TestDielectricSphereNormalIncidenceTransmission(t *testing.T) {
	const radius, ior = 1.0, 1.5
	built := DielectricSphere(radius, ior)

	origin := core.NewVec3(0, 0, -radius*5)
	dir := core.NewVec3(0, 0, 1)

	const n = 4000
	sum := 0.0
	for i := 0; i < n; i++ {
		sampler := core.NewRandSampler(i, 2, 0)
		radiance := integrator.PathTrace(built.Scene, origin, dir, scenarioLambdas, built.CameraMedium, sampler)
		sum += radiance.X / 4.0
	}
	r := math.Pow((ior-1)/(ior+1), 2)
	want := (1 - r) * (1 - r)
	assert.InDelta(t, want, sum/n, 0.03)
}
