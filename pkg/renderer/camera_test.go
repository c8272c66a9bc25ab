package renderer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aetherray/pbr/pkg/core"
)

func TestCameraCentreRayPointsAtLookAt(t *testing.T) {
	cam := NewCamera(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 40.0, 1.0)
	origin, dir := cam.Ray(0.5, 0.5)

	assert.Equal(t, core.NewVec3(0, 0, -5), origin)
	assert.InDelta(t, 0.0, dir.X, 1e-9)
	assert.InDelta(t, 0.0, dir.Y, 1e-9)
	assert.Greater(t, dir.Z, 0.0)
}

func TestCameraRayIsNormalized(t *testing.T) {
	cam := NewCamera(core.NewVec3(1, 2, 3), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 60.0, 1.77)
	_, dir := cam.Ray(0.1, 0.9)
	assert.InDelta(t, 1.0, dir.Length(), 1e-9)
}

func TestEqualAreaSphericalCameraCoversFullSphere(t *testing.T) {
	cam := EqualAreaSphericalCamera{Origin: core.NewVec3(0, 0, 0)}

	corners := [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0.5, 0.5}}
	for _, c := range corners {
		_, dir := cam.Ray(c[0], c[1])
		assert.InDelta(t, 1.0, dir.Length(), 1e-9)
	}
}

func TestEqualAreaSphericalCameraCentreIsForward(t *testing.T) {
	cam := EqualAreaSphericalCamera{Origin: core.NewVec3(0, 0, 0)}
	_, dir := cam.Ray(0.5, 0.5)
	assert.InDelta(t, 1.0, math.Abs(dir.Z), 1e-9)
}
