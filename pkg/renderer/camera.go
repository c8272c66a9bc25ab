// Package renderer drives the render loop: camera ray generation,
// stratified per-pixel wavelength/sample dispatch across worker
// goroutines, and the progressive batch-doubling schedule that
// checkpoints the film to disk between passes.
package renderer

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
)

// Camera generates primary rays for a pinhole projection: a fixed
// vertical field of view, aimed from LookFrom at LookAt with Up
// defining the roll.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera builds a pinhole camera. vFovDegrees is the full vertical
// field of view in degrees; aspectRatio is width/height.
func NewCamera(lookFrom, lookAt, up core.Vec3, vFovDegrees, aspectRatio float64) *Camera {
	theta := vFovDegrees * math.Pi / 180.0
	halfHeight := math.Tan(theta / 2.0)
	halfWidth := aspectRatio * halfHeight

	w := lookFrom.Subtract(lookAt).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(2 * halfWidth)
	vertical := v.Multiply(2 * halfHeight)
	lowerLeftCorner := lookFrom.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		origin:          lookFrom,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// Ray generates the primary ray through screen coordinates (s, t), each
// in [0, 1] with (0,0) at the bottom-left of the image plane.
func (c *Camera) Ray(s, t float64) (core.Vec3, core.Vec3) {
	target := c.lowerLeftCorner.Add(c.horizontal.Multiply(s)).Add(c.vertical.Multiply(t))
	return c.origin, target.Subtract(c.origin).Normalize()
}

// EqualAreaSphericalCamera maps the full image plane to the full sphere
// of directions around a fixed origin via an equal-area octahedral
// mapping, used by the atmosphere scenario (spec §8 scenario 6) where a
// pinhole's limited field of view can't show zenith-to-horizon range in
// one frame.
type EqualAreaSphericalCamera struct {
	Origin core.Vec3
}

// Ray maps screen coordinates (s, t) in [0,1]^2 to a world-space
// direction via the equal-area square-to-sphere mapping (Clarberg 2008):
// the unit square is folded into the octahedron and then lifted to the
// sphere, so solid angle per screen pixel is constant.
func (c EqualAreaSphericalCamera) Ray(s, t float64) (core.Vec3, core.Vec3) {
	u := 2.0*s - 1.0
	v := 2.0*t - 1.0
	up := math.Abs(u)
	vp := math.Abs(v)

	signedDistance := 1.0 - (up + vp)
	d := math.Abs(signedDistance)
	r := 1.0 - d

	phi := math.Pi / 4.0
	if r != 0 {
		phi = (vp - up) / r * (math.Pi / 4.0)
		phi += math.Pi / 4.0
	}

	z := math.Copysign(1.0-r*r, signedDistance)
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)
	scale := r * math.Sqrt(math.Max(0, 2.0-r*r))

	x := math.Copysign(scale*cosPhi, u)
	y := math.Copysign(scale*sinPhi, v)

	dir := core.NewVec3(x, y, z).Normalize()
	return c.Origin, dir
}
