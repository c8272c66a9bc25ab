// Package random holds canonical shape samplers and the invertible-CDF
// lookup table used to importance-sample the wavelength distribution.
package random

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
)

// Sphere uniformly samples a direction on the unit sphere from two
// canonical random numbers.
func Sphere(u core.Vec2) core.Vec3 {
	z := 2.0*u.X - 1.0
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	angle := 2.0 * math.Pi * u.Y
	return core.NewVec3(r*math.Cos(angle), r*math.Sin(angle), z)
}

// Disk uniformly samples a point on the unit disk from two canonical
// random numbers.
func Disk(u core.Vec2) core.Vec2 {
	r := math.Sqrt(u.X)
	angle := 2.0 * math.Pi * u.Y
	return core.NewVec2(r*math.Cos(angle), r*math.Sin(angle))
}

// AnyOrthonormalPair returns two vectors that, together with n, form an
// orthonormal basis. n must already be a unit vector.
func AnyOrthonormalPair(n core.Vec3) (core.Vec3, core.Vec3) {
	sign := math.Copysign(1.0, n.Z)
	a := -1.0 / (sign + n.Z)
	b := n.X * n.Y * a
	tangent := core.NewVec3(1.0+sign*n.X*n.X*a, sign*b, -sign*n.X)
	bitangent := core.NewVec3(b, sign+n.Y*n.Y*a, -n.Y)
	return tangent, bitangent
}
