package geometry

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/material"
)

// Sphere is a perfectly round primitive defined by center and radius.
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material *material.Material
}

func (s Sphere) Bounds() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

func (s Sphere) Raycast(origin, direction core.Vec3, maxT float64) (RayHit, bool) {
	o := origin.Subtract(s.Center)
	a := 1.0
	b := 2.0 * o.Dot(direction)
	c := o.Dot(o) - s.Radius*s.Radius
	det := b*b - 4*a*c
	if det < 0 {
		return RayHit{}, false
	}
	sqrtDet := math.Sqrt(det)
	t0 := (-b - sqrtDet) / 2
	t1 := (-b + sqrtDet) / 2
	if t1 < 0 {
		return RayHit{}, false
	}
	t := t1
	if t0 > 0 {
		t = t0
	}
	if t > maxT {
		return RayHit{}, false
	}
	normal := o.Add(direction.Multiply(t)).Normalize()
	return RayHit{T: t, ShadingNormal: normal, GeometricNormal: normal, Material: s.Material}, true
}
