package geometry

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/material"
)

// infinitePlaneExtent stands in for a plane's bounding box, which has no
// finite extent. NewBVH reads these bounds like any other object's, so a
// BVH subtree that holds a Plane gets a box of at least this size.
const infinitePlaneExtent = 1.0e15

// Plane is an infinite flat primitive, useful as a ground or backdrop.
type Plane struct {
	Point    core.Vec3
	Normal   core.Vec3
	Material *material.Material
}

func (p Plane) Bounds() core.AABB {
	e := core.NewVec3(infinitePlaneExtent, infinitePlaneExtent, infinitePlaneExtent)
	return core.NewAABB(p.Point.Subtract(e), p.Point.Add(e))
}

func (p Plane) Raycast(origin, direction core.Vec3, maxT float64) (RayHit, bool) {
	o := origin.Dot(p.Normal)
	d := direction.Dot(p.Normal)
	if d == 0 {
		return RayHit{}, false
	}
	planeD := p.Point.Dot(p.Normal)
	t := (planeD - o) / d
	if t <= 0 || t > maxT || math.IsNaN(t) {
		return RayHit{}, false
	}
	return RayHit{T: t, ShadingNormal: p.Normal, GeometricNormal: p.Normal, Material: p.Material}, true
}
