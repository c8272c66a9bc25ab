// Package geometry implements the primitives the path integrator
// intersects against: spheres, planes, triangles (and triangle meshes),
// a sparse voxel octree, and the BVH acceleration structure that indexes
// any collection of them.
package geometry

import (
	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/material"
)

// RayHit is the result of a successful intersection: the distance along
// the ray, the shading and geometric normals (equal for flat primitives,
// divergent at interpolated triangle-mesh vertices and voxel boundaries),
// and the material struck.
type RayHit struct {
	T               float64
	ShadingNormal   core.Vec3
	GeometricNormal core.Vec3
	Material        *material.Material
}

// Object is implemented by every primitive and by the BVH that indexes
// them; Bounds lets a parent BVH node compute its own bounds without
// knowing the primitive's concrete type.
type Object interface {
	Bounds() core.AABB
	Raycast(origin, direction core.Vec3, maxT float64) (RayHit, bool)
}

// selfIntersectEpsilon guards against a ray re-hitting the surface it
// was just offset from due to floating point error, scaled by how
// grazing the new direction is relative to the hit normal.
const selfIntersectEpsilon = 1.0e-12

func closerThan(candidateT, currentClosest float64, normal, direction core.Vec3) bool {
	return candidateT < currentClosest-normal.Dot(direction)*selfIntersectEpsilon
}
