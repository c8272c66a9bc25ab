package geometry

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/material"
)

// Triangle is a single flat triangle with optional per-vertex normals for
// smooth (Phong-interpolated) shading; the geometric normal used for ray
// offsetting and medium transitions always comes from the flat face.
type Triangle struct {
	A, B, C          core.Vec3
	NA, NB, NC       core.Vec3
	HasVertexNormals bool
	Material         *material.Material
}

func (t Triangle) Bounds() core.AABB {
	return core.NewAABBFromPoints(t.A, t.B, t.C)
}

func (t Triangle) geometricNormal() core.Vec3 {
	return t.C.Subtract(t.B).Cross(t.A.Subtract(t.B)).Normalize()
}

// Raycast uses the watertight Woop/Benthin ray-triangle test: it shears
// and permutes axes so the largest-magnitude direction component becomes
// the new z, avoiding the division-by-near-zero cases a naive
// Möller-Trumbore test suffers at grazing angles.
func (t Triangle) Raycast(origin, direction core.Vec3, maxT float64) (RayHit, bool) {
	n := t.C.Subtract(t.B).Cross(t.A.Subtract(t.B))
	if n.LengthSquared() == 0 {
		return RayHit{}, false
	}

	a := t.A.Subtract(origin)
	b := t.B.Subtract(origin)
	c := t.C.Subtract(origin)

	ax, ay, az := math.Abs(direction.X), math.Abs(direction.Y), math.Abs(direction.Z)
	var ix, iy, iz int
	switch {
	case ax >= ay && ax >= az:
		ix, iy, iz = 1, 2, 0
	case ay >= az:
		ix, iy, iz = 2, 0, 1
	default:
		ix, iy, iz = 0, 1, 2
	}

	d := permute(direction, ix, iy, iz)
	pa := permute(a, ix, iy, iz)
	pb := permute(b, ix, iy, iz)
	pc := permute(c, ix, iy, iz)

	shearX := d.X / d.Z
	shearY := d.Y / d.Z

	axy0 := pa.X - pa.Z*shearX
	axy1 := pa.Y - pa.Z*shearY
	bxy0 := pb.X - pb.Z*shearX
	bxy1 := pb.Y - pb.Z*shearY
	cxy0 := pc.X - pc.Z*shearX
	cxy1 := pc.Y - pc.Z*shearY

	eA := bxy0*cxy1 - bxy1*cxy0
	eB := cxy0*axy1 - cxy1*axy0
	eC := axy0*bxy1 - axy1*bxy0

	if (eA < 0 || eB < 0 || eC < 0) && (eA > 0 || eB > 0 || eC > 0) {
		return RayHit{}, false
	}
	det := eA + eB + eC
	if det == 0 {
		return RayHit{}, false
	}

	tScaled := (pa.Z*eA + pb.Z*eB + pc.Z*eC) / d.Z
	tHit := tScaled / det
	if tHit < 0 || tHit > maxT {
		return RayHit{}, false
	}

	geoNormal := n.Normalize()
	shading := geoNormal
	if t.HasVertexNormals {
		wA, wB, wC := eA/det, eB/det, eC/det
		shading = t.NA.Multiply(wA).Add(t.NB.Multiply(wB)).Add(t.NC.Multiply(wC)).Normalize()
		if shading.Dot(geoNormal) < 0 {
			geoNormal = geoNormal.Negate()
		}
	}

	return RayHit{T: tHit, ShadingNormal: shading, GeometricNormal: geoNormal, Material: t.Material}, true
}

func permute(v core.Vec3, ix, iy, iz int) core.Vec3 {
	a := [3]float64{v.X, v.Y, v.Z}
	return core.NewVec3(a[ix], a[iy], a[iz])
}
