package geometry

import "github.com/aetherray/pbr/pkg/core"

// Transform instances a child Object under a rigid transform (translate +
// per-axis rotate + uniform scale), letting one mesh or primitive be
// shared by reference under multiple placements in the scene graph.
type Transform struct {
	Child       Object
	Translation core.Vec3
	Rotation    core.Vec3 // radians, applied X then Y then Z
	Scale       float64
}

// NewTransform defaults Scale to 1 when the caller leaves it zero, since
// a zero-scale transform degenerates every ray to a point.
func NewTransform(child Object, translation, rotation core.Vec3, scale float64) Transform {
	if scale == 0 {
		scale = 1
	}
	return Transform{Child: child, Translation: translation, Rotation: rotation, Scale: scale}
}

func (t Transform) toLocal(v core.Vec3) core.Vec3 {
	return v.Subtract(t.Translation).Multiply(1.0 / t.Scale).Rotate(t.Rotation.Multiply(-1))
}

func (t Transform) dirToLocal(v core.Vec3) core.Vec3 {
	return v.Multiply(1.0 / t.Scale).Rotate(t.Rotation.Multiply(-1))
}

func (t Transform) dirToWorld(v core.Vec3) core.Vec3 {
	return v.Rotate(t.Rotation).Multiply(t.Scale)
}

func (t Transform) pointToWorld(v core.Vec3) core.Vec3 {
	return v.Rotate(t.Rotation).Multiply(t.Scale).Add(t.Translation)
}

func (t Transform) Bounds() core.AABB {
	b := t.Child.Bounds()
	corners := [8]core.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z}, {X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z}, {X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z}, {X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z}, {X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
	pts := make([]core.Vec3, 8)
	for i, c := range corners {
		pts[i] = t.pointToWorld(c)
	}
	return core.NewAABBFromPoints(pts...)
}

func (t Transform) Raycast(origin, direction core.Vec3, maxT float64) (RayHit, bool) {
	localOrigin := t.toLocal(origin)
	localDir := t.dirToLocal(direction)
	dirLen := localDir.Length()
	if dirLen == 0 {
		return RayHit{}, false
	}
	localDirNorm := localDir.Multiply(1.0 / dirLen)

	hit, ok := t.Child.Raycast(localOrigin, localDirNorm, maxT*dirLen)
	if !ok {
		return RayHit{}, false
	}
	hit.T /= dirLen
	hit.ShadingNormal = t.dirToWorld(hit.ShadingNormal).Normalize()
	hit.GeometricNormal = t.dirToWorld(hit.GeometricNormal).Normalize()
	return hit, true
}
