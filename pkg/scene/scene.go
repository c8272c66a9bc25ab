// Package scene holds the object/light container the path integrator
// queries: closest-hit raycasting, total light emission along a missed
// ray, and light selection for next-event estimation.
package scene

import (
	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/geometry"
	"github.com/aetherray/pbr/pkg/lights"
	"github.com/aetherray/pbr/pkg/medium"
	"github.com/aetherray/pbr/pkg/spectrum"
)

// Scene owns the BVH-indexed object list and the light list a render
// draws from. CameraMedium is the medium the camera ray starts in
// (vacuum for an interior scene, atmosphere for the planetary preset).
type Scene struct {
	Objects      *geometry.BVH
	Lights       []lights.Light
	LightSampler LightSampler
	CameraMedium medium.Medium
}

// NewScene builds the object BVH once from the given primitives and
// wraps a uniform light sampler around the given lights.
func NewScene(objects []geometry.Object, lightList []lights.Light, cameraMedium medium.Medium) *Scene {
	return &Scene{
		Objects:      geometry.NewBVH(objects),
		Lights:       lightList,
		LightSampler: UniformLightSampler{Lights: lightList},
		CameraMedium: cameraMedium,
	}
}

// Raycast finds the closest surface hit along (origin, direction) within
// [0, maxT), or reports no hit.
func (s *Scene) Raycast(origin, direction core.Vec3, maxT float64) (geometry.RayHit, bool) {
	return s.Objects.Raycast(origin, direction, maxT)
}

// Radius reports a finite reference radius for the scene's world extent.
// Directional lights carry an infinite nominal distance; a shadow ray
// aimed at one still needs a finite horizon to bound the participating-
// medium integration a transmittance walk performs along it. Grounded on
// the teacher's BVH.Center/Radius, precomputed there for infinite-light
// PDF calculations.
func (s *Scene) Radius() float64 {
	return s.Objects.Radius()
}

// Center returns the midpoint of the scene's world bounds.
func (s *Scene) Center() core.Vec3 {
	return s.Objects.Center()
}

// LightEmissionAlong sums every light's emission contribution along a
// ray that reached distance maxT without striking a surface (maxT = +Inf
// for a ray that escaped the scene entirely); used to add emission from
// directional/infinite lights when the path integrator's last bounce was
// specular and direct emission must be added without MIS.
func (s *Scene) LightEmissionAlong(pos, direction core.Vec3, lambdas spectrum.Vec4, maxT float64) spectrum.Vec4 {
	total := spectrum.ZeroVec4
	for _, l := range s.Lights {
		total = total.Add(l.Emission(pos, direction, lambdas, maxT))
	}
	return total
}

// LightSampler picks one light to sample for next-event estimation and
// reports the probability mass with which it was chosen.
type LightSampler interface {
	Sample(pos core.Vec3, u float64) (lights.Light, float64, bool)
}

// UniformLightSampler picks uniformly among every light in the scene,
// the sampling shape spec mandates (weighted-by-power sampling is listed
// as a possible extension but not required).
type UniformLightSampler struct {
	Lights []lights.Light
}

func (u UniformLightSampler) Sample(pos core.Vec3, r float64) (lights.Light, float64, bool) {
	if len(u.Lights) == 0 {
		return nil, 0, false
	}
	i := int(r * float64(len(u.Lights)))
	if i >= len(u.Lights) {
		i = len(u.Lights) - 1
	}
	return u.Lights[i], 1.0 / float64(len(u.Lights)), true
}
