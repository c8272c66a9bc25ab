// Package material glues a surface's emission spectrum to an optional
// BRDF and the media it transitions into/out of when a ray crosses it.
package material

import (
	"github.com/aetherray/pbr/pkg/brdf"
	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/medium"
	"github.com/aetherray/pbr/pkg/spectrum"
)

// Material is the integrator's view of a surface: an emission spectrum
// (zero for non-emissive surfaces), an optional BRDF (nil for a purely
// transmissive interface with no reflectance lobe, e.g. a bare medium
// boundary), and the media entered/exited when a ray crosses the
// surface along its geometric normal. Opaque surfaces may leave both
// media as Vacuum; transmissive surfaces must give at least one of them
// a participating medium or refraction has nothing to decorrelate into.
type Material struct {
	Emission    spectrum.Spectrum
	BRDF        brdf.Brdf
	EnterMedium medium.Medium
	ExitMedium  medium.Medium
}

// EmissionSample evaluates the material's emission at the four hero
// wavelengths.
func (m Material) EmissionSample(lambdas spectrum.Vec4) spectrum.Vec4 {
	if m.Emission == nil {
		return spectrum.ZeroVec4
	}
	return spectrum.Sample4(m.Emission, lambdas)
}

// HasBRDF reports whether the surface reflects/refracts light, as
// opposed to being a transparent medium boundary with no lobe.
func (m Material) HasBRDF() bool {
	return m.BRDF != nil
}

// MediumFor picks enter or exit medium depending on whether newDir
// crosses to the same side as the geometric normal (exiting) or the
// opposite side (entering). A nil medium reads as vacuum, so a bare
// Material literal behaves like an opaque surface in air.
func (m Material) MediumFor(geometricNormal, newDir core.Vec3) medium.Medium {
	chosen := m.ExitMedium
	if geometricNormal.Dot(newDir) < 0 {
		chosen = m.EnterMedium
	}
	if chosen == nil {
		return medium.Vacuum{}
	}
	return chosen
}
