// Package integrator implements the spectral null-scattering volumetric
// path tracer: a random walk combining surface BRDF events and
// participating-medium scattering events, next-event estimation at both,
// and Russian roulette termination.
package integrator

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/medium"
	"github.com/aetherray/pbr/pkg/scene"
	"github.com/aetherray/pbr/pkg/spectrum"
)

const (
	maxBounces     = 20
	offsetEpsilon  = 1.0e-6
	rouletteThresh = 0.5
)

// PathTrace estimates the radiance arriving at pos from -dir (i.e. along
// the ray (pos, dir)) via an unbiased spectral random walk, given the
// medium the camera ray starts inside (Vacuum for an interior scene).
func PathTrace(s *scene.Scene, pos, dir core.Vec3, lambdas spectrum.Vec4, cameraMedium medium.Medium, sampler core.Sampler) spectrum.Vec4 {
	throughput := spectrum.OneVec4
	radiance := spectrum.ZeroVec4
	secondaryTerminated := false
	m := cameraMedium
	specularBounce := true
	bounces := 0

	for !throughput.IsZero() {
		hit, hasHit := s.Raycast(pos, dir, math.Inf(1))
		d := math.Inf(1)
		if hasHit {
			d = hit.T
		}

		if m.Participating() {
			majorantLambdas := lambdas
			if secondaryTerminated {
				majorantLambdas = lambdas.Hero4()
			}
			majorant := m.Majorant(majorantLambdas)

			// A ray that never strikes a surface (an atmosphere ray shot
			// toward the sky, say) still needs a finite horizon to
			// delta-track out to; clamp it the same way Transmittance
			// clamps a shadow ray toward a directional light, instead of
			// treating an unbounded medium as a malformed scene.
			segmentT := d
			if !hasHit {
				segmentT = shadowRayDistance(s, math.Inf(1))
			}

			t := 0.0
			scattered := false
			terminated := false
			for {
				dt := -math.Log(1.0-sampler.Float64()) / majorant
				t += dt
				if t >= segmentT {
					break
				}

				p := pos.Add(dir.Multiply(t))
				mp := m.Properties(p, dir, lambdas)
				prAbsorption := mp.Absorption.Scale(1.0 / majorant)
				prScattering := mp.Scattering.Scale(1.0 / majorant)
				prNull := spectrum.OneVec4.Sub(prAbsorption).Sub(prScattering)

				rng := sampler.Float64()
				switch {
				case rng < prAbsorption.X:
					if specularBounce {
						radiance = radiance.Add(throughput.Mul(s.LightEmissionAlong(pos, dir, lambdas, t)))
					}
					throughput = throughput.Mul(prAbsorption.Scale(1.0 / prAbsorption.X))
					radiance = radiance.Add(throughput.Mul(mp.Emission))
					terminated = true

				case rng < prAbsorption.X+prScattering.X:
					if specularBounce {
						radiance = radiance.Add(throughput.Mul(s.LightEmissionAlong(pos, dir, lambdas, t)))
					}
					throughput = throughput.Mul(prScattering.Scale(1.0 / prScattering.X))

					if light, lpdf, ok := s.LightSampler.Sample(p, sampler.Float64()); ok {
						ls := light.Sample(p, lambdas, sampler.Vec3())
						tpF := throughput.Mul(m.Phase(p, ls.Dir, dir, lambdas)).Mul(ls.Emission)
						if !tpF.IsZero() {
							tr := Transmittance(s, p, ls.Dir, lambdas, secondaryTerminated, m, shadowRayDistance(s, ls.Dist), sampler)
							radiance = radiance.Add(tpF.Mul(tr).Scale(1.0 / (lpdf * ls.PDF)))
						}
					}

					newDir := m.SamplePhase(p, dir, lambdas, sampler.Vec3())
					newDirPDF := m.PDFPhase(p, newDir, dir, lambdas)
					throughput = throughput.Mul(m.Phase(p, newDir, dir, lambdas)).Scale(1.0 / newDirPDF)

					pos = p
					dir = newDir
					specularBounce = false
					scattered = true

				default:
					throughput = throughput.Mul(prNull.Scale(1.0 / prNull.X))
				}

				if terminated || scattered {
					break
				}
			}

			if terminated {
				return radiance
			}
			if scattered {
				continue
			}
		}

		if specularBounce {
			radiance = radiance.Add(throughput.Mul(s.LightEmissionAlong(pos, dir, lambdas, d)))
		}

		if !hasHit {
			break
		}

		hitPos := pos.Add(dir.Multiply(hit.T))
		radiance = radiance.Add(throughput.Mul(hit.Material.EmissionSample(lambdas)))

		oldDir := dir

		if hit.Material.HasBRDF() {
			if light, lpdf, ok := s.LightSampler.Sample(hitPos, sampler.Float64()); ok {
				ls := light.Sample(hitPos, lambdas, sampler.Vec3())
				tpF := throughput.
					Mul(hit.Material.BRDF.F(ls.Dir, dir, hit.ShadingNormal, lambdas)).
					Mul(ls.Emission).
					Scale(ls.Dir.AbsDot(hit.ShadingNormal))

				if !tpF.IsZero() {
					offset := hit.GeometricNormal.Multiply(offsetEpsilon * math.Copysign(1, hit.GeometricNormal.Dot(ls.Dir)))
					tr := Transmittance(s, hitPos.Add(offset), ls.Dir, lambdas, secondaryTerminated, m, shadowRayDistance(s, ls.Dist), sampler)
					radiance = radiance.Add(tpF.Mul(tr).Scale(1.0 / (lpdf * ls.PDF)))
				}
			}

			bs := hit.Material.BRDF.Sample(dir, hit.ShadingNormal, lambdas, sampler.Vec3())
			if bs.Dir.IsZero() {
				break
			}

			if bs.TerminateSecondary && !secondaryTerminated {
				throughput = throughput.HeroOnly()
				secondaryTerminated = true
			}

			cosTheta := bs.Dir.AbsDot(hit.ShadingNormal)
			throughput = throughput.Mul(bs.F).Scale(cosTheta / bs.PDF)

			dir = bs.Dir
			specularBounce = bs.Singular
		}

		offset := hit.GeometricNormal.Multiply(offsetEpsilon * math.Copysign(1, hit.GeometricNormal.Dot(dir)))
		pos = hitPos.Add(offset)

		if math.Copysign(1, oldDir.Dot(hit.GeometricNormal)) == math.Copysign(1, dir.Dot(hit.GeometricNormal)) {
			m = hit.Material.MediumFor(hit.GeometricNormal, dir)
		}

		if throughput.MaxComponent() < rouletteThresh || bounces > maxBounces {
			if bounces > maxBounces {
				bounces = 0
			}
			if sampler.Float64() < 0.5 {
				break
			}
			throughput = throughput.Scale(2.0)
		}

		bounces++
	}

	return radiance
}

// shadowRayDistance clamps an infinite light-sample distance (a
// directional light's nominal "the light is infinitely far away") down to
// a finite horizon sized to the scene's world extent. Transmittance needs
// a finite segment length to delta-track across: without this, a shadow
// ray toward a directional light that never strikes a surface (the common
// case, e.g. a sun ray shot up through an unbounded sky) would skip
// participating-medium attenuation entirely instead of integrating it out
// to the horizon.
func shadowRayDistance(s *scene.Scene, dist float64) float64 {
	if !math.IsInf(dist, 1) {
		return dist
	}
	return 4.0 * s.Radius()
}

// Transmittance walks a shadow ray of length maxDist from pos along dir,
// returning zero the instant it strikes an opaque (BRDF-bearing) surface
// before maxDist, or else the product of null-collision probabilities
// accumulated while delta-tracking through every participating medium
// the segment crosses, including the final segment out to maxDist when
// the ray never strikes a surface at all.
func Transmittance(s *scene.Scene, pos, dir core.Vec3, lambdas spectrum.Vec4, secondaryTerminated bool, m medium.Medium, maxDist float64, sampler core.Sampler) spectrum.Vec4 {
	transmittance := spectrum.OneVec4
	d := maxDist

	for d > 0 {
		hit, hasHit := s.Raycast(pos, dir, d)
		segmentT := d
		if hasHit {
			segmentT = hit.T
			if d > hit.T && hit.Material.HasBRDF() {
				return spectrum.ZeroVec4
			}
		}

		if m.Participating() {
			majorantLambdas := lambdas
			if secondaryTerminated {
				majorantLambdas = lambdas.Hero4()
			}
			majorant := m.Majorant(majorantLambdas)

			t := 0.0
			for {
				dt := -math.Log(1.0-sampler.Float64()) / majorant
				t += dt
				if t >= segmentT {
					break
				}

				p := pos.Add(dir.Multiply(t))
				mp := m.Properties(p, dir, lambdas)
				prAttenuation := mp.Absorption.Add(mp.Scattering).Scale(1.0 / majorant)
				prNull := spectrum.OneVec4.Sub(prAttenuation)
				transmittance = transmittance.Mul(prNull)
			}
		}

		if !hasHit {
			return transmittance
		}

		d -= hit.T
		offset := hit.GeometricNormal.Multiply(offsetEpsilon * math.Copysign(1, hit.GeometricNormal.Dot(dir)))
		pos = pos.Add(dir.Multiply(hit.T)).Add(offset)

		m = hit.Material.MediumFor(hit.GeometricNormal, dir)
	}

	return transmittance
}
