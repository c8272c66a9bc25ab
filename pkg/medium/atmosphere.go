package medium

import (
	"math"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/phase"
	"github.com/aetherray/pbr/pkg/spectrum"
)

// PlanetRadiusEarth is the reference planet radius used by the atmosphere
// presets (meters), so altitude can be recovered from a world-space
// position as |pos| − PlanetRadius.
const PlanetRadiusEarth = 6_371_000.0

// OzoneTentProfile describes the piecewise altitude density the dry-air
// medium multiplies its tabulated ozone cross-section by: zero below
// StartAltitude, a linear ramp to 1 at PeakAltitude, then exponential
// decay above with scale height FalloffScaleHeight.
type OzoneTentProfile struct {
	StartAltitude      float64
	PeakAltitude       float64
	FalloffScaleHeight float64
}

func (p OzoneTentProfile) density(altitude float64) float64 {
	switch {
	case altitude < p.StartAltitude:
		return 0
	case altitude <= p.PeakAltitude:
		return (altitude - p.StartAltitude) / (p.PeakAltitude - p.StartAltitude)
	default:
		return math.Exp(-(altitude - p.PeakAltitude) / p.FalloffScaleHeight)
	}
}

// AtmosphereDryAir is Rayleigh-scattering air with an ozone absorption
// layer, density falling off exponentially with altitude above
// PlanetRadius.
type AtmosphereDryAir struct {
	PlanetRadius       float64
	ScaleHeight        float64           // H_air
	RayleighAtSeaLevel spectrum.Spectrum // scattering at altitude 0
	OzoneCrossSection  spectrum.Spectrum
	OzoneProfile       OzoneTentProfile
	OzonePeakDensity   float64
}

func (a AtmosphereDryAir) altitude(pos core.Vec3) float64 {
	return pos.Length() - a.PlanetRadius
}

func (a AtmosphereDryAir) airDensity(altitude float64) float64 {
	if altitude < 0 {
		altitude = 0
	}
	return math.Exp(-altitude / a.ScaleHeight)
}

func (a AtmosphereDryAir) Majorant(lambdas spectrum.Vec4) float64 {
	rayleigh := spectrum.Sample4(a.RayleighAtSeaLevel, lambdas)
	ozone := spectrum.Sample4(a.OzoneCrossSection, lambdas).Scale(a.OzonePeakDensity)
	return rayleigh.Add(ozone).MaxComponent()
}

func (a AtmosphereDryAir) Properties(pos, outgoing core.Vec3, lambdas spectrum.Vec4) Properties {
	altitude := a.altitude(pos)
	density := a.airDensity(altitude)
	scattering := spectrum.Sample4(a.RayleighAtSeaLevel, lambdas).Scale(density)
	ozoneDensity := a.OzoneProfile.density(altitude) * a.OzonePeakDensity
	absorption := spectrum.Sample4(a.OzoneCrossSection, lambdas).Scale(ozoneDensity)
	return Properties{Absorption: absorption, Scattering: scattering}
}

func (a AtmosphereDryAir) Phase(pos, incoming, outgoing core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	return phase.Rayleigh{}.F(incoming, outgoing, lambdas)
}

func (a AtmosphereDryAir) SamplePhase(pos, outgoing core.Vec3, lambdas spectrum.Vec4, u core.Vec3) core.Vec3 {
	return phase.Rayleigh{}.Sample(outgoing, lambdas, u)
}

func (a AtmosphereDryAir) PDFPhase(pos, incoming, outgoing core.Vec3, lambdas spectrum.Vec4) float64 {
	return phase.Rayleigh{}.PDF(incoming, outgoing, lambdas)
}

func (a AtmosphereDryAir) Participating() bool { return true }

// AtmosphereAerosol is Draine-scattering haze/dust, density falling off
// exponentially with altitude and masked entirely above CutoffAltitude.
type AtmosphereAerosol struct {
	PlanetRadius         float64
	ScaleHeight          float64 // H_mie
	CutoffAltitude       float64
	ScatteringAtSeaLevel spectrum.Spectrum
	PhaseFn              phase.Draine // g near 0.76, alpha 1
}

func (a AtmosphereAerosol) altitude(pos core.Vec3) float64 {
	return pos.Length() - a.PlanetRadius
}

func (a AtmosphereAerosol) density(altitude float64) float64 {
	if altitude < 0 || altitude > a.CutoffAltitude {
		if altitude > a.CutoffAltitude {
			return 0
		}
		altitude = 0
	}
	return math.Exp(-altitude / a.ScaleHeight)
}

func (a AtmosphereAerosol) Majorant(lambdas spectrum.Vec4) float64 {
	s := spectrum.Sample4(a.ScatteringAtSeaLevel, lambdas)
	return s.MaxComponent() * 1.1
}

func (a AtmosphereAerosol) Properties(pos, outgoing core.Vec3, lambdas spectrum.Vec4) Properties {
	density := a.density(a.altitude(pos))
	scattering := spectrum.Sample4(a.ScatteringAtSeaLevel, lambdas).Scale(density)
	absorption := scattering.Scale(0.1)
	return Properties{Absorption: absorption, Scattering: scattering}
}

func (a AtmosphereAerosol) Phase(pos, incoming, outgoing core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	return a.PhaseFn.F(incoming, outgoing, lambdas)
}

func (a AtmosphereAerosol) SamplePhase(pos, outgoing core.Vec3, lambdas spectrum.Vec4, u core.Vec3) core.Vec3 {
	return a.PhaseFn.Sample(outgoing, lambdas, u)
}

func (a AtmosphereAerosol) PDFPhase(pos, incoming, outgoing core.Vec3, lambdas spectrum.Vec4) float64 {
	return a.PhaseFn.PDF(incoming, outgoing, lambdas)
}

func (a AtmosphereAerosol) Participating() bool { return true }

// NewEarthAtmosphere builds the canonical dry-air + aerosol pair used by
// the planetary rendering scenario, with standard scale heights.
func NewEarthAtmosphere(rayleighSeaLevel, ozoneCrossSection, aerosolSeaLevel spectrum.Spectrum) Medium {
	dryAir := AtmosphereDryAir{
		PlanetRadius:       PlanetRadiusEarth,
		ScaleHeight:        8500.0,
		RayleighAtSeaLevel: rayleighSeaLevel,
		OzoneCrossSection:  ozoneCrossSection,
		OzoneProfile: OzoneTentProfile{
			StartAltitude:      10_000.0,
			PeakAltitude:       25_000.0,
			FalloffScaleHeight: 5_000.0,
		},
		OzonePeakDensity: 3e-6,
	}
	aerosol := AtmosphereAerosol{
		PlanetRadius:         PlanetRadiusEarth,
		ScaleHeight:          1_200.0,
		CutoffAltitude:       30_000.0,
		ScatteringAtSeaLevel: aerosolSeaLevel,
		PhaseFn:              phase.Draine{Alpha: 1.0, G: 0.76},
	}
	return Combined{A: dryAir, B: aerosol}
}
