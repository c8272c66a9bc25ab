package spectrum

import (
	_ "embed"
	"math"
	"sync"
)

//go:embed data/solar_irradiance.csv
var solarIrradianceCSV string

//go:embed data/ozone_cross_section.csv
var ozoneCrossSectionCSV string

var (
	physicalOnce    sync.Once
	solarIrradiance *PiecewiseLinear
	ozoneCrossSec   *PiecewiseLinear
)

func initPhysical() {
	physicalOnce.Do(func() {
		solarIrradiance = mustParseCSVMulti(solarIrradianceCSV, 1)[0]
		ozoneCrossSec = mustParseCSVMulti(ozoneCrossSectionCSV, 1)[0]
	})
}

// SolarIrradiance is extraterrestrial solar spectral irradiance
// (W/m^2/nm), the source spectrum NewDistantDiskLightFromIrradiance
// converts into the sun's radiance for the atmosphere scenario.
func SolarIrradiance() Spectrum { initPhysical(); return solarIrradiance }

// OzoneCrossSection is ozone's per-molecule absorption cross section
// (tabulated, arbitrary units consistent with the density the atmosphere
// medium multiplies it by), used by the ozone tent-profile absorption
// layer (spec §4.4).
func OzoneCrossSection() Spectrum { initPhysical(); return ozoneCrossSec }

// rayleighCrossSectionShape is a Spectrum proportional to 1/lambda^4, the
// simplified form of the Rayleigh cross-section spec §4.4 permits in
// place of the full (8*pi^3/3N)*((n^2-1)/(n^2+2))^2*(2*pi/lambda)^4*r^6
// expression; it carries only the spectral *shape*, normalized to 1 at a
// reference wavelength so a caller can scale it to a known sea-level
// scattering coefficient.
type rayleighCrossSectionShape struct {
	referenceLambdaNm float64
}

func (r rayleighCrossSectionShape) Sample(lambdaNm float64) float64 {
	return math.Pow(r.referenceLambdaNm/lambdaNm, 4)
}

// NewRayleighScattering returns a Spectrum giving the Rayleigh scattering
// coefficient at sea level, following the standard 1/lambda^4 law
// anchored so its value at 550nm equals scatteringAt550nm (a physically
// measured reference value, e.g. ~1.33e-5 per meter for Earth's
// atmosphere).
func NewRayleighScattering(scatteringAt550nm float64) Spectrum {
	return Amplified{Factor: scatteringAt550nm, Inner: rayleighCrossSectionShape{referenceLambdaNm: 550.0}}
}
