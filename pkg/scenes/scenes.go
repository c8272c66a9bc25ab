// Package scenes builds the hard-coded scenes the six end-to-end render
// scenarios (spec §8) exercise. Scene description is explicitly out of
// scope for the core per spec §1 ("the hard-coded scene builders...an
// external factory producing the Scene the core consumes"), so this
// package is deliberately thin: each builder wires core types together
// and returns them, with no reusable scene-graph DSL.
package scenes

import (
	"fmt"
	"math"

	"github.com/aetherray/pbr/pkg/brdf"
	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/geometry"
	"github.com/aetherray/pbr/pkg/lights"
	"github.com/aetherray/pbr/pkg/material"
	"github.com/aetherray/pbr/pkg/medium"
	"github.com/aetherray/pbr/pkg/phase"
	"github.com/aetherray/pbr/pkg/renderer"
	"github.com/aetherray/pbr/pkg/scene"
	"github.com/aetherray/pbr/pkg/spectrum"
)

// Built bundles everything the render driver needs to start tracing: the
// scene graph, a camera (pinhole or the atmosphere's equal-area
// spherical projection), and the medium the camera ray starts inside.
type Built struct {
	Scene        *scene.Scene
	Camera       renderer.RayGenerator
	CameraMedium medium.Medium
}

func cosRadius(angleDegrees float64) float64 {
	return math.Cos(angleDegrees * math.Pi / 180.0)
}

// SunDisk is scenario 1: an empty scene lit by one distant disk light
// pointing straight up, camera at the origin looking up the same axis.
func SunDisk() Built {
	sunDir := core.NewVec3(0, 1, 0)
	sun := lights.DistantDiskLight{
		EmissionSpectrum: spectrum.Constant(1.0),
		Dir:              sunDir,
		CosRadius:        cosRadius(5.0),
	}

	s := scene.NewScene(nil, []lights.Light{sun}, medium.Vacuum{})
	cam := renderer.NewCamera(core.NewVec3(0, 0, 0), sunDir, core.NewVec3(0, 0, 1), 60.0, 1.0)

	return Built{Scene: s, Camera: cam, CameraMedium: medium.Vacuum{}}
}

// LambertPlane is scenario 2: a Lambertian ground plane (albedo 0.5) lit
// from directly above by a distant disk light of the given irradiance.
func LambertPlane(irradiance float64) Built {
	sunDir := core.NewVec3(0, 1, 0)
	sun := lights.NewDistantDiskLightFromIrradiance(sunDir, cosRadius(0.5), spectrum.Constant(irradiance))

	groundMat := &material.Material{
		BRDF:        brdf.Lambertian{Albedo: spectrum.Constant(0.5)},
		EnterMedium: medium.Vacuum{},
		ExitMedium:  medium.Vacuum{},
	}
	ground := geometry.Plane{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), Material: groundMat}

	s := scene.NewScene([]geometry.Object{ground}, []lights.Light{sun}, medium.Vacuum{})
	cam := renderer.NewCamera(core.NewVec3(0, 3, 0.001), core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), 40.0, 1.0)

	return Built{Scene: s, Camera: cam, CameraMedium: medium.Vacuum{}}
}

// AbsorbingSphere is scenario 3: a sphere of radius r whose interior is a
// constant-absorption medium (no scattering, no BRDF lobe — a pure
// medium boundary), lit from directly behind along the camera axis, so
// the axial shadow ray's transmittance has the closed form
// exp(-absorption*2r).
func AbsorbingSphere(radius, absorption float64) Built {
	lightDir := core.NewVec3(0, 0, 1)
	sun := lights.DistantDiskLight{
		EmissionSpectrum: spectrum.Constant(1.0),
		Dir:              lightDir,
		CosRadius:        cosRadius(0.5),
	}

	interior := medium.Homogeneous{
		Absorption: spectrum.Constant(absorption),
		Scattering: spectrum.Zero,
		Emission:   spectrum.Zero,
		PhaseFn:    phase.Isotropic{},
	}
	sphereMat := &material.Material{EnterMedium: interior, ExitMedium: medium.Vacuum{}}
	sphere := geometry.Sphere{Center: core.NewVec3(0, 0, 0), Radius: radius, Material: sphereMat}

	s := scene.NewScene([]geometry.Object{sphere}, []lights.Light{sun}, medium.Vacuum{})
	cam := renderer.NewCamera(core.NewVec3(0, 0, -radius*5), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 20.0, 1.0)

	return Built{Scene: s, Camera: cam, CameraMedium: medium.Vacuum{}}
}

// DielectricSphere is scenario 4: a smooth glass sphere (IOR 1.5) with a
// distant disk light directly behind it, so the centre pixel's
// transmitted radiance approaches (1 - FresnelNormalIncidence)^2.
func DielectricSphere(radius, ior float64) Built {
	lightDir := core.NewVec3(0, 0, 1)
	sun := lights.DistantDiskLight{
		EmissionSpectrum: spectrum.Constant(1.0),
		Dir:              lightDir,
		CosRadius:        cosRadius(0.5),
	}

	sphereMat := &material.Material{
		BRDF:        brdf.Dielectric{IOR: spectrum.Constant(ior)},
		EnterMedium: medium.Vacuum{},
		ExitMedium:  medium.Vacuum{},
	}
	sphere := geometry.Sphere{Center: core.NewVec3(0, 0, 0), Radius: radius, Material: sphereMat}

	s := scene.NewScene([]geometry.Object{sphere}, []lights.Light{sun}, medium.Vacuum{})
	cam := renderer.NewCamera(core.NewVec3(0, 0, -radius*5), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 20.0, 1.0)

	return Built{Scene: s, Camera: cam, CameraMedium: medium.Vacuum{}}
}

// RoughGold is scenario 5: a rough conductor (gold, alpha=0.3) sphere lit
// off-axis so the glossy lobe's peak falls away from the mirror
// direction, exercising VNDF sampling/PDF agreement.
func RoughGold(radius, alpha float64) Built {
	lightDir := core.NewVec3(-0.3, 1, -0.3).Normalize()
	sun := lights.DistantDiskLight{
		EmissionSpectrum: spectrum.Constant(1.0),
		Dir:              lightDir,
		CosRadius:        cosRadius(2.0),
	}

	gold := spectrum.IORGold()
	sphereMat := &material.Material{
		BRDF: brdf.RoughConductor{
			IORReal:      gold.N,
			IORImaginary: gold.K,
			Distribution: brdf.TrowbridgeReitz{Alpha: alpha},
		},
		EnterMedium: medium.Vacuum{},
		ExitMedium:  medium.Vacuum{},
	}
	sphere := geometry.Sphere{Center: core.NewVec3(0, 0, 0), Radius: radius, Material: sphereMat}

	s := scene.NewScene([]geometry.Object{sphere}, []lights.Light{sun}, medium.Vacuum{})
	cam := renderer.NewCamera(core.NewVec3(0, 0, -radius*5), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 20.0, 1.0)

	return Built{Scene: s, Camera: cam, CameraMedium: medium.Vacuum{}}
}

// Atmosphere is scenario 6: the planetary dry-air + aerosol preset, sun
// at sunAngleDegrees above the horizon, camera at altitudeMeters above
// the surface using the equal-area spherical projection so the render
// covers zenith through the anti-solar horizon in one frame.
func Atmosphere(sunAngleDegrees, altitudeMeters float64) Built {
	rayleigh := spectrum.NewRayleighScattering(1.331e-5)
	ozone := spectrum.OzoneCrossSection()
	aerosol := spectrum.Amplified{Factor: 2.0e-5, Inner: spectrum.One}

	atmo := medium.NewEarthAtmosphere(rayleigh, ozone, aerosol)

	elevation := sunAngleDegrees * math.Pi / 180.0
	sunDir := core.NewVec3(math.Cos(elevation), math.Sin(elevation), 0).Normalize()
	sun := lights.NewDistantDiskLightFromIrradiance(sunDir, cosRadius(0.25), spectrum.NewPiecewiseLinear(irradianceTable()))

	surfaceRadius := medium.PlanetRadiusEarth
	groundMat := &material.Material{
		BRDF:        brdf.Lambertian{Albedo: spectrum.Constant(0.3)},
		EnterMedium: atmo,
		ExitMedium:  atmo,
	}
	ground := geometry.Sphere{Center: core.NewVec3(0, 0, 0), Radius: surfaceRadius, Material: groundMat}

	s := scene.NewScene([]geometry.Object{ground}, []lights.Light{sun}, atmo)
	camOrigin := core.NewVec3(0, surfaceRadius+altitudeMeters, 0)
	cam := renderer.EqualAreaSphericalCamera{Origin: camOrigin}

	return Built{Scene: s, Camera: cam, CameraMedium: atmo}
}

// irradianceTable reads the embedded solar-irradiance spectrum's sample
// points back out so NewDistantDiskLightFromIrradiance can re-derive the
// sun's radiance; a thin shim since SolarIrradiance() already returns a
// ready-to-use Spectrum and most callers would just pass it directly.
func irradianceTable() [][2]float64 {
	pts := make([][2]float64, 0, 96)
	for lambda := spectrum.VisibleMin; lambda < spectrum.VisibleMax; lambda += 5.0 {
		pts = append(pts, [2]float64{lambda, spectrum.SolarIrradiance().Sample(lambda)})
	}
	return pts
}

// Names lists every built-in scene the CLI can select by name.
func Names() []string {
	return []string{"sun", "lambert-plane", "absorbing-sphere", "dielectric-sphere", "rough-gold", "atmosphere"}
}

// Build dispatches by name to the matching builder, using documented
// defaults for scenario-specific parameters the CLI doesn't override.
func Build(name string, sunAngle, altitude float64) (Built, error) {
	switch name {
	case "sun":
		return SunDisk(), nil
	case "lambert-plane":
		return LambertPlane(1.0), nil
	case "absorbing-sphere":
		return AbsorbingSphere(1.0, 0.5), nil
	case "dielectric-sphere":
		return DielectricSphere(1.0, 1.5), nil
	case "rough-gold":
		return RoughGold(1.0, 0.3), nil
	case "atmosphere":
		return Atmosphere(sunAngle, altitude), nil
	default:
		return Built{}, fmt.Errorf("unknown scene %q (known: %v)", name, Names())
	}
}
