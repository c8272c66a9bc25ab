package phase

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/spectrum"
)

var testLambdas = spectrum.Vec4{X: 550, Y: 600, Z: 650, W: 700}

func TestPhaseFunctionsIntegrateToOne(t *testing.T) {
	kernels := map[string]Phase{
		"isotropic": Isotropic{},
		"rayleigh":  Rayleigh{},
		"draine":    Draine{Alpha: 1.0, G: 0.76},
	}
	outgoing := core.NewVec3(0, 0, 1)

	// Midpoint rule uniform in cos(theta): d(omega) = 2*pi*d(cos theta).
	const n = 4000
	for name, p := range kernels {
		sum := 0.0
		for i := 0; i < n; i++ {
			cos := -1.0 + 2.0*(float64(i)+0.5)/n
			sin := math.Sqrt(math.Max(0, 1-cos*cos))
			incoming := core.NewVec3(sin, 0, cos)
			f := p.F(incoming, outgoing, testLambdas)
			sum += f.X * 2 * math.Pi * (2.0 / n)
		}
		assert.InDelta(t, 1.0, sum, 0.01, name)
	}
}

func TestRayleighSymmetric(t *testing.T) {
	p := Rayleigh{}
	outgoing := core.NewVec3(0, 0, 1)
	forward := p.F(core.NewVec3(0, 0, 1), outgoing, testLambdas)
	backward := p.F(core.NewVec3(0, 0, -1), outgoing, testLambdas)
	assert.InDelta(t, forward.X, backward.X, 1e-9)
}

func TestDraineReducesToCornetteShanksAtAlphaOne(t *testing.T) {
	d := Draine{Alpha: 1.0, G: 0.76}
	outgoing := core.NewVec3(0, 0, 1)
	incoming := core.NewVec3(0, 0, 1)
	pdf := d.PDF(incoming, outgoing, testLambdas)
	assert.Greater(t, pdf, 0.0)

	// Cornette-Shanks: 3/(8*pi) * (1-g^2)(1+cos^2) / ((2+g^2)(1+g^2-2g*cos)^1.5), at cos = 1.
	g := d.G
	cornetteShanks := 3.0 / (8.0 * math.Pi) * (1 - g*g) * 2.0 / ((2 + g*g) * math.Pow(1+g*g-2*g, 1.5))
	assert.InDelta(t, cornetteShanks, pdf, 1e-9*cornetteShanks)
}

func TestDraineSampleMatchesOutgoingAtExtremeG(t *testing.T) {
	d := Draine{Alpha: 1.0, G: 0.9}
	outgoing := core.NewVec3(0, 0, 1)
	dir := d.Sample(outgoing, testLambdas, core.NewVec3(0.5, 0.5, 0))
	assert.InDelta(t, 1.0, dir.Length(), 1e-9)
	assert.Greater(t, dir.Dot(outgoing), 0.0)
}

func TestDrainePDFPositiveAndFiniteAcrossAngles(t *testing.T) {
	d := Draine{Alpha: 1.0, G: 0.76}
	outgoing := core.NewVec3(0, 0, 1)
	for _, cos := range []float64{-0.99, -0.5, 0, 0.5, 0.99} {
		sin := math.Sqrt(1 - cos*cos)
		incoming := core.NewVec3(sin, 0, cos)
		v := d.PDF(incoming, outgoing, testLambdas)
		assert.Greater(t, v, 0.0)
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
}
