package brdf

import (
	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/spectrum"
)

// Composite mixes two BRDFs by a fixed weight: F and PDF are the weighted
// sums of the two lobes, and Sample picks one lobe by Russian roulette on
// Weight then rescales its PDF so the combined estimator stays unbiased.
type Composite struct {
	A, B   Brdf
	Weight float64 // probability of choosing A
}

func (c Composite) F(incoming, outgoing, normal core.Vec3, lambdas spectrum.Vec4) spectrum.Vec4 {
	fa := c.A.F(incoming, outgoing, normal, lambdas)
	fb := c.B.F(incoming, outgoing, normal, lambdas)
	return fa.Scale(c.Weight).Add(fb.Scale(1 - c.Weight))
}

func (c Composite) Sample(outgoing, normal core.Vec3, lambdas spectrum.Vec4, u core.Vec3) Sample {
	pickA := u.Z < c.Weight
	var rescaled core.Vec3
	if pickA {
		rescaled = core.NewVec3(u.X, u.Y, u.Z/c.Weight)
	} else {
		rescaled = core.NewVec3(u.X, u.Y, (u.Z-c.Weight)/(1-c.Weight))
	}

	var chosen, other Brdf
	var p float64
	if pickA {
		chosen, other, p = c.A, c.B, c.Weight
	} else {
		chosen, other, p = c.B, c.A, 1-c.Weight
	}

	s := chosen.Sample(outgoing, normal, lambdas, rescaled)
	if s.Singular {
		s.F = s.F.Scale(p)
		s.PDF *= p
		return s
	}

	otherF := other.F(s.Dir, outgoing, normal, lambdas)
	otherPDF := other.PDF(s.Dir, outgoing, normal, lambdas.X)

	var combinedF spectrum.Vec4
	var combinedPDF float64
	if pickA {
		combinedF = s.F.Scale(c.Weight).Add(otherF.Scale(1 - c.Weight))
		combinedPDF = s.PDF*c.Weight + otherPDF*(1-c.Weight)
	} else {
		combinedF = otherF.Scale(c.Weight).Add(s.F.Scale(1 - c.Weight))
		combinedPDF = otherPDF*c.Weight + s.PDF*(1-c.Weight)
	}

	return Sample{
		Dir:                s.Dir,
		PDF:                combinedPDF,
		F:                  combinedF,
		TerminateSecondary: s.TerminateSecondary,
		Singular:           false,
	}
}

func (c Composite) PDF(incoming, outgoing, normal core.Vec3, lambda float64) float64 {
	return c.Weight*c.A.PDF(incoming, outgoing, normal, lambda) + (1-c.Weight)*c.B.PDF(incoming, outgoing, normal, lambda)
}
