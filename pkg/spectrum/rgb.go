package spectrum

import "math"

// AlbedoRGB is a smooth, physically plausible reflectance spectrum
// reconstructed from an sRGB triple, following the sigmoid parametrization
// the original renderer sketched (spectrum/rgb.rs) but never finished
// (RgbAlbedo::new was an unimplemented `todo!()`). The coefficients are fit
// numerically here rather than via the closed-form Jakob–Hanika tables the
// unfinished original would have used.
type AlbedoRGB struct {
	A, B, C float64
}

func (s AlbedoRGB) Sample(lambda float64) float64 {
	l := (lambda - VisibleMin) / (VisibleMax - VisibleMin)
	q := s.A*l*l + s.B*l + s.C
	return 0.5 + 0.5*q/math.Sqrt(1+q*q)
}

// NewAlbedoFromRGB fits the sigmoid reflectance's three coefficients so
// that reconstructing its XYZ/sRGB response approximately reproduces the
// requested color, via a small Gauss-Newton loop over finite-difference
// Jacobians — cheap since it only runs once per scene-authored color.
func NewAlbedoFromRGB(r, g, b float64) AlbedoRGB {
	target := [3]float64{r, g, b}
	coeffs := [3]float64{0, 0, inverseSigmoid((r + g + b) / 3)}

	residual := func(c [3]float64) [3]float64 {
		s := AlbedoRGB{A: c[0], B: c[1], C: c[2]}
		xyz := SpectrumToXYZ(s)
		got := XYZToSRGB(xyz)
		return [3]float64{got[0] - target[0], got[1] - target[1], got[2] - target[2]}
	}

	const h = 1e-4
	for iter := 0; iter < 8; iter++ {
		r0 := residual(coeffs)
		if math.Abs(r0[0])+math.Abs(r0[1])+math.Abs(r0[2]) < 1e-4 {
			break
		}

		var jac [3][3]float64
		for j := 0; j < 3; j++ {
			perturbed := coeffs
			perturbed[j] += h
			rj := residual(perturbed)
			for i := 0; i < 3; i++ {
				jac[i][j] = (rj[i] - r0[i]) / h
			}
		}

		delta, ok := solve3x3(jac, r0)
		if !ok {
			break
		}
		for i := 0; i < 3; i++ {
			coeffs[i] -= delta[i]
		}
	}

	return AlbedoRGB{A: coeffs[0], B: coeffs[1], C: coeffs[2]}
}

func inverseSigmoid(target float64) float64 {
	t := 2*target - 1
	if t >= 1 {
		t = 1 - 1e-6
	}
	if t <= -1 {
		t = -1 + 1e-6
	}
	return t / math.Sqrt(1-t*t)
}

func solve3x3(m [3][3]float64, rhs [3]float64) ([3]float64, bool) {
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	if math.Abs(det) < 1e-12 {
		return [3]float64{}, false
	}
	var x [3]float64
	for col := 0; col < 3; col++ {
		cm := m
		for row := 0; row < 3; row++ {
			cm[row][col] = rhs[row]
		}
		cdet := cm[0][0]*(cm[1][1]*cm[2][2]-cm[1][2]*cm[2][1]) -
			cm[0][1]*(cm[1][0]*cm[2][2]-cm[1][2]*cm[2][0]) +
			cm[0][2]*(cm[1][0]*cm[2][1]-cm[1][1]*cm[2][0])
		x[col] = cdet / det
	}
	return x, true
}
