package spectrum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSRGBXYZRoundTrip(t *testing.T) {
	points := [][3]float64{
		{0.2, 0.4, 0.6},
		{1.0, 1.0, 1.0},
		{0.0, 0.0, 0.0},
		{0.8, 0.1, 0.3},
	}
	for _, p := range points {
		xyz := SRGBToXYZ(p)
		back := XYZToSRGB(xyz)
		for i := range p {
			require.InDelta(t, p[i], back[i], 1e-6)
		}
	}
}

func TestPiecewiseLinearInterpolatesAndClampsOutsideRange(t *testing.T) {
	s := NewPiecewiseLinear([][2]float64{{400, 0}, {500, 1}, {600, 0}})
	require.Equal(t, 0.0, s.Sample(399))
	require.Equal(t, 0.0, s.Sample(601))
	require.InDelta(t, 0.5, s.Sample(450), 1e-9)
}

func TestWavelengthSamplerInverseCDFIdentity(t *testing.T) {
	// pdf(sample(u)) must equal the reciprocal of the inverse CDF's local
	// slope: pdf = du/dlambda, checked by central difference.
	const n = 2000
	const h = 1e-7
	for i := 1; i < n; i++ {
		u := float64(i) / n
		lambda := SampleWavelength(u).X
		pdf := WavelengthPDF(lambda)
		require.Greater(t, pdf, 0.0)

		slope := (SampleWavelength(u+h).X - SampleWavelength(u-h).X) / (2 * h)
		require.InDelta(t, 1.0/slope, pdf, 0.05*pdf, "u=%v", u)
	}
}

func TestWavelengthPDFIntegratesToOne(t *testing.T) {
	const n = 5000
	total := 0.0
	width := VisibleMax - VisibleMin
	for i := 0; i < n; i++ {
		lambda := VisibleMin + width*(float64(i)+0.5)/n
		total += WavelengthPDF(lambda) * width / n
	}
	require.InDelta(t, 1.0, total, 0.02)
}

func TestBlackbodyPeaksNear1(t *testing.T) {
	b := Blackbody{TemperatureKelvin: 5778}
	peak := 2.8977719e-3 / 5778 * 1e9
	require.InDelta(t, 1.0, b.Sample(peak), 1e-6)
	require.Less(t, b.Sample(peak-200), 1.0)
}

func TestConstantAndAmplified(t *testing.T) {
	c := Constant(0.5)
	require.Equal(t, 0.5, c.Sample(500))
	amp := Amplified{Factor: 2.0, Inner: c}
	require.Equal(t, 1.0, amp.Sample(500))
}

func TestVec4HeroOnlyRescalesUnbiased(t *testing.T) {
	tp := Vec4{0.25, 0.25, 0.25, 0.25}
	hero := tp.HeroOnly()
	require.Equal(t, Vec4{1, 0, 0, 0}, hero)
}

func TestAlbedoFromRGBApproximatesTarget(t *testing.T) {
	albedo := NewAlbedoFromRGB(0.7, 0.3, 0.2)
	xyz := SpectrumToXYZ(albedo)
	got := XYZToSRGB(xyz)
	require.InDelta(t, 0.7, got[0], 0.1)
	require.InDelta(t, 0.3, got[1], 0.1)
	require.InDelta(t, 0.2, got[2], 0.1)
}

func TestIORTablesLoad(t *testing.T) {
	gold := IORGold()
	require.Greater(t, gold.N.Sample(550), 0.0)
	require.Greater(t, gold.K.Sample(550), 0.0)
	glass := IORGlass()
	require.True(t, math.Abs(glass.Sample(550)-1.517) < 0.01)
}
