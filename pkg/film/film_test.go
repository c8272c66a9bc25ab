package film

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherray/pbr/pkg/spectrum"
)

func TestWelfordMatchesArithmeticMeanAndStandardError(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := make([]float64, 2000)
	var sum float64
	for i := range samples {
		samples[i] = rng.NormFloat64()*2 + 5
		sum += samples[i]
	}
	mean := sum / float64(len(samples))

	var acc WelfordAccumulator
	for _, x := range samples {
		acc.Accumulate(x)
	}

	assert.InDelta(t, mean, acc.Mean(), 1e-9)

	var sumSq float64
	for _, x := range samples {
		sumSq += (x - mean) * (x - mean)
	}
	variance := sumSq / float64(len(samples)-1)
	expectedSE2 := variance / float64(len(samples))
	assert.InDelta(t, expectedSE2, acc.StandardError2(), 1e-6)
}

func TestWelfordZeroAndOneSampleHaveZeroStandardError(t *testing.T) {
	var acc WelfordAccumulator
	assert.Equal(t, 0.0, acc.StandardError2())
	acc.Accumulate(3.0)
	assert.Equal(t, 0.0, acc.StandardError2())
}

func TestFilmSplatRadianceAccumulatesNonNegativeXYZ(t *testing.T) {
	f := NewFilm(2, 2)
	lambdas := spectrum.Vec4{X: 550, Y: 600, Z: 650, W: 700}
	for i := 0; i < 8; i++ {
		f.SplatRadiance(0, 0, spectrum.Vec4{X: 1, Y: 1, Z: 1, W: 1}, lambdas)
	}
	mean := f.At(0, 0).Mean()
	for _, c := range mean {
		assert.False(t, math.IsNaN(c))
		assert.GreaterOrEqual(t, c, 0.0)
	}
}

func TestWriteEXRProducesNonEmptyFile(t *testing.T) {
	f := NewFilm(4, 3)
	lambdas := spectrum.Vec4{X: 550, Y: 600, Z: 650, W: 700}
	f.SplatRadiance(1, 1, spectrum.Vec4{X: 2, Y: 2, Z: 2, W: 2}, lambdas)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.exr")
	require.NoError(t, WriteEXR(path, f))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	magic := make([]byte, 4)
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	_, err = file.Read(magic)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x76, 0x2f, 0x31, 0x01}, magic)
}
