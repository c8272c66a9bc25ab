package renderer

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/lights"
	"github.com/aetherray/pbr/pkg/medium"
	"github.com/aetherray/pbr/pkg/scene"
)

func TestPassScheduleIsStrictlyIncreasingAndEndsAtTotal(t *testing.T) {
	schedule := passSchedule(64)
	require.NotEmpty(t, schedule)
	assert.Equal(t, 64, schedule[len(schedule)-1])
	for i := 1; i < len(schedule); i++ {
		assert.Greater(t, schedule[i], schedule[i-1])
	}
}

func TestPassScheduleHandlesSmallTotals(t *testing.T) {
	assert.Equal(t, []int{1}, passSchedule(1))
	assert.Nil(t, passSchedule(0))
}

func TestRenderProducesNonNegativeFiniteFilm(t *testing.T) {
	sun := lights.DistantDiskLight{
		EmissionSpectrum: constantTestSpectrum{v: 3.0},
		Dir:              core.NewVec3(0, 0, 1),
		CosRadius:        0.999,
	}
	s := scene.NewScene(nil, []lights.Light{sun}, medium.Vacuum{})

	cam := NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), 60.0, 1.0)
	cfg := Config{Width: 2, Height: 2, SamplesPerPixel: 2, NumWorkers: 2}

	f, err := Render(context.Background(), s, cam, medium.Vacuum{}, cfg, zerolog.New(os.Stdout))
	require.NoError(t, err)

	for i := range f.Pixels {
		mean := f.Pixels[i].Mean()
		for _, v := range mean {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.False(t, isNaNOrInf(v))
		}
	}
}

func isNaNOrInf(v float64) bool {
	return v != v || v > 1e300 || v < -1e300
}

type constantTestSpectrum struct{ v float64 }

func (c constantTestSpectrum) Sample(float64) float64 { return c.v }
