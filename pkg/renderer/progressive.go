package renderer

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aetherray/pbr/pkg/core"
	"github.com/aetherray/pbr/pkg/film"
	"github.com/aetherray/pbr/pkg/integrator"
	"github.com/aetherray/pbr/pkg/medium"
	"github.com/aetherray/pbr/pkg/scene"
	"github.com/aetherray/pbr/pkg/spectrum"
)

// RayGenerator is implemented by every camera model the driver dispatches
// pixels through: the pinhole Camera and the equal-area
// EqualAreaSphericalCamera used by the atmosphere scenario.
type RayGenerator interface {
	Ray(s, t float64) (origin, dir core.Vec3)
}

// Config holds the render driver's tunables: spec §6's required -W/-H/-s
// plus the driver-defined worker count and checkpoint directory.
type Config struct {
	Width, Height   int
	SamplesPerPixel int
	NumWorkers      int
	OutDir          string // empty disables checkpoint/final EXR writes
}

// passSchedule returns the cumulative per-pixel sample target for each
// progressive pass: 2^(j/2) rounded up to the next integer, strictly
// increasing, capped at the configured total (spec §5: "progressive
// batches of sample counts (2^(j/2) rounded up to the target budget)").
func passSchedule(total int) []int {
	if total <= 0 {
		return nil
	}
	var passes []int
	for j := 0; ; j++ {
		target := int(math.Ceil(math.Pow(2, float64(j)/2.0)))
		if target >= total {
			passes = append(passes, total)
			break
		}
		if len(passes) == 0 || target > passes[len(passes)-1] {
			passes = append(passes, target)
		}
	}
	return passes
}

// Render runs the full progressive schedule against the scene, writing an
// EXR checkpoint to {cfg.OutDir}/partial/{samples}.exr after every pass
// and {cfg.OutDir}/raw.exr once the last pass completes (spec §6
// Outputs, §5 "between render passes...the film is saved to disk"). A
// caller may cancel ctx between passes; whatever the film holds at that
// point is a consistent, if noisier, estimate.
func Render(ctx context.Context, s *scene.Scene, cam RayGenerator, cameraMedium medium.Medium, cfg Config, log zerolog.Logger) (*film.Film, error) {
	f := film.NewFilm(cfg.Width, cfg.Height)
	schedule := passSchedule(cfg.SamplesPerPixel)

	workers := cfg.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	samplesDone := 0
	for _, target := range schedule {
		if err := ctx.Err(); err != nil {
			return f, err
		}

		start := time.Now()
		passSamples := target - samplesDone
		if err := renderPass(ctx, s, cam, cameraMedium, f, cfg, samplesDone, passSamples, workers); err != nil {
			return f, fmt.Errorf("render pass (target %d spp): %w", target, err)
		}
		samplesDone = target

		log.Info().
			Int("pass_samples", target).
			Dur("elapsed", time.Since(start)).
			Msg("progressive pass complete")

		if cfg.OutDir != "" {
			path := filepath.Join(cfg.OutDir, "partial", fmt.Sprintf("%d.exr", target))
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return f, fmt.Errorf("create checkpoint dir: %w", err)
			}
			if err := film.WriteEXR(path, f); err != nil {
				return f, fmt.Errorf("write checkpoint %q: %w", path, err)
			}
			log.Info().Str("checkpoint", path).Msg("wrote progressive checkpoint")
		}
	}

	if cfg.OutDir != "" {
		finalPath := filepath.Join(cfg.OutDir, "raw.exr")
		if err := film.WriteEXR(finalPath, f); err != nil {
			return f, fmt.Errorf("write final exr: %w", err)
		}
		log.Info().Str("path", finalPath).Msg("wrote final exr")
	}

	return f, nil
}

// renderPass fans rows of the image out across workers goroutines via an
// errgroup, so the first worker error cancels the rest and propagates.
// Each pixel-sample draws from a sampler seeded from (x, y, sampleIndex)
// alone, so results are reproducible regardless of how rows are divided
// among workers (spec §9 "Randomness").
func renderPass(ctx context.Context, s *scene.Scene, cam RayGenerator, cameraMedium medium.Medium, f *film.Film, cfg Config, samplesAlready, passSamples, workers int) error {
	g, gctx := errgroup.WithContext(ctx)

	rows := make(chan int, cfg.Height)
	for y := 0; y < cfg.Height; y++ {
		rows <- y
	}
	close(rows)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for y := range rows {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				renderRow(s, cam, cameraMedium, f, cfg, y, samplesAlready, passSamples)
			}
			return nil
		})
	}

	return g.Wait()
}

func renderRow(s *scene.Scene, cam RayGenerator, cameraMedium medium.Medium, f *film.Film, cfg Config, y, samplesAlready, passSamples int) {
	for x := 0; x < cfg.Width; x++ {
		for i := 0; i < passSamples; i++ {
			sampleIndex := samplesAlready + i
			sampler := core.NewRandSampler(x, y, sampleIndex)

			sx, sy := pixelScreenCoords(x, y, cfg.Width, cfg.Height, sampler)
			origin, dir := cam.Ray(sx, sy)

			lambdas := spectrum.SampleWavelength(sampler.Float64())
			radiance := integrator.PathTrace(s, origin, dir, lambdas, cameraMedium, sampler)
			f.SplatRadiance(x, y, radiance, lambdas)
		}
	}
}

// pixelScreenCoords stratifies one sample within pixel (x, y) into
// normalized [0,1] screen coordinates, with y=0 at the image's top.
func pixelScreenCoords(x, y, width, height int, sampler core.Sampler) (float64, float64) {
	jitter := sampler.Vec2()
	sx := (float64(x) + jitter.X) / float64(width)
	sy := 1.0 - (float64(y)+jitter.Y)/float64(height)
	return sx, sy
}
