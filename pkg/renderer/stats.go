package renderer

import "github.com/aetherray/pbr/pkg/film"

// Stats summarizes a completed film for an end-of-render log line: the
// total samples taken and the mean per-pixel standard error across the Y
// (luminance) channel, a cheap proxy for how converged the image is.
type Stats struct {
	TotalPixels      int
	TotalSamples     int64
	MeanStandardErr2 float64
}

// Summarize walks every pixel once and aggregates sample counts and
// Y-channel variance.
func Summarize(f *film.Film) Stats {
	stats := Stats{TotalPixels: f.Width * f.Height}
	var errSum float64
	for i := range f.Pixels {
		p := &f.Pixels[i]
		stats.TotalSamples += p.Y.Count()
		errSum += p.Y.StandardError2()
	}
	if stats.TotalPixels > 0 {
		stats.MeanStandardErr2 = errSum / float64(stats.TotalPixels)
	}
	return stats
}
