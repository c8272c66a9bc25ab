// Package loaders reads external input files the render driver needs at
// scene-construction time: spectral data tables, triangle meshes, and
// voxel volumes. Malformed input returns a wrapped error; nothing here
// panics on bad external data.
package loaders

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aetherray/pbr/pkg/spectrum"
)

// LoadSpectralCSV reads a "lambda,v1,...,vN" CSV file (no header) from
// disk and returns N piecewise-linear spectra, one per value column,
// mirroring the format the embedded CIE/IOR tables already use.
func LoadSpectralCSV(path string, columns int) ([]*spectrum.PiecewiseLinear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load spectral csv %q: %w", path, err)
	}

	points := make([][][2]float64, columns)
	for lineNum, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < columns+1 {
			return nil, fmt.Errorf("load spectral csv %q: line %d: expected %d columns, got %d",
				path, lineNum+1, columns+1, len(fields))
		}
		lambda, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("load spectral csv %q: line %d: %w", path, lineNum+1, err)
		}
		for j := 0; j < columns; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(fields[j+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("load spectral csv %q: line %d column %d: %w", path, lineNum+1, j+1, err)
			}
			points[j] = append(points[j], [2]float64{lambda, v})
		}
	}

	result := make([]*spectrum.PiecewiseLinear, columns)
	for j := 0; j < columns; j++ {
		if len(points[j]) == 0 {
			return nil, fmt.Errorf("load spectral csv %q: no data rows", path)
		}
		result[j] = spectrum.NewPiecewiseLinear(points[j])
	}
	return result, nil
}
