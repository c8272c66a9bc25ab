package spectrum

import (
	"fmt"
	"strconv"
	"strings"
)

// parseCSVMulti parses "lambda,v1,v2,...,vN" lines (no header) into N
// piecewise-linear spectra, one per value column, mirroring the original
// implementation's from_csv_multi loader.
func parseCSVMulti(csv string, n int) ([]*PiecewiseLinear, error) {
	points := make([][][2]float64, n)
	for lineNum, line := range strings.Split(strings.TrimSpace(csv), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < n+1 {
			return nil, fmt.Errorf("spectral csv line %d: expected %d columns, got %d", lineNum, n+1, len(fields))
		}
		lambda, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("spectral csv line %d: %w", lineNum, err)
		}
		for j := 0; j < n; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(fields[j+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("spectral csv line %d column %d: %w", lineNum, j+1, err)
			}
			points[j] = append(points[j], [2]float64{lambda, v})
		}
	}
	result := make([]*PiecewiseLinear, n)
	for j := 0; j < n; j++ {
		result[j] = NewPiecewiseLinear(points[j])
	}
	return result, nil
}

// mustParseCSVMulti panics on malformed embedded data — a build-time
// invariant, not a runtime input error (spec §7 only requires recovery for
// external/user-supplied files).
func mustParseCSVMulti(csv string, n int) []*PiecewiseLinear {
	result, err := parseCSVMulti(csv, n)
	if err != nil {
		panic(err)
	}
	return result
}
