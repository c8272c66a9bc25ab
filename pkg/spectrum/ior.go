package spectrum

import (
	_ "embed"
	"sync"
)

//go:embed data/ior_gold.csv
var iorGoldCSV string

//go:embed data/ior_silver.csv
var iorSilverCSV string

//go:embed data/ior_copper.csv
var iorCopperCSV string

//go:embed data/ior_glass.csv
var iorGlassCSV string

// ComplexIOR pairs the real (n) and imaginary (k) refractive-index spectra
// of a conductor, the shape smooth/rough conductor BRDFs sample at the
// hero wavelengths.
type ComplexIOR struct {
	N Spectrum
	K Spectrum
}

var (
	iorOnce            sync.Once
	iorGold, iorSilver ComplexIOR
	iorCopper          ComplexIOR
	iorGlassSpectrum   Spectrum
)

func initIOR() {
	iorOnce.Do(func() {
		gold := mustParseCSVMulti(iorGoldCSV, 2)
		iorGold = ComplexIOR{N: gold[0], K: gold[1]}

		silver := mustParseCSVMulti(iorSilverCSV, 2)
		iorSilver = ComplexIOR{N: silver[0], K: silver[1]}

		copper := mustParseCSVMulti(iorCopperCSV, 2)
		iorCopper = ComplexIOR{N: copper[0], K: copper[1]}

		glass := mustParseCSVMulti(iorGlassCSV, 1)
		iorGlassSpectrum = glass[0]
	})
}

func IORGold() ComplexIOR   { initIOR(); return iorGold }
func IORSilver() ComplexIOR { initIOR(); return iorSilver }
func IORCopper() ComplexIOR { initIOR(); return iorCopper }
func IORGlass() Spectrum    { initIOR(); return iorGlassSpectrum }
