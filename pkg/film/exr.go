package film

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// OpenEXR's magic number and the version/flags word for a single-part,
// scanline, non-tiled, non-deep file.
const (
	exrMagic           = 0x01312f76
	exrVersionScanline = 2
)

// WriteEXR encodes the film's current XYZ means as an uncompressed
// scanline OpenEXR file. Channels are tagged X, Y, Z (not R, G, B): per the
// OpenEXR spec this requires an explicit identity chromaticities attribute
// so readers don't reinterpret them as sRGB primaries.
func WriteEXR(path string, f *Film) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create exr file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	if err := writeEXRHeader(w, f.Width, f.Height); err != nil {
		return fmt.Errorf("write exr header: %w", err)
	}

	// Scanline offset table: one int64 file offset per row, written after
	// the header and before the pixel data it points into.
	headerEnd := exrHeaderSize(f.Width, f.Height)
	rowBytes := int64(3*4*f.Width + 4 + 4) // channel data (3 x float32) + y + chunk size
	offsets := make([]int64, f.Height)
	for y := 0; y < f.Height; y++ {
		offsets[y] = headerEnd + int64(y)*rowBytes
	}
	if err := binary.Write(w, binary.LittleEndian, offsets); err != nil {
		return fmt.Errorf("write exr offset table: %w", err)
	}

	buf := make([]float32, f.Width)
	for y := 0; y < f.Height; y++ {
		if err := binary.Write(w, binary.LittleEndian, int32(y)); err != nil {
			return err
		}
		pixelDataSize := int32(3 * 4 * f.Width)
		if err := binary.Write(w, binary.LittleEndian, pixelDataSize); err != nil {
			return err
		}

		for _, channel := range [3]int{0, 1, 2} {
			for x := 0; x < f.Width; x++ {
				mean := f.At(x, y).Mean()
				buf[x] = float32(mean[channel])
			}
			if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
				return err
			}
		}
	}

	return w.Flush()
}

// exrHeaderSize computes the header's exact byte length so the scanline
// offset table (written immediately after) can be built up-front rather
// than seeked back to.
func exrHeaderSize(width, height int) int64 {
	var counter countingWriter
	_ = writeEXRHeader(&counter, width, height)
	return counter.n
}

type countingWriter struct{ n int64 }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

func writeEXRHeader(w interface{ Write([]byte) (int, error) }, width, height int) error {
	write := func(b []byte) error {
		_, err := w.Write(b)
		return err
	}
	writeU32 := func(v uint32) error {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		return write(b[:])
	}
	writeString := func(s string) error {
		if err := write([]byte(s)); err != nil {
			return err
		}
		return write([]byte{0})
	}
	writeAttr := func(name, typ string, value []byte) error {
		if err := writeString(name); err != nil {
			return err
		}
		if err := writeString(typ); err != nil {
			return err
		}
		if err := writeU32(uint32(len(value))); err != nil {
			return err
		}
		return write(value)
	}

	if err := writeU32(exrMagic); err != nil {
		return err
	}
	if err := writeU32(exrVersionScanline); err != nil {
		return err
	}

	// channels attribute: three 32-bit-float, non-linear, no subsampling
	// channel descriptions (X, Y, Z in required alphabetical order),
	// terminated by a zero-length name.
	var channels []byte
	for _, name := range []string{"X", "Y", "Z"} {
		channels = append(channels, name...)
		channels = append(channels, 0)
		chanBuf := make([]byte, 16)
		binary.LittleEndian.PutUint32(chanBuf[0:4], 1) // pixel type: FLOAT
		chanBuf[4] = 0                                 // pLinear
		binary.LittleEndian.PutUint32(chanBuf[8:12], 1)  // xSampling
		binary.LittleEndian.PutUint32(chanBuf[12:16], 1) // ySampling
		channels = append(channels, chanBuf...)
	}
	channels = append(channels, 0)
	if err := writeAttr("channels", "chlist", channels); err != nil {
		return err
	}

	if err := writeAttr("compression", "compression", []byte{0}); err != nil { // NO_COMPRESSION
		return err
	}

	box2i := func(xMin, yMin, xMax, yMax int32) []byte {
		b := make([]byte, 16)
		binary.LittleEndian.PutUint32(b[0:4], uint32(xMin))
		binary.LittleEndian.PutUint32(b[4:8], uint32(yMin))
		binary.LittleEndian.PutUint32(b[8:12], uint32(xMax))
		binary.LittleEndian.PutUint32(b[12:16], uint32(yMax))
		return b
	}
	window := box2i(0, 0, int32(width-1), int32(height-1))
	if err := writeAttr("dataWindow", "box2i", window); err != nil {
		return err
	}
	if err := writeAttr("displayWindow", "box2i", window); err != nil {
		return err
	}

	if err := writeAttr("lineOrder", "lineOrder", []byte{0}); err != nil { // INCREASING_Y
		return err
	}

	f32 := func(v float32) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, math.Float32bits(v))
		return b
	}
	if err := writeAttr("pixelAspectRatio", "float", f32(1.0)); err != nil {
		return err
	}

	v2f := make([]byte, 8)
	if err := writeAttr("screenWindowCenter", "v2f", v2f); err != nil {
		return err
	}
	if err := writeAttr("screenWindowWidth", "float", f32(1.0)); err != nil {
		return err
	}

	// Chromaticities tagged as identity: readers must treat X, Y, Z as raw
	// CIE tristimulus rather than reinterpreting them as R, G, B primaries.
	chroma := make([]byte, 32)
	identity := [8]float32{1, 0, 0, 1, 0, 0, 1.0 / 3.0, 1.0 / 3.0}
	for i, v := range identity {
		binary.LittleEndian.PutUint32(chroma[i*4:i*4+4], math.Float32bits(v))
	}
	if err := writeAttr("chromaticities", "chromaticities", chroma); err != nil {
		return err
	}

	return write([]byte{0}) // header terminator
}
