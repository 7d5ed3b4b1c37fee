// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// u8Bias is the value unsigned 8-bit samples are centred on.
const u8Bias = 127

// Integer samples are divided by 2^(bits-1) - 1. The negative extreme of
// each signed type therefore maps slightly below -1; that is kept as is.
const (
	scale8  = 1<<7 - 1
	scale16 = 1<<15 - 1
	scale32 = 1<<31 - 1
	scale64 = 1<<63 - 1
)

// ToNormalized reads sample number index from buf, stored little-endian
// in format f, and returns it as a float.
//
// Integer formats are scaled to roughly [-1, 1]; float formats are
// reinterpreted without scaling and doubles are narrowed to float32.
// Unsupported formats return 0 and ErrUnsupportedSampleFormat.
func ToNormalized(f SampleFormat, buf []byte, index int) (float32, error) {
	width := f.BytesPerSample()
	if width == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedSampleFormat, f)
	}
	off := index * width
	if index < 0 || off+width > len(buf) {
		return 0, fmt.Errorf("%w: sample %d of %d bytes", ErrShortBuffer, index, len(buf))
	}
	b := buf[off : off+width]

	switch f.Packed() {
	case U8:
		return float32(float64(int64(b[0])-u8Bias) / scale8), nil
	case S16:
		return float32(float64(int16(binary.LittleEndian.Uint16(b))) / scale16), nil
	case S32:
		return float32(float64(int32(binary.LittleEndian.Uint32(b))) / scale32), nil
	case S64:
		return float32(float64(int64(binary.LittleEndian.Uint64(b))) / scale64), nil
	case F32:
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
	case F64:
		return float32(math.Float64frombits(binary.LittleEndian.Uint64(b))), nil
	}

	return 0, fmt.Errorf("%w: %s", ErrUnsupportedSampleFormat, f)
}

// FromNormalized is the inverse of ToNormalized: it stores v as sample
// number index of buf in format f. Integer formats are scaled by the same
// factor, rounded and clamped to the type's range.
func FromNormalized(f SampleFormat, v float32, buf []byte, index int) error {
	width := f.BytesPerSample()
	if width == 0 {
		return fmt.Errorf("%w: %s", ErrUnsupportedSampleFormat, f)
	}
	off := index * width
	if index < 0 || off+width > len(buf) {
		return fmt.Errorf("%w: sample %d of %d bytes", ErrShortBuffer, index, len(buf))
	}
	b := buf[off : off+width]

	switch f.Packed() {
	case U8:
		x := math.Round(float64(v)*scale8) + u8Bias
		b[0] = uint8(clamp(x, 0, math.MaxUint8))
	case S16:
		x := math.Round(float64(v) * scale16)
		binary.LittleEndian.PutUint16(b, uint16(int16(clamp(x, math.MinInt16, math.MaxInt16))))
	case S32:
		x := math.Round(float64(v) * scale32)
		binary.LittleEndian.PutUint32(b, uint32(int32(clamp(x, math.MinInt32, math.MaxInt32))))
	case S64:
		binary.LittleEndian.PutUint64(b, uint64(toInt64(math.Round(float64(v)*scale64))))
	case F32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	case F64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(float64(v)))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedSampleFormat, f)
	}

	return nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// toInt64 converts x, saturating at the int64 range. float64 cannot hold
// MaxInt64 exactly, so the upper bound is checked against 2^63.
func toInt64(x float64) int64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= 1<<63:
		return math.MaxInt64
	case x <= -(1 << 63):
		return math.MinInt64
	}
	return int64(x)
}
