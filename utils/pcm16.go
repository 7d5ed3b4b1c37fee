// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 converts a normalized sample to 16-bit PCM. The value is
// scaled by 32767, rounded to the nearest integer and clamped, so -1
// maps to -32767 and anything below -1 saturates at -32768.
func Float32ToInt16(x float32) int16 {
	v := math.Round(float64(x) * math.MaxInt16)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}

// AppendInt16 converts every sample of src and appends it to dst.
func AppendInt16(dst []int16, src []float32) []int16 {
	dst = growInt16(dst, len(src))
	for _, x := range src {
		dst = append(dst, Float32ToInt16(x))
	}
	return dst
}

func growInt16(s []int16, n int) []int16 {
	if cap(s)-len(s) >= n {
		return s
	}
	grown := make([]int16, len(s), 2*cap(s)+n)
	copy(grown, s)
	return grown
}
