// SPDX-License-Identifier: EPL-2.0

package audio

import "strings"

// SampleFormat identifies how a single PCM sample is stored, and whether
// channels share one buffer (interleaved) or have one buffer each (planar).
type SampleFormat int

const (
	FormatNone SampleFormat = iota
	U8
	S16
	S32
	S64
	F32
	F64
	U8P
	S16P
	S32P
	S64P
	F32P
	F64P
)

var formatNames = map[SampleFormat]string{
	U8:   "u8",
	S16:  "s16",
	S32:  "s32",
	S64:  "s64",
	F32:  "flt",
	F64:  "dbl",
	U8P:  "u8p",
	S16P: "s16p",
	S32P: "s32p",
	S64P: "s64p",
	F32P: "fltp",
	F64P: "dblp",
}

func (f SampleFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "none"
}

// ParseSampleFormat returns the format for one of the names produced by
// String. Unknown names yield FormatNone and false.
func ParseSampleFormat(name string) (SampleFormat, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range formatNames {
		if n == name {
			return f, true
		}
	}
	return FormatNone, false
}

// IsPlanar reports whether each channel lives in its own plane.
func (f SampleFormat) IsPlanar() bool {
	return f >= U8P && f <= F64P
}

// Packed returns the interleaved twin of f.
func (f SampleFormat) Packed() SampleFormat {
	if f.IsPlanar() {
		return f - (U8P - U8)
	}
	return f
}

// Planar returns the planar twin of f.
func (f SampleFormat) Planar() SampleFormat {
	if f >= U8 && f <= F64 {
		return f + (U8P - U8)
	}
	return f
}

// IsInteger reports whether samples are stored as integers.
func (f SampleFormat) IsInteger() bool {
	switch f.Packed() {
	case U8, S16, S32, S64:
		return true
	}
	return false
}

// BytesPerSample returns the width of one sample, or 0 for FormatNone.
func (f SampleFormat) BytesPerSample() int {
	switch f.Packed() {
	case U8:
		return 1
	case S16:
		return 2
	case S32, F32:
		return 4
	case S64, F64:
		return 8
	}
	return 0
}

// Valid reports whether f names a real sample format.
func (f SampleFormat) Valid() bool {
	return f.BytesPerSample() > 0
}
