// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize          = errors.New("dst size must be multiple of channels")
	ErrUnsupportedSampleFormat = errors.New("unsupported sample format")
	ErrFrameAllocation         = errors.New("cannot allocate frame")
	ErrInvalidStream           = errors.New("invalid stream descriptor")
	ErrChannelMismatch         = errors.New("channel count mismatch")
	ErrShortBuffer             = errors.New("buffer too short for sample")
	ErrInvalidRate             = errors.New("sample rate must be positive")
)
