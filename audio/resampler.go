// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"

	"github.com/ik5/audtrans/utils"
)

// ErrResamplerFlushed is returned when input is pushed after Flush.
var ErrResamplerFlushed = errors.New("resampler already flushed")

// StreamResampler converts interleaved samples between sample rates using
// cubic interpolation. Input is pushed in arbitrarily sized chunks; frames
// still needed for interpolation are carried over between calls, so the
// output depends only on the concatenated input, not on how it was split.
// Includes basic anti-aliasing filtering when downsampling.
type StreamResampler struct {
	srcRate  int64
	dstRate  int64
	channels int

	// Pending input frames. buf[0] is the oldest frame still needed: the
	// t-1 neighbour of the next output position once history exists.
	buf []float32
	// Position of the next output sample relative to buf[0], in units of
	// 1/dstRate frames. Each output advances it by srcRate, so the phase
	// stays exact however the input is chunked.
	pos     int64
	flushed bool

	// Simple low-pass filter state for anti-aliasing (when downsampling)
	filterState []float32
	filterReady bool
	useFilter   bool
	filterAlpha float32
}

// NewStreamResampler returns a resampler for channels interleaved channels.
func NewStreamResampler(srcRate, dstRate, channels int) (*StreamResampler, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, ErrInvalidRate
	}
	if channels <= 0 {
		return nil, ErrChannelMismatch
	}

	// Enable simple low-pass filter when downsampling
	useFilter := srcRate > dstRate
	var filterAlpha float32
	if useFilter {
		// Simple one-pole low-pass filter
		// Cutoff at Nyquist frequency of destination rate
		filterAlpha = 0.5
	}

	return &StreamResampler{
		srcRate:     int64(srcRate),
		dstRate:     int64(dstRate),
		channels:    channels,
		buf:         make([]float32, 0, 4096),
		useFilter:   useFilter,
		filterAlpha: filterAlpha,
		filterState: make([]float32, channels),
	}, nil
}

func (r *StreamResampler) SrcRate() int  { return int(r.srcRate) }
func (r *StreamResampler) DstRate() int  { return int(r.dstRate) }
func (r *StreamResampler) Channels() int { return r.channels }

// Buffered returns the number of input frames held for later calls.
func (r *StreamResampler) Buffered() int { return len(r.buf) / r.channels }

// Process pushes interleaved input samples and appends every output
// sample that can be computed so far to out.
func (r *StreamResampler) Process(in, out []float32) ([]float32, error) {
	if len(in)%r.channels != 0 {
		return out, ErrInvalidDstSize
	}
	if r.flushed {
		return out, ErrResamplerFlushed
	}

	r.push(in)
	return r.drain(out, false), nil
}

// Flush marks the end of input and appends the remaining output samples,
// treating the last input frame as repeating. Further input is rejected
// until Reset.
func (r *StreamResampler) Flush(out []float32) []float32 {
	if r.flushed {
		return out
	}
	r.flushed = true

	out = r.drain(out, true)
	r.buf = r.buf[:0]
	r.pos = 0
	return out
}

// Reset discards all carried state.
func (r *StreamResampler) Reset() {
	r.buf = r.buf[:0]
	r.pos = 0
	r.flushed = false
	r.filterReady = false
	clear(r.filterState)
}

func (r *StreamResampler) push(in []float32) {
	start := len(r.buf)
	r.buf = append(r.buf, in...)
	if !r.useFilter {
		return
	}

	frames := r.buf[start:]
	for f := 0; f+r.channels <= len(frames); f += r.channels {
		frame := frames[f : f+r.channels]
		if !r.filterReady {
			// Initialize filter state with first sample to avoid warm-up transients
			copy(r.filterState, frame)
			r.filterReady = true
		}
		for c := range frame {
			frame[c] = utils.LowPass(r.filterAlpha, frame[c], r.filterState[c])
			r.filterState[c] = frame[c]
		}
	}
}

func (r *StreamResampler) drain(out []float32, final bool) []float32 {
	ch := r.channels
	n := len(r.buf) / ch

	for {
		i := int(r.pos / r.dstRate)
		// Without more input, the t+2 neighbour must exist.
		if i >= n || (!final && i+2 >= n) {
			break
		}

		i0 := max(i-1, 0)
		i2 := min(i+1, n-1)
		i3 := min(i+2, n-1)
		alpha := float32(float64(r.pos%r.dstRate) / float64(r.dstRate))

		for c := range ch {
			y0 := r.buf[i0*ch+c]
			y1 := r.buf[i*ch+c]
			y2 := r.buf[i2*ch+c]
			y3 := r.buf[i3*ch+c]
			out = append(out, utils.CatmullRom(y0, y1, y2, y3, alpha))
		}

		r.pos += r.srcRate
	}

	// Keep the t-1 neighbour of the next position.
	drop := min(int(r.pos/r.dstRate)-1, n)
	if drop > 0 {
		r.buf = r.buf[:copy(r.buf, r.buf[drop*ch:])]
		r.pos -= int64(drop) * r.dstRate
	}

	return out
}
