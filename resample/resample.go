// SPDX-License-Identifier: EPL-2.0

// Package resample converts frames between sample formats, sample rates
// and channel layouts. Input that cannot be converted yet is carried over
// inside the resampler, so callers push frames of any size and take out
// frames of the size they need.
package resample

import (
	"errors"
	"fmt"

	"github.com/ik5/audtrans/audio"
)

var ErrResample = errors.New("resample failed")

// Config describes both sides of a conversion.
type Config struct {
	SrcFormat audio.SampleFormat
	SrcRate   int
	SrcLayout audio.ChannelLayout

	DstFormat audio.SampleFormat
	DstRate   int
	DstLayout audio.ChannelLayout
}

func (c Config) validate() error {
	if !c.SrcFormat.Valid() || !c.DstFormat.Valid() {
		return fmt.Errorf("%w: %s -> %s", audio.ErrUnsupportedSampleFormat, c.SrcFormat, c.DstFormat)
	}
	if c.SrcRate <= 0 || c.DstRate <= 0 {
		return audio.ErrInvalidRate
	}
	if c.SrcLayout.Channels() == 0 || c.DstLayout.Channels() == 0 {
		return audio.ErrChannelMismatch
	}
	return nil
}

// Resampler converts frames described by Config.
type Resampler struct {
	cfg  Config
	prim *audio.StreamResampler // nil when the rates match

	demux audio.ChannelDemux
	mux   audio.ChannelMux

	src      [][]float32
	remixed  [][]float32
	frame    []float32 // interleaved remixed input
	pending  []float32 // interleaved output not yet handed out
	produced int64
	flushed  bool
}

// New configures a resampler.
func New(cfg Config) (*Resampler, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResample, err)
	}

	r := &Resampler{
		cfg:     cfg,
		src:     make([][]float32, cfg.SrcLayout.Channels()),
		remixed: make([][]float32, cfg.DstLayout.Channels()),
	}
	if cfg.SrcRate != cfg.DstRate {
		prim, err := audio.NewStreamResampler(cfg.SrcRate, cfg.DstRate, cfg.DstLayout.Channels())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResample, err)
		}
		r.prim = prim
	}
	return r, nil
}

func (r *Resampler) Config() Config { return r.cfg }

// Pending returns the number of converted samples per channel waiting to
// be taken out with Convert.
func (r *Resampler) Pending() int {
	return len(r.pending) / r.cfg.DstLayout.Channels()
}

// Push converts src and keeps the result until Convert takes it.
func (r *Resampler) Push(src *audio.Frame) error {
	if r.flushed {
		return fmt.Errorf("%w: %w", ErrResample, audio.ErrResamplerFlushed)
	}
	if src.Format != r.cfg.SrcFormat || src.Layout != r.cfg.SrcLayout {
		return fmt.Errorf("%w: frame %s/%s, configured %s/%s",
			ErrResample, src.Format, src.Layout, r.cfg.SrcFormat, r.cfg.SrcLayout)
	}
	if src.Samples == 0 {
		return nil
	}

	for c := range r.src {
		r.src[c] = r.src[c][:0]
	}
	for c := range r.remixed {
		r.remixed[c] = r.remixed[c][:0]
	}

	var err error
	r.src, err = r.demux.Deinterleave(src, r.src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResample, err)
	}
	r.remixed, err = audio.Remix(r.remixed, r.src, r.cfg.SrcLayout, r.cfg.DstLayout)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResample, err)
	}

	r.frame = r.frame[:0]
	for i := range src.Samples {
		for c := range r.remixed {
			r.frame = append(r.frame, r.remixed[c][i])
		}
	}

	if r.prim == nil {
		r.pending = append(r.pending, r.frame...)
		return nil
	}
	r.pending, err = r.prim.Process(r.frame, r.pending)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResample, err)
	}
	return nil
}

// Convert pushes src when it is not nil, then writes up to dst.Capacity
// converted samples into dst and returns how many were written. dst is
// (re)allocated when its format, layout or rate differ from the target.
func (r *Resampler) Convert(dst, src *audio.Frame) (int, error) {
	if src != nil {
		if err := r.Push(src); err != nil {
			return 0, err
		}
	}

	if dst.Format != r.cfg.DstFormat || dst.Layout != r.cfg.DstLayout ||
		dst.SampleRate != r.cfg.DstRate || len(dst.Planes) == 0 {
		capacity := max(dst.Capacity, r.Pending(), 1)
		if err := dst.Alloc(r.cfg.DstFormat, r.cfg.DstLayout, r.cfg.DstRate, capacity); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrResample, err)
		}
	}

	channels := r.cfg.DstLayout.Channels()
	n := min(r.Pending(), dst.Capacity)
	if err := r.mux.BuildInterleaved(r.pending[:n*channels], dst); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrResample, err)
	}
	dst.PTS = r.produced

	r.produced += int64(n)
	r.pending = r.pending[:copy(r.pending, r.pending[n*channels:])]
	return n, nil
}

// Flush ends the input, then converts with no input until nothing is
// produced, handing every non-empty frame to emit. dst is reused for each
// frame. Calling Flush again only drains what is still pending.
func (r *Resampler) Flush(dst *audio.Frame, emit func(*audio.Frame) error) error {
	if !r.flushed {
		r.flushed = true
		if r.prim != nil {
			r.pending = r.prim.Flush(r.pending)
		}
	}

	for {
		n, err := r.Convert(dst, nil)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if err := emit(dst); err != nil {
			return err
		}
	}
}
