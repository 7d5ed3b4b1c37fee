// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ChannelWriter receives the samples of exactly one channel.
type ChannelWriter interface {
	// AppendSamples appends normalized samples to the channel.
	AppendSamples(samples []float32) error
	// AppendRaw appends bytes verbatim, without conversion.
	AppendRaw(b []byte) error
}

// ChannelDemux splits frames into per-channel normalized samples.
type ChannelDemux struct {
	// RawPassthrough copies plane 0 verbatim to the first writer instead of
	// converting samples. Only meaningful when no format conversion is
	// wanted: for planar frames that is channel 0, for interleaved frames
	// it is the whole interleaved buffer.
	RawPassthrough bool
	Log            logrus.FieldLogger

	scratch [][]float32
}

// Split converts every sample of f and appends channel i to writers[i].
//
// Samples in a format the converter does not understand become silence;
// this is logged once per frame and does not fail the call.
func (d *ChannelDemux) Split(f *Frame, writers []ChannelWriter) error {
	channels := f.Channels()
	if len(writers) < channels {
		return fmt.Errorf("%w: frame has %d channels, %d writers", ErrChannelMismatch, channels, len(writers))
	}

	if d.RawPassthrough {
		if len(f.Planes) == 0 {
			return nil
		}
		size := min(f.PlaneSize(), len(f.Planes[0]))
		return writers[0].AppendRaw(f.Planes[0][:size])
	}

	if cap(d.scratch) < channels {
		d.scratch = make([][]float32, channels)
	}
	d.scratch = d.scratch[:channels]
	for c := range d.scratch {
		d.scratch[c] = d.scratch[c][:0]
	}

	out, err := d.Deinterleave(f, d.scratch)
	if err != nil {
		return err
	}
	d.scratch = out

	for c := range channels {
		if err := writers[c].AppendSamples(out[c]); err != nil {
			return fmt.Errorf("channel %d: %w", c, err)
		}
	}
	return nil
}

// Deinterleave appends the samples of every channel of f to dst[channel]
// and returns the extended slices. Planar frames are read plane by plane;
// interleaved frames are walked with a stride of the channel count.
func (d *ChannelDemux) Deinterleave(f *Frame, dst [][]float32) ([][]float32, error) {
	channels := f.Channels()
	if len(dst) < channels {
		return dst, fmt.Errorf("%w: frame has %d channels, %d outputs", ErrChannelMismatch, channels, len(dst))
	}
	if len(f.Planes) < f.PlaneCount() {
		return dst, fmt.Errorf("%w: %d planes for %s with %d channels",
			ErrShortBuffer, len(f.Planes), f.Format, channels)
	}
	for _, plane := range f.Planes[:f.PlaneCount()] {
		if len(plane) < f.PlaneSize() {
			return dst, fmt.Errorf("%w: plane holds %d bytes, frame needs %d",
				ErrShortBuffer, len(plane), f.PlaneSize())
		}
	}

	var bad int
	for c := range channels {
		plane, index, stride := f.Planes[0], c, channels
		if f.Format.IsPlanar() {
			plane, index, stride = f.Planes[c], 0, 1
		}

		for range f.Samples {
			v, err := ToNormalized(f.Format, plane, index)
			if err != nil {
				bad++
				v = 0
			}
			dst[c] = append(dst[c], v)
			index += stride
		}
	}

	if bad > 0 {
		d.logger().WithFields(logrus.Fields{
			"format":  f.Format.String(),
			"samples": bad,
		}).Warn("unsupported sample format, substituting silence")
	}
	return dst, nil
}

func (d *ChannelDemux) logger() logrus.FieldLogger {
	if d.Log == nil {
		return logrus.StandardLogger()
	}
	return d.Log
}

// ChannelMux assembles frames from per-channel normalized samples.
type ChannelMux struct{}

// Build writes count samples of every stream, starting at start, into f.
// f must already be allocated with the target format and layout; whether
// the result is planar or interleaved follows f.Format.
func (ChannelMux) Build(streams [][]float32, start, count int, f *Frame) error {
	channels := f.Channels()
	if len(streams) != channels {
		return fmt.Errorf("%w: %d streams for %d channels", ErrChannelMismatch, len(streams), channels)
	}
	if count > f.Capacity {
		return fmt.Errorf("%w: %d samples, frame capacity %d", ErrShortBuffer, count, f.Capacity)
	}

	for c, stream := range streams {
		if start+count > len(stream) {
			return fmt.Errorf("%w: channel %d has %d samples, need %d",
				ErrShortBuffer, c, len(stream), start+count)
		}

		plane, index, stride := f.Planes[0], c, channels
		if f.Format.IsPlanar() {
			plane, index, stride = f.Planes[c], 0, 1
		}

		for _, v := range stream[start : start+count] {
			if err := FromNormalized(f.Format, v, plane, index); err != nil {
				return err
			}
			index += stride
		}
	}

	f.Samples = count
	return nil
}

// BuildInterleaved fills f from interleaved normalized samples, as
// produced by Source.ReadSamples.
func (ChannelMux) BuildInterleaved(samples []float32, f *Frame) error {
	channels := f.Channels()
	if channels == 0 || len(samples)%channels != 0 {
		return ErrInvalidDstSize
	}
	count := len(samples) / channels
	if count > f.Capacity {
		return fmt.Errorf("%w: %d samples, frame capacity %d", ErrShortBuffer, count, f.Capacity)
	}

	for i, v := range samples {
		plane, index := f.Planes[0], i
		if f.Format.IsPlanar() {
			plane, index = f.Planes[i%channels], i/channels
		}
		if err := FromNormalized(f.Format, v, plane, index); err != nil {
			return err
		}
	}

	f.Samples = count
	return nil
}
