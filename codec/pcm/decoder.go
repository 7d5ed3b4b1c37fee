// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"fmt"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

type decoder struct {
	stream audio.StreamDescriptor
	out    audio.SampleFormat
	frame  int // bytes per interleaved sample frame

	pending []byte
	pts     int64
	ptsSet  bool
	flushed bool
}

func (d *decoder) SendPacket(pkt *audio.Packet) (codec.Result, error) {
	if d.flushed {
		return codec.EOF, codec.ErrAlreadyFlushed
	}
	if pkt == nil {
		d.flushed = true
		return codec.OK, nil
	}
	// Everything but a partial trailing sample frame must be drained first.
	if len(d.pending) >= d.frame {
		return codec.Again, nil
	}

	if !d.ptsSet {
		d.pts = pkt.PTS
		d.ptsSet = true
	}
	d.pending = append(d.pending, pkt.Data...)
	return codec.OK, nil
}

func (d *decoder) ReceiveFrame(f *audio.Frame) (codec.Result, error) {
	samples := min(len(d.pending)/d.frame, maxFrameSamples)
	if samples == 0 {
		if d.flushed {
			// A partial trailing sample frame cannot be decoded.
			d.pending = d.pending[:0]
			return codec.EOF, nil
		}
		return codec.Again, nil
	}

	if err := f.Alloc(d.out, d.stream.Layout, d.stream.SampleRate, samples); err != nil {
		return codec.OK, fmt.Errorf("%w: %w", codec.ErrCodecEngine, err)
	}

	size := samples * d.frame
	if d.out.IsPlanar() {
		deinterleave(f.Planes, d.pending[:size], d.out.BytesPerSample())
	} else {
		copy(f.Planes[0], d.pending[:size])
	}
	f.Samples = samples
	f.PTS = d.pts

	d.pts += int64(samples)
	d.pending = d.pending[:copy(d.pending, d.pending[size:])]
	return codec.OK, nil
}

func (d *decoder) Close() error {
	d.pending = nil
	return nil
}

// deinterleave splits interleaved sample bytes into one plane per channel.
func deinterleave(planes [][]byte, src []byte, width int) {
	channels := len(planes)
	stride := width * channels
	for s := 0; s*stride < len(src); s++ {
		for c := range channels {
			copy(planes[c][s*width:(s+1)*width], src[s*stride+c*width:])
		}
	}
}

// interleave is the inverse of deinterleave for samples samples.
func interleave(dst []byte, planes [][]byte, width, samples int) []byte {
	for s := range samples {
		for c := range planes {
			dst = append(dst, planes[c][s*width:(s+1)*width]...)
		}
	}
	return dst
}
