// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"fmt"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

type encoder struct {
	stream audio.StreamDescriptor
	in     audio.SampleFormat

	pending *audio.Packet
	flushed bool
}

func (e *encoder) FrameSize() int                 { return 0 }
func (e *encoder) Stream() audio.StreamDescriptor { return e.stream }

func (e *encoder) SendFrame(f *audio.Frame) (codec.Result, error) {
	if e.flushed {
		return codec.EOF, codec.ErrAlreadyFlushed
	}
	if f == nil {
		e.flushed = true
		return codec.OK, nil
	}
	if e.pending != nil {
		return codec.Again, nil
	}
	if f.Format.Packed() != e.stream.Format || f.Layout != e.stream.Layout {
		return codec.OK, fmt.Errorf("%w: frame %s/%s, encoder %s/%s",
			codec.ErrCodecEngine, f.Format, f.Layout, e.stream.Format, e.stream.Layout)
	}

	width := f.Format.BytesPerSample()
	size := f.Samples * width * f.Channels()
	data := make([]byte, 0, size)
	if f.Format.IsPlanar() {
		data = interleave(data, f.Planes, width, f.Samples)
	} else {
		data = append(data, f.Planes[0][:size]...)
	}

	e.pending = &audio.Packet{
		Data:     data,
		PTS:      f.PTS,
		DTS:      f.PTS,
		Duration: int64(f.Samples),
	}
	return codec.OK, nil
}

func (e *encoder) ReceivePacket(pkt *audio.Packet) (codec.Result, error) {
	if e.pending == nil {
		if e.flushed {
			return codec.EOF, nil
		}
		return codec.Again, nil
	}

	pkt.StreamIndex = e.stream.Index
	pkt.Data = append(pkt.Data[:0], e.pending.Data...)
	pkt.PTS = e.pending.PTS
	pkt.DTS = e.pending.DTS
	pkt.Duration = e.pending.Duration
	e.pending = nil
	return codec.OK, nil
}

func (e *encoder) Close() error {
	e.pending = nil
	return nil
}
