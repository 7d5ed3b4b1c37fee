// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"fmt"

	"github.com/thesyncim/gopus"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

type encoder struct {
	enc    *gopus.Encoder
	stream audio.StreamDescriptor

	// acc holds interleaved samples not yet forming a whole encoder frame.
	acc     []float32
	scratch [][]float32
	out     []byte
	queue   []audio.Packet
	pts     int64
	flushed bool
}

func newEncoder(format codec.NegotiatedFormat, opts codec.EncoderOptions) (*encoder, error) {
	if format.Format != audio.F32 {
		return nil, fmt.Errorf("%w: opus encoder takes %s, got %s",
			codec.ErrCodecOpen, audio.F32, format.Format)
	}
	if !validRate(format.SampleRate) {
		return nil, fmt.Errorf("%w: opus cannot encode at %d Hz", codec.ErrCodecOpen, format.SampleRate)
	}
	channels := format.Layout.Channels()
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: %w", codec.ErrCodecOpen, ErrUnsupportedChannels)
	}

	enc, err := gopus.NewEncoder(format.SampleRate, channels, gopus.ApplicationAudio)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", codec.ErrContextAllocation, err)
	}

	bitRate := opts.BitRate
	if bitRate == 0 {
		bitRate = DefaultBitRate
	}
	if err := enc.SetBitrate(bitRate); err != nil {
		return nil, fmt.Errorf("%w: bit rate %d: %w", codec.ErrCodecOpen, bitRate, err)
	}

	return &encoder{
		enc: enc,
		stream: audio.StreamDescriptor{
			Codec:      CodecName,
			Format:     audio.F32,
			SampleRate: format.SampleRate,
			Channels:   channels,
			Layout:     format.Layout,
			BitRate:    bitRate,
		},
		out: make([]byte, maxPacketBytes),
	}, nil
}

func (e *encoder) FrameSize() int                 { return e.enc.FrameSize() }
func (e *encoder) Stream() audio.StreamDescriptor { return e.stream }

func (e *encoder) SendFrame(f *audio.Frame) (codec.Result, error) {
	if e.flushed {
		return codec.EOF, codec.ErrAlreadyFlushed
	}
	if len(e.queue) > 0 {
		return codec.Again, nil
	}

	if f == nil {
		e.flushed = true
		if len(e.acc) == 0 {
			return codec.OK, nil
		}
		// Pad the last partial frame with silence.
		frame := e.enc.FrameSize() * e.stream.Channels
		e.acc = append(e.acc, make([]float32, frame-len(e.acc))...)
		return codec.OK, e.encodeFrames()
	}

	if f.Format.Packed() != audio.F32 || f.Layout != e.stream.Layout {
		return codec.OK, fmt.Errorf("%w: frame %s/%s, encoder %s/%s",
			codec.ErrCodecEngine, f.Format, f.Layout, e.stream.Format, e.stream.Layout)
	}

	if f.Format.IsPlanar() {
		if cap(e.scratch) < e.stream.Channels {
			e.scratch = make([][]float32, e.stream.Channels)
		}
		e.scratch = e.scratch[:e.stream.Channels]
		for c := range e.scratch {
			e.scratch[c] = e.scratch[c][:0]
		}
		var demux audio.ChannelDemux
		out, err := demux.Deinterleave(f, e.scratch)
		if err != nil {
			return codec.OK, fmt.Errorf("%w: %w", codec.ErrCodecEngine, err)
		}
		e.scratch = out
		for i := range f.Samples {
			for c := range out {
				e.acc = append(e.acc, out[c][i])
			}
		}
	} else {
		for i := range f.Samples * e.stream.Channels {
			v, err := audio.ToNormalized(audio.F32, f.Planes[0], i)
			if err != nil {
				return codec.OK, fmt.Errorf("%w: %w", codec.ErrCodecEngine, err)
			}
			e.acc = append(e.acc, v)
		}
	}

	return codec.OK, e.encodeFrames()
}

// encodeFrames encodes every whole frame held in acc into the queue.
func (e *encoder) encodeFrames() error {
	samples := e.enc.FrameSize()
	frame := samples * e.stream.Channels

	consumed := 0
	for len(e.acc)-consumed >= frame {
		n, err := e.enc.Encode(e.acc[consumed:consumed+frame], e.out)
		if err != nil {
			return fmt.Errorf("%w: %w", codec.ErrCodecEngine, err)
		}
		consumed += frame

		pts := e.pts
		e.pts += int64(samples)
		if n == 0 {
			// DTX suppressed the frame.
			continue
		}
		e.queue = append(e.queue, audio.Packet{
			StreamIndex: e.stream.Index,
			Data:        append([]byte(nil), e.out[:n]...),
			PTS:         pts,
			DTS:         pts,
			Duration:    int64(samples),
		})
	}
	e.acc = e.acc[:copy(e.acc, e.acc[consumed:])]
	return nil
}

func (e *encoder) ReceivePacket(pkt *audio.Packet) (codec.Result, error) {
	if len(e.queue) == 0 {
		if e.flushed {
			return codec.EOF, nil
		}
		return codec.Again, nil
	}

	next := e.queue[0]
	e.queue = e.queue[1:]

	pkt.StreamIndex = next.StreamIndex
	pkt.Data = append(pkt.Data[:0], next.Data...)
	pkt.PTS = next.PTS
	pkt.DTS = next.DTS
	pkt.Duration = next.Duration
	return codec.OK, nil
}

func (e *encoder) Close() error {
	e.queue = nil
	e.acc = nil
	return nil
}
