// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/thesyncim/gopus"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

type decoder struct {
	dec    *gopus.Decoder
	stream audio.StreamDescriptor

	pcm     []float32
	samples int // decoded samples per channel waiting in pcm
	pts     int64
	flushed bool
}

func newDecoder(stream audio.StreamDescriptor) (*decoder, error) {
	dec, err := gopus.NewDecoder(stream.SampleRate, stream.Channels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", codec.ErrCodecOpen, err)
	}
	return &decoder{
		dec:    dec,
		stream: stream,
		pcm:    make([]float32, maxPacketSamples*stream.Channels),
	}, nil
}

func (d *decoder) SendPacket(pkt *audio.Packet) (codec.Result, error) {
	if d.flushed {
		return codec.EOF, codec.ErrAlreadyFlushed
	}
	if pkt == nil {
		d.flushed = true
		return codec.OK, nil
	}
	if d.samples > 0 {
		return codec.Again, nil
	}
	if len(pkt.Data) == 0 {
		return codec.OK, nil
	}

	n, err := d.dec.Decode(pkt.Data, d.pcm)
	if err != nil {
		return codec.OK, fmt.Errorf("%w: %w", codec.ErrCodecEngine, err)
	}
	d.samples = n
	return codec.OK, nil
}

func (d *decoder) ReceiveFrame(f *audio.Frame) (codec.Result, error) {
	if d.samples == 0 {
		if d.flushed {
			return codec.EOF, nil
		}
		return codec.Again, nil
	}

	if err := f.Alloc(audio.F32, d.stream.Layout, d.stream.SampleRate, d.samples); err != nil {
		return codec.OK, err
	}
	for i, v := range d.pcm[:d.samples*d.stream.Channels] {
		binary.LittleEndian.PutUint32(f.Planes[0][i*4:], math.Float32bits(v))
	}
	f.Samples = d.samples
	f.PTS = d.pts

	d.pts += int64(d.samples)
	d.samples = 0
	return codec.OK, nil
}

func (d *decoder) Close() error {
	d.samples = 0
	return nil
}
