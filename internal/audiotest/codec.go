// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/codec"
)

// Engine is a codec.Engine assembled from functions. Nil functions make
// the corresponding direction unsupported.
type Engine struct {
	EngineName string
	Caps       codec.Capabilities
	Decoder    func(audio.StreamDescriptor) (codec.Decoder, error)
	Encoder    func(codec.NegotiatedFormat, codec.EncoderOptions) (codec.Encoder, error)
}

func (e *Engine) Name() string                     { return e.EngineName }
func (e *Engine) Capabilities() codec.Capabilities { return e.Caps }

func (e *Engine) OpenDecoder(s audio.StreamDescriptor) (codec.Decoder, error) {
	if e.Decoder == nil {
		return nil, codec.ErrUnsupportedCodec
	}
	return e.Decoder(s)
}

func (e *Engine) OpenEncoder(f codec.NegotiatedFormat, o codec.EncoderOptions) (codec.Encoder, error) {
	if e.Encoder == nil {
		return nil, codec.ErrUnsupportedCodec
	}
	return e.Encoder(f, o)
}

// ScriptedDecoder turns every packet into OutputsPerInput one-sample mono
// F32 frames. It holds at most Capacity undelivered frames and answers
// codec.Again to a packet that does not fit. Frame values count up from 1.
type ScriptedDecoder struct {
	OutputsPerInput int
	Capacity        int
	// FailAfter makes SendPacket fail on packet number FailAfter+1 when > 0.
	FailAfter int

	backlog  int
	produced int
	sent     int
	flushed  bool
	Closed   bool
}

func (d *ScriptedDecoder) SendPacket(pkt *audio.Packet) (codec.Result, error) {
	if d.flushed {
		return codec.EOF, codec.ErrAlreadyFlushed
	}
	if pkt == nil {
		d.flushed = true
		return codec.OK, nil
	}
	if d.FailAfter > 0 && d.sent >= d.FailAfter {
		return codec.OK, io.ErrUnexpectedEOF
	}
	if d.backlog+d.OutputsPerInput > d.Capacity {
		return codec.Again, nil
	}
	d.sent++
	d.backlog += d.OutputsPerInput
	return codec.OK, nil
}

func (d *ScriptedDecoder) ReceiveFrame(f *audio.Frame) (codec.Result, error) {
	if d.backlog == 0 {
		if d.flushed {
			return codec.EOF, nil
		}
		return codec.Again, nil
	}
	if err := f.Alloc(audio.F32, audio.LayoutMono, 8000, 1); err != nil {
		return codec.OK, err
	}
	d.backlog--
	d.produced++
	binary.LittleEndian.PutUint32(f.Planes[0], math.Float32bits(float32(d.produced)))
	f.Samples = 1
	f.PTS = int64(d.produced - 1)
	return codec.OK, nil
}

func (d *ScriptedDecoder) Close() error {
	d.Closed = true
	return nil
}

// PacketDemuxer serves a fixed list of packets.
type PacketDemuxer struct {
	StreamList []audio.StreamDescriptor
	Packets    []audio.Packet
	pos        int
	Closed     bool
}

func (d *PacketDemuxer) Streams() []audio.StreamDescriptor { return d.StreamList }

func (d *PacketDemuxer) ReadPacket(pkt *audio.Packet) error {
	if d.pos >= len(d.Packets) {
		return io.EOF
	}
	p := d.Packets[d.pos]
	d.pos++

	pkt.StreamIndex = p.StreamIndex
	pkt.Data = append(pkt.Data[:0], p.Data...)
	pkt.PTS = p.PTS
	pkt.DTS = p.DTS
	pkt.Duration = p.Duration
	return nil
}

func (d *PacketDemuxer) Close() error {
	d.Closed = true
	return nil
}

// MemoryMuxer records everything written to it.
type MemoryMuxer struct {
	Header  *audio.StreamDescriptor
	Packets []audio.Packet
	Trailer bool
	Closed  bool
	// WriteErr is returned by WritePacket when set.
	WriteErr error
}

func (m *MemoryMuxer) WriteHeader(s audio.StreamDescriptor) error {
	m.Header = &s
	return nil
}

func (m *MemoryMuxer) WritePacket(pkt *audio.Packet) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	p := *pkt
	p.Data = append([]byte(nil), pkt.Data...)
	m.Packets = append(m.Packets, p)
	return nil
}

func (m *MemoryMuxer) WriteTrailer() error {
	m.Trailer = true
	return nil
}

func (m *MemoryMuxer) Close() error {
	m.Closed = true
	return nil
}

// Bytes returns the concatenated payload of every written packet.
func (m *MemoryMuxer) Bytes() []byte {
	var b []byte
	for _, p := range m.Packets {
		b = append(b, p.Data...)
	}
	return b
}
