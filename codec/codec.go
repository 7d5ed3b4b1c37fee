// SPDX-License-Identifier: EPL-2.0

package codec

import "github.com/ik5/audtrans/audio"

// Result is the outcome of one send or receive call on a codec engine.
// Fatal failures are reported through the error return instead.
type Result int

const (
	// OK means the unit was accepted, or an output was produced.
	OK Result = iota
	// Again means the engine cannot make progress in this direction until
	// the other direction is serviced: drain outputs before sending again,
	// or send more input before receiving again.
	Again
	// EOF means the engine has been flushed and has no more output.
	EOF
)

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case Again:
		return "again"
	case EOF:
		return "eof"
	}
	return "unknown"
}

// Decoder turns compressed packets into frames.
type Decoder interface {
	// SendPacket submits one packet. A nil packet marks the end of input
	// and starts flushing buffered state.
	SendPacket(pkt *audio.Packet) (Result, error)
	// ReceiveFrame fills f with the next decoded frame.
	ReceiveFrame(f *audio.Frame) (Result, error)
	Close() error
}

// Encoder turns frames into compressed packets.
type Encoder interface {
	// SendFrame submits one frame. A nil frame marks the end of input.
	SendFrame(f *audio.Frame) (Result, error)
	// ReceivePacket fills pkt with the next encoded packet.
	ReceivePacket(pkt *audio.Packet) (Result, error)
	// FrameSize is the number of samples per channel each frame must
	// carry, or 0 when any size is accepted. The last frame before the
	// end of input may be shorter.
	FrameSize() int
	// Stream describes the encoded stream, for the muxer.
	Stream() audio.StreamDescriptor
	Close() error
}

// Capabilities lists what an engine can encode. Empty lists mean the
// engine does not advertise a fixed set.
type Capabilities struct {
	SampleFormats []audio.SampleFormat
	SampleRates   []int
	Layouts       []audio.ChannelLayout
}

// EncoderOptions carries encoder settings that are not part of the
// negotiated sample format.
type EncoderOptions struct {
	// BitRate in bits per second; 0 selects the engine default.
	BitRate int
}

// Engine is a codec implementation able to open decoder and/or encoder
// contexts. Engines are stateless factories; every context they open is
// independent.
type Engine interface {
	Name() string
	Capabilities() Capabilities
	// OpenDecoder returns ErrUnsupportedCodec when the engine cannot decode.
	OpenDecoder(stream audio.StreamDescriptor) (Decoder, error)
	// OpenEncoder returns ErrUnsupportedCodec when the engine cannot encode.
	OpenEncoder(format NegotiatedFormat, opts EncoderOptions) (Encoder, error)
}
