// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// StreamDescriptor describes one audio stream of a container. It is built
// once when the stream is opened and not modified afterwards.
type StreamDescriptor struct {
	Index      int
	Codec      string
	Format     SampleFormat
	SampleRate int
	Channels   int
	Layout     ChannelLayout
	// BitRate in bits per second, 0 when unknown.
	BitRate int
}

// Validate checks the invariants every descriptor must hold.
func (d StreamDescriptor) Validate() error {
	if d.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidStream, d.SampleRate)
	}
	if d.Channels <= 0 {
		return fmt.Errorf("%w: channel count %d", ErrInvalidStream, d.Channels)
	}
	if d.Layout.Channels() != d.Channels {
		return fmt.Errorf("%w: layout %s has %d channels, stream has %d",
			ErrInvalidStream, d.Layout, d.Layout.Channels(), d.Channels)
	}
	return nil
}

func (d StreamDescriptor) String() string {
	return fmt.Sprintf("#%d %s %s %dHz %s", d.Index, d.Codec, d.Format, d.SampleRate, d.Layout)
}

// Packet is a compressed unit read from a container or produced by an
// encoder. Data belongs to whoever holds the packet; a decoder that keeps
// it beyond SendPacket must copy it.
type Packet struct {
	StreamIndex int
	Data        []byte
	PTS         int64
	DTS         int64
	// Duration in samples of the stream's sample rate.
	Duration int64
}

// Reset clears the packet for reuse, keeping the Data capacity.
func (p *Packet) Reset() {
	p.StreamIndex = 0
	p.Data = p.Data[:0]
	p.PTS = 0
	p.DTS = 0
	p.Duration = 0
}
