// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"errors"
	"fmt"
	"io"

	"github.com/thesyncim/gopus/container/ogg"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/container"
)

// Format is the Ogg container carrying Opus.
type Format struct{}

func (Format) Name() string         { return "opus" }
func (Format) Extensions() []string { return []string{"opus"} }
func (Format) Codecs() []string     { return []string{CodecName} }

func (Format) OpenInput(r io.ReadSeeker) (container.Demuxer, error) {
	rd, err := ogg.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotOpusFile, err)
	}

	channels := int(rd.Channels())
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedChannels, channels)
	}

	return &Demuxer{
		rd: rd,
		stream: audio.StreamDescriptor{
			Codec: CodecName,
			// Opus always decodes at 48 kHz; the header rate is informational.
			Format:     audio.F32,
			SampleRate: granuleRate,
			Channels:   channels,
			Layout:     audio.DefaultLayout(channels),
		},
	}, nil
}

func (Format) OpenOutput(w io.WriteSeeker) (container.Muxer, error) {
	return &Muxer{w: w}, nil
}

// packetReader is an interface for ogg.Reader to allow testing
type packetReader interface {
	ReadPacket() ([]byte, uint64, error)
}

// Demuxer reads Opus packets from an Ogg stream.
type Demuxer struct {
	rd     packetReader
	stream audio.StreamDescriptor
	last   uint64
}

func (d *Demuxer) Streams() []audio.StreamDescriptor {
	return []audio.StreamDescriptor{d.stream}
}

func (d *Demuxer) ReadPacket(pkt *audio.Packet) error {
	data, granule, err := d.rd.ReadPacket()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("read ogg page: %w", err)
	}

	pkt.StreamIndex = d.stream.Index
	pkt.Data = append(pkt.Data[:0], data...)
	pkt.PTS = int64(d.last)
	pkt.DTS = pkt.PTS
	pkt.Duration = 0
	if granule > d.last {
		pkt.Duration = int64(granule - d.last)
		d.last = granule
	}
	return nil
}

func (d *Demuxer) Close() error { return nil }

// Muxer writes one Opus stream into an Ogg container. Headers are written
// by WriteHeader; WriteTrailer writes the end-of-stream page.
type Muxer struct {
	w      io.Writer
	ow     *ogg.Writer
	rate   int
	closed bool
}

func (m *Muxer) WriteHeader(stream audio.StreamDescriptor) error {
	if m.ow != nil {
		return container.ErrHeaderWritten
	}
	if stream.Codec != CodecName {
		return fmt.Errorf("%w: %s in opus", container.ErrUnsupportedCodec, stream.Codec)
	}
	if stream.Channels < 1 || stream.Channels > 2 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedChannels, stream.Channels)
	}

	ow, err := ogg.NewWriter(m.w, uint32(stream.SampleRate), uint8(stream.Channels))
	if err != nil {
		return fmt.Errorf("start ogg stream: %w", err)
	}
	m.ow = ow
	m.rate = stream.SampleRate
	return nil
}

// WritePacket stores pkt; its Duration is in samples at the stream rate.
func (m *Muxer) WritePacket(pkt *audio.Packet) error {
	if m.ow == nil {
		return container.ErrHeaderMissing
	}
	if m.closed {
		return container.ErrTrailerWritten
	}
	if err := m.ow.WritePacket(pkt.Data, int(toGranule(pkt.Duration, m.rate))); err != nil {
		return fmt.Errorf("write ogg packet: %w", err)
	}
	return nil
}

func (m *Muxer) WriteTrailer() error {
	if m.ow == nil {
		return container.ErrHeaderMissing
	}
	if m.closed {
		return container.ErrTrailerWritten
	}
	m.closed = true
	if err := m.ow.Close(); err != nil {
		return fmt.Errorf("finish ogg stream: %w", err)
	}
	return nil
}

// Close releases the muxer. The underlying writer is owned by the caller.
func (m *Muxer) Close() error {
	m.ow = nil
	return nil
}
