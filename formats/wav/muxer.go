// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/container"
)

// Muxer writes PCM packets into a WAV file. The header sizes are patched
// by WriteTrailer, which is why the output must be seekable.
type Muxer struct {
	w      io.WriteSeeker
	enc    *gowav.Encoder
	stream audio.StreamDescriptor
	buf    *goaudio.IntBuffer
	done   bool
}

func NewMuxer(w io.WriteSeeker) *Muxer {
	return &Muxer{w: w}
}

func (m *Muxer) WriteHeader(stream audio.StreamDescriptor) error {
	if m.enc != nil {
		return container.ErrHeaderWritten
	}

	tag := formatPCM
	switch stream.Format.Packed() {
	case audio.U8, audio.S16, audio.S32:
	case audio.F32:
		tag = formatFloat
	default:
		return fmt.Errorf("%w: %s in wav", container.ErrUnsupportedCodec, stream.Codec)
	}

	m.stream = stream
	m.enc = gowav.NewEncoder(m.w, stream.SampleRate, stream.Format.BytesPerSample()*8, stream.Channels, tag)
	m.buf = &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: stream.Channels,
			SampleRate:  stream.SampleRate,
		},
		SourceBitDepth: stream.Format.BytesPerSample() * 8,
	}
	return nil
}

// WritePacket writes the interleaved samples of pkt.
func (m *Muxer) WritePacket(pkt *audio.Packet) error {
	if m.enc == nil {
		return container.ErrHeaderMissing
	}
	if m.done {
		return container.ErrTrailerWritten
	}

	width := m.stream.Format.BytesPerSample()
	samples := len(pkt.Data) / width
	if cap(m.buf.Data) < samples {
		m.buf.Data = make([]int, samples)
	}
	m.buf.Data = m.buf.Data[:samples]

	// go-audio stores samples as int and narrows them to the bit depth
	// when writing; float samples travel as their bit pattern.
	for i := range samples {
		b := pkt.Data[i*width : (i+1)*width]
		switch m.stream.Format.Packed() {
		case audio.U8:
			m.buf.Data[i] = int(b[0])
		case audio.S16:
			m.buf.Data[i] = int(int16(binary.LittleEndian.Uint16(b)))
		case audio.S32, audio.F32:
			m.buf.Data[i] = int(int32(binary.LittleEndian.Uint32(b)))
		}
	}

	if err := m.enc.Write(m.buf); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	return nil
}

func (m *Muxer) WriteTrailer() error {
	if m.enc == nil {
		return container.ErrHeaderMissing
	}
	if m.done {
		return container.ErrTrailerWritten
	}
	m.done = true

	if err := m.enc.Close(); err != nil {
		return fmt.Errorf("finish wav file: %w", err)
	}
	return nil
}

// Close releases the muxer. The underlying writer is owned by the caller.
func (m *Muxer) Close() error {
	m.buf = nil
	return nil
}
