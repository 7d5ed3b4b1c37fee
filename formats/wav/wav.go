// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"io"

	"github.com/ik5/audtrans/container"
)

// WAVE_FORMAT tags of the fmt chunk.
const (
	formatPCM   = 1
	formatFloat = 3
)

// samplesPerPacket is the number of sample frames per demuxed packet.
const samplesPerPacket = 4096

// Format is the WAV container.
type Format struct{}

func (Format) Name() string         { return "wav" }
func (Format) Extensions() []string { return []string{"wav", "wave"} }

func (Format) Codecs() []string {
	return []string{"pcm_s16le", "pcm_u8", "pcm_s32le", "pcm_f32le"}
}

func (Format) OpenInput(r io.ReadSeeker) (container.Demuxer, error) {
	return NewDemuxer(r)
}

func (Format) OpenOutput(w io.WriteSeeker) (container.Muxer, error) {
	return NewMuxer(w), nil
}
