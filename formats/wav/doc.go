// SPDX-License-Identifier: EPL-2.0

// Package wav implements the WAV container on top of github.com/go-audio/wav.
//
// The Demuxer parses the RIFF header and returns the data chunk as packets
// of raw little-endian PCM, 4096 sample frames each. Integer PCM with 8,
// 16, 24 or 32 bits and IEEE float with 32 or 64 bits are accepted; 24-bit
// samples are widened to 32 bits so they map onto the pcm_s32le codec.
//
//	f, _ := os.Open("audio.wav")
//	dmx, err := wav.NewDemuxer(f)
//	stream := dmx.Streams()[0] // e.g. pcm_s16le s16 44100Hz stereo
//
// The Muxer writes packets of pcm_u8, pcm_s16le, pcm_s32le or pcm_f32le
// and patches the header sizes in WriteTrailer, so its output must be
// seekable:
//
//	out, _ := os.Create("out.wav")
//	mux := wav.NewMuxer(out)
//	err := mux.WriteHeader(stream)
//	err = mux.WritePacket(&pkt)
//	err = mux.WriteTrailer()
//
// Input that is not a RIFF/WAVE file fails with ErrNotWavFile; unsupported
// sample encodings fail with ErrUnsupportedBitDepth.
package wav
