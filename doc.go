// SPDX-License-Identifier: EPL-2.0

// Package audtrans decodes, converts and encodes audio files.
//
// The package wires the built-in codecs (PCM, MP3, Vorbis and Opus) and
// containers (WAV, AIFF, MP3, Ogg Vorbis and Ogg Opus) into the jobs of the
// pipeline package. Registries left nil in the options default to
// DefaultCodecs and DefaultFormats.
//
// # Decoding
//
// DecodeFile reads the first audio stream of a file into one normalized
// float32 buffer per channel, optionally converting the sample rate and
// channel layout on the way:
//
//	res, err := audtrans.DecodeFile(ctx, "speech.mp3", pipeline.DecodeOptions{
//	    SampleRate: 16000,
//	    Layout:     audio.LayoutMono,
//	})
//
// # Encoding
//
// EncodeFile encodes a file, either decodable or headerless PCM described
// by RawInput, into the container named by the output extension:
//
//	_, err := audtrans.EncodeFile(ctx, "call.raw", "call.wav", audtrans.EncodeOptions{
//	    Raw: &audtrans.RawInput{Format: audio.S16, SampleRate: 8000, Channels: 1},
//	})
//
// Transcode chains both jobs. The requested sample format, rate and layout
// are negotiated against what the encoder supports.
//
// # Telephony
//
// ResampleToMono16 turns any audio.Source into 16-bit mono PCM at a fixed
// rate, the usual input of telephony and speech systems:
//
//	src, _ := audio.NewPlanarSource(res.SampleRate, res.Channels)
//	pcm16, rate, err := audtrans.ResampleToMono16(src, 8000, 4096)
//
// # Errors
//
// Every job returns a *pipeline.Error naming the stage that failed; use
// errors.Is with the sentinels of the pipeline, codec, container and audio
// packages, or IsStage to branch on the stage.
package audtrans
