// SPDX-License-Identifier: EPL-2.0

// Package opus encodes and decodes Opus with github.com/thesyncim/gopus and
// stores it in Ogg containers.
//
// The Engine accepts interleaved float32 in mono or stereo at 8, 12, 16, 24
// or 48 kHz. Encoding buffers input until a whole encoder frame (20 ms) is
// available; the last partial frame is padded with silence on flush.
// Without an explicit bit rate the encoder targets DefaultBitRate.
//
//	enc, err := opus.Engine{}.OpenEncoder(codec.NegotiatedFormat{
//	    Format:     audio.F32,
//	    SampleRate: 16000,
//	    Layout:     audio.LayoutMono,
//	}, codec.EncoderOptions{})
//
// Format writes the OpusHead and OpusTags headers with WriteHeader and one
// packet per page afterwards. Granule positions always run at 48 kHz, so
// packet durations are converted from the stream rate. Demuxed streams
// report 48 kHz since that is the rate the decoder produces.
//
// The pre-skip announced in the header is not trimmed from decoded output.
package opus
