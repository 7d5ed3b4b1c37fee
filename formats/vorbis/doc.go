// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis with github.com/jfreymuth/oggvorbis.
//
// Format reads the identification header to learn the sample rate and
// channel count, rewinds, and emits the raw Ogg pages as 16 KiB packets.
// The Engine's decoder buffers those packets and decodes once the end of
// input is signalled, producing interleaved float32 frames in the
// stream's channel layout:
//
//	f, _ := os.Open("audio.ogg")
//	dmx, err := vorbis.Format{}.OpenInput(f)
//	dec, err := vorbis.Engine{}.OpenDecoder(dmx.Streams()[0])
//
// Vorbis encoding and Ogg output are not supported.
package vorbis
