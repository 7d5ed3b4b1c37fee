// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 with github.com/hajimehoshi/go-mp3.
//
// Format probes the input for a valid MPEG audio frame, reads the sample
// rate and rewinds. Its demuxer then cuts the raw bitstream into 16 KiB
// packets; packet timestamps are byte offsets since an elementary MP3
// stream has no sample timing of its own.
//
// go-mp3 reads the whole bitstream itself, so the Engine's decoder buffers
// packets and starts decoding when the end of input is signalled. Frames
// are always 16-bit stereo, whatever the channel count of the file:
//
//	f, _ := os.Open("audio.mp3")
//	dmx, err := mp3.Format{}.OpenInput(f)
//	dec, err := mp3.Engine{}.OpenDecoder(dmx.Streams()[0])
//
// Encoding is not supported: OpenEncoder fails with
// codec.ErrUnsupportedCodec and OpenOutput with container.ErrUnknownFormat.
package mp3
