// SPDX-License-Identifier: EPL-2.0

package audtrans

import (
	"github.com/ik5/audtrans/codec"
	"github.com/ik5/audtrans/codec/pcm"
	"github.com/ik5/audtrans/container"
	"github.com/ik5/audtrans/formats/aiff"
	"github.com/ik5/audtrans/formats/mp3"
	"github.com/ik5/audtrans/formats/opus"
	"github.com/ik5/audtrans/formats/vorbis"
	"github.com/ik5/audtrans/formats/wav"
)

// DefaultCodecs returns a registry with every built-in codec engine.
func DefaultCodecs() *codec.Registry {
	reg := codec.NewRegistry()
	// Names are unique, registration cannot fail.
	_ = pcm.Register(reg)
	_ = reg.Register(mp3.Engine{})
	_ = reg.Register(vorbis.Engine{})
	_ = reg.Register(opus.Engine{})
	return reg
}

// DefaultFormats returns a registry with every built-in container format.
func DefaultFormats() *container.Registry {
	reg := container.NewRegistry()
	reg.Register(wav.Format{})
	reg.Register(aiff.Format{})
	reg.Register(mp3.Format{})
	reg.Register(vorbis.Format{})
	reg.Register(opus.Format{})
	return reg
}
