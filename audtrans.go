// SPDX-License-Identifier: EPL-2.0

package audtrans

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/pipeline"
)

// RawInput describes a headerless interleaved PCM input file.
type RawInput struct {
	Format     audio.SampleFormat
	SampleRate int
	Channels   int
}

// EncodeOptions configures EncodeFile and the encode half of Transcode.
type EncodeOptions struct {
	pipeline.EncodeOptions

	// Raw marks the input of EncodeFile as headerless PCM. Without it the
	// input is decoded with the registered demuxers and codecs first.
	Raw *RawInput
}

// DecodeFile decodes the first audio stream of path into per-channel
// buffers. Registries left nil in opts default to the built-in ones.
func DecodeFile(ctx context.Context, path string, opts pipeline.DecodeOptions) (*pipeline.DecodeResult, error) {
	return pipeline.DecodeFile(ctx, path, decodeDefaults(opts))
}

// EncodeFile encodes the audio of inPath into outPath. The output
// container follows the extension of outPath; the codec defaults to the
// first one that container stores.
func EncodeFile(ctx context.Context, inPath, outPath string, opts EncodeOptions) (*pipeline.EncodeResult, error) {
	enc := encodeDefaults(opts.EncodeOptions)

	src, err := openSource(ctx, inPath, opts.Raw, enc)
	if err != nil {
		if enc.OnDone != nil {
			enc.OnDone(nil, err)
		}
		return nil, err
	}
	defer src.Close()

	return pipeline.EncodeFile(ctx, src, outPath, enc)
}

// Transcode decodes inPath and encodes the result into outPath.
func Transcode(ctx context.Context, inPath, outPath string, dec pipeline.DecodeOptions, enc pipeline.EncodeOptions) (*pipeline.EncodeResult, error) {
	enc = encodeDefaults(enc)
	dec = decodeDefaults(dec)
	dec.OnDone = nil

	decoded, err := pipeline.DecodeFile(ctx, inPath, dec)
	if err != nil {
		if enc.OnDone != nil {
			enc.OnDone(nil, err)
		}
		return nil, err
	}

	src, err := audio.NewPlanarSource(decoded.SampleRate, decoded.Channels)
	if err != nil {
		err = &pipeline.Error{Stage: pipeline.StageConfigure, Kind: pipeline.ErrInvalidOptions, Err: err}
		if enc.OnDone != nil {
			enc.OnDone(nil, err)
		}
		return nil, err
	}
	return pipeline.EncodeFile(ctx, src, outPath, enc)
}

func openSource(ctx context.Context, path string, raw *RawInput, opts pipeline.EncodeOptions) (audio.Source, error) {
	if raw != nil {
		f, err := os.Open(path)
		if err != nil {
			return nil, &pipeline.Error{Stage: pipeline.StageOpenInput, Kind: pipeline.ErrInputOpen, Err: err}
		}
		src, err := audio.NewRawSource(f, raw.Format, raw.SampleRate, raw.Channels)
		if err != nil {
			f.Close()
			return nil, &pipeline.Error{Stage: pipeline.StageOpenInput, Kind: pipeline.ErrInvalidOptions, Err: err}
		}
		return src, nil
	}

	decoded, err := pipeline.DecodeFile(ctx, path, pipeline.DecodeOptions{
		Codecs:  opts.Codecs,
		Formats: opts.Formats,
		Log:     opts.Log,
	})
	if err != nil {
		return nil, err
	}
	src, err := audio.NewPlanarSource(decoded.SampleRate, decoded.Channels)
	if err != nil {
		return nil, &pipeline.Error{
			Stage: pipeline.StageOpenInput,
			Kind:  pipeline.ErrInputOpen,
			Err:   fmt.Errorf("%s: %w", path, err),
		}
	}
	return src, nil
}

// DefaultDecodeOptions returns decode options using the built-in
// registries and the standard logger. Decoded audio is not converted.
func DefaultDecodeOptions() pipeline.DecodeOptions {
	return decodeDefaults(pipeline.DecodeOptions{Log: logrus.StandardLogger()})
}

// DefaultEncodeOptions returns encode options using the built-in
// registries. The codec is left to the output container and the format to
// the negotiator.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		EncodeOptions: encodeDefaults(pipeline.EncodeOptions{Log: logrus.StandardLogger()}),
	}
}

func decodeDefaults(opts pipeline.DecodeOptions) pipeline.DecodeOptions {
	if opts.Codecs == nil {
		opts.Codecs = DefaultCodecs()
	}
	if opts.Formats == nil {
		opts.Formats = DefaultFormats()
	}
	return opts
}

func encodeDefaults(opts pipeline.EncodeOptions) pipeline.EncodeOptions {
	if opts.Codecs == nil {
		opts.Codecs = DefaultCodecs()
	}
	if opts.Formats == nil {
		opts.Formats = DefaultFormats()
	}
	return opts
}

// IsStage reports whether err is a job error raised at stage.
func IsStage(err error, stage pipeline.Stage) bool {
	var jobErr *pipeline.Error
	return errors.As(err, &jobErr) && jobErr.Stage == stage
}
