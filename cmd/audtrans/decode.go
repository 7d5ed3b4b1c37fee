// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/audtrans"
	"github.com/ik5/audtrans/audio"
	"github.com/ik5/audtrans/pipeline"
)

func newDecodeCommand(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "decode <input>...",
		Short: "Decode audio files into per-channel float32 PCM",
		Long: `Decode the first audio stream of every input. With --out-dir each channel
is written as little-endian float32 to <name>.channel_<n>.f32.`,
		Example: `  audtrans decode speech.wav
  audtrans decode --rate 16000 --channels 1 --out-dir pcm/ a.mp3 b.ogg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.decodeOptions()
			if err != nil {
				return err
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(a.v.GetInt("jobs"), 1))
			for _, path := range args {
				g.Go(func() error {
					res, err := audtrans.DecodeFile(ctx, path, opts)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					printDecoded(cmd, path, res)
					if outDir == "" {
						return nil
					}
					return writeChannels(outDir, path, res, a.log)
				})
			}
			return g.Wait()
		},
	}

	flags := cmd.Flags()
	flags.Int("rate", 0, "Convert decoded audio to this sample rate")
	flags.Int("channels", 0, "Convert decoded audio to this channel count")
	flags.String("request-format", "", "Ask the decoder for a sample format (e.g. s16p)")
	flags.Bool("raw-passthrough", false, "Copy decoded mono float32 samples without conversion")
	flags.String("scratch-dir", "", "Keep decoded channels in scratch files under this directory")
	flags.StringVar(&outDir, "out-dir", "", "Write every channel as raw float32 into this directory")
	return cmd
}

func (a *app) decodeOptions() (pipeline.DecodeOptions, error) {
	opts := audtrans.DefaultDecodeOptions()
	opts.SampleRate = a.v.GetInt("decode.rate")
	opts.RawPassthrough = a.v.GetBool("decode.raw_passthrough")
	opts.ScratchDir = a.v.GetString("decode.scratch_dir")
	opts.Log = a.log
	if n := a.v.GetInt("decode.channels"); n > 0 {
		opts.Layout = audio.DefaultLayout(n)
		if opts.Layout == 0 {
			return opts, fmt.Errorf("no channel layout for %d channels", n)
		}
	}
	if name := a.v.GetString("decode.request_format"); name != "" {
		format, err := parseFormat(name)
		if err != nil {
			return opts, err
		}
		opts.RequestFormat = format
	}
	return opts, nil
}

func printDecoded(cmd *cobra.Command, path string, res *pipeline.DecodeResult) {
	samples := 0
	if len(res.Channels) > 0 {
		samples = len(res.Channels[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: codec=%s format=%s rate=%d channels=%d samples=%d\n",
		path, res.Codec, res.Stream.Format, res.SampleRate, len(res.Channels), samples)
}

func writeChannels(dir, path string, res *pipeline.DecodeResult, log logrus.FieldLogger) error {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for c, samples := range res.Channels {
		name := filepath.Join(dir, fmt.Sprintf("%s.channel_%d.f32", base, c))
		if err := writeFloats(name, samples); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		log.WithFields(logrus.Fields{"path": name, "samples": len(samples)}).Debug("channel written")
	}
	return nil
}

func writeFloats(name string, samples []float32) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var b [4]byte
	for _, v := range samples {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
