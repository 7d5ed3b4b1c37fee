// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/audtrans"
	"github.com/ik5/audtrans/pipeline"
)

func newEncodeCommand(a *app) *cobra.Command {
	var raw struct {
		format   string
		rate     int
		channels int
	}

	cmd := &cobra.Command{
		Use:   "encode <input> <output>",
		Short: "Encode audio or raw PCM into a container",
		Long: `Encode the input into the container named by the output extension. The
input is decoded first unless --raw-format describes it as headerless PCM.`,
		Example: `  audtrans encode speech.wav speech.opus --bitrate 16000
  audtrans encode --raw-format s32 --raw-rate 8000 --raw-channels 2 in.pcm out.opus`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := a.encodeOptions()
			if err != nil {
				return err
			}
			opts := audtrans.EncodeOptions{EncodeOptions: enc}
			if raw.format != "" {
				format, err := parseFormat(raw.format)
				if err != nil {
					return err
				}
				opts.Raw = &audtrans.RawInput{Format: format, SampleRate: raw.rate, Channels: raw.channels}
			}

			res, err := audtrans.EncodeFile(cmd.Context(), args[0], args[1], opts)
			if err != nil {
				return err
			}
			printEncoded(cmd, res)
			return nil
		},
	}

	addEncodeFlags(cmd)
	flags := cmd.Flags()
	flags.StringVar(&raw.format, "raw-format", "", "Read the input as headerless interleaved PCM of this format")
	flags.IntVar(&raw.rate, "raw-rate", 8000, "Sample rate of raw input")
	flags.IntVar(&raw.channels, "raw-channels", 2, "Channel count of raw input")
	return cmd
}

func addEncodeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("codec", "", "Target codec (default: first codec of the output container)")
	flags.String("format", "", "Requested sample format (e.g. s16, flt)")
	flags.Int("rate", 0, "Requested sample rate")
	flags.Int("channels", 0, "Requested channel count")
	flags.Int("bitrate", 0, "Bit rate in bits per second")
}

func (a *app) encodeOptions() (pipeline.EncodeOptions, error) {
	opts := audtrans.DefaultEncodeOptions().EncodeOptions
	opts.Codec = a.v.GetString("encode.codec")
	opts.SampleRate = a.v.GetInt("encode.rate")
	opts.Channels = a.v.GetInt("encode.channels")
	opts.BitRate = a.v.GetInt("encode.bitrate")
	opts.Log = a.log
	if name := a.v.GetString("encode.format"); name != "" {
		format, err := parseFormat(name)
		if err != nil {
			return opts, err
		}
		opts.Format = format
	}
	return opts, nil
}

func printEncoded(cmd *cobra.Command, res *pipeline.EncodeResult) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s packets=%d samples=%d\n",
		res.Path, res.Stream, res.Packets, res.Samples)
}
