// SPDX-License-Identifier: EPL-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/ik5/audtrans"
	"github.com/ik5/audtrans/pipeline"
)

func newTranscodeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transcode <input> <output>",
		Short:   "Decode an audio file and encode it into another",
		Example: `  audtrans transcode music.mp3 music.opus --channels 2 --bitrate 64000`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := a.encodeOptions()
			if err != nil {
				return err
			}
			dec := pipeline.DecodeOptions{Log: a.log}

			res, err := audtrans.Transcode(cmd.Context(), args[0], args[1], dec, enc)
			if err != nil {
				return err
			}
			printEncoded(cmd, res)
			return nil
		},
	}
	addEncodeFlags(cmd)
	return cmd
}
