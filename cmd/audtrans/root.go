// SPDX-License-Identifier: EPL-2.0

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is shared by every command once the root command initialised it.
type app struct {
	v   *viper.Viper
	log *logrus.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	var configFile string

	cmd := &cobra.Command{
		Use:   "audtrans",
		Short: "Decode, encode and transcode audio files",
		Long: `audtrans converts audio between containers and codecs.

Decoding yields normalized per-channel float32 PCM; encoding negotiates the
sample format, rate and channel layout with the target codec and resamples
as needed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := newConfig(configFile)
			if err != nil {
				return err
			}
			for _, name := range []string{"log-level", "log-format", "jobs"} {
				if f := cmd.Flags().Lookup(name); f != nil {
					if err := v.BindPFlag(flagKey(name), f); err != nil {
						return err
					}
				}
			}
			if err := bindCommandFlags(v, cmd); err != nil {
				return err
			}

			log, err := newLogger(v)
			if err != nil {
				return err
			}
			a.v, a.log = v, log
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default: audtrans.yaml in ., ~/.config/audtrans, /etc/audtrans)")
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text or json)")
	flags.Int("jobs", 4, "Number of inputs processed concurrently")

	cmd.AddCommand(newDecodeCommand(a))
	cmd.AddCommand(newEncodeCommand(a))
	cmd.AddCommand(newTranscodeCommand(a))
	cmd.AddCommand(newFormatsCommand())
	return cmd
}

// commandFlags maps command-local flags to config keys.
var commandFlags = map[string]string{
	"rate":            "rate",
	"channels":        "channels",
	"request-format":  "request_format",
	"raw-passthrough": "raw_passthrough",
	"scratch-dir":     "scratch_dir",
	"codec":           "codec",
	"format":          "format",
	"bitrate":         "bitrate",
}

// bindCommandFlags binds the flags of cmd under the section named after
// the command: decode.* for decode, encode.* for encode and transcode.
func bindCommandFlags(v *viper.Viper, cmd *cobra.Command) error {
	section := "encode"
	if cmd.Name() == "decode" {
		section = "decode"
	}
	for name, key := range commandFlags {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(section+"."+key, f); err != nil {
			return err
		}
	}
	return nil
}

func flagKey(name string) string {
	switch name {
	case "log-level":
		return "log.level"
	case "log-format":
		return "log.format"
	}
	return name
}
