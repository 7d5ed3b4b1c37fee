// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/ik5/audtrans/audio"
)

const envPrefix = "AUDTRANS"

// newConfig loads defaults, AUDTRANS_* variables and an optional
// audtrans.yaml. Flags are bound later by each command.
func newConfig(file string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("jobs", 4)

	v.SetDefault("decode.rate", 0)
	v.SetDefault("decode.channels", 0)
	v.SetDefault("decode.request_format", "")
	v.SetDefault("decode.raw_passthrough", false)
	v.SetDefault("decode.scratch_dir", "")

	v.SetDefault("encode.codec", "")
	v.SetDefault("encode.format", "")
	v.SetDefault("encode.rate", 0)
	v.SetDefault("encode.channels", 0)
	v.SetDefault("encode.bitrate", 0)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("audtrans")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(os.ExpandEnv("$HOME/.config/audtrans"))
		v.AddConfigPath("/etc/audtrans")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// newLogger builds the logger described by the log.* settings.
func newLogger(v *viper.Viper) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(v.GetString("log.level"))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(level)

	switch v.GetString("log.format") {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("log format %q: want text or json", v.GetString("log.format"))
	}
	return log, nil
}

func parseFormat(name string) (audio.SampleFormat, error) {
	format, ok := audio.ParseSampleFormat(name)
	if !ok {
		return audio.FormatNone, fmt.Errorf("%w: %q", audio.ErrUnsupportedSampleFormat, name)
	}
	return format, nil
}
