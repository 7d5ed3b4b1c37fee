// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/audtrans"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported containers and codecs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			formats := audtrans.DefaultFormats()
			codecs := audtrans.DefaultCodecs()

			fmt.Fprintln(out, "Containers:")
			for _, ext := range formats.Extensions() {
				f, _ := formats.Get(ext)
				mode := "read"
				if len(f.Codecs()) > 0 {
					mode = "read/write: " + strings.Join(f.Codecs(), ", ")
				}
				fmt.Fprintf(out, "  .%-6s %-5s %s\n", ext, f.Name(), mode)
			}

			fmt.Fprintln(out, "Codecs:")
			for _, name := range codecs.Names() {
				e, _ := codecs.Get(name)
				caps := e.Capabilities()
				fmt.Fprintf(out, "  %-10s formats=%v rates=%v\n", name, caps.SampleFormats, caps.SampleRates)
			}
			return nil
		},
	}
}
