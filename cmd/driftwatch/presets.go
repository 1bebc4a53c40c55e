package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hakim/driftwatch/internal/pipeline"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in port presets for capture",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Preset\tPorts\tDescription")
		fmt.Fprintln(w, "------\t-----\t-----------")

		for _, p := range pipeline.BuiltinPresets() {
			ports := make([]string, len(p.Ports))
			for i, port := range p.Ports {
				ports[i] = strconv.Itoa(port)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, strings.Join(ports, ","), p.Description)
		}

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
