package main

import (
	"fmt"

	"github.com/lunatic-rt/lunatic-go/internal/buildinfo"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), buildinfo.Get().Full())
		return nil
	},
}
