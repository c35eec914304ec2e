package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is injected at build time with -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("r2v-to-plan2scene %s\n", Version)
	},
}
