package cli

import (
	"github.com/spf13/cobra"

	"github.com/alishwani-112/auto-subdomain/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("auto-subdomain v%s\n", version.Version)
	},
}
