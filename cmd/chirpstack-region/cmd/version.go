package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brocaar/chirpstack-region/internal/region"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ChirpStack Region version and built-in region profiles",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chirpstack-region %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "profiles: %s\n", region.KR920().Name)
	},
}
