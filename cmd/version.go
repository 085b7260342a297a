package cmd

import (
	"github.com/spf13/cobra"

	"github.com/adwikataware/Hackcrypt/internal/message"
	"github.com/adwikataware/Hackcrypt/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Hackcrypt",
	Long:  `All software has versions. This is Hackcrypt's`,
	Run: func(cmd *cobra.Command, args []string) {
		message.Info(version.FullVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
