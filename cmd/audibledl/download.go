package cmd

import (
	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download [asin]",
	Short: "Download and decrypt one book by ASIN",
	Long:  "Download a book's encrypted container, decrypt it to .m4b and remove the intermediates",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBook(loadConfig(), args[0])
	},
}
