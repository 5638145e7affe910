package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeplan/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Show a CSV, XLSX or JSON table as is",
	Long: `Display an externally produced table, such as backtest results,
exactly as it is. The file only has to parse as a table.

Example:
  tradeplan upload backtest.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	t, err := upload.Read(args[0])
	if err != nil {
		return err
	}
	return upload.Render(cmd.OutOrStdout(), t)
}
