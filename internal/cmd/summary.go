package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amdshrif/ncbi-client/pkg/eutils"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <id...>",
	Short: "Retrieve document summaries by ID",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		retmode, _ := cmd.Flags().GetString("retmode")
		version, _ := cmd.Flags().GetString("version")

		body, err := svc.Summary(cmd.Context(), viper.GetString("db"), args, eutils.SummaryOptions{
			RetMode: retmode,
			Version: version,
		})
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(body)
		fmt.Println()
		return err
	},
}

func init() {
	summaryCmd.Flags().String("retmode", "xml", "serialization: xml or json")
	summaryCmd.Flags().String("version", "2.0", "DocSum schema version")
	rootCmd.AddCommand(summaryCmd)
}
