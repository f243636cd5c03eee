package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [db]",
	Short: "Show database metadata, or list all Entrez databases",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		if len(args) == 0 {
			dbs, err := svc.Databases(cmd.Context())
			if err != nil {
				return err
			}
			for _, db := range dbs {
				fmt.Println(db)
			}
			return nil
		}

		body, err := svc.Info(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(body)
		return err
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
