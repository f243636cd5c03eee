package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var spellCmd = &cobra.Command{
	Use:   "spell <term>",
	Short: "Get the service's spelling suggestion for a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		corrected, err := svc.Spell(cmd.Context(), viper.GetString("db"), args[0])
		if err != nil {
			return err
		}
		if corrected == "" {
			fmt.Println("no suggestion")
			return nil
		}
		fmt.Println(corrected)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(spellCmd)
}
