package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amdshrif/ncbi-client/pkg/eutils"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search an Entrez database",
	Long: `Search an Entrez database and print the matching record IDs.

With --use-history the result set is stored on the NCBI history server;
the WebEnv and query key are printed so later fetches can page it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		retmax, _ := cmd.Flags().GetInt("retmax")
		sort, _ := cmd.Flags().GetString("sort")
		useHistory, _ := cmd.Flags().GetBool("use-history")

		result, err := svc.Search(cmd.Context(), viper.GetString("db"), args[0], eutils.SearchOptions{
			RetMax:     retmax,
			Sort:       sort,
			UseHistory: useHistory,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Count: %d\n", result.Count)
		if result.QueryTranslation != "" {
			fmt.Printf("Query: %s\n", result.QueryTranslation)
		}
		if result.Session != nil {
			fmt.Printf("WebEnv: %s\nQueryKey: %d\n", result.Session.WebEnv, result.Session.QueryKey)
		}
		for _, id := range result.IDs {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().Int("retmax", 20, "maximum number of IDs to print")
	searchCmd.Flags().String("sort", "", "sort order (e.g. pub_date, relevance)")
	searchCmd.Flags().Bool("use-history", false, "store the result set on the history server")
	rootCmd.AddCommand(searchCmd)
}
