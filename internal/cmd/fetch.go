package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amdshrif/ncbi-client/pkg/eutils"
	"github.com/amdshrif/ncbi-client/pkg/history"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [id...]",
	Short: "Fetch full records by ID or from a stored history session",
	Long: `Fetch full records for the given IDs, or page through a stored
history result set when --web-env and --query-key are given.

History retrieval pages the set ` + "`--page-size`" + ` records at a time, so
arbitrarily large result sets stream without one oversized request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		rettype, _ := cmd.Flags().GetString("rettype")
		retmode, _ := cmd.Flags().GetString("retmode")
		webEnv, _ := cmd.Flags().GetString("web-env")
		queryKey, _ := cmd.Flags().GetInt("query-key")
		count, _ := cmd.Flags().GetInt("count")
		pageSize, _ := cmd.Flags().GetInt("page-size")
		output, _ := cmd.Flags().GetString("output")

		out := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		opts := eutils.FetchOptions{RetType: rettype, RetMode: retmode}

		if webEnv != "" {
			if count <= 0 {
				return fmt.Errorf("--count is required with --web-env (the search's result count)")
			}
			session := &history.Session{
				WebEnv:   webEnv,
				QueryKey: queryKey,
				DB:       viper.GetString("db"),
				Count:    count,
			}
			pager, err := svc.FetchPager(session, pageSize, opts)
			if err != nil {
				return err
			}
			for {
				page, err := pager.Next(cmd.Context())
				if err != nil {
					return err
				}
				if page == nil {
					return nil
				}
				if _, err := out.Write(page.Data); err != nil {
					return err
				}
			}
		}

		if len(args) == 0 {
			return fmt.Errorf("give record IDs or --web-env/--query-key")
		}
		body, err := svc.Fetch(cmd.Context(), viper.GetString("db"), args, opts)
		if err != nil {
			return err
		}
		_, err = out.Write(body)
		return err
	},
}

func init() {
	fetchCmd.Flags().String("rettype", "", "record type (e.g. abstract, fasta, gb)")
	fetchCmd.Flags().String("retmode", "xml", "serialization: xml, text or json")
	fetchCmd.Flags().String("web-env", "", "history session token from a search with --use-history")
	fetchCmd.Flags().Int("query-key", 1, "query key within the WebEnv")
	fetchCmd.Flags().Int("count", 0, "total result count of the stored set")
	fetchCmd.Flags().Int("page-size", history.DefaultPageSize, "records per page for history retrieval")
	fetchCmd.Flags().StringP("output", "o", "", "write records to a file instead of stdout")
	rootCmd.AddCommand(fetchCmd)
}
