package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/search"
)

var buildQueriesCmd = &cobra.Command{
	Use:   "build-queries",
	Short: "Build prioritized search queries for an organization",
	Long:  "Builds the search queries used to locate an organization's official website and leadership pages, normalizing union names like \"Local 123 IBEW\" into a consistent form.",
	RunE:  runBuildQueries,
}

var (
	buildQueriesOrg      string
	buildQueriesDBA      string
	buildQueriesTitles   []string
	buildQueriesFallback bool
)

func init() {
	buildQueriesCmd.Flags().StringVarP(&buildQueriesOrg, "organization", "g", "", "Organization name (required)")
	buildQueriesCmd.Flags().StringVar(&buildQueriesDBA, "dba", "", "\"Doing business as\" name, if different")
	buildQueriesCmd.Flags().StringSliceVar(&buildQueriesTitles, "titles", nil, "Executive titles to build targeted queries for")
	buildQueriesCmd.Flags().BoolVar(&buildQueriesFallback, "fallback", false, "Include generic fallback queries")

	if err := buildQueriesCmd.MarkFlagRequired("organization"); err != nil {
		panic(fmt.Sprintf("failed to mark organization flag as required: %v", err))
	}

	rootCmd.AddCommand(buildQueriesCmd)
}

func runBuildQueries(_ *cobra.Command, _ []string) error {
	builder := search.NewQueryBuilder()

	queries := builder.PrimaryQueries(buildQueriesOrg, buildQueriesDBA)
	if len(buildQueriesTitles) > 0 {
		queries = append(queries, builder.TitleQueries(buildQueriesOrg, buildQueriesTitles)...)
	}
	if buildQueriesFallback {
		queries = append(queries, builder.FallbackQueries(buildQueriesOrg)...)
	}

	for _, q := range queries {
		_, _ = fmt.Fprintln(os.Stdout, q)
	}
	return nil
}
