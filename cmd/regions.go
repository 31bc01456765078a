package cmd

import (
	"github.com/inteinfinder/inteinfinder/internal/intein"
	"github.com/spf13/cobra"
)

// regionsCmd prints the putative regions in a table of hits.
var regionsCmd = &cobra.Command{
	Use:                        "regions [hits.tsv]",
	Short:                      "Merge the hits in a search results table into putative intein regions",
	Run:                        intein.RegionsCmd,
	SuggestionsMinimumDistance: 2,
	Example:                    "  intein_finder regions screen/all_search_results.tsv",
}

func init() {
	RootCmd.AddCommand(regionsCmd)
}
