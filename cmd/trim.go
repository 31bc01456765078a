package cmd

import (
	"github.com/inteinfinder/inteinfinder/internal/intein"
	"github.com/spf13/cobra"
)

// trimCmd removes the regions in a refined table from queries.
var trimCmd = &cobra.Command{
	Use:                        "trim",
	Short:                      "Remove the trimmable regions of a refined regions table from queries",
	Run:                        intein.TrimCmd,
	SuggestionsMinimumDistance: 2,
	Example:                    "  intein_finder trim -q queries.faa -r screen/queries.intein_regions_refined_full.tsv -o queries",
	Long: `Remove the trimmable regions of a refined regions table from the queries.
Writes <out>.trimmed.faa and <out>.inteins.faa.`,
}

func init() {
	trimCmd.Flags().StringP("queries", "q", "", "FASTA file of protein sequences")
	trimCmd.Flags().StringP("refined", "r", "", "refined regions table")
	trimCmd.Flags().StringP("out", "o", "", "output file prefix")

	RootCmd.AddCommand(trimCmd)
}
