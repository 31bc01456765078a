package cmd

import (
	"github.com/inteinfinder/inteinfinder/internal/intein"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// searchCmd runs only the homology searches.
var searchCmd = &cobra.Command{
	Use:                        "search",
	Short:                      "Search queries against the intein superfamily models and intein database",
	Run:                        intein.SearchCmd,
	SuggestionsMinimumDistance: 2,
	Long: `Run rpsblast and mmseqs on the queries and write every hit to
all_search_results.tsv in the output directory, along with a per-query
summary of the hits. The output directory must not exist.`,
}

func init() {
	searchCmd.Flags().StringP("queries", "q", "", "FASTA file of protein sequences")
	searchCmd.Flags().StringP("inteins", "i", "", "FASTA file of reference inteins (defaults to the bundled database)")
	searchCmd.Flags().StringP("out", "o", "", "output directory")
	searchCmd.Flags().Float64("evalue-rpsblast", 1e-3, "report rpsblast hits at or below this evalue")
	searchCmd.Flags().Float64("evalue-mmseqs", 1e-3, "report mmseqs hits at or below this evalue")
	searchCmd.Flags().String("pssm-list", "", "file of .smp paths to search instead of the defaults")

	viper.BindPFlag("search.evalue-rpsblast", searchCmd.Flags().Lookup("evalue-rpsblast"))
	viper.BindPFlag("search.evalue-mmseqs", searchCmd.Flags().Lookup("evalue-mmseqs"))
	viper.BindPFlag("search.pssm-list", searchCmd.Flags().Lookup("pssm-list"))

	RootCmd.AddCommand(searchCmd)
}
