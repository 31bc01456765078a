package cmd

import (
	"github.com/inteinfinder/inteinfinder/internal/intein"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// findCmd is for running the whole screen on a FASTA file of queries.
var findCmd = &cobra.Command{
	Use:                        "find",
	Short:                      "Find, check and remove inteins in protein sequences",
	Run:                        intein.FindCmd,
	SuggestionsMinimumDistance: 2,
	Example:                    "  intein_finder find -q queries.faa -o screen --cpus 4",
	Long: `Screen the protein sequences in a FASTA file for inteins.

1. The queries are searched against conserved domain models of the intein
   superfamily (rpsblast) and a database of known inteins (mmseqs)
2. Overlapping hits on each query are merged into putative intein regions
3. Inteins that hit each region are aligned to the query (mafft), best
   evalue first, until one has the expected residues at its ends and
   the +1 extein residue
4. Regions with a good alignment are refined to its span and removed
   from the query

The output directory must not exist.`,
}

func init() {
	findCmd.Flags().StringP("queries", "q", "", "FASTA file of protein sequences")
	findCmd.Flags().StringP("inteins", "i", "", "FASTA file of reference inteins (defaults to the bundled database)")
	findCmd.Flags().StringP("out", "o", "", "output directory")
	findCmd.Flags().Int("strictness", 1, "1 accepts only L1 residues at the intein's ends, 2 also accepts L2")
	findCmd.Flags().Float64("refine-evalue", 1e-3, "evalue an alignment needs to refine a region")
	findCmd.Flags().Bool("gate-length", false, "drop regions outside of the min and max length")
	findCmd.Flags().Bool("keep-files", false, "keep temporary and alignment files")

	viper.BindPFlag("alignment.strictness", findCmd.Flags().Lookup("strictness"))
	viper.BindPFlag("region.refine-evalue", findCmd.Flags().Lookup("refine-evalue"))
	viper.BindPFlag("region.gate-length", findCmd.Flags().Lookup("gate-length"))
	viper.BindPFlag("alignment.keep-files", findCmd.Flags().Lookup("keep-files"))

	RootCmd.AddCommand(findCmd)
}
