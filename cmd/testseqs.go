package cmd

import (
	"github.com/inteinfinder/inteinfinder/internal/intein"
	"github.com/spf13/cobra"
)

// testSeqsCmd makes test sequences with known inteins.
var testSeqsCmd = &cobra.Command{
	Use:                        "testseqs",
	Short:                      "Make test sequences by inserting inteins into queries",
	Run:                        intein.TestSeqsCmd,
	SuggestionsMinimumDistance: 2,
	Long: `Insert a random intein, and a C extein residue, into each query after its
49th residue. Headers of the test sequences are
"<query>---<intein>---<start>~to~<end>". The refined regions expected from
screening them are written to <out>.expected.tsv.`,
}

// checkCmd compares the results of screening test sequences with their headers.
var checkCmd = &cobra.Command{
	Use:                        "check [refined.tsv]",
	Short:                      "Check the refined regions of test sequences",
	Run:                        intein.CheckCmd,
	SuggestionsMinimumDistance: 2,
}

func init() {
	testSeqsCmd.Flags().StringP("queries", "q", "", "FASTA file of protein sequences")
	testSeqsCmd.Flags().StringP("inteins", "i", "", "FASTA file of inteins to insert (defaults to the bundled database)")
	testSeqsCmd.Flags().StringP("out", "o", "", "output FASTA file")
	testSeqsCmd.Flags().Int64("seed", 0, "seed for choosing inteins (random if 0)")

	RootCmd.AddCommand(testSeqsCmd)
	RootCmd.AddCommand(checkCmd)
}
