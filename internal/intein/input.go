package intein

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/inteinfinder/inteinfinder/config"
	"github.com/spf13/cobra"
)

var (
	// stderr is for logging to Stderr (without an annoying timestamp)
	stderr = log.New(os.Stderr, "", 0)
)

// Flags contains parsed cobra Flags like "queries", "inteins", "outdir", etc
// that are used by multiple commands.
type Flags struct {
	// the FASTA file of sequences to screen
	queries string

	// the FASTA file of reference inteins
	inteins string

	// the directory (or file prefix) to write outputs to
	out string

	// a refined regions table (for trimming)
	refined string

	// seed for choosing inserted inteins
	seed int64
}

// parseCmdFlags gathers the query path, output path, etc from a cobra cmd
// object. It returns Flags and a Config struct for the commands.
func parseCmdFlags(cmd *cobra.Command, required ...string) (*Flags, *config.Config) {
	fs := &Flags{}
	c := config.New()

	fs.queries, _ = cmd.Flags().GetString("queries")
	fs.inteins, _ = cmd.Flags().GetString("inteins")
	fs.out, _ = cmd.Flags().GetString("out")
	fs.refined, _ = cmd.Flags().GetString("refined")
	fs.seed, _ = cmd.Flags().GetInt64("seed")

	if fs.inteins == "" {
		fs.inteins = config.InteinDB
	}

	values := map[string]string{
		"queries": fs.queries,
		"inteins": fs.inteins,
		"out":     fs.out,
		"refined": fs.refined,
	}
	for _, name := range required {
		if values[name] == "" {
			cmd.Help()
			stderr.Fatalf("\nno --%s passed.", name)
		}
	}

	if err := c.Validate(); err != nil {
		stderr.Fatalln(err)
	}
	return fs, c
}

// signalContext is cancelled on an interrupt so child processes are stopped.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// newFinder makes a finder that runs the external programs.
func newFinder(flags *Flags, conf *config.Config) *finder {
	tmp := newOutputs(flags.out, flags.queries).tmp()
	return &finder{
		conf:    conf,
		runner:  execRunner{},
		aligner: NewMafft(conf.Exec.Mafft, tmp, conf.Alignment.KeepFiles),
	}
}

// FindCmd takes a cobra command (with its flags) and runs Find.
func FindCmd(cmd *cobra.Command, args []string) {
	Find(parseCmdFlags(cmd, "queries", "out"))
}

// Find screens queries for inteins and writes every output to the outdir.
func Find(flags *Flags, conf *config.Config) *Screening {
	start := time.Now()

	if err := lookPath(conf.Exec.MakeProfileDB, conf.Exec.RPSBlast, conf.Exec.MMseqs, conf.Exec.Mafft); err != nil {
		stderr.Fatalln(err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	screening, err := newFinder(flags, conf).find(ctx, flags.queries, flags.inteins, flags.out)
	if err != nil {
		stderr.Fatalln(err)
	}

	trimmed := 0
	for _, t := range screening.Trimmed {
		if len(t.Inteins) > 0 {
			trimmed++
		}
	}
	fmt.Printf("%d of %d sequences had inteins removed\n", trimmed, len(screening.Trimmed))

	if conf.Verbose {
		fmt.Printf("%s\n", time.Since(start))
	}
	return screening
}

// SearchCmd runs only the homology searches and writes their hits.
func SearchCmd(cmd *cobra.Command, args []string) {
	flags, conf := parseCmdFlags(cmd, "queries", "out")
	if err := lookPath(conf.Exec.MakeProfileDB, conf.Exec.RPSBlast, conf.Exec.MMseqs); err != nil {
		stderr.Fatalln(err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := newFinder(flags, conf).searchOnly(ctx, flags.queries, flags.inteins, flags.out)
	if err != nil {
		stderr.Fatalln(err)
	}
	fmt.Printf("%d intein and %d conserved domain hits\n", len(results.inteinHits), len(results.cddHits))
}

// RegionsCmd prints the putative intein regions in a search results table.
func RegionsCmd(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		cmd.Help()
		stderr.Fatalln("\nno search results passed.")
	}

	hits, err := ReadHits(args[0])
	if err != nil {
		stderr.Fatalln(err)
	}
	regions, err := BuildRegions(hits)
	if err != nil {
		stderr.Fatalln(err)
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 3, ' ', 0)
	fmt.Fprintf(writer, "seq\tregion.id\tstart\tend\tlen\t\n")
	for _, row := range regionRows(regions) {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t\n", row[0], row[1], row[2], row[3], row[4])
	}
	writer.Flush()
}

// TrimCmd removes the trimmable regions of a refined table from queries.
// Outputs are written to "<out>.trimmed.faa" and "<out>.inteins.faa".
func TrimCmd(cmd *cobra.Command, args []string) {
	flags, _ := parseCmdFlags(cmd, "queries", "refined", "out")

	queries, err := ReadUniqueFASTA(flags.queries)
	if err != nil {
		stderr.Fatalln(err)
	}
	refined, err := ReadRefined(flags.refined)
	if err != nil {
		stderr.Fatalln(err)
	}

	results, err := Trim(queries, refined)
	if err != nil {
		stderr.Fatalln(err)
	}

	if err := WriteFASTA(flags.out+".trimmed.faa", trimmedRecords(results)); err != nil {
		stderr.Fatalln(err)
	}
	if err := WriteFASTA(flags.out+".inteins.faa", inteinRecords(results)); err != nil {
		stderr.Fatalln(err)
	}
}

// TestSeqsCmd inserts inteins into queries to make test sequences. The
// test sequences go to "<out>.faa" and the refined regions expected from
// screening them to "<out>.expected.tsv".
func TestSeqsCmd(cmd *cobra.Command, args []string) {
	flags, _ := parseCmdFlags(cmd, "queries", "out")

	queries, err := ReadFASTA(flags.queries)
	if err != nil {
		stderr.Fatalln(err)
	}
	inteins, err := ReadFASTA(flags.inteins)
	if err != nil {
		stderr.Fatalln(err)
	}

	seed := flags.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	seqs, expected, err := insertInteins(queries, inteins, rand.New(rand.NewSource(seed)))
	if err != nil {
		stderr.Fatalln(err)
	}

	base := strings.TrimSuffix(flags.out, filepath.Ext(flags.out))
	if err := WriteFASTA(base+".faa", seqs); err != nil {
		stderr.Fatalln(err)
	}
	if err := WriteRefined(base+".expected.tsv", expected, true); err != nil {
		stderr.Fatalln(err)
	}
}

// CheckCmd compares a refined table of test sequences with their headers
// and prints the regions that don't match.
func CheckCmd(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		cmd.Help()
		stderr.Fatalln("\nno refined regions table passed.")
	}

	refined, err := ReadRefined(args[0])
	if err != nil {
		stderr.Fatalln(err)
	}
	failed, err := checkRefined(refined)
	if err != nil {
		stderr.Fatalln(err)
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 3, ' ', 0)
	fmt.Fprintf(writer, "seq\tgood.target\tgood.start\tgood.stop\tgood.trimmable\t\n")
	for _, c := range failed {
		fmt.Fprintf(writer, "%s\t%t\t%t\t%t\t%t\t\n", c.Query, c.GoodTarget, c.GoodStart, c.GoodEnd, c.GoodTrimmable)
	}
	writer.Flush()

	if len(failed) > 0 {
		stderr.Fatalf("%d of %d regions didn't match their test sequence", len(failed), len(refined))
	}
}
