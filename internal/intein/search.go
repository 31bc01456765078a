package intein

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/inteinfinder/inteinfinder/config"
	"golang.org/x/sync/errgroup"
)

// Runner executes an external program.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// execRunner runs programs on the local machine.
type execRunner struct{}

// Run executes the program and waits on it to finish.
func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to execute %s %s: %s: %w", name, strings.Join(args, " "), string(output), err)
	}
	return nil
}

// searcher runs the conserved domain and intein database searches.
type searcher struct {
	runner Runner
	conf   *config.Config

	// directory for the profile database, splits and search output
	dir string
}

// pssmList writes the list of .smp files given to makeprofiledb and checks
// that each exists.
func (s *searcher) pssmList() (string, error) {
	var paths []string
	if s.conf.Search.PSSMList != "" {
		contents, err := os.ReadFile(s.conf.Search.PSSMList)
		if err != nil {
			return "", fmt.Errorf("failed to read pssm list: %w", err)
		}
		paths = strings.Fields(string(contents))
	} else {
		paths = s.conf.PSSMPaths()
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("pssm %s is missing: %w", p, err)
		}
	}

	filename := filepath.Join(s.dir, "pssm_list.txt")
	if err := os.WriteFile(filename, []byte(strings.Join(paths, "\n")+"\n"), 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// profileDB builds the rpsblast database of conserved domain models.
func (s *searcher) profileDB(ctx context.Context) (string, error) {
	list, err := s.pssmList()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(s.dir, "profile_db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	db := filepath.Join(dbDir, "intein_db")

	if err := s.runner.Run(ctx, s.conf.Exec.MakeProfileDB, "-in", list, "-out", db); err != nil {
		return "", err
	}
	return db, nil
}

// rpsblastArgs are the arguments to search one split against the profile database.
func (s *searcher) rpsblastArgs(db, query, out string) []string {
	return []string{
		"-db", db,
		"-query", query,
		"-evalue", strconv.FormatFloat(s.conf.Search.EvalueRPSBlast, 'g', -1, 64),
		"-outfmt", "6 qseqid sseqid pident length mismatch gapopen qstart qend sstart send evalue bitscore qlen slen",
		"-out", out,
	}
}

// rpsblast searches every split in parallel and returns the output files.
func (s *searcher) rpsblast(ctx context.Context, db string, splits []string) ([]string, error) {
	outs := make([]string, len(splits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.conf.CPUs)
	for i, split := range splits {
		i, split := i, split
		outs[i] = split + ".rpsblast.tsv"
		g.Go(func() error {
			return s.runner.Run(gctx, s.conf.Exec.RPSBlast, s.rpsblastArgs(db, split, outs[i])...)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outs, nil
}

// mmseqsArgs are the arguments to search the queries against the intein database.
func (s *searcher) mmseqsArgs(queries, inteins, out, tmp string) []string {
	return []string{
		"easy-search",
		queries,
		inteins,
		out,
		tmp,
		"--format-mode", "2",
		"-s", strconv.FormatFloat(s.conf.Search.Sensitivity, 'g', -1, 64),
		"--num-iterations", strconv.Itoa(s.conf.Search.Iterations),
		"-e", strconv.FormatFloat(s.conf.Search.EvalueMMseqs, 'g', -1, 64),
		"--threads", strconv.Itoa(s.conf.CPUs),
	}
}

// searchResults are the hits of both searches, with query ids as searched.
type searchResults struct {
	inteinHits []Hit
	cddHits    []Hit
}

func (r searchResults) all() []Hit {
	all := make([]Hit, 0, len(r.inteinHits)+len(r.cddHits))
	all = append(all, r.cddHits...)
	return append(all, r.inteinHits...)
}

// search runs both homology searches on a query file.
func (s *searcher) search(ctx context.Context, queries []Record, inteinDB string) (searchResults, error) {
	db, err := s.profileDB(ctx)
	if err != nil {
		return searchResults{}, err
	}

	splitFiles, err := writeSplits(s.dir, "queries", splitRecords(queries, s.conf.CPUs))
	if err != nil {
		return searchResults{}, err
	}
	if s.conf.Verbose {
		stderr.Printf("running rpsblast on %d splits\n", len(splitFiles))
	}

	rpsOuts, err := s.rpsblast(ctx, db, splitFiles)
	if err != nil {
		return searchResults{}, err
	}

	var results searchResults
	for _, out := range rpsOuts {
		hits, err := ReadHits(out)
		if err != nil {
			return searchResults{}, err
		}
		results.cddHits = append(results.cddHits, hits...)
	}

	all := filepath.Join(s.dir, "queries.faa")
	if err := WriteFASTA(all, queries); err != nil {
		return searchResults{}, err
	}

	mmseqsOut := filepath.Join(s.dir, "mmseqs_results.tsv")
	mmseqsTmp := filepath.Join(s.dir, "mmseqs_tmp")
	if s.conf.Verbose {
		stderr.Println("running mmseqs against", inteinDB)
	}
	if err := s.runner.Run(ctx, s.conf.Exec.MMseqs, s.mmseqsArgs(all, inteinDB, mmseqsOut, mmseqsTmp)...); err != nil {
		return searchResults{}, err
	}
	if results.inteinHits, err = ReadHits(mmseqsOut); err != nil {
		return searchResults{}, err
	}

	return results, nil
}

// lookPath checks that the external programs are available.
func lookPath(programs ...string) error {
	for _, p := range programs {
		if _, err := exec.LookPath(p); err != nil {
			return fmt.Errorf("%s is not available: %w", p, err)
		}
	}
	return nil
}
