package intein

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inteinfinder/inteinfinder/config"
)

// ErrOutdirExists is returned when the output directory is already there.
var ErrOutdirExists = errors.New("output directory already exists")

// Screening is everything found for a set of queries.
type Screening struct {
	// Regions are the putative intein regions of queries with hits
	Regions map[string][]Region

	// Outcomes are every intein alignment checked
	Outcomes []Outcome

	Refined []RefinedRegion
	Trimmed []TrimResult
}

// Screen finds, validates and trims the inteins in queries given the hits of
// both searches. Hits must use the queries' ids.
func Screen(
	ctx context.Context,
	queries, inteins []Record,
	inteinHits, cddHits []Hit,
	aligner Aligner,
	conf *config.Config,
) (*Screening, error) {
	querySeqs, err := recordMap(queries)
	if err != nil {
		return nil, fmt.Errorf("queries: %w", err)
	}
	inteinSeqs, err := recordMap(inteins)
	if err != nil {
		return nil, fmt.Errorf("inteins: %w", err)
	}

	all := make([]Hit, 0, len(inteinHits)+len(cddHits))
	all = append(all, cddHits...)
	all = append(all, inteinHits...)
	for _, h := range all {
		if _, ok := querySeqs[h.Query]; !ok {
			return nil, fmt.Errorf("%w: hit on query %s", ErrUnknownSequence, h.Query)
		}
	}
	regions, err := BuildRegions(all)
	if err != nil {
		return nil, err
	}

	index, err := NewRegionIndex(regions)
	if err != nil {
		return nil, err
	}

	v := &validator{
		aligner:    aligner,
		queries:    querySeqs,
		inteins:    inteinSeqs,
		regions:    index,
		serial:     conf.Alignment.Serial,
		workers:    conf.CPUs,
		padding:    conf.Alignment.Padding,
		strictness: conf.Alignment.Strictness,
		verbose:    conf.Verbose,
	}
	if conf.Verbose {
		stderr.Printf("checking %d intein hits in %d queries\n", len(inteinHits), len(regions))
	}
	outcomes, err := v.validate(ctx, inteinHits)
	if err != nil {
		return nil, err
	}

	refined := Refine(regions, outcomes, conf.Region)
	trimmed, err := Trim(queries, refined)
	if err != nil {
		return nil, err
	}

	return &Screening{
		Regions:  regions,
		Outcomes: outcomes,
		Refined:  refined,
		Trimmed:  trimmed,
	}, nil
}

// outputs are the names of the files written to the output directory.
type outputs struct {
	dir  string
	base string
}

func newOutputs(dir, queries string) outputs {
	base := filepath.Base(queries)
	return outputs{dir: dir, base: strings.TrimSuffix(base, filepath.Ext(base))}
}

func (o outputs) file(suffix string) string {
	return filepath.Join(o.dir, o.base+"."+suffix)
}

func (o outputs) tmp() string {
	return filepath.Join(o.dir, "tmp")
}

// finder runs the whole pipeline for a query file.
type finder struct {
	conf    *config.Config
	runner  Runner
	aligner Aligner
}

// prepareOutdir creates the output and temporary directories. The output
// directory must not already exist.
func prepareOutdir(out outputs) error {
	if _, err := os.Stat(out.dir); err == nil {
		return fmt.Errorf("%w: %s", ErrOutdirExists, out.dir)
	}
	if err := os.MkdirAll(out.tmp(), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// searchOnly runs the searches of a query file into outdir without
// validating their hits. tmp is removed unless files are kept, even if a
// search fails.
func (f *finder) searchOnly(ctx context.Context, queriesFile, inteinDB, outdir string) (searchResults, error) {
	out := newOutputs(outdir, queriesFile)
	if err := prepareOutdir(out); err != nil {
		return searchResults{}, err
	}
	if !f.conf.Alignment.KeepFiles {
		defer os.RemoveAll(out.tmp())
	}

	queries, err := ReadUniqueFASTA(queriesFile)
	if err != nil {
		return searchResults{}, err
	}
	return f.search(ctx, queries, inteinDB, out)
}

// search runs both searches on queries long enough to be searched, writes
// the combined hits and returns them with the original query ids.
func (f *finder) search(ctx context.Context, queries []Record, inteinDB string, out outputs) (searchResults, error) {
	var searchable []Record
	for _, q := range queries {
		if len(q.Seq) >= f.conf.Search.MinQueryLength {
			searchable = append(searchable, q)
		} else if f.conf.Verbose {
			stderr.Printf("not searching %s, it is shorter than %d\n", q.ID, f.conf.Search.MinQueryLength)
		}
	}

	renamed, names := simpleHeaders(searchable)
	if err := writeNameMap(filepath.Join(out.tmp(), "name_map.tsv"), renamed, names); err != nil {
		return searchResults{}, err
	}

	s := &searcher{runner: f.runner, conf: f.conf, dir: out.tmp()}
	results, err := s.search(ctx, renamed, inteinDB)
	if err != nil {
		return searchResults{}, err
	}

	if results.inteinHits, err = restoreNames(results.inteinHits, names); err != nil {
		return searchResults{}, err
	}
	if results.cddHits, err = restoreNames(results.cddHits, names); err != nil {
		return searchResults{}, err
	}

	if err := writeHits(filepath.Join(out.dir, "all_search_results.tsv"), results.all()); err != nil {
		return searchResults{}, err
	}
	if err := writeInteinInfo(out.file("intein_info.tsv"), results.inteinHits, results.cddHits); err != nil {
		return searchResults{}, err
	}
	return results, nil
}

// find screens the queries in a FASTA file and writes every output to outdir.
func (f *finder) find(ctx context.Context, queriesFile, inteinDB, outdir string) (*Screening, error) {
	out := newOutputs(outdir, queriesFile)
	if err := prepareOutdir(out); err != nil {
		return nil, err
	}
	if !f.conf.Alignment.KeepFiles {
		defer os.RemoveAll(out.tmp())
	}

	queries, err := ReadUniqueFASTA(queriesFile)
	if err != nil {
		return nil, err
	}
	inteins, err := ReadFASTA(inteinDB)
	if err != nil {
		return nil, err
	}

	results, err := f.search(ctx, queries, inteinDB, out)
	if err != nil {
		return nil, err
	}

	screening, err := Screen(ctx, queries, inteins, results.inteinHits, results.cddHits, f.aligner, f.conf)
	if err != nil {
		return nil, err
	}

	if err := writeScreening(out, queries, results, screening, f.conf); err != nil {
		return nil, err
	}
	if err := f.conf.Write(filepath.Join(out.dir, "settings.yaml")); err != nil {
		return nil, err
	}
	return screening, nil
}

// writeScreening writes the tables and FASTA files of a screening.
func writeScreening(out outputs, queries []Record, results searchResults, s *Screening, conf *config.Config) error {
	if err := WriteRegions(out.file("putative_intein_regions.tsv"), s.Regions); err != nil {
		return err
	}
	if err := writeCriteriaFull(out.file("criteria_check_full.tsv"), s.Outcomes); err != nil {
		return err
	}
	if err := writeCriteriaCondensed(out.file("criteria_check_condensed.tsv"), s.Regions, s.Outcomes, conf.Alignment.Strictness, conf.Region.RefineEvalue); err != nil {
		return err
	}
	if err := WriteRefined(out.file("intein_regions_refined_full.tsv"), s.Refined, true); err != nil {
		return err
	}
	if err := WriteRefined(out.file("intein_regions_refined_condensed.tsv"), s.Refined, false); err != nil {
		return err
	}
	if err := WriteFASTA(out.file("trimmed.faa"), trimmedRecords(s.Trimmed)); err != nil {
		return err
	}
	if err := WriteFASTA(out.file("inteins.faa"), inteinRecords(s.Trimmed)); err != nil {
		return err
	}

	withHits := make(map[string]bool)
	for _, h := range results.all() {
		withHits[h.Query] = true
	}
	var hitRecords []Record
	for _, q := range queries {
		if withHits[q.ID] {
			hitRecords = append(hitRecords, q)
		}
	}
	return WriteFASTA(out.file("seqs_with_hits.faa"), hitRecords)
}
