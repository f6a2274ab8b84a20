package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aeiwz/wgs-report-tools/internal/annotate"
	"github.com/aeiwz/wgs-report-tools/internal/duckdb"
	"github.com/aeiwz/wgs-report-tools/internal/gwas"
	"github.com/aeiwz/wgs-report-tools/internal/output"
	"github.com/aeiwz/wgs-report-tools/internal/report"
	"github.com/aeiwz/wgs-report-tools/internal/vcf"
)

// Artifact names under <out>/report/data/.
const (
	annotatedFileName = "annotated.csv"
	summaryFileName   = "trait_summary.csv"
)

type annotateOptions struct {
	vcfPath          string
	gwasPath         string
	outDir           string
	qualCutoff       float64
	keepNR           bool
	progress         bool
	dbPath           string
	descriptionsPath string
	saveCatalogPath  string
	noCache          bool
	verbose          bool
}

func newAnnotateCmd() *cobra.Command {
	var opts annotateOptions

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Map VCF variants to GWAS catalog associations",
		Long: `Annotate reads a VCF file and a GWAS catalog, joins them on genomic
position, and writes the annotated join table and a per-trait summary
under <out>/report/data/.`,
		Example: `  gwas-report annotate --vcf sample.vcf.gz --gwas catalog.csv.gz --out results/
  gwas-report annotate --vcf sample.vcf --out results/ --qual-cutoff 30 --keep-nr`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("qual-cutoff") {
				opts.qualCutoff = viper.GetFloat64("annotate.qual-cutoff")
			}
			if !cmd.Flags().Changed("keep-nr") {
				opts.keepNR = !viper.GetBool("annotate.drop-nr")
			}
			if opts.gwasPath == "" {
				opts.gwasPath = DefaultCatalogPath()
				if opts.gwasPath == "" {
					return fmt.Errorf("no GWAS catalog found; pass --gwas or run: gwas-report download")
				}
			}
			return runAnnotate(opts)
		},
	}

	cmd.Flags().StringVar(&opts.vcfPath, "vcf", "", "VCF path (.vcf or .vcf.gz), '-' for stdin")
	cmd.Flags().StringVar(&opts.gwasPath, "gwas", "", "GWAS catalog file (CSV/TSV, optionally gzipped; default: downloaded catalog)")
	cmd.Flags().StringVar(&opts.outDir, "out", "", "Output root directory")
	cmd.Flags().Float64Var(&opts.qualCutoff, "qual-cutoff", 20, "Minimum QUAL for a variant to be annotated")
	cmd.Flags().BoolVar(&opts.keepNR, "keep-nr", false, "Keep matches whose disease/trait is the literal \"NR\"")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "Show a progress bar while reading the catalog")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "Also persist annotations to a DuckDB database at this path")
	cmd.Flags().StringVar(&opts.descriptionsPath, "descriptions", "", "Trait URI to description mapping CSV (optional)")
	cmd.Flags().StringVar(&opts.saveCatalogPath, "save-catalog", "", "Write the reconciled catalog CSV to this path (optional)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Ignore the reconciled-catalog cache")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.MarkFlagRequired("vcf")
	cmd.MarkFlagRequired("out")

	return cmd
}

func runAnnotate(opts annotateOptions) error {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	dataDir := filepath.Join(opts.outDir, "report", "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dataDir, err)
	}

	// The variant and catalog tables are independent inputs; load and
	// normalize them concurrently, then join.
	var (
		wg         sync.WaitGroup
		variants   []*vcf.Variant
		vcfErr     error
		loci       []gwas.Locus
		catalogErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		variants, vcfErr = loadVariants(opts.vcfPath)
	}()
	go func() {
		defer wg.Done()
		loci, catalogErr = loadCatalog(opts, logger)
	}()
	wg.Wait()

	if vcfErr != nil {
		return vcfErr
	}
	if catalogErr != nil {
		return catalogErr
	}

	logger.Info("loaded variants",
		zap.String("vcf", opts.vcfPath),
		zap.Int("count", len(variants)),
		zap.Int("pass_filter", report.PassCount(variants)))

	if opts.saveCatalogPath != "" {
		if err := output.WriteExpandedCatalog(opts.saveCatalogPath, loci); err != nil {
			return err
		}
		logger.Info("wrote reconciled catalog", zap.String("path", opts.saveCatalogPath))
	}

	annotator := annotate.NewAnnotator(opts.qualCutoff, !opts.keepNR)
	annotator.SetLogger(logger)
	records := annotator.Annotate(variants, loci)

	annotatedPath := filepath.Join(dataDir, annotatedFileName)
	if err := output.WriteAnnotatedCSV(annotatedPath, records); err != nil {
		return err
	}
	logger.Info("wrote annotated join table", zap.String("path", annotatedPath))

	summaries := annotate.Aggregate(records)

	descs := report.Descriptions{}
	if opts.descriptionsPath != "" {
		descs, err = report.LoadDescriptions(opts.descriptionsPath)
		if err != nil {
			return err
		}
	}
	descs.Apply(summaries)

	summaryPath := filepath.Join(dataDir, summaryFileName)
	if err := output.WriteTraitSummaryCSV(summaryPath, summaries); err != nil {
		return err
	}
	logger.Info("wrote trait summary",
		zap.String("path", summaryPath),
		zap.Int("traits", len(summaries)))

	for _, tc := range report.TypeBreakdown(variants) {
		logger.Info("variant type",
			zap.String("type", string(tc.Type)),
			zap.Int("count", tc.Count),
			zap.Float64("percent", tc.Percent))
	}

	if opts.dbPath != "" {
		if err := persistToStore(opts, variants, records, summaries); err != nil {
			return err
		}
		logger.Info("persisted annotations", zap.String("db", opts.dbPath))
	}

	return nil
}

// loadVariants reads and classifies the whole variant table.
func loadVariants(path string) ([]*vcf.Variant, error) {
	parser, err := vcf.NewParser(path)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	return parser.ReadAll()
}

// loadCatalog loads, parses, and reconciles the GWAS catalog, going through
// the reconciled-catalog cache when the source file is unchanged.
func loadCatalog(opts annotateOptions, logger *zap.Logger) ([]gwas.Locus, error) {
	fp, err := duckdb.StatFile(opts.gwasPath)
	if err != nil {
		return nil, fmt.Errorf("stat catalog file %s: %w", opts.gwasPath, err)
	}

	cache := duckdb.NewCatalogCache(configDir())
	if !opts.noCache && cache.Valid(fp) {
		loci, err := cache.Load()
		if err == nil {
			logger.Info("loaded reconciled catalog from cache",
				zap.Int("loci", len(loci)))
			return loci, nil
		}
		logger.Warn("catalog cache unreadable, reparsing", zap.Error(err))
	}

	f, err := os.Open(opts.gwasPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog file %s: %w", opts.gwasPath, err)
	}
	defer f.Close()

	var records []gwas.Record
	if opts.progress {
		bar := pb.Full.Start64(fp.Size)
		bar.Set(pb.Bytes, true)
		defer bar.Finish()

		r, err := gwas.Decompress(bar.NewProxyReader(f))
		if err != nil {
			return nil, fmt.Errorf("read catalog file %s: %w", opts.gwasPath, err)
		}
		records, err = gwas.ReadCatalog(r)
		if err != nil {
			return nil, err
		}
	} else {
		r, err := gwas.Decompress(f)
		if err != nil {
			return nil, fmt.Errorf("read catalog file %s: %w", opts.gwasPath, err)
		}
		records, err = gwas.ReadCatalog(r)
		if err != nil {
			return nil, err
		}
	}

	reconciler := gwas.NewReconciler()
	reconciler.SetLogger(logger)
	loci, stats := reconciler.Reconcile(records)
	logger.Info("reconciled catalog",
		zap.Int("rows_in", stats.RowsIn),
		zap.Int("loci", stats.RowsOut),
		zap.Int("missing_position", stats.MissingPosition),
		zap.Int("invalid_position", stats.InvalidPosition),
		zap.Int("multi_locus_rows", stats.MultiLocusRows))

	if !opts.noCache {
		if err := cache.Write(loci, fp); err != nil {
			logger.Warn("could not write catalog cache", zap.Error(err))
		}
	}

	return loci, nil
}

// persistToStore writes the run's annotations and metadata to DuckDB.
func persistToStore(opts annotateOptions, variants []*vcf.Variant, records []annotate.Record, summaries []annotate.TraitSummary) error {
	store, err := duckdb.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WriteAnnotations(records); err != nil {
		return fmt.Errorf("persist annotations: %w", err)
	}

	return store.RecordRun(duckdb.RunInfo{
		CreatedAt:       time.Now().UTC(),
		VCFPath:         opts.vcfPath,
		CatalogPath:     opts.gwasPath,
		QualCutoff:      opts.qualCutoff,
		DropNR:          !opts.keepNR,
		VariantCount:    int64(len(variants)),
		AnnotationCount: int64(len(records)),
		TraitCount:      int64(len(summaries)),
	})
}

// configDir returns the tool's data directory (~/.gwas-report).
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gwas-report"
	}
	return filepath.Join(home, ".gwas-report")
}
