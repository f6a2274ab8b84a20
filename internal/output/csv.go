// Package output writes the pipeline's CSV artifacts: the annotated join
// table, the per-trait summary, and the expanded catalog cache.
package output

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/klauspost/pgzip"
	"gopkg.in/guregu/null.v3"

	"github.com/aeiwz/wgs-report-tools/internal/annotate"
	"github.com/aeiwz/wgs-report-tools/internal/gwas"
)

// annotatedRow is the CSV shape of one variant-catalog match.
type annotatedRow struct {
	Chrom            string     `csv:"CHROM"`
	Pos              int64      `csv:"POS"`
	ID               string     `csv:"ID"`
	Ref              string     `csv:"REF"`
	Alt              string     `csv:"ALT"`
	Qual             float64    `csv:"QUAL"`
	Filter           string     `csv:"FILTER"`
	Type             string     `csv:"TYPE"`
	DiseaseTrait     string     `csv:"DISEASE/TRAIT"`
	RiskAlleleFreq   null.Float `csv:"RISK ALLELE FREQUENCY"`
	PValue           null.Float `csv:"P-VALUE"`
	Region           string     `csv:"REGION"`
	SNPs             string     `csv:"SNPS"`
	MappedGene       string     `csv:"MAPPED_GENE"`
	TraitGroup       string     `csv:"Groups of Disease/Trait"`
	TraitURI         string     `csv:"MAPPED_TRAIT_URI"`
	TraitDescription string     `csv:"MAPPED_TRAIT_DESCRIPTION"`
}

// summaryRow is the CSV shape of one trait summary.
type summaryRow struct {
	DiseaseTrait     string     `csv:"DISEASE/TRAIT"`
	RiskAlleleFreq   null.Float `csv:"RISK ALLELE FREQUENCY"`
	PValue           null.Float `csv:"P-VALUE"`
	Region           string     `csv:"REGION"`
	SNPs             string     `csv:"SNPS"`
	MappedGene       string     `csv:"MAPPED_GENE"`
	TraitGroup       string     `csv:"Groups of Disease/Trait"`
	TraitURI         string     `csv:"MAPPED_TRAIT_URI"`
	TraitDescription string     `csv:"MAPPED_TRAIT_DESCRIPTION"`
	RAFPercent       float64    `csv:"RAF (%)"`
}

// catalogRow is the CSV shape of one reconciled catalog locus.
type catalogRow struct {
	ChrID            string     `csv:"CHR_ID"`
	ChrPos           int64      `csv:"CHR_POS"`
	DiseaseTrait     string     `csv:"DISEASE/TRAIT"`
	RiskAlleleFreq   null.Float `csv:"RISK ALLELE FREQUENCY"`
	PValue           null.Float `csv:"P-VALUE"`
	Region           string     `csv:"REGION"`
	SNPs             string     `csv:"SNPS"`
	MappedGene       string     `csv:"MAPPED_GENE"`
	TraitGroup       string     `csv:"Groups of Disease/Trait"`
	TraitURI         string     `csv:"MAPPED_TRAIT_URI"`
	TraitDescription string     `csv:"MAPPED_TRAIT_DESCRIPTION"`
}

// WriteAnnotatedCSV persists the annotated join table to path.
func WriteAnnotatedCSV(path string, records []annotate.Record) error {
	rows := make([]*annotatedRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, &annotatedRow{
			Chrom:            r.Chrom,
			Pos:              r.Pos,
			ID:               r.VariantID,
			Ref:              r.Ref,
			Alt:              r.Alt,
			Qual:             r.Qual,
			Filter:           r.Filter,
			Type:             string(r.VariantType),
			DiseaseTrait:     r.DiseaseTrait,
			RiskAlleleFreq:   r.RiskAlleleFrequency,
			PValue:           r.PValue,
			Region:           r.Region,
			SNPs:             r.SNPID,
			MappedGene:       r.MappedGene,
			TraitGroup:       r.TraitGroup,
			TraitURI:         r.TraitURI,
			TraitDescription: r.TraitDescription,
		})
	}
	return writeCSV(path, &rows)
}

// WriteTraitSummaryCSV persists the per-trait summary table to path,
// preserving its sort order and adding the numeric "RAF (%)" column.
func WriteTraitSummaryCSV(path string, summaries []annotate.TraitSummary) error {
	rows := make([]*summaryRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, &summaryRow{
			DiseaseTrait:     s.DiseaseTrait,
			RiskAlleleFreq:   s.RiskAlleleFrequency,
			PValue:           s.PValue,
			Region:           s.Region,
			SNPs:             s.SNPID,
			MappedGene:       s.MappedGene,
			TraitGroup:       s.TraitGroup,
			TraitURI:         s.TraitURI,
			TraitDescription: s.TraitDescription,
			RAFPercent:       roundPercent(s.RiskAlleleFrequencyPercent),
		})
	}
	return writeCSV(path, &rows)
}

// WriteExpandedCatalog persists a reconciled catalog so a pre-expanded
// catalog can be reused. Output is gzip-compressed when path ends in ".gz".
func WriteExpandedCatalog(path string, loci []gwas.Locus) error {
	rows := make([]*catalogRow, 0, len(loci))
	for _, l := range loci {
		rows = append(rows, &catalogRow{
			ChrID:            l.Chrom,
			ChrPos:           l.Pos,
			DiseaseTrait:     l.DiseaseTrait,
			RiskAlleleFreq:   l.RiskAlleleFrequency,
			PValue:           l.PValue,
			Region:           l.Region,
			SNPs:             l.SNPID,
			MappedGene:       l.MappedGene,
			TraitGroup:       l.TraitGroup,
			TraitURI:         l.TraitURI,
			TraitDescription: l.TraitDescription,
		})
	}
	return writeCSV(path, &rows)
}

// writeCSV marshals rows to path, compressing when the name asks for it.
// A failed write never leaves a partial artifact behind.
func writeCSV(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	var w io.Writer = f
	var gz *pgzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = pgzip.NewWriter(f)
		w = gz
	}

	err = gocsv.Marshal(rows, w)
	if err == nil && gz != nil {
		err = gz.Close()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// roundPercent trims float noise (0.1*100 = 10.000000000000002) from the
// percentage column of the artifact.
func roundPercent(pct float64) float64 {
	return math.Round(pct*1e6) / 1e6
}
