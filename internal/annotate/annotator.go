package annotate

import (
	"go.uber.org/zap"

	"github.com/aeiwz/wgs-report-tools/internal/gwas"
	"github.com/aeiwz/wgs-report-tools/internal/vcf"
)

// Annotator joins variant records against reconciled catalog loci and
// applies the quality and relevance filters.
type Annotator struct {
	qualCutoff float64
	dropNR     bool
	logger     *zap.Logger
}

// NewAnnotator creates an annotator with the given quality cutoff.
// When dropNR is set, matches whose disease/trait is the literal "NR"
// (not reported) are removed.
func NewAnnotator(qualCutoff float64, dropNR bool) *Annotator {
	return &Annotator{
		qualCutoff: qualCutoff,
		dropNR:     dropNR,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for join statistics.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// locusKey is the equality join key shared by both sides.
type locusKey struct {
	chrom string
	pos   int64
}

// Annotate inner-joins variants with catalog loci on (chromosome, position).
// Variants below the quality cutoff are excluded, as are matches without a
// disease/trait. Unmatched rows on either side are discarded. Output order
// follows variant input order, then catalog order, so results are
// deterministic for a given pair of inputs.
func (a *Annotator) Annotate(variants []*vcf.Variant, catalog []gwas.Locus) []Record {
	byLocus := make(map[locusKey][]int, len(catalog))
	for i, l := range catalog {
		k := locusKey{chrom: l.Chrom, pos: l.Pos}
		byLocus[k] = append(byLocus[k], i)
	}

	var records []Record
	matchedVariants := 0
	for _, v := range variants {
		// Quality cutoff is a per-variant precondition, independent of
		// join outcome. Missing QUAL never passes.
		if !v.QualOK || v.Qual < a.qualCutoff {
			continue
		}

		k := locusKey{chrom: v.CanonicalChrom(), pos: v.Pos}
		matches := byLocus[k]
		if len(matches) == 0 {
			continue
		}

		matched := false
		for _, i := range matches {
			l := catalog[i]
			if l.DiseaseTrait == "" {
				continue
			}
			if a.dropNR && l.DiseaseTrait == "NR" {
				continue
			}

			matched = true
			records = append(records, Record{
				Chrom:               l.Chrom,
				Pos:                 l.Pos,
				VariantID:           v.ID,
				Ref:                 v.Ref,
				Alt:                 v.Alt,
				Qual:                v.Qual,
				Filter:              v.Filter,
				VariantType:         v.Type,
				DiseaseTrait:        l.DiseaseTrait,
				RiskAlleleFrequency: l.RiskAlleleFrequency,
				PValue:              l.PValue,
				Region:              l.Region,
				SNPID:               l.SNPID,
				MappedGene:          l.MappedGene,
				TraitGroup:          l.TraitGroup,
				TraitURI:            l.TraitURI,
				TraitDescription:    l.TraitDescription,
			})
		}
		if matched {
			matchedVariants++
		}
	}

	a.logger.Info("annotated variants against catalog",
		zap.Int("variants", len(variants)),
		zap.Int("catalog_loci", len(catalog)),
		zap.Int("matched_variants", matchedVariants),
		zap.Int("annotations", len(records)))

	return records
}
