// Package annotate merges variant records with GWAS catalog loci and
// aggregates the matches into per-trait summaries.
package annotate

import (
	"gopkg.in/guregu/null.v3"

	"github.com/aeiwz/wgs-report-tools/internal/vcf"
)

// Record is one surviving variant-catalog match: the inner-join result of
// a variant and a catalog locus on (chromosome, position).
type Record struct {
	Chrom       string
	Pos         int64
	VariantID   string
	Ref         string
	Alt         string
	Qual        float64
	Filter      string
	VariantType vcf.VariantType

	DiseaseTrait        string
	RiskAlleleFrequency null.Float
	PValue              null.Float
	Region              string
	SNPID               string
	MappedGene          string
	TraitGroup          string
	TraitURI            string
	TraitDescription    string
}

// TraitSummary is one row per unique disease/trait, carrying the fields of
// the representative match chosen by the aggregation tie-break rule.
type TraitSummary struct {
	DiseaseTrait        string
	RiskAlleleFrequency null.Float
	PValue              null.Float
	Region              string
	SNPID               string
	MappedGene          string
	TraitGroup          string
	TraitURI            string
	TraitDescription    string

	// RiskAlleleFrequencyPercent is RiskAlleleFrequency * 100. Summaries
	// whose frequency is missing are dropped before this is computed.
	RiskAlleleFrequencyPercent float64
}
