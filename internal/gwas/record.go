// Package gwas provides GWAS catalog parsing and locus reconciliation.
package gwas

import "gopkg.in/guregu/null.v3"

// Record is one association row of the GWAS catalog source, as loaded.
// ChrID and ChrPos keep their raw text form: a single row may list several
// candidate chromosomes ("7;12") or several positions ("100 x 200") and is
// resolved by the Reconciler before any join.
type Record struct {
	ChrID               string
	ChrPos              string
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

// Locus is a catalog record resolved to exactly one chromosome and position.
// Chrom carries the canonical "chr" prefix; Pos is the parsed position.
// PosValid is false when the position token failed to parse and Pos was
// coerced to the sentinel 0.
type Locus struct {
	Chrom    string
	Pos      int64
	PosValid bool
	Record
}
