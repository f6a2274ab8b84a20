package gwas

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ReconcileStats reports data-quality counts from a reconciliation pass.
type ReconcileStats struct {
	RowsIn           int // catalog rows consumed
	RowsOut          int // loci produced (expansion only increases row count)
	MissingPosition  int // rows dropped for an empty position field
	InvalidPosition  int // expanded rows whose position was coerced to 0
	MultiLocusRows   int // rows that expanded into more than one locus
}

// Reconciler resolves catalog records whose chromosome/position fields may
// encode multiple loci into one Locus per (chromosome, position) pair.
type Reconciler struct {
	logger *zap.Logger
}

// NewReconciler creates a reconciler with a no-op logger.
func NewReconciler() *Reconciler {
	return &Reconciler{logger: zap.NewNop()}
}

// SetLogger sets the logger for data-quality signals.
func (r *Reconciler) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Reconcile expands and canonicalizes catalog records.
//
// Rows with an empty position are dropped and counted. A position field
// joined by " x " or ";" is exploded into one locus per token, duplicating
// all other fields. The chromosome id keeps only its first candidate token
// and is prefixed with "chr". Position tokens that fail to parse are coerced
// to the sentinel 0 and flagged via Locus.PosValid.
func (r *Reconciler) Reconcile(records []Record) ([]Locus, ReconcileStats) {
	stats := ReconcileStats{RowsIn: len(records)}

	loci := make([]Locus, 0, len(records))
	for _, rec := range records {
		rawPos := strings.TrimSpace(rec.ChrPos)
		if rawPos == "" {
			stats.MissingPosition++
			continue
		}

		chrom := CanonicalChrom(rec.ChrID)

		tokens := splitPositions(rawPos)
		if len(tokens) > 1 {
			stats.MultiLocusRows++
		}
		for _, tok := range tokens {
			pos, ok := parsePosition(tok)
			if !ok {
				stats.InvalidPosition++
				r.logger.Debug("unparseable catalog position coerced to sentinel",
					zap.String("chrom", chrom),
					zap.String("position", tok),
					zap.String("trait", rec.DiseaseTrait))
			}
			loci = append(loci, Locus{
				Chrom:    chrom,
				Pos:      pos,
				PosValid: ok,
				Record:   rec,
			})
		}
	}

	stats.RowsOut = len(loci)

	if stats.MissingPosition > 0 {
		r.logger.Info("dropped catalog rows with missing position",
			zap.Int("count", stats.MissingPosition))
	}
	if stats.InvalidPosition > 0 {
		r.logger.Warn("coerced unparseable catalog positions to sentinel 0",
			zap.Int("count", stats.InvalidPosition))
	}

	return loci, stats
}

// splitPositions normalizes an "x"-joined position list to a semicolon-joined
// list and splits it into individual tokens.
func splitPositions(raw string) []string {
	raw = strings.ReplaceAll(raw, " x ", ";")
	parts := strings.Split(raw, ";")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		tokens = append(tokens, strings.TrimSpace(p))
	}
	return tokens
}

// CanonicalChrom derives the canonical chromosome identifier from a raw
// catalog chromosome field: only the first semicolon-separated candidate is
// kept, any " x "-joined remainder is cut, a trailing ".0" float artifact is
// stripped, and the literal "chr" prefix is applied.
func CanonicalChrom(raw string) string {
	chrom := strings.TrimSpace(raw)
	if i := strings.IndexByte(chrom, ';'); i >= 0 {
		chrom = chrom[:i]
	}
	if i := strings.Index(chrom, " x "); i >= 0 {
		chrom = chrom[:i]
	}
	chrom = strings.TrimSuffix(strings.TrimSpace(chrom), ".0")
	return "chr" + chrom
}

// parsePosition converts a single position token to an integer. Fractional
// forms like "123456.0" are accepted; anything unparseable reports false.
func parsePosition(tok string) (int64, bool) {
	if pos, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return pos, true
	}
	if f := ParseNumber(tok); f.Valid {
		return int64(f.Float64), true
	}
	return 0, false
}
