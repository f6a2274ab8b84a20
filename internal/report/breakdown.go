// Package report prepares the data handed to the report renderer: the
// variant-type frequency breakdown and trait descriptions.
package report

import (
	"math"

	"github.com/aeiwz/wgs-report-tools/internal/vcf"
)

// TypeCount is the frequency of one variant type across the whole
// variant table.
type TypeCount struct {
	Type    vcf.VariantType
	Count   int
	Percent float64 // share of all variants, rounded to two decimals
}

// TypeBreakdown computes per-type counts and percentages over all variants.
// Types with zero occurrences are included so the renderer always sees the
// full set. An empty variant table yields all-zero percentages.
func TypeBreakdown(variants []*vcf.Variant) []TypeCount {
	counts := make(map[vcf.VariantType]int, 4)
	for _, v := range variants {
		counts[v.Type]++
	}

	total := len(variants)
	breakdown := make([]TypeCount, 0, 4)
	for _, t := range vcf.Types() {
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(counts[t])/float64(total)*100*100) / 100
		}
		breakdown = append(breakdown, TypeCount{
			Type:    t,
			Count:   counts[t],
			Percent: pct,
		})
	}
	return breakdown
}

// PassCount returns the number of variants with FILTER == PASS.
func PassCount(variants []*vcf.Variant) int {
	n := 0
	for _, v := range variants {
		if v.IsPass() {
			n++
		}
	}
	return n
}
