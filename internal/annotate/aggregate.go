package annotate

import (
	"math"
	"sort"
)

// Aggregate collapses annotated records into one summary per unique
// disease/trait. Within a trait group the representative row is the one
// with the lowest p-value; ties fall back to the highest risk-allele
// frequency, then to the lexicographically smallest SNP id so the result
// does not depend on input ordering. Summaries whose risk-allele frequency
// is missing are dropped. The result is sorted by frequency percentage
// descending, trait name ascending.
func Aggregate(records []Record) []TraitSummary {
	best := make(map[string]Record, len(records))
	for _, r := range records {
		cur, ok := best[r.DiseaseTrait]
		if !ok || betterRepresentative(r, cur) {
			best[r.DiseaseTrait] = r
		}
	}

	summaries := make([]TraitSummary, 0, len(best))
	for _, r := range best {
		if !r.RiskAlleleFrequency.Valid {
			continue
		}
		summaries = append(summaries, TraitSummary{
			DiseaseTrait:               r.DiseaseTrait,
			RiskAlleleFrequency:        r.RiskAlleleFrequency,
			PValue:                     r.PValue,
			Region:                     r.Region,
			SNPID:                      r.SNPID,
			MappedGene:                 r.MappedGene,
			TraitGroup:                 r.TraitGroup,
			TraitURI:                   r.TraitURI,
			TraitDescription:           r.TraitDescription,
			RiskAlleleFrequencyPercent: r.RiskAlleleFrequency.Float64 * 100,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].RiskAlleleFrequencyPercent != summaries[j].RiskAlleleFrequencyPercent {
			return summaries[i].RiskAlleleFrequencyPercent > summaries[j].RiskAlleleFrequencyPercent
		}
		return summaries[i].DiseaseTrait < summaries[j].DiseaseTrait
	})

	return summaries
}

// betterRepresentative reports whether a should replace b as the
// representative row for a trait.
func betterRepresentative(a, b Record) bool {
	ap, bp := pValueOrInf(a), pValueOrInf(b)
	if ap != bp {
		return ap < bp
	}

	af, bf := rafOrNegInf(a), rafOrNegInf(b)
	if af != bf {
		return af > bf
	}

	return a.SNPID < b.SNPID
}

// pValueOrInf treats a missing p-value as worse than any reported one.
func pValueOrInf(r Record) float64 {
	if !r.PValue.Valid {
		return math.Inf(1)
	}
	return r.PValue.Float64
}

// rafOrNegInf treats a missing frequency as lower than any reported one.
func rafOrNegInf(r Record) float64 {
	if !r.RiskAlleleFrequency.Valid {
		return math.Inf(-1)
	}
	return r.RiskAlleleFrequency.Float64
}
