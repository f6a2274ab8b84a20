// Package vcf provides VCF file parsing and variant classification.
package vcf

import (
	"strings"
	"unicode/utf8"
)

// VariantType labels a variant by the shape of its ref/alt alleles.
type VariantType string

const (
	TypeSNP       VariantType = "SNPs"
	TypeInsertion VariantType = "INS"
	TypeDeletion  VariantType = "DEL"
	TypeComplex   VariantType = "COMPLEX"
)

// Types lists all variant types in report order.
func Types() []VariantType {
	return []VariantType{TypeSNP, TypeInsertion, TypeDeletion, TypeComplex}
}

// Variant represents a single genomic variant from a VCF file.
type Variant struct {
	Chrom  string                 // Chromosome name (e.g., "12", "chr12")
	Pos    int64                  // 1-based genomic position
	ID     string                 // Variant identifier (e.g., rs ID)
	Ref    string                 // Reference allele
	Alt    string                 // Alternate allele(s), comma-separated if multi-allelic
	Qual   float64                // Quality score
	QualOK bool                   // false when QUAL was "." or unparseable
	Filter string                 // Filter status (PASS or filter name)
	Info   map[string]interface{} // INFO field key-value pairs
	Type   VariantType            // Derived from (Ref, first Alt allele)
}

// Classify returns the variant type for a (ref, alt) allele pair.
// For multi-allelic alt values only the first allele is considered.
// Classification is total: every non-empty pair maps to exactly one type.
func Classify(ref, alt string) VariantType {
	if i := strings.IndexByte(alt, ','); i >= 0 {
		alt = alt[:i]
	}

	refLen := utf8.RuneCountInString(ref)
	altLen := utf8.RuneCountInString(alt)

	switch {
	case refLen == 1 && altLen == 1:
		return TypeSNP
	case refLen < altLen:
		return TypeInsertion
	case refLen > altLen:
		return TypeDeletion
	default:
		return TypeComplex
	}
}

// FirstAlt returns the first allele of a possibly multi-allelic ALT field.
func (v *Variant) FirstAlt() string {
	if i := strings.IndexByte(v.Alt, ','); i >= 0 {
		return v.Alt[:i]
	}
	return v.Alt
}

// IsPass returns true if the variant passed all filters.
func (v *Variant) IsPass() bool {
	return v.Filter == "PASS"
}

// CanonicalChrom returns the chromosome name with a "chr" prefix.
func (v *Variant) CanonicalChrom() string {
	return EnsureChrPrefix(v.Chrom)
}

// EnsureChrPrefix adds the "chr" prefix to a chromosome token if absent.
func EnsureChrPrefix(chrom string) string {
	if strings.HasPrefix(chrom, "chr") {
		return chrom
	}
	return "chr" + chrom
}
