package vcf

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		alt  string
		want VariantType
	}{
		{"snp", "A", "G", TypeSNP},
		{"insertion", "A", "ATG", TypeInsertion},
		{"deletion", "AT", "A", TypeDeletion},
		{"complex equal length", "AT", "GC", TypeComplex},
		{"single to single multiallelic", "A", "G,T", TypeSNP},
		{"multiallelic uses first allele", "A", "ATG,T", TypeInsertion},
		{"deletion with long alt second", "ATT", "A,ATTTT", TypeDeletion},
		{"symbolic equal length", "NN", "NN", TypeComplex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.ref, tt.alt); got != tt.want {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.ref, tt.alt, got, tt.want)
			}
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Every non-empty (ref, alt) pair must map to exactly one known type.
	alleles := []string{"A", "AT", "ATG", "C", "GCA", "T,G", "N"}
	known := map[VariantType]bool{
		TypeSNP: true, TypeInsertion: true, TypeDeletion: true, TypeComplex: true,
	}

	for _, ref := range alleles {
		for _, alt := range alleles {
			if !known[Classify(ref, alt)] {
				t.Errorf("Classify(%q, %q) returned unknown type", ref, alt)
			}
		}
	}
}

func TestFirstAlt(t *testing.T) {
	v := &Variant{Alt: "C,T,G"}
	if got := v.FirstAlt(); got != "C" {
		t.Errorf("FirstAlt() = %q, want C", got)
	}

	v = &Variant{Alt: "C"}
	if got := v.FirstAlt(); got != "C" {
		t.Errorf("FirstAlt() = %q, want C", got)
	}
}

func TestCanonicalChrom(t *testing.T) {
	tests := []struct {
		chrom string
		want  string
	}{
		{"7", "chr7"},
		{"chr7", "chr7"},
		{"X", "chrX"},
		{"chrMT", "chrMT"},
	}

	for _, tt := range tests {
		v := &Variant{Chrom: tt.chrom}
		if got := v.CanonicalChrom(); got != tt.want {
			t.Errorf("CanonicalChrom(%q) = %q, want %q", tt.chrom, got, tt.want)
		}
	}
}

func TestIsPass(t *testing.T) {
	if !(&Variant{Filter: "PASS"}).IsPass() {
		t.Error("PASS filter should report true")
	}
	if (&Variant{Filter: "LowQual"}).IsPass() {
		t.Error("LowQual filter should report false")
	}
}
