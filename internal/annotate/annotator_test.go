package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/aeiwz/wgs-report-tools/internal/gwas"
	"github.com/aeiwz/wgs-report-tools/internal/vcf"
)

func makeVariant(chrom string, pos int64, ref, alt string, qual float64) *vcf.Variant {
	return &vcf.Variant{
		Chrom:  chrom,
		Pos:    pos,
		ID:     "rs_test",
		Ref:    ref,
		Alt:    alt,
		Qual:   qual,
		QualOK: true,
		Filter: "PASS",
		Type:   vcf.Classify(ref, alt),
	}
}

func makeLocus(chrom string, pos int64, trait string) gwas.Locus {
	return gwas.Locus{
		Chrom:    chrom,
		Pos:      pos,
		PosValid: true,
		Record: gwas.Record{
			DiseaseTrait: trait,
			SNPID:        "rs_test",
		},
	}
}

func TestAnnotateInnerJoin(t *testing.T) {
	variants := []*vcf.Variant{
		makeVariant("chr7", 100, "A", "G", 55),
		makeVariant("chr7", 999, "C", "T", 55), // no catalog counterpart
	}
	catalog := []gwas.Locus{
		makeLocus("chr7", 100, "Asthma"),
		makeLocus("chr12", 500, "Height"), // no variant counterpart
	}

	records := NewAnnotator(20, true).Annotate(variants, catalog)
	require.Len(t, records, 1)
	assert.Equal(t, "Asthma", records[0].DiseaseTrait)
	assert.Equal(t, "chr7", records[0].Chrom)
	assert.Equal(t, int64(100), records[0].Pos)
	assert.Equal(t, vcf.TypeSNP, records[0].VariantType)
}

func TestAnnotateOneVariantManyTraits(t *testing.T) {
	variants := []*vcf.Variant{makeVariant("chr10", 114758349, "C", "T", 80)}
	catalog := []gwas.Locus{
		makeLocus("chr10", 114758349, "Type 2 diabetes"),
		makeLocus("chr10", 114758349, "Gestational diabetes"),
	}

	records := NewAnnotator(20, true).Annotate(variants, catalog)
	require.Len(t, records, 2)
	assert.Equal(t, "Type 2 diabetes", records[0].DiseaseTrait)
	assert.Equal(t, "Gestational diabetes", records[1].DiseaseTrait)
}

func TestAnnotateQualityCutoff(t *testing.T) {
	variants := []*vcf.Variant{
		makeVariant("chr1", 10, "A", "G", 19.9),
		makeVariant("chr1", 20, "A", "G", 20),
	}
	catalog := []gwas.Locus{
		makeLocus("chr1", 10, "Below"),
		makeLocus("chr1", 20, "AtCutoff"),
	}

	records := NewAnnotator(20, true).Annotate(variants, catalog)
	require.Len(t, records, 1)
	assert.Equal(t, "AtCutoff", records[0].DiseaseTrait)
}

func TestAnnotateMissingQualNeverPasses(t *testing.T) {
	v := makeVariant("chr1", 10, "A", "G", 0)
	v.QualOK = false
	catalog := []gwas.Locus{makeLocus("chr1", 10, "Asthma")}

	records := NewAnnotator(0, true).Annotate([]*vcf.Variant{v}, catalog)
	assert.Empty(t, records)
}

func TestAnnotateDropsMissingTrait(t *testing.T) {
	variants := []*vcf.Variant{makeVariant("chr1", 10, "A", "G", 55)}
	catalog := []gwas.Locus{makeLocus("chr1", 10, "")}

	records := NewAnnotator(20, true).Annotate(variants, catalog)
	assert.Empty(t, records)
}

func TestAnnotateNRFilter(t *testing.T) {
	variants := []*vcf.Variant{makeVariant("chr1", 10, "A", "G", 55)}
	catalog := []gwas.Locus{makeLocus("chr1", 10, "NR")}

	assert.Empty(t, NewAnnotator(20, true).Annotate(variants, catalog))

	kept := NewAnnotator(20, false).Annotate(variants, catalog)
	require.Len(t, kept, 1)
	assert.Equal(t, "NR", kept[0].DiseaseTrait)
}

func TestAnnotateCarriesCatalogFields(t *testing.T) {
	variants := []*vcf.Variant{makeVariant("chr4", 9279546, "G", "T", 90)}
	catalog := []gwas.Locus{{
		Chrom:    "chr4",
		Pos:      9279546,
		PosValid: true,
		Record: gwas.Record{
			DiseaseTrait:        "Gout",
			RiskAlleleFrequency: null.FloatFrom(0.11),
			PValue:              null.FloatFrom(3e-40),
			Region:              "4p16.1",
			SNPID:               "rs2231142",
			MappedGene:          "ABCG2",
			TraitGroup:          "Metabolic",
			TraitURI:            "http://www.ebi.ac.uk/efo/EFO_0004274",
		},
	}}

	records := NewAnnotator(20, true).Annotate(variants, catalog)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "rs2231142", r.SNPID)
	assert.Equal(t, "ABCG2", r.MappedGene)
	assert.Equal(t, "4p16.1", r.Region)
	assert.Equal(t, "Metabolic", r.TraitGroup)
	require.True(t, r.PValue.Valid)
	assert.InDelta(t, 3e-40, r.PValue.Float64, 1e-50)
	assert.Equal(t, "G", r.Ref)
	assert.Equal(t, "T", r.Alt)
	assert.InDelta(t, 90.0, r.Qual, 1e-9)
}

func TestAnnotateEmptyInputs(t *testing.T) {
	a := NewAnnotator(20, true)
	assert.Empty(t, a.Annotate(nil, []gwas.Locus{makeLocus("chr1", 1, "A")}))
	assert.Empty(t, a.Annotate([]*vcf.Variant{makeVariant("chr1", 1, "A", "G", 50)}, nil))
}
