package gwas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func TestReconcileExpandsPositions(t *testing.T) {
	records := []Record{
		{ChrID: "7", ChrPos: "100 x 200", DiseaseTrait: "Asthma"},
	}

	loci, stats := NewReconciler().Reconcile(records)
	require.Len(t, loci, 2)

	assert.Equal(t, "chr7", loci[0].Chrom)
	assert.Equal(t, int64(100), loci[0].Pos)
	assert.Equal(t, "chr7", loci[1].Chrom)
	assert.Equal(t, int64(200), loci[1].Pos)
	assert.True(t, loci[0].PosValid)
	assert.True(t, loci[1].PosValid)

	assert.Equal(t, 1, stats.MultiLocusRows)
	assert.Equal(t, 2, stats.RowsOut)
}

func TestReconcileSemicolonPositions(t *testing.T) {
	records := []Record{
		{ChrID: "2", ChrPos: "300;400;500", DiseaseTrait: "Height"},
	}

	loci, _ := NewReconciler().Reconcile(records)
	require.Len(t, loci, 3)
	for i, want := range []int64{300, 400, 500} {
		assert.Equal(t, want, loci[i].Pos)
	}
}

func TestReconcileDropsMissingPositions(t *testing.T) {
	records := []Record{
		{ChrID: "1", ChrPos: "", DiseaseTrait: "Migraine"},
		{ChrID: "2", ChrPos: "  ", DiseaseTrait: "Gout"},
		{ChrID: "3", ChrPos: "12345", DiseaseTrait: "Asthma"},
	}

	loci, stats := NewReconciler().Reconcile(records)
	require.Len(t, loci, 1)
	assert.Equal(t, "Asthma", loci[0].DiseaseTrait)
	assert.Equal(t, 2, stats.MissingPosition)
}

func TestReconcileInvalidPositionSentinel(t *testing.T) {
	records := []Record{
		{ChrID: "5", ChrPos: "garbage", DiseaseTrait: "Obesity"},
	}

	loci, stats := NewReconciler().Reconcile(records)
	require.Len(t, loci, 1)
	assert.Equal(t, int64(0), loci[0].Pos)
	assert.False(t, loci[0].PosValid)
	assert.Equal(t, 1, stats.InvalidPosition)
}

func TestReconcileFractionalPosition(t *testing.T) {
	// Float artifacts like "114758349.0" survive numeric re-export
	records := []Record{
		{ChrID: "10", ChrPos: "114758349.0", DiseaseTrait: "Type 2 diabetes"},
	}

	loci, _ := NewReconciler().Reconcile(records)
	require.Len(t, loci, 1)
	assert.Equal(t, int64(114758349), loci[0].Pos)
	assert.True(t, loci[0].PosValid)
}

func TestReconcilePreservesOtherFields(t *testing.T) {
	// Expansion duplicates all non-position fields verbatim
	rec := Record{
		ChrID:               "7",
		ChrPos:              "100;200",
		DiseaseTrait:        "Asthma",
		RiskAlleleFrequency: null.FloatFrom(0.25),
		PValue:              null.FloatFrom(5e-8),
		Region:              "7q22.3",
		SNPID:               "rs1001",
		MappedGene:          "GENE1",
		TraitGroup:          "Respiratory",
		TraitURI:            "http://purl.obolibrary.org/obo/MONDO_0004979",
	}

	loci, _ := NewReconciler().Reconcile([]Record{rec})
	require.Len(t, loci, 2)
	for _, l := range loci {
		assert.Equal(t, rec.DiseaseTrait, l.DiseaseTrait)
		assert.Equal(t, rec.RiskAlleleFrequency, l.RiskAlleleFrequency)
		assert.Equal(t, rec.PValue, l.PValue)
		assert.Equal(t, rec.Region, l.Region)
		assert.Equal(t, rec.SNPID, l.SNPID)
		assert.Equal(t, rec.MappedGene, l.MappedGene)
		assert.Equal(t, rec.TraitGroup, l.TraitGroup)
		assert.Equal(t, rec.TraitURI, l.TraitURI)
	}
}

func TestReconcileRowCountNeverShrinksOnExpansion(t *testing.T) {
	records := []Record{
		{ChrID: "1", ChrPos: "10", DiseaseTrait: "A"},
		{ChrID: "2", ChrPos: "20 x 30", DiseaseTrait: "B"},
		{ChrID: "3", ChrPos: "40;50;60", DiseaseTrait: "C"},
	}

	loci, stats := NewReconciler().Reconcile(records)
	assert.GreaterOrEqual(t, len(loci), len(records))
	assert.Equal(t, stats.RowsOut, len(loci))
}

func TestCanonicalChrom(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"7", "chr7"},
		{"7;12", "chr7"},
		{"7 x 12", "chr7"},
		{"3.0", "chr3"},
		{"X", "chrX"},
		{" 10 ", "chr10"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalChrom(tt.raw), "raw %q", tt.raw)
	}
}
