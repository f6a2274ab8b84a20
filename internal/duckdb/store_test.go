package duckdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/aeiwz/wgs-report-tools/internal/annotate"
	"github.com/aeiwz/wgs-report-tools/internal/vcf"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(chrom string, pos int64, trait string) annotate.Record {
	return annotate.Record{
		Chrom:               chrom,
		Pos:                 pos,
		VariantID:           "rs_test",
		Ref:                 "A",
		Alt:                 "G",
		Qual:                55,
		Filter:              "PASS",
		VariantType:         vcf.TypeSNP,
		DiseaseTrait:        trait,
		RiskAlleleFrequency: null.FloatFrom(0.25),
		PValue:              null.FloatFrom(5e-8),
		Region:              "7q22.3",
		SNPID:               "rs_test",
		MappedGene:          "GENE1",
	}
}

func TestWriteAndSearchAnnotations(t *testing.T) {
	s := openTestStore(t)

	records := []annotate.Record{
		testRecord("chr7", 100, "Asthma"),
		testRecord("chr7", 200, "Asthma"),
		testRecord("chr10", 114758349, "Type 2 diabetes"),
	}
	require.NoError(t, s.WriteAnnotations(records))

	asthma, err := s.SearchByTrait("Asthma")
	require.NoError(t, err)
	require.Len(t, asthma, 2)
	assert.Equal(t, "chr7", asthma[0].Chrom)
	assert.Equal(t, vcf.TypeSNP, asthma[0].VariantType)
	require.True(t, asthma[0].PValue.Valid)
	assert.InDelta(t, 5e-8, asthma[0].PValue.Float64, 1e-18)

	none, err := s.SearchByTrait("Unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWriteAnnotationsDeduplicates(t *testing.T) {
	s := openTestStore(t)

	r := testRecord("chr7", 100, "Asthma")
	require.NoError(t, s.WriteAnnotations([]annotate.Record{r, r, r}))

	found, err := s.SearchByTrait("Asthma")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestWriteAnnotationsNullFrequency(t *testing.T) {
	s := openTestStore(t)

	r := testRecord("chr7", 100, "Asthma")
	r.RiskAlleleFrequency = null.Float{}
	require.NoError(t, s.WriteAnnotations([]annotate.Record{r}))

	found, err := s.SearchByTrait("Asthma")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.False(t, found[0].RiskAlleleFrequency.Valid)
	assert.True(t, found[0].PValue.Valid)
}

func TestLookupLocus(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.WriteAnnotations([]annotate.Record{
		testRecord("chr7", 100, "Asthma"),
		testRecord("chr7", 100, "Eczema"),
		testRecord("chr7", 200, "Asthma"),
	}))

	found, err := s.LookupLocus("chr7", 100)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	empty, err := s.LookupLocus("chr7", 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestClearAnnotations(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.WriteAnnotations([]annotate.Record{testRecord("chr7", 100, "Asthma")}))
	require.NoError(t, s.ClearAnnotations())

	found, err := s.SearchByTrait("Asthma")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestWriteAnnotationsEmpty(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.WriteAnnotations(nil))
}

func TestRecordRun(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.RecordRun(RunInfo{
		CreatedAt:       time.Now().UTC(),
		VCFPath:         "/data/sample.vcf.gz",
		CatalogPath:     "/data/gwas_catalog.tsv",
		QualCutoff:      20,
		DropNR:          true,
		VariantCount:    1000,
		AnnotationCount: 42,
		TraitCount:      17,
	}))

	var count int64
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM runs").Scan(&count))
	assert.Equal(t, int64(1), count)
}
