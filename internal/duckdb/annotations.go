package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"
	"gopkg.in/guregu/null.v3"

	"github.com/aeiwz/wgs-report-tools/internal/annotate"
	"github.com/aeiwz/wgs-report-tools/internal/vcf"
)

// annotationKey deduplicates matches before writing: the same locus can
// reach the store twice when a variant and a catalog row both repeat.
type annotationKey struct {
	chrom, ref, alt, snpID, trait string
	pos                           int64
}

// WriteAnnotations batch-inserts annotated records using the Appender API.
// Duplicate (chrom, pos, ref, alt, snp, trait) entries are deduplicated
// before writing.
func (s *Store) WriteAnnotations(records []annotate.Record) error {
	if len(records) == 0 {
		return nil
	}

	seen := make(map[annotationKey]bool, len(records))
	deduped := make([]annotate.Record, 0, len(records))
	for _, r := range records {
		k := annotationKey{r.Chrom, r.Ref, r.Alt, r.SNPID, r.DiseaseTrait, r.Pos}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, r)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "annotations")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range deduped {
		if err := appender.AppendRow(
			r.Chrom, r.Pos, r.VariantID, r.Ref, r.Alt,
			r.Qual, r.Filter, string(r.VariantType),
			r.DiseaseTrait, nullable(r.RiskAlleleFrequency), nullable(r.PValue),
			r.Region, r.SNPID, r.MappedGene, r.TraitGroup,
			r.TraitURI, r.TraitDescription,
		); err != nil {
			return fmt.Errorf("append annotation: %w", err)
		}
	}

	return appender.Flush()
}

// nullable converts a null.Float into a driver-level value.
func nullable(f null.Float) any {
	if !f.Valid {
		return nil
	}
	return f.Float64
}

// ClearAnnotations removes all persisted annotations.
func (s *Store) ClearAnnotations() error {
	_, err := s.db.Exec("DELETE FROM annotations")
	return err
}

// SearchByTrait returns all persisted annotations for a disease/trait.
func (s *Store) SearchByTrait(trait string) ([]annotate.Record, error) {
	rows, err := s.db.Query(selectAnnotations+" WHERE disease_trait=?", trait)
	if err != nil {
		return nil, fmt.Errorf("query by trait: %w", err)
	}
	defer rows.Close()

	return scanAnnotations(rows)
}

// LookupLocus returns all persisted annotations at a genomic position.
func (s *Store) LookupLocus(chrom string, pos int64) ([]annotate.Record, error) {
	rows, err := s.db.Query(selectAnnotations+" WHERE chrom=? AND pos=?", chrom, pos)
	if err != nil {
		return nil, fmt.Errorf("query locus: %w", err)
	}
	defer rows.Close()

	return scanAnnotations(rows)
}

const selectAnnotations = `SELECT
	chrom, pos, variant_id, ref, alt, qual, filter, variant_type,
	disease_trait, risk_allele_frequency, p_value,
	region, snp_id, mapped_gene, trait_group, trait_uri, trait_description
	FROM annotations`

// scanAnnotations scans query rows into annotated records.
func scanAnnotations(rows *sql.Rows) ([]annotate.Record, error) {
	var records []annotate.Record
	for rows.Next() {
		var r annotate.Record
		var variantType string
		var raf, pval sql.NullFloat64

		if err := rows.Scan(
			&r.Chrom, &r.Pos, &r.VariantID, &r.Ref, &r.Alt,
			&r.Qual, &r.Filter, &variantType,
			&r.DiseaseTrait, &raf, &pval,
			&r.Region, &r.SNPID, &r.MappedGene, &r.TraitGroup,
			&r.TraitURI, &r.TraitDescription,
		); err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}

		r.VariantType = vcf.VariantType(variantType)
		r.RiskAlleleFrequency = null.NewFloat(raf.Float64, raf.Valid)
		r.PValue = null.NewFloat(pval.Float64, pval.Valid)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate annotations: %w", err)
	}
	return records, nil
}

// RunInfo describes one recorded pipeline run.
type RunInfo struct {
	CreatedAt       time.Time
	VCFPath         string
	CatalogPath     string
	QualCutoff      float64
	DropNR          bool
	VariantCount    int64
	AnnotationCount int64
	TraitCount      int64
}

// RecordRun appends run metadata for audit purposes.
func (s *Store) RecordRun(info RunInfo) error {
	_, err := s.db.Exec(
		`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		info.CreatedAt, info.VCFPath, info.CatalogPath,
		info.QualCutoff, info.DropNR,
		info.VariantCount, info.AnnotationCount, info.TraitCount,
	)
	return err
}
