// Package duckdb provides durable storage for pipeline artifacts.
// The annotated join table is persisted in DuckDB (queryable, append-only)
// for audit and debugging; the reconciled catalog is cached as a gob file
// (fast, pure Go).
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for persisting annotation results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS annotations (
		chrom VARCHAR,
		pos BIGINT,
		variant_id VARCHAR,
		ref VARCHAR,
		alt VARCHAR,
		qual DOUBLE,
		filter VARCHAR,
		variant_type VARCHAR,
		disease_trait VARCHAR,
		risk_allele_frequency DOUBLE,
		p_value DOUBLE,
		region VARCHAR,
		snp_id VARCHAR,
		mapped_gene VARCHAR,
		trait_group VARCHAR,
		trait_uri VARCHAR,
		trait_description VARCHAR
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		created_at TIMESTAMP,
		vcf_path VARCHAR,
		catalog_path VARCHAR,
		qual_cutoff DOUBLE,
		drop_nr BOOLEAN,
		variant_count BIGINT,
		annotation_count BIGINT,
		trait_count BIGINT
	)`)
	return err
}
