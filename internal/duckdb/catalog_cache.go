package duckdb

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aeiwz/wgs-report-tools/internal/gwas"
)

// CatalogCache manages gob-serialized reconciled catalog data on disk.
// Reconciling a full GWAS catalog is the slowest part of a run, so the
// expanded loci are cached next to a fingerprint of the source file:
//
//	~/.gwas-report/catalog.gob       (serialized loci)
//	~/.gwas-report/catalog.gob.meta  (source file fingerprint)
type CatalogCache struct {
	dir string
}

// NewCatalogCache creates a catalog cache for the given directory.
func NewCatalogCache(dir string) *CatalogCache {
	return &CatalogCache{dir: dir}
}

func (cc *CatalogCache) gobPath() string {
	return filepath.Join(cc.dir, "catalog.gob")
}

func (cc *CatalogCache) metaPath() string {
	return filepath.Join(cc.dir, "catalog.gob.meta")
}

// Valid checks whether the cached loci match the current source file.
func (cc *CatalogCache) Valid(source FileFingerprint) bool {
	meta, err := cc.readMeta()
	if err != nil {
		return false
	}

	checks := []struct{ key, val string }{
		{"source_path", source.Path},
		{"source_size", strconv.FormatInt(source.Size, 10)},
		{"source_modtime", source.ModTime.UTC().Format(time.RFC3339Nano)},
	}
	for _, c := range checks {
		if meta[c.key] != c.val {
			return false
		}
	}

	// Verify gob file exists
	if _, err := os.Stat(cc.gobPath()); err != nil {
		return false
	}
	return true
}

// Load reads serialized loci from disk.
func (cc *CatalogCache) Load() ([]gwas.Locus, error) {
	f, err := os.Open(cc.gobPath())
	if err != nil {
		return nil, fmt.Errorf("open catalog cache: %w", err)
	}
	defer f.Close()

	var loci []gwas.Locus
	if err := gob.NewDecoder(f).Decode(&loci); err != nil {
		return nil, fmt.Errorf("decode catalog cache: %w", err)
	}
	return loci, nil
}

// Write serializes reconciled loci to disk.
func (cc *CatalogCache) Write(loci []gwas.Locus, source FileFingerprint) error {
	if err := os.MkdirAll(cc.dir, 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	f, err := os.Create(cc.gobPath())
	if err != nil {
		return fmt.Errorf("create catalog cache: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(loci); err != nil {
		f.Close()
		os.Remove(cc.gobPath())
		return fmt.Errorf("encode catalog cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close catalog cache: %w", err)
	}

	return cc.writeMeta(source)
}

// Clear removes the cached catalog files.
func (cc *CatalogCache) Clear() {
	os.Remove(cc.gobPath())
	os.Remove(cc.metaPath())
}

func (cc *CatalogCache) writeMeta(source FileFingerprint) error {
	lines := []string{
		"source_path=" + source.Path,
		"source_size=" + strconv.FormatInt(source.Size, 10),
		"source_modtime=" + source.ModTime.UTC().Format(time.RFC3339Nano),
		"created_at=" + time.Now().UTC().Format(time.RFC3339),
		"",
	}
	return os.WriteFile(cc.metaPath(), []byte(strings.Join(lines, "\n")), 0644)
}

func (cc *CatalogCache) readMeta() (map[string]string, error) {
	data, err := os.ReadFile(cc.metaPath())
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			meta[k] = v
		}
	}
	return meta, nil
}
