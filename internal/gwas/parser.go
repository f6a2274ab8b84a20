package gwas

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
)

// Catalog column names. The column order is arbitrary; the header row
// determines the mapping.
const (
	ColChrID            = "CHR_ID"
	ColChrPos           = "CHR_POS"
	ColDiseaseTrait     = "DISEASE/TRAIT"
	ColRiskAlleleFreq   = "RISK ALLELE FREQUENCY"
	ColPValue           = "P-VALUE"
	ColRegion           = "REGION"
	ColSNPs             = "SNPS"
	ColMappedGene       = "MAPPED_GENE"
	ColTraitGroup       = "Groups of Disease/Trait"
	ColTraitURI         = "MAPPED_TRAIT_URI"
	ColTraitDescription = "MAPPED_TRAIT_DESCRIPTION"
)

// columnIndices holds the indices of catalog columns. Optional columns
// that are absent stay at -1.
type columnIndices struct {
	chrID        int
	chrPos       int
	diseaseTrait int
	raf          int
	pValue       int
	region       int
	snps         int
	mappedGene   int
	traitGroup   int
	traitURI     int
	traitDesc    int
}

// OpenCatalog opens a catalog file, transparently decompressing gzip.
// The caller owns the returned closer.
func OpenCatalog(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file %s: %w", path, err)
	}
	r, err := Decompress(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read catalog file %s: %w", path, err)
	}
	return &catalogReadCloser{Reader: r, file: f}, nil
}

type catalogReadCloser struct {
	io.Reader
	file *os.File
}

func (c *catalogReadCloser) Close() error {
	if gz, ok := c.Reader.(*pgzip.Reader); ok {
		gz.Close()
	}
	return c.file.Close()
}

// Decompress wraps r with a parallel gzip reader when the stream is
// gzip-compressed, detected from the magic bytes.
func Decompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err == nil && len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		return pgzip.NewReader(br)
	}
	return br, nil
}

// ReadCatalog parses catalog rows from r. The delimiter is detected from
// the header line (comma or tab). A missing mandatory column is a fatal
// schema error; malformed numeric fields in individual rows are absorbed
// as missing values.
func ReadCatalog(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)

	headerLine, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	headerLine = strings.TrimRight(headerLine, "\r\n")
	if headerLine == "" {
		return nil, &SchemaError{Message: "catalog is empty, no header row found"}
	}

	comma := ','
	if strings.ContainsRune(headerLine, '\t') {
		comma = '\t'
	}

	headerReader := csv.NewReader(strings.NewReader(headerLine))
	headerReader.Comma = comma
	header, err := headerReader.Read()
	if err != nil {
		return nil, fmt.Errorf("parse catalog header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	var records []Record
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}

		get := func(i int) string {
			if i < 0 || i >= len(fields) {
				return ""
			}
			return fields[i]
		}

		records = append(records, Record{
			ChrID:               get(cols.chrID),
			ChrPos:              get(cols.chrPos),
			DiseaseTrait:        get(cols.diseaseTrait),
			RiskAlleleFrequency: ParseNumber(get(cols.raf)),
			PValue:              ParseNumber(get(cols.pValue)),
			Region:              get(cols.region),
			SNPID:               get(cols.snps),
			MappedGene:          get(cols.mappedGene),
			TraitGroup:          get(cols.traitGroup),
			TraitURI:            get(cols.traitURI),
			TraitDescription:    get(cols.traitDesc),
		})
	}

	return records, nil
}

// resolveColumns maps header names to field indices and validates that
// every mandatory column is present.
func resolveColumns(header []string) (columnIndices, error) {
	cols := columnIndices{
		chrID: -1, chrPos: -1, diseaseTrait: -1, raf: -1, pValue: -1,
		region: -1, snps: -1, mappedGene: -1, traitGroup: -1, traitURI: -1,
		traitDesc: -1,
	}

	for i, name := range header {
		switch strings.TrimSpace(name) {
		case ColChrID:
			cols.chrID = i
		case ColChrPos:
			cols.chrPos = i
		case ColDiseaseTrait:
			cols.diseaseTrait = i
		case ColRiskAlleleFreq:
			cols.raf = i
		case ColPValue:
			cols.pValue = i
		case ColRegion:
			cols.region = i
		case ColSNPs:
			cols.snps = i
		case ColMappedGene:
			cols.mappedGene = i
		case ColTraitGroup:
			cols.traitGroup = i
		case ColTraitURI:
			cols.traitURI = i
		case ColTraitDescription:
			cols.traitDesc = i
		}
	}

	required := []struct {
		name string
		idx  int
	}{
		{ColChrID, cols.chrID},
		{ColChrPos, cols.chrPos},
		{ColDiseaseTrait, cols.diseaseTrait},
		{ColRiskAlleleFreq, cols.raf},
		{ColPValue, cols.pValue},
		{ColRegion, cols.region},
		{ColSNPs, cols.snps},
		{ColMappedGene, cols.mappedGene},
	}
	for _, req := range required {
		if req.idx == -1 {
			return cols, &SchemaError{
				Message: fmt.Sprintf("required column %q not found in catalog header", req.name),
			}
		}
	}

	return cols, nil
}

// LoadCatalog opens and parses a catalog file in one call.
func LoadCatalog(path string) ([]Record, error) {
	rc, err := OpenCatalog(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := ReadCatalog(rc)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return records, nil
}

// SchemaError reports a structural problem with the catalog file, such as
// an absent mandatory column. Unlike per-row anomalies it aborts the run.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("catalog schema error: %s", e.Message)
}
