package vcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Parser reads variants from a VCF file.
type Parser struct {
	reader      *bufio.Reader
	file        *os.File
	gzipReader  *gzip.Reader
	lineNumber  int
	header      []string
	sampleNames []string // sample names from #CHROM header line, if present
}

// NewParser creates a new VCF parser for the given file.
// Supports both plain VCF and gzipped VCF (.vcf.gz) files.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file %s: %w", path, err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read vcf file %s: %w", path, err)
	}

	// Seek back to beginning
	_, err = file.Seek(0, 0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("seek vcf file %s: %w", path, err)
	}

	// Check for gzip magic number (0x1f, 0x8b)
	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader for %s: %w", path, err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{
		reader: bufio.NewReader(r),
	}
}

// Next reads the next variant from the VCF file.
// Comment and header lines (prefixed with '#') are collected and skipped.
// Returns nil, nil when there are no more variants.
func (p *Parser) Next() (*Variant, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read variant line: %w", err)
		}
		if line == "" && err == io.EOF {
			return nil, nil
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if err == io.EOF {
				return nil, nil
			}
			continue
		}

		if strings.HasPrefix(line, "#") {
			p.header = append(p.header, line)
			if strings.HasPrefix(line, "#CHROM") {
				fields := strings.Split(line, "\t")
				if len(fields) > 9 {
					p.sampleNames = fields[9:]
				}
			}
			continue
		}

		return p.parseLine(line)
	}
}

// ReadAll reads all remaining variants into a slice.
func (p *Parser) ReadAll() ([]*Variant, error) {
	var variants []*Variant
	for {
		v, err := p.Next()
		if err != nil {
			return nil, err
		}
		if v == nil {
			return variants, nil
		}
		variants = append(variants, v)
	}
}

// parseLine parses a single VCF data line into a Variant.
// Columns are tab-delimited; whitespace-delimited lines are accepted as a fallback.
func (p *Parser) parseLine(line string) (*Variant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		fields = strings.Fields(line)
	}
	if len(fields) < 8 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least 8 columns, found %d", len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	qual := 0.0
	qualOK := false
	if fields[5] != "." {
		if q, err := strconv.ParseFloat(fields[5], 64); err == nil {
			qual = q
			qualOK = true
		}
	}

	v := &Variant{
		Chrom:  fields[0],
		Pos:    pos,
		ID:     fields[2],
		Ref:    fields[3],
		Alt:    fields[4],
		Qual:   qual,
		QualOK: qualOK,
		Filter: fields[6],
		Info:   parseInfo(fields[7]),
		Type:   Classify(fields[3], fields[4]),
	}

	return v, nil
}

// parseInfo parses the INFO field into a map.
func parseInfo(info string) map[string]interface{} {
	result := make(map[string]interface{})
	if info == "." {
		return result
	}

	for _, kv := range strings.Split(info, ";") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			result[parts[0]] = parts[1]
		} else {
			// Flag-type INFO field
			result[parts[0]] = true
		}
	}

	return result
}

// Header returns the collected header lines seen so far.
func (p *Parser) Header() []string {
	return p.header
}

// SampleNames returns sample names from the #CHROM header line.
// Returns nil if no sample columns are present.
func (p *Parser) SampleNames() []string {
	return p.sampleNames
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during VCF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
