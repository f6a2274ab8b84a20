package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/aeiwz/wgs-report-tools/internal/annotate"
	"github.com/aeiwz/wgs-report-tools/internal/gwas"
)

// PlaceholderDescription is used when no description exists for a trait URI.
const PlaceholderDescription = "Description not available"

// Descriptions maps trait URIs to free-text descriptions. The mapping is
// produced by an external description-fetch collaborator; a missing entry
// is never an error.
type Descriptions map[string]string

// LoadDescriptions reads a URI-to-description mapping from a CSV file with
// MAPPED_TRAIT_URI and MAPPED_TRAIT_DESCRIPTION columns. The file may be
// gzip-compressed.
func LoadDescriptions(path string) (Descriptions, error) {
	rc, err := gwas.OpenCatalog(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return ReadDescriptions(rc)
}

// ReadDescriptions parses the URI-to-description mapping from r.
func ReadDescriptions(r io.Reader) (Descriptions, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read descriptions header: %w", err)
	}

	uriCol, descCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case gwas.ColTraitURI:
			uriCol = i
		case gwas.ColTraitDescription:
			descCol = i
		}
	}
	if uriCol == -1 || descCol == -1 {
		return nil, fmt.Errorf("descriptions file missing %q or %q column",
			gwas.ColTraitURI, gwas.ColTraitDescription)
	}

	descs := make(Descriptions)
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read descriptions row: %w", err)
		}
		if uriCol >= len(fields) || descCol >= len(fields) {
			continue
		}
		uri := strings.TrimSpace(fields[uriCol])
		desc := strings.TrimSpace(fields[descCol])
		if uri == "" || desc == "" {
			continue
		}
		descs[uri] = desc
	}

	return descs, nil
}

// Apply fills in the trait description of each summary from the mapping,
// keyed by exact URI string. Summaries that already carry a description
// keep it; traits with no entry get the placeholder text.
func (d Descriptions) Apply(summaries []annotate.TraitSummary) {
	for i := range summaries {
		if summaries[i].TraitDescription != "" {
			continue
		}
		if desc, ok := d[summaries[i].TraitURI]; ok {
			summaries[i].TraitDescription = desc
		} else {
			summaries[i].TraitDescription = PlaceholderDescription
		}
	}
}
