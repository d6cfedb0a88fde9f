package hgnc

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"mirbel/providers"
)

// Column headers of the HGNC complete-set TSV.
const (
	colHgncID   = "hgnc_id"
	colSymbol   = "symbol"
	colEntrezID = "entrez_id"
)

// Registry loads gene records from a local HGNC complete-set TSV
// (hgnc_complete_set.txt). It returns every record; filtering out genes
// without an Entrez id is the consumer's concern.
type Registry struct {
	Path   string
	Logger *zap.Logger
}

// NewRegistry creates a registry backed by the file at path.
func NewRegistry(path string, logger *zap.Logger) *Registry {
	return &Registry{Path: path, Logger: logger}
}

// Genes parses the TSV and returns all gene records.
func (r *Registry) Genes() ([]providers.GeneRecord, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("open HGNC registry: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	// HGNC name fields contain unbalanced quotes.
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read HGNC registry: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("HGNC registry %s is empty", r.Path)
	}

	index := make(map[string]int, len(records[0]))
	for pos, name := range records[0] {
		index[strings.TrimSpace(name)] = pos
	}
	for _, col := range []string{colHgncID, colSymbol, colEntrezID} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("HGNC registry is missing column %q", col)
		}
	}

	genes := make([]providers.GeneRecord, 0, len(records)-1)
	for _, record := range records[1:] {
		field := func(col string) string {
			pos := index[col]
			if pos >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[pos])
		}
		genes = append(genes, providers.GeneRecord{
			HgncID:   field(colHgncID),
			Symbol:   field(colSymbol),
			EntrezID: field(colEntrezID),
		})
	}

	r.Logger.Info("Parsed HGNC registry",
		zap.String("path", r.Path),
		zap.Int("genes", len(genes)))
	return genes, nil
}
