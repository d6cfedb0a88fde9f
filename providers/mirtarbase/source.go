package mirtarbase

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"mirbel/providers"
)

// Column headers of the miRTarBase MTI export.
const (
	colMirtarbaseID  = "miRTarBase ID"
	colMirna         = "miRNA"
	colMirnaSpecies  = "Species (miRNA)"
	colTargetGene    = "Target Gene"
	colEntrezID      = "Target Gene (Entrez ID)"
	colTargetSpecies = "Species (Target Gene)"
	colExperiments   = "Experiments"
	colSupportType   = "Support Type"
	colReferences    = "References (PMID)"
)

// Source reads miRTarBase interaction rows from a local CSV or TSV export.
type Source struct {
	Path   string
	Logger *zap.Logger
}

// NewSource creates a source for the file at path.
func NewSource(path string, logger *zap.Logger) *Source {
	return &Source{Path: path, Logger: logger}
}

// Name returns the unique name of the source.
func (s *Source) Name() string {
	return "mirtarbase"
}

// Rows parses the export file. The header row is mandatory; columns are
// located by name so column order in the export does not matter.
func (s *Source) Rows() ([]providers.Row, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open miRTarBase source: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if strings.EqualFold(filepath.Ext(s.Path), ".tsv") {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read miRTarBase source: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("miRTarBase source %s is empty", s.Path)
	}

	index, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]providers.Row, 0, len(records)-1)
	for i, record := range records[1:] {
		field := func(col string) string {
			pos := index[col]
			if pos >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[pos])
		}
		rows = append(rows, providers.Row{
			Index:         i,
			MirtarbaseID:  field(colMirtarbaseID),
			MirnaName:     field(colMirna),
			MirnaSpecies:  field(colMirnaSpecies),
			GeneSymbol:    field(colTargetGene),
			EntrezID:      field(colEntrezID),
			TargetSpecies: field(colTargetSpecies),
			Experiment:    field(colExperiments),
			SupportType:   field(colSupportType),
			Reference:     field(colReferences),
		})
	}

	s.Logger.Info("Parsed miRTarBase source",
		zap.String("path", s.Path),
		zap.Int("rows", len(rows)))
	return rows, nil
}

// headerIndex maps the required column names to their positions.
func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for pos, name := range header {
		index[strings.TrimSpace(name)] = pos
	}
	required := []string{
		colMirtarbaseID, colMirna, colMirnaSpecies, colTargetGene,
		colEntrezID, colTargetSpecies, colExperiments, colSupportType,
		colReferences,
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("miRTarBase source is missing column %q", col)
		}
	}
	return index, nil
}
