package services

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mirbel/models"
	"mirbel/providers"
)

type fakeSource struct {
	rows []providers.Row
}

func (s *fakeSource) Rows() ([]providers.Row, error) { return s.rows, nil }
func (s *fakeSource) Name() string                   { return "fake" }

type fakeRegistry struct {
	genes []providers.GeneRecord
}

func (r *fakeRegistry) Genes() ([]providers.GeneRecord, error) { return r.genes, nil }

// testGenes mirrors a slice of the HGNC complete set: CXCR4 carries an
// Entrez mapping, one record does not and must be skipped by the map.
var testGenes = []providers.GeneRecord{
	{Symbol: "CXCR4", HgncID: "HGNC:2561", EntrezID: "7852"},
	{Symbol: "NoEntrez", HgncID: "HGNC:9999"},
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Species{},
		&models.Mirna{},
		&models.Target{},
		&models.Interaction{},
		&models.Evidence{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return NewManager(nil, db, zap.NewNop(), &fakeRegistry{genes: testGenes})
}

// exampleRow is the MIRT000005 row from the miRTarBase export.
func exampleRow() providers.Row {
	return providers.Row{
		Index:         0,
		MirtarbaseID:  "MIRT000005",
		MirnaName:     "mmu-miR-124-3p",
		MirnaSpecies:  "Mus musculus",
		GeneSymbol:    "CXCR4",
		EntrezID:      "7852",
		TargetSpecies: "Homo sapiens",
		Experiment:    "Reporter assay",
		SupportType:   "Functional MTI",
		Reference:     "18619591",
	}
}

func mustPopulate(t *testing.T, m *Manager, rows ...providers.Row) *PopulateReport {
	t.Helper()
	report, err := m.Populate(context.Background(), &fakeSource{rows: rows}, false)
	if err != nil {
		t.Fatalf("populate: %v", err)
	}
	return report
}

func TestPopulateSingleRow(t *testing.T) {
	m := newTestManager(t)
	report := mustPopulate(t, m, exampleRow())

	if report.Mirnas != 1 || report.Targets != 1 || report.Interactions != 1 || report.Evidences != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Species != 2 {
		t.Fatalf("expected 2 species, got %d", report.Species)
	}

	mirna, err := m.QueryMirnaByName("mmu-miR-124-3p")
	if err != nil {
		t.Fatalf("query mirna: %v", err)
	}
	if mirna == nil {
		t.Fatal("mirna not found")
	}

	target, err := m.QueryTargetByEntrezID("7852")
	if err != nil {
		t.Fatalf("query target: %v", err)
	}
	if target == nil {
		t.Fatal("target not found")
	}
	if target.Name != "CXCR4" {
		t.Fatalf("expected target name CXCR4, got %q", target.Name)
	}

	var evidence models.Evidence
	if err := m.DB.Where("reference = ?", "18619591").First(&evidence).Error; err != nil {
		t.Fatalf("evidence not found: %v", err)
	}
	if evidence.Support != "Functional MTI" {
		t.Fatalf("expected support 'Functional MTI', got %q", evidence.Support)
	}
}

func TestPopulateCollapsesSamePair(t *testing.T) {
	m := newTestManager(t)

	first := exampleRow()
	second := exampleRow()
	second.Index = 1
	// Same (miRNA, gene) pair under a different miRTarBase id: a known
	// source-table quirk, not an error.
	second.MirtarbaseID = "MIRT999999"
	second.Experiment = "Western blot"
	second.Reference = "12345678"

	report := mustPopulate(t, m, first, second)
	if report.Interactions != 1 {
		t.Fatalf("expected 1 interaction, got %d", report.Interactions)
	}
	if report.Evidences != 2 {
		t.Fatalf("expected 2 evidences, got %d", report.Evidences)
	}

	var interaction models.Interaction
	if err := m.DB.Preload("Evidences").First(&interaction).Error; err != nil {
		t.Fatalf("interaction not found: %v", err)
	}
	if interaction.MirtarbaseID != "MIRT000005" {
		t.Fatalf("first row must fix the miRTarBase id, got %q", interaction.MirtarbaseID)
	}
	if len(interaction.Evidences) != 2 {
		t.Fatalf("expected 2 evidences on the interaction, got %d", len(interaction.Evidences))
	}
}

func TestPopulateUniqueness(t *testing.T) {
	m := newTestManager(t)

	first := exampleRow()
	second := exampleRow()
	second.Index = 1
	second.MirtarbaseID = "MIRT000006"
	second.GeneSymbol = "STAT3"
	second.EntrezID = "6774"
	second.Reference = "23456789"

	report := mustPopulate(t, m, first, second)
	if report.Mirnas != 1 {
		t.Fatalf("expected one shared mirna, got %d", report.Mirnas)
	}
	if report.Targets != 2 || report.Interactions != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}

	count, err := m.CountSpecies()
	if err != nil {
		t.Fatalf("count species: %v", err)
	}
	if count != 2 {
		t.Fatalf("species must be shared across rows, got %d", count)
	}
}

func TestPopulateCrossReference(t *testing.T) {
	m := newTestManager(t)

	withXref := exampleRow()
	withoutXref := exampleRow()
	withoutXref.Index = 1
	withoutXref.MirtarbaseID = "MIRT000006"
	withoutXref.GeneSymbol = "STAT3"
	withoutXref.EntrezID = "6774"

	mustPopulate(t, m, withXref, withoutXref)

	cxcr4, err := m.QueryTargetByEntrezID("7852")
	if err != nil || cxcr4 == nil {
		t.Fatalf("query CXCR4: %v, %v", cxcr4, err)
	}
	if cxcr4.HgncSymbol == nil || cxcr4.HgncID == nil {
		t.Fatal("expected both HGNC fields populated")
	}
	if *cxcr4.HgncSymbol != "CXCR4" || *cxcr4.HgncID != "HGNC:2561" {
		t.Fatalf("unexpected cross-reference: %q, %q", *cxcr4.HgncSymbol, *cxcr4.HgncID)
	}

	stat3, err := m.QueryTargetByEntrezID("6774")
	if err != nil || stat3 == nil {
		t.Fatalf("query STAT3: %v, %v", stat3, err)
	}
	if stat3.HgncSymbol != nil || stat3.HgncID != nil {
		t.Fatal("expected both HGNC fields absent for unmapped target")
	}
}

func TestPopulateEntrezFloatCoercion(t *testing.T) {
	m := newTestManager(t)

	row := exampleRow()
	row.EntrezID = "7852.0" // Excel export renders the column as float

	mustPopulate(t, m, row)

	target, err := m.QueryTargetByEntrezID("7852")
	if err != nil {
		t.Fatalf("query target: %v", err)
	}
	if target == nil {
		t.Fatal("float entrez id must be re-stringified as integer")
	}
}

func TestPopulateBadEntrezIsFatal(t *testing.T) {
	m := newTestManager(t)

	good := exampleRow()
	bad := exampleRow()
	bad.Index = 1
	bad.MirtarbaseID = "MIRT000006"
	bad.EntrezID = "CXCR4"

	_, err := m.Populate(context.Background(), &fakeSource{rows: []providers.Row{good, bad}}, false)
	if err == nil {
		t.Fatal("expected populate to fail on non-integer entrez id")
	}

	// Commit is all-or-nothing: the good row must not be visible either.
	count, err := m.CountEvidences()
	if err != nil {
		t.Fatalf("count evidences: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty store after failed run, got %d evidences", count)
	}
}

func TestParseEntrezID(t *testing.T) {
	valid := map[string]string{
		"7852":    "7852",
		" 7852 ":  "7852",
		"7852.0":  "7852",
		"7852.00": "7852",
	}
	for raw, want := range valid {
		got, err := parseEntrezID(raw)
		if err != nil {
			t.Fatalf("parseEntrezID(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("parseEntrezID(%q) = %q, want %q", raw, got, want)
		}
	}

	for _, raw := range []string{"", "CXCR4", "7852.5", "NaN", "+Inf"} {
		if _, err := parseEntrezID(raw); err == nil {
			t.Fatalf("parseEntrezID(%q) should fail", raw)
		}
	}
}

func TestIsPopulated(t *testing.T) {
	m := newTestManager(t)

	populated, err := m.IsPopulated()
	if err != nil {
		t.Fatalf("is populated: %v", err)
	}
	if populated {
		t.Fatal("fresh store must not report populated")
	}

	mustPopulate(t, m, exampleRow())

	populated, err = m.IsPopulated()
	if err != nil {
		t.Fatalf("is populated: %v", err)
	}
	if !populated {
		t.Fatal("store must report populated after a run")
	}
}
