package providers

// Row is one record of the miRTarBase interaction table. EntrezID is kept
// as the raw source field; the ingestion pipeline coerces it to an
// integer and fails the whole run when it cannot.
type Row struct {
	Index         int
	MirtarbaseID  string
	MirnaName     string
	MirnaSpecies  string
	GeneSymbol    string
	EntrezID      string
	TargetSpecies string
	Experiment    string
	SupportType   string
	Reference     string
}

// RowSource is the interface every interaction source (e.g. a local
// miRTarBase CSV export) must implement.
type RowSource interface {
	// Rows returns the source rows in table order.
	Rows() ([]Row, error)

	// Name returns the unique name of the source (e.g. "mirtarbase").
	Name() string
}

// GeneRecord is one entry of a gene-authority registry. EntrezID is empty
// when the registry has no Entrez mapping for the gene.
type GeneRecord struct {
	Symbol   string
	HgncID   string
	EntrezID string
}

// GeneRegistry provides the gene records used to cross-reference targets.
type GeneRegistry interface {
	// Genes returns all registry records.
	Genes() ([]GeneRecord, error)
}
