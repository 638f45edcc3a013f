package repositories

// RepositoryProvider bundles every repository the service layer needs.
type RepositoryProvider struct {
	GiroRepo          GiroRepositoryWithTx
	LedgerRepo        LedgerRepositoryWithTx
	ConfigRepo        ConfigurationRepository
	SequenceRepo      SequenceRepository
	ManufacturingRepo ManufacturingRepository
	WipRepo           WipRunRepositoryWithTx
	ReportingRepo     ReportingRepository
}
