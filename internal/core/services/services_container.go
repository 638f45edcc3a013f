package services

import (
	portsrepo "github.com/azsoft/erp_accounting_backend/internal/core/ports/repositories"
	portssvc "github.com/azsoft/erp_accounting_backend/internal/core/ports/services"
	"github.com/azsoft/erp_accounting_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	ledger := NewLedgerService(repos.LedgerRepo)

	container := &portssvc.ServiceContainer{}
	container.Giro = NewGiroService(repos.GiroRepo, repos.ConfigRepo, repos.SequenceRepo, ledger)
	container.Wip = NewWipService(repos.WipRepo, repos.ManufacturingRepo, repos.ConfigRepo, repos.SequenceRepo, ledger, cfg.WipRunRetention)
	container.Production = NewProductionService(repos.LedgerRepo, repos.ManufacturingRepo, repos.ConfigRepo, ledger)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.ConfigRepo)
	return container
}

// Compile-time interface checks.
var (
	_ portssvc.GiroSvcFacade       = (*GiroService)(nil)
	_ portssvc.WipSvcFacade        = (*WipService)(nil)
	_ portssvc.ProductionSvcFacade = (*ProductionService)(nil)
	_ portssvc.ReportingSvcFacade  = (*ReportingService)(nil)
)
