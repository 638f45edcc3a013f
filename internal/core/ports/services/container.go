package services

// ServiceContainer holds all service facades for dependency injection into
// the HTTP layer.
type ServiceContainer struct {
	Giro       GiroSvcFacade
	Wip        WipSvcFacade
	Production ProductionSvcFacade
	Reporting  ReportingSvcFacade
}
