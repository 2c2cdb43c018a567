package services

// ServiceContainer holds all service facades needed by the HTTP layer.
type ServiceContainer struct {
	Customer CustomerSvcFacade
	Ledger   LedgerSvcFacade
}
