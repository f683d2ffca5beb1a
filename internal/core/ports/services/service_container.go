package services

// ServiceContainer bundles every service facade for injection into the
// handler layer.
type ServiceContainer struct {
	Account        AccountSvcFacade
	Journal        JournalSvcFacade
	Transaction    TransactionSvcFacade
	Reconciliation ReconciliationSvcFacade
	Reporting      ReportingSvcFacade
	Audit          AuditSvcFacade
}
