package shared

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)

// Stats aggregates reconciliation coverage for the presentation layer.
// OutstandingExposure is the sum, in minor units, of unreconciled ledger
// entry amounts.
type Stats struct {
	TotalTransactions   int64 `json:"total_transactions"`
	ReconciledCount     int64 `json:"reconciled_count"`
	UnreconciledCount   int64 `json:"unreconciled_count"`
	LedgerEntryCount    int64 `json:"ledger_entry_count"`
	OutstandingExposure int64 `json:"outstanding_exposure"`
}
