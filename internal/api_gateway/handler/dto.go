package handler

// IngestStatementRequest carries raw CSV statement text
type IngestStatementRequest struct {
	Statement string `json:"statement" binding:"required"`
}

// IngestStatementResponse reports the outcome of a synchronous ingestion
type IngestStatementResponse struct {
	Inserted int `json:"inserted"`
}

// BankTransactionResponse represents a bank transaction in API responses
type BankTransactionResponse struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Reference   string `json:"reference,omitempty"`
	Reconciled  bool   `json:"reconciled"`
	CreatedAt   string `json:"created_at"`
}

// ReconciliationRecordResponse represents an audit record in API responses
type ReconciliationRecordResponse struct {
	ID                string `json:"id"`
	BankTransactionID string `json:"bank_transaction_id"`
	LedgerEntryID     string `json:"ledger_entry_id"`
	Status            string `json:"status"`
	ConfidenceScore   int    `json:"confidence_score"`
	Notes             string `json:"notes"`
	MatchedAt         string `json:"matched_at"`
}

// MatchedTransactionResponse pairs a transaction with its audit record
type MatchedTransactionResponse struct {
	Transaction    BankTransactionResponse      `json:"transaction"`
	Reconciliation ReconciliationRecordResponse `json:"reconciliation"`
}

// CreateLedgerEntryRequest represents a request to record a new obligation
type CreateLedgerEntryRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Date        string `json:"date" binding:"required"`
	Description string `json:"description" binding:"required"`
	Reference   string `json:"reference,omitempty"`
	Type        string `json:"type" binding:"required,oneof=CREDIT DEBIT"`
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID          string `json:"id"`
	Amount      int64  `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Reference   string `json:"reference,omitempty"`
	Type        string `json:"type"`
	Reconciled  bool   `json:"reconciled"`
	CreatedAt   string `json:"created_at"`
}

// ListQueryParams represents optional list filters
type ListQueryParams struct {
	Limit int `form:"limit,default=0" binding:"min=0"`
}
