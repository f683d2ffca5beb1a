package dto

import "github.com/kopranet/koperasi_ledger/internal/core/domain"

// ReconcileRequest triggers an auto-reconcile pass. The threshold defaults
// from configuration when zero.
type ReconcileRequest struct {
	ThresholdMinutes int `json:"thresholdMinutes" binding:"omitempty,min=1"`
}

// ReconcileResult reports the outcome for a single stuck transaction.
// A failed item carries Error; the batch as a whole still returns.
type ReconcileResult struct {
	TransactionID string                   `json:"transactionID"`
	Status        domain.TransactionStatus `json:"status"`
	Reason        string                   `json:"reason,omitempty"`
	Error         string                   `json:"error,omitempty"`
}

// ReconcileResponse aggregates one auto-reconcile pass.
type ReconcileResponse struct {
	Processed int               `json:"processed"`
	Failed    int               `json:"failed"`
	Results   []ReconcileResult `json:"results"`
}
