package dto

import (
	"time"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
)

// SystemLogResponse is the exposed system log shape.
type SystemLogResponse struct {
	LogID        string            `json:"logID"`
	EntityID     string            `json:"entityID"`
	ActionType   string            `json:"actionType"`
	ActionDetail string            `json:"actionDetail"`
	Status       domain.LogStatus  `json:"status"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// AuditTrailResponse is the reconstructed audit chain for a search term.
type AuditTrailResponse struct {
	MatchedBy   string               `json:"matchedBy"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
	Journals    []JournalResponse    `json:"journals"`
	Logs        []SystemLogResponse  `json:"logs"`
}

// ToAuditTrailResponse maps a domain audit trail to its response shape.
func ToAuditTrailResponse(trail *domain.AuditTrail) AuditTrailResponse {
	resp := AuditTrailResponse{
		MatchedBy: trail.MatchedBy,
		Journals:  ToJournalResponses(trail.Journals),
		Logs:      make([]SystemLogResponse, len(trail.Logs)),
	}
	if trail.Transaction != nil {
		txn := ToTransactionResponse(trail.Transaction, nil)
		resp.Transaction = &txn
	}
	for i, log := range trail.Logs {
		resp.Logs[i] = SystemLogResponse{
			LogID:        log.LogID,
			EntityID:     log.EntityID,
			ActionType:   log.ActionType,
			ActionDetail: log.ActionDetail,
			Status:       log.Status,
			Metadata:     log.Metadata,
			CreatedAt:    log.CreatedAt,
		}
	}
	return resp
}
