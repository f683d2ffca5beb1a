package mapping

import (
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	"github.com/kopranet/koperasi_ledger/internal/models"
)

// ToModelTransaction converts a domain MarketplaceTransaction to its model.
func ToModelTransaction(d domain.MarketplaceTransaction) models.MarketplaceTransaction {
	return models.MarketplaceTransaction{
		TransactionID:    d.TransactionID,
		KoperasiID:       d.KoperasiID,
		Type:             d.Type,
		EntityType:       string(d.EntityType),
		EntityID:         d.EntityID,
		JournalID:        d.JournalID,
		Amount:           d.Amount,
		Status:           string(d.Status),
		LastTransitionAt: d.LastTransitionAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model MarketplaceTransaction to its domain form.
func ToDomainTransaction(m models.MarketplaceTransaction) domain.MarketplaceTransaction {
	return domain.MarketplaceTransaction{
		TransactionID:    m.TransactionID,
		KoperasiID:       m.KoperasiID,
		Type:             m.Type,
		EntityType:       domain.EntityType(m.EntityType),
		EntityID:         m.EntityID,
		JournalID:        m.JournalID,
		Amount:           m.Amount,
		Status:           domain.TransactionStatus(m.Status),
		LastTransitionAt: m.LastTransitionAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts model transactions to domain transactions.
func ToDomainTransactionSlice(ms []models.MarketplaceTransaction) []domain.MarketplaceTransaction {
	ds := make([]domain.MarketplaceTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToModelTransactionEvent converts a domain TransactionEvent to its model.
func ToModelTransactionEvent(d domain.TransactionEvent) models.TransactionEvent {
	return models.TransactionEvent{
		EventID:       d.EventID,
		TransactionID: d.TransactionID,
		Kind:          string(d.Kind),
		FromStatus:    string(d.FromStatus),
		ToStatus:      string(d.ToStatus),
		Actor:         d.Actor,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainTransactionEvent converts a model TransactionEvent to its domain form.
func ToDomainTransactionEvent(m models.TransactionEvent) domain.TransactionEvent {
	return domain.TransactionEvent{
		EventID:       m.EventID,
		TransactionID: m.TransactionID,
		Kind:          domain.EventKind(m.Kind),
		FromStatus:    domain.TransactionStatus(m.FromStatus),
		ToStatus:      domain.TransactionStatus(m.ToStatus),
		Actor:         m.Actor,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}
