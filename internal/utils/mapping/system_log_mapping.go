package mapping

import (
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	"github.com/kopranet/koperasi_ledger/internal/models"
)

// ToModelSystemLog converts a domain SystemLog to its model.
func ToModelSystemLog(d domain.SystemLog) models.SystemLog {
	return models.SystemLog{
		LogID:        d.LogID,
		EntityID:     d.EntityID,
		ActionType:   d.ActionType,
		ActionDetail: d.ActionDetail,
		Status:       string(d.Status),
		Metadata:     d.Metadata,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainSystemLog converts a model SystemLog to its domain form.
func ToDomainSystemLog(m models.SystemLog) domain.SystemLog {
	return domain.SystemLog{
		LogID:        m.LogID,
		EntityID:     m.EntityID,
		ActionType:   m.ActionType,
		ActionDetail: m.ActionDetail,
		Status:       domain.LogStatus(m.Status),
		Metadata:     m.Metadata,
		CreatedAt:    m.CreatedAt,
	}
}

// ToDomainSystemLogSlice converts model logs to domain logs.
func ToDomainSystemLogSlice(ms []models.SystemLog) []domain.SystemLog {
	ds := make([]domain.SystemLog, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSystemLog(m)
	}
	return ds
}
