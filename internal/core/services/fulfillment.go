package services

import (
	"context"
	"fmt"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	portsrepo "github.com/kopranet/koperasi_ledger/internal/core/ports/repositories"
	portssvc "github.com/kopranet/koperasi_ledger/internal/core/ports/services"
)

// ActionTypeFulfillment is the system log action recorded by operational
// subsystems when their side effect completes.
const ActionTypeFulfillment = "FULFILLMENT"

// systemLogFulfillmentChecker confirms fulfillment from the system log trail:
// a transaction counts as complete when its operational record carries a
// SUCCESS fulfillment log. Subsystems with richer completion signals register
// their own checker instead.
type systemLogFulfillmentChecker struct {
	logRepo portsrepo.SystemLogRepository
}

// NewSystemLogFulfillmentChecker creates a checker backed by system logs.
func NewSystemLogFulfillmentChecker(logRepo portsrepo.SystemLogRepository) portssvc.FulfillmentChecker {
	return &systemLogFulfillmentChecker{logRepo: logRepo}
}

func (c *systemLogFulfillmentChecker) IsComplete(ctx context.Context, txn domain.MarketplaceTransaction) (bool, string, error) {
	// A transaction already past fulfilled carries its own confirmation: the
	// fulfill transition only happens once the operational side completed.
	if txn.Status == domain.StatusFulfilled {
		return true, "transaction reached fulfilled", nil
	}
	if txn.EntityID == domain.PendingEntityID {
		return false, "operational record never materialized", nil
	}

	logs, err := c.logRepo.FindLogsByEntityID(ctx, txn.EntityID)
	if err != nil {
		return false, "", fmt.Errorf("failed to read logs for entity %s: %w", txn.EntityID, err)
	}
	for _, entry := range logs {
		if entry.ActionType == ActionTypeFulfillment && entry.Status == domain.LogSuccess {
			return true, fmt.Sprintf("fulfillment confirmed by log %s", entry.LogID), nil
		}
	}
	return false, fmt.Sprintf("no fulfillment confirmation for entity %s", txn.EntityID), nil
}

// NewDefaultFulfillmentRegistry registers the system-log checker for every
// known entity type.
func NewDefaultFulfillmentRegistry(logRepo portsrepo.SystemLogRepository) portssvc.FulfillmentRegistry {
	checker := NewSystemLogFulfillmentChecker(logRepo)
	return portssvc.FulfillmentRegistry{
		domain.EntityRetail:  checker,
		domain.EntityPPOB:    checker,
		domain.EntitySavings: checker,
		domain.EntityLoan:    checker,
		domain.EntityEscrow:  checker,
	}
}
