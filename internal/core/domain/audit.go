package domain

// AuditTrail is the reconstructed chain from an external reference to its
// operational record, its ledger postings, and the related system logs.
type AuditTrail struct {
	MatchedBy   string                  `json:"matchedBy"` // Name of the resolver strategy that hit
	Transaction *MarketplaceTransaction `json:"transaction,omitempty"`
	Journals    []Journal               `json:"journals"`
	Logs        []SystemLog             `json:"logs"`
}
