package domain

import "time"

// LogStatus marks a system log row as a success or failure record.
type LogStatus string

const (
	LogSuccess LogStatus = "SUCCESS"
	LogFailure LogStatus = "FAILURE"
)

// SystemLog is a write-once observability record correlated by EntityID to a
// marketplace transaction or operational record.
type SystemLog struct {
	LogID        string            `json:"logID"` // Primary key (UUID)
	EntityID     string            `json:"entityID"`
	ActionType   string            `json:"actionType"`
	ActionDetail string            `json:"actionDetail"`
	Status       LogStatus         `json:"status"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}
