package models

import "time"

// SystemLog is the system_logs table row. Rows are write-once.
type SystemLog struct {
	LogID        string            `db:"log_id"`
	EntityID     string            `db:"entity_id"`
	ActionType   string            `db:"action_type"`
	ActionDetail string            `db:"action_detail"`
	Status       string            `db:"status"`
	Metadata     map[string]string `db:"metadata"` // Stored as jsonb
	CreatedAt    time.Time         `db:"created_at"`
}
