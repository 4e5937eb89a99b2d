package domain

import "time"

// Idempotency represents a recorded response of a previously processed unsafe
// request, keyed by (scope, key). Scope is "<METHOD> <route>" so the same key
// can be reused across different endpoints without clashing. The stored
// status and body are replayed verbatim on retries.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Scope     string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_scope_key,priority:1"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idem_scope_key,priority:2"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	Body      []byte    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
