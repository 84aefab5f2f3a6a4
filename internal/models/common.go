package models

import "time"

// AuditFields mirrors the audit columns shared by every table. Actor columns are nullable.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     *string   `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy *string   `db:"last_updated_by"`
}
