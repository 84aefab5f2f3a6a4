package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// An empty CreatedBy/LastUpdatedBy means the actor was not supplied (stored as NULL).
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy,omitempty"`
}

// NewAuditFields stamps both the created and updated fields with the same actor and instant.
func NewAuditFields(actorID string, now time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameTenant reports whether two nullable tenant identifiers refer to the same scope.
// nil only matches nil (the global scope).
func SameTenant(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// TenantLabel renders a nullable tenant for logs.
func TenantLabel(tenantID *string) string {
	if tenantID == nil {
		return "<global>"
	}
	return *tenantID
}
