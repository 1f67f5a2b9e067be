package models

import "time"

// Audit actions written by the datastore.
const (
	AuditActionCreate            = "CREATE"
	AuditActionDelete            = "DELETE"
	AuditActionAttachmentAdded   = "ATTACHMENT_ADDED"
	AuditActionAttachmentRemoved = "ATTACHMENT_REMOVED"
)

// AuditEntry is an append-only log row. ApplicationID is nullable so entries
// survive application deletion (ON DELETE SET NULL).
type AuditEntry struct {
	ID            int       `gorm:"primaryKey;column:id" json:"id"`
	ApplicationID *int      `gorm:"column:application_id" json:"application_id"`
	Action        string    `gorm:"column:action;not null" json:"action"`
	UserName      string    `gorm:"column:user_name" json:"user_name"`
	Details       string    `gorm:"column:details" json:"details"`
	Timestamp     time.Time `gorm:"column:timestamp" json:"timestamp"`

	Application *Application `gorm:"foreignKey:ApplicationID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName overrides
func (AuditEntry) TableName() string {
	return "audit_log"
}
