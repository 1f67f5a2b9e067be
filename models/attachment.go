package models

import "time"

// Attachment is an arbitrary file reference linked to an application.
type Attachment struct {
	ID            int       `gorm:"primaryKey;column:id" json:"id"`
	ApplicationID int       `gorm:"column:application_id;not null" json:"application_id"`
	FileName      string    `gorm:"column:file_name;not null" json:"file_name"`
	FilePath      string    `gorm:"column:file_path;not null" json:"file_path"`
	FileType      string    `gorm:"column:file_type" json:"file_type"`
	FileSize      int64     `gorm:"column:file_size" json:"file_size"`
	UploadedAt    time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

// TableName overrides
func (Attachment) TableName() string {
	return "document_attachments"
}
