package models

import "time"

// Officer is a local account allowed to use the service. Passwords are stored
// as bcrypt hashes.
type Officer struct {
	ID        int       `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Email     string    `gorm:"column:email;not null;uniqueIndex:idx_officer_email" json:"email"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides
func (Officer) TableName() string {
	return "officers"
}
