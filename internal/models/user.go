package models

import "time"

// User is a post author and follower. Accounts are managed by an external
// identity system; only the fields feeds need are stored here.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	DisplayName string    `gorm:"size:150" json:"display_name,omitempty"`
	Password    string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
