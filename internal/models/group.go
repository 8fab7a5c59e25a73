package models

import "time"

// Group is a topic that posts can be filed under. Posts reference groups
// weakly: deleting a group clears the reference on its posts.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:50;uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Group) TableName() string {
	return "groups"
}
