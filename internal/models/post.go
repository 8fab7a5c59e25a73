// Package models contains data structures for the application's domain models.
package models

import "time"

// Post is a short text entry authored by a user and optionally filed under a group.
// Every feed orders posts by CreatedAt descending with ID descending as the tie-break.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID  *uint  `gorm:"index" json:"group_id,omitempty"`
	Group    *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	// Image is a reference to stored media; upload and storage happen elsewhere.
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Post) TableName() string {
	return "posts"
}

// PostDetail is a single post together with the context shown on its page.
type PostDetail struct {
	Post            *Post     `json:"post"`
	AuthorPostCount int64     `json:"author_post_count"`
	Comments        []Comment `json:"comments"`
}
