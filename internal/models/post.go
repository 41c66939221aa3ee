package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a published blog entry. Likes is a plain tally incremented
// atomically in the database; there is no per-user like record.
type Post struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Title    string `gorm:"size:300;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	Category string `gorm:"size:100" json:"category"`
	Tags     string `gorm:"size:500" json:"tags"`
	Likes    int    `gorm:"not null;default:0" json:"likes"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// CommentsCount is computed by a subquery on reads; never written.
	CommentsCount int `gorm:"->" json:"comments_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
