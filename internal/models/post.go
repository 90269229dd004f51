package models

import "time"

// Post represents a published entry in the Plume application.
// The author and publication time are fixed at creation; updates only
// touch text, group and image.
type Post struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Text    string    `gorm:"type:text;not null" json:"text"`
	PubDate time.Time `gorm:"column:pub_date;autoCreateTime;<-:create" json:"pub_date"`
	UserID  uint      `gorm:"not null;index" json:"user_id"`
	User    User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID *uint     `gorm:"index" json:"group_id,omitempty"`
	Group   *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	// Image is an opaque reference to an uploaded image; storage is handled
	// by a separate media service.
	Image string `json:"image,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool      `gorm:"->" json:"liked"`
	UpdatedAt time.Time `json:"updated_at"`
}
