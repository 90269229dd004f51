package models

import "time"

// Comment represents a comment on a post. Comments are removed together
// with their post or author.
type Comment struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Text    string    `gorm:"type:text;not null" json:"text"`
	UserID  uint      `gorm:"not null;index" json:"user_id"`
	User    User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"author"`
	PostID  uint      `gorm:"not null;index" json:"post_id"`
	Post    *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Created time.Time `gorm:"column:created;autoCreateTime;<-:create;index" json:"created"`
	// IsEdited flips to true on the first mutation after creation.
	IsEdited  bool      `gorm:"not null;default:false" json:"is_edited"`
	UpdatedAt time.Time `json:"updated_at"`
}
