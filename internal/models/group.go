package models

import "time"

// Group represents a community that posts can be published into.
// Groups are read-only over the HTTP API; lifecycle is managed through
// the groupadmin tool. Deleting a group nulls the group reference on its
// posts instead of deleting them.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:50;not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	AdminID     *uint  `json:"admin_id,omitempty"`
	Admin       *User  `gorm:"foreignKey:AdminID;constraint:OnDelete:SET NULL" json:"admin,omitempty"`
	// PostsCount is not persisted; computed at query time
	PostsCount int `gorm:"->" json:"posts_count"`
	// SubscribersCount is not persisted; computed at query time as the
	// number of distinct authors who have published into the group.
	SubscribersCount int       `gorm:"->" json:"subscribers_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Group) TableName() string {
	return "groups"
}
