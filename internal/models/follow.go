package models

import "time"

// Follow represents a directed subscription from one user to another.
// The (user, following) pair is unique and self-follows are rejected by a
// check constraint; both are re-checked in the service layer to produce
// clean validation errors ahead of the constraint.
type Follow struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	UserID      uint `gorm:"not null;uniqueIndex:idx_follow_pair;check:chk_follow_not_self,user_id <> following_id" json:"user_id"`
	FollowingID uint `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"following_id"`
	// Notify controls whether the follower receives notifications for new posts.
	Notify    bool      `gorm:"not null;default:true" json:"notify"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User      User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Following User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"following"`
}

// TableName specifies the table name for GORM.
func (Follow) TableName() string {
	return "follows"
}
