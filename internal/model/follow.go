package model

import (
	"time"
)

// UserFollows 关注关系（UserID 关注 FollowedUserID）
// 拉黑不删行：IsBlocked 置位，保留关注历史
type UserFollows struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID         string    `gorm:"type:varchar(36);index:idx_follows_user;index:idx_follows_pair,unique;not null" json:"user_id"`
	FollowedUserID string    `gorm:"type:varchar(36);index:idx_follows_followed;index:idx_follows_pair,unique;not null" json:"followed_user_id"`
	// 复合唯一键，避免重复关注
	// idx_follows_pair = (user_id, followed_user_id)
	IsBlocked      bool      `gorm:"not null;default:false" json:"is_blocked"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	User         *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FollowedUser *User `gorm:"foreignKey:FollowedUserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserFollows) TableName() string { return "user_follows" }
