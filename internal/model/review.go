package model

import "time"

const (
	MinRating = 0
	MaxRating = 5
)

// Review 评论，必须挂在一个 Ticket 上；TicketID 创建后不可修改
type Review struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TicketID  string    `gorm:"type:varchar(36);index:idx_review_ticket;not null;<-:create" json:"ticket_id"`
	UserID    string    `gorm:"type:varchar(36);index:idx_review_user;not null" json:"user_id"`
	Headline  string    `gorm:"type:varchar(128);not null" json:"headline"`
	Body      string    `gorm:"type:varchar(8192)" json:"body"`
	Rating    int       `gorm:"not null;check:chk_review_rating,rating >= 0 AND rating <= 5" json:"rating"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Ticket *Ticket `gorm:"foreignKey:TicketID" json:"ticket,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Review) TableName() string { return "reviews" }
