package model

import "time"

// Ticket 书评请求
type Ticket struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string    `gorm:"type:varchar(36);index:idx_ticket_user;not null" json:"user_id"`
	Title       string    `gorm:"type:varchar(128);not null" json:"title"`
	Description string    `gorm:"type:varchar(2048)" json:"description"`
	// Image 外部存储的不透明引用，可为空
	Image       string    `gorm:"type:varchar(512)" json:"image,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Reviews []Review `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Ticket) TableName() string { return "tickets" }
