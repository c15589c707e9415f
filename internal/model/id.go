package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewID 生成 UUIDv7；字符串序与生成先后一致
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

func (f *UserFollows) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = NewID()
	}
	return nil
}

func (t *Ticket) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	return nil
}
