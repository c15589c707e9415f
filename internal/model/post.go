package model

import "time"

type PostKind string

const (
	PostKindTicket PostKind = "ticket"
	PostKindReview PostKind = "review"
)

// Post 时间线上的一项：Ticket 或 Review 二选一
type Post struct {
	Kind      PostKind  `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	Ticket    *Ticket   `json:"ticket,omitempty"`
	Review    *Review   `json:"review,omitempty"`

	// 仅 Review 有意义
	IsResponse   bool `json:"is_response"`
	IsStandalone bool `json:"is_standalone"`
}

// ID 返回底层实体 ID
func (p Post) ID() string {
	if p.Review != nil {
		return p.Review.ID
	}
	if p.Ticket != nil {
		return p.Ticket.ID
	}
	return ""
}

// AuthorID 返回作者 ID
func (p Post) AuthorID() string {
	if p.Review != nil {
		return p.Review.UserID
	}
	if p.Ticket != nil {
		return p.Ticket.UserID
	}
	return ""
}
