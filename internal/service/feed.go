package service

import (
	"sort"

	"github.com/samber/lo"

	"github.com/d60-Lab/litreview/internal/model"
)

// ComposeFeed 合并候选 Ticket 与 Review，按时间倒序输出并标注每条 Review。
//
// 作者本人给自己 Ticket 写的 Review 代表整条帖子，此时 Ticket 不再单独出现。
// 时间相同时 Review 排在 Ticket 前，再按 ID 倒序（UUIDv7，等价于写入先后）。
func ComposeFeed(viewerID string, tickets []*model.Ticket, reviews []*model.Review) []model.Post {
	ticketAuthor := lo.Associate(tickets, func(t *model.Ticket) (string, string) {
		return t.ID, t.UserID
	})
	authorOf := func(r *model.Review) string {
		if r.Ticket != nil {
			return r.Ticket.UserID
		}
		return ticketAuthor[r.TicketID]
	}

	selfReviewed := make(map[string]struct{})
	for _, r := range reviews {
		if r.UserID == authorOf(r) {
			selfReviewed[r.TicketID] = struct{}{}
		}
	}

	visibleTickets := lo.Filter(tickets, func(t *model.Ticket, _ int) bool {
		_, ok := selfReviewed[t.ID]
		return !ok
	})

	posts := make([]model.Post, 0, len(visibleTickets)+len(reviews))
	for _, t := range visibleTickets {
		posts = append(posts, model.Post{Kind: model.PostKindTicket, CreatedAt: t.CreatedAt, Ticket: t})
	}
	for _, r := range reviews {
		author := authorOf(r)
		posts = append(posts, model.Post{
			Kind:         model.PostKindReview,
			CreatedAt:    r.CreatedAt,
			Review:       r,
			IsResponse:   author == viewerID && r.UserID != viewerID,
			IsStandalone: author == r.UserID,
		})
	}

	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if a.Kind != b.Kind {
			return a.Kind == model.PostKindReview
		}
		return a.ID() > b.ID()
	})
	return posts
}
