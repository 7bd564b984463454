package request

import "strings"

// BacklogQuery selects a page of a notification stream. An empty stream is
// the caller's own subject stream.
type BacklogQuery struct {
	Stream string `form:"stream"`
	Since  int64  `form:"since"`
	Limit  int    `form:"limit"`
}

type AckRequest struct {
	Stream   string `json:"stream"`
	Sequence *int64 `json:"sequence" binding:"required"`
}

type BroadcastRequest struct {
	Group   string `json:"group" binding:"required"`
	Summary string `json:"summary" binding:"required"`
}

// RealtimeQuery carries the resume cursors of a reconnecting client. Absent
// cursors fall back to the last acknowledged sequence.
type RealtimeQuery struct {
	Token      string `form:"token"`
	Since      *int64 `form:"since"`
	GroupSince *int64 `form:"group_since"`
}

func (q RealtimeQuery) ResolveToken(authorization string) string {
	if v, ok := strings.CutPrefix(authorization, "Bearer "); ok {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(q.Token)
}
