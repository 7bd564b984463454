package interfaces

import (
	"context"

	"bookinghub/internal/domain/entities"
)

//go:generate mockgen -source=live_pusher_interface.go -destination=mocks/mock_live_pusher_interface.go -package=mock_interfaces

// ILivePusher delivers an already persisted notification to the live
// connections of its recipient. It is best-effort: the durable record is the
// source of truth.
//
// Push returns how many local connections accepted the message; pushers that
// cannot know (e.g. a cross-instance relay) return 0.
type ILivePusher interface {
	Push(ctx context.Context, n entities.Notification) (int, error)
}
