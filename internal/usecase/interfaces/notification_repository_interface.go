package interfaces

import (
	"context"

	"bookinghub/internal/domain/entities"
)

//go:generate mockgen -source=notification_repository_interface.go -destination=mocks/mock_notification_repository_interface.go -package=mock_interfaces

// INotificationRepository abstracts the per-recipient notification log.
//
// The store must be able to:
//   - append drafts, assigning each a gap-free per-recipient sequence number
//   - list a recipient's notifications after a sequence, ascending
//   - keep a monotonic acknowledged cursor per recipient
//   - flag a notification as delivered (advisory)
//
// Append returns ErrWriteContention when a concurrent append to one of the
// same recipients won the race; nothing is written in that case.

type INotificationRepository interface {
	Append(ctx context.Context, drafts []entities.NotificationDraft) ([]entities.Notification, error)
	ListSince(ctx context.Context, streamKey string, since int64, limit int) ([]entities.Notification, error)
	Ack(ctx context.Context, streamKey string, sequence int64) (int64, error)
	LastAcked(ctx context.Context, streamKey string) (int64, error)
	MarkDelivered(ctx context.Context, streamKey string, sequence int64) error
}
