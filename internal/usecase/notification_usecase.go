package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"

	"github.com/juju/clock"
	"github.com/juju/retry"
)

const (
	DefaultBacklogLimit = 200
	maxSummaryLength    = 500
	broadcastAttempts   = 5
)

// INotificationUseCase exposes the notification log to the boundaries.
//
//   - Backlog => one page of a stream after a sequence (HTTP)
//   - Replay => every notification of a stream after a sequence (reconnect)
//   - Ack / ResumePoint => per-stream acknowledged cursor
//   - Broadcast => admin message to a role group

type INotificationUseCase interface {
	Backlog(ctx context.Context, actor entities.Identity, stream string, since int64, limit int) ([]entities.Notification, error)
	Replay(ctx context.Context, actor entities.Identity, stream string, since int64, fn func(entities.Notification) error) error
	Ack(ctx context.Context, actor entities.Identity, stream string, sequence int64) (int64, error)
	ResumePoint(ctx context.Context, actor entities.Identity, stream string) (int64, error)
	Broadcast(ctx context.Context, actor entities.Identity, group string, summary string) ([]entities.Notification, error)
}

type NotificationUseCase struct {
	repo       interfaces.INotificationRepository
	dispatcher INotificationDispatcher
	pageLimit  int
}

var _ INotificationUseCase = (*NotificationUseCase)(nil)

func NewNotificationUseCase(repo interfaces.INotificationRepository, dispatcher INotificationDispatcher, pageLimit int) *NotificationUseCase {
	if pageLimit <= 0 {
		pageLimit = DefaultBacklogLimit
	}
	return &NotificationUseCase{repo: repo, dispatcher: dispatcher, pageLimit: pageLimit}
}

// StreamsFor lists the streams a connection of this identity follows: its
// own subject stream first, then its role group stream.
func StreamsFor(actor entities.Identity) []entities.Recipient {
	out := []entities.Recipient{entities.SubjectRecipient(actor.SubjectID, actor.Role)}
	if g := actor.Role.Group(); g != "" {
		out = append(out, entities.GroupRecipient(g))
	}
	return out
}

func (u *NotificationUseCase) Backlog(ctx context.Context, actor entities.Identity, stream string, since int64, limit int) ([]entities.Notification, error) {
	key, err := resolveStream(actor, stream)
	if err != nil {
		return nil, err
	}
	if since < 0 {
		return nil, ErrInvalidSequence
	}
	if limit <= 0 || limit > u.pageLimit {
		limit = u.pageLimit
	}

	items, err := u.repo.ListSince(ctx, key, since, limit)
	if err != nil {
		log.Printf("[notification][usecase] backlog failed stream=%s since=%d err=%v", key, since, err)
		return nil, storageFailure(err)
	}
	return items, nil
}

// Replay pages through the whole stream after since, in ascending sequence
// order, calling fn for each notification. It stops at the first fn error.
func (u *NotificationUseCase) Replay(ctx context.Context, actor entities.Identity, stream string, since int64, fn func(entities.Notification) error) error {
	key, err := resolveStream(actor, stream)
	if err != nil {
		return err
	}
	if since < 0 {
		return ErrInvalidSequence
	}

	cursor := since
	for {
		page, err := u.repo.ListSince(ctx, key, cursor, u.pageLimit)
		if err != nil {
			log.Printf("[notification][usecase] replay failed stream=%s since=%d err=%v", key, cursor, err)
			return storageFailure(err)
		}
		for _, n := range page {
			if err := fn(n); err != nil {
				return err
			}
			cursor = n.Sequence
		}
		if len(page) < u.pageLimit {
			return nil
		}
	}
}

func (u *NotificationUseCase) Ack(ctx context.Context, actor entities.Identity, stream string, sequence int64) (int64, error) {
	key, err := resolveStream(actor, stream)
	if err != nil {
		return 0, err
	}
	if sequence < 0 {
		return 0, ErrInvalidSequence
	}

	acked, err := u.repo.Ack(ctx, key, sequence)
	if err != nil {
		log.Printf("[notification][usecase] ack failed stream=%s seq=%d err=%v", key, sequence, err)
		return 0, storageFailure(err)
	}
	return acked, nil
}

// ResumePoint is the last acknowledged sequence of the stream, used when a
// reconnecting client does not say where it left off.
func (u *NotificationUseCase) ResumePoint(ctx context.Context, actor entities.Identity, stream string) (int64, error) {
	key, err := resolveStream(actor, stream)
	if err != nil {
		return 0, err
	}
	seq, err := u.repo.LastAcked(ctx, key)
	if err != nil {
		return 0, storageFailure(err)
	}
	return seq, nil
}

func (u *NotificationUseCase) Broadcast(ctx context.Context, actor entities.Identity, group string, summary string) ([]entities.Notification, error) {
	if err := validateActor(actor); err != nil {
		return nil, err
	}
	if actor.Role != entities.RoleAdmin {
		return nil, ErrForbidden
	}
	group = strings.TrimPrefix(strings.TrimSpace(group), "group:")
	if !isKnownGroup(group) {
		return nil, ErrInvalidGroup
	}
	summary = strings.TrimSpace(summary)
	if summary == "" || len(summary) > maxSummaryLength {
		return nil, ErrInvalidSummary
	}

	drafts := []entities.NotificationDraft{{
		Recipient: entities.GroupRecipient(group),
		Kind:      entities.NotificationKindBroadcast,
		Summary:   summary,
	}}

	var notes []entities.Notification
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			var err error
			notes, err = u.dispatcher.Dispatch(ctx, drafts)
			return err
		},
		IsFatalError: func(err error) bool {
			return !errors.Is(err, interfaces.ErrWriteContention)
		},
		Attempts:    broadcastAttempts,
		Delay:       defaultTransitionDelay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       clock.WallClock,
		Stop:        ctx.Done(),
	})
	if err != nil {
		if retry.IsAttemptsExceeded(err) || retry.IsRetryStopped(err) {
			err = retry.LastError(err)
		}
		log.Printf("[notification][usecase] broadcast failed group=%s err=%v", group, err)
		return nil, storageFailure(err)
	}
	log.Printf("[notification][usecase] broadcast success group=%s count=%d", group, len(notes))
	return notes, nil
}

// resolveStream maps the stream a caller asks for to its storage key. An
// empty stream (or the caller's own subject id) is the caller's own stream;
// anything else must be a role group the caller belongs to. Admins may read
// every group.
func resolveStream(actor entities.Identity, stream string) (string, error) {
	if err := validateActor(actor); err != nil {
		return "", err
	}
	stream = strings.TrimSpace(stream)
	if stream == "" || stream == actor.SubjectID {
		return actor.SubjectID, nil
	}

	group := strings.TrimPrefix(stream, "group:")
	if !isKnownGroup(group) {
		return "", ErrForbidden
	}
	if group != actor.Role.Group() && actor.Role != entities.RoleAdmin {
		return "", ErrForbidden
	}
	return entities.GroupStreamKey(group), nil
}

func isKnownGroup(group string) bool {
	switch group {
	case entities.GroupAdmins, entities.GroupProviders, entities.GroupCustomers:
		return true
	}
	return false
}
