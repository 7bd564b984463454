package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultPushTimeout = 5 * time.Second

var tracer = otel.Tracer("bookinghub/internal/usecase")

// INotificationDispatcher turns booking events into durable notifications
// and fans them out live.
//
// Two phases, always in this order:
//   - durable write (atomic with the booking write for transitions)
//   - best-effort live push, off the caller's path

type INotificationDispatcher interface {
	DispatchCreation(ctx context.Context, b entities.Booking) (entities.Booking, error)
	DispatchTransition(ctx context.Context, prev, next entities.Booking, actor entities.Identity) (entities.Booking, error)
	Dispatch(ctx context.Context, drafts []entities.NotificationDraft) ([]entities.Notification, error)
}

type NotificationDispatcher struct {
	store       interfaces.ITransitionStore
	repo        interfaces.INotificationRepository
	pusher      interfaces.ILivePusher
	metrics     interfaces.IMetricsRecorder
	pushTimeout time.Duration

	inflight sync.WaitGroup
}

var _ INotificationDispatcher = (*NotificationDispatcher)(nil)

func NewNotificationDispatcher(store interfaces.ITransitionStore, repo interfaces.INotificationRepository, pusher interfaces.ILivePusher, metrics interfaces.IMetricsRecorder) *NotificationDispatcher {
	return &NotificationDispatcher{
		store:       store,
		repo:        repo,
		pusher:      pusher,
		metrics:     metrics,
		pushTimeout: defaultPushTimeout,
	}
}

// DispatchCreation stores a new booking with its "new request" notification
// for a pre-selected provider.
func (d *NotificationDispatcher) DispatchCreation(ctx context.Context, b entities.Booking) (entities.Booking, error) {
	var drafts []entities.NotificationDraft
	if b.HasProvider() {
		drafts = append(drafts, entities.NotificationDraft{
			Recipient: entities.SubjectRecipient(b.ProviderID, entities.RoleProvider),
			Kind:      entities.NotificationKindBookingRequested,
			BookingID: b.ID,
			State:     b.State,
			Summary:   fmt.Sprintf("New booking request %s", b.ID),
		})
	}

	created, notes, err := d.store.CommitCreation(ctx, b, drafts)
	if err != nil {
		return entities.Booking{}, err
	}
	d.fanOut(ctx, notes)
	return created, nil
}

// DispatchTransition writes next (conditioned on prev.Version) and one
// notification per recipient in a single atomic store write, then pushes.
// Store errors are returned untouched so the caller can tell a version
// mismatch from contention.
func (d *NotificationDispatcher) DispatchTransition(ctx context.Context, prev, next entities.Booking, actor entities.Identity) (entities.Booking, error) {
	ctx, span := tracer.Start(ctx, "notification.dispatch_transition", trace.WithAttributes(
		attribute.String("booking.id", next.ID),
		attribute.String("booking.state", string(next.State)),
	))
	defer span.End()

	summary := transitionSummary(prev, next, actor)
	recipients := TransitionRecipients(next)
	drafts := make([]entities.NotificationDraft, 0, len(recipients))
	for _, r := range recipients {
		drafts = append(drafts, entities.NotificationDraft{
			Recipient: r,
			Kind:      entities.NotificationKindBookingTransition,
			BookingID: next.ID,
			State:     next.State,
			Summary:   summary,
		})
	}

	committed, notes, err := d.store.CommitTransition(ctx, interfaces.TransitionCommit{
		Booking:         next,
		ExpectedVersion: prev.Version,
		Notifications:   drafts,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return entities.Booking{}, err
	}
	span.SetAttributes(attribute.Int("notification.count", len(notes)))

	d.fanOut(ctx, notes)
	return committed, nil
}

// Dispatch appends standalone notifications (e.g. administrative broadcasts)
// and pushes them. Append contention is returned as is.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, drafts []entities.NotificationDraft) ([]entities.Notification, error) {
	if len(drafts) == 0 {
		return nil, nil
	}
	notes, err := d.repo.Append(ctx, drafts)
	if err != nil {
		return nil, err
	}
	d.fanOut(ctx, notes)
	return notes, nil
}

// Wait blocks until every live push started so far has finished.
func (d *NotificationDispatcher) Wait() {
	d.inflight.Wait()
}

func (d *NotificationDispatcher) fanOut(ctx context.Context, notes []entities.Notification) {
	if d.pusher == nil || len(notes) == 0 {
		return
	}

	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.pushTimeout)
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		defer cancel()

		for _, n := range notes {
			delivered, err := d.pusher.Push(pushCtx, n)
			if err != nil {
				log.Printf("[notification][dispatcher] live push failed stream=%s seq=%d err=%v", n.Recipient.StreamKey(), n.Sequence, err)
				d.recordPush("error")
				continue
			}
			if delivered == 0 {
				d.recordPush("offline")
				continue
			}
			d.recordPush("delivered")
			if d.repo == nil {
				continue
			}
			if err := d.repo.MarkDelivered(pushCtx, n.Recipient.StreamKey(), n.Sequence); err != nil {
				log.Printf("[notification][dispatcher] mark delivered failed stream=%s seq=%d err=%v", n.Recipient.StreamKey(), n.Sequence, err)
			}
		}
	}()
}

func (d *NotificationDispatcher) recordPush(outcome string) {
	if d.metrics != nil {
		d.metrics.RecordLivePush(outcome)
	}
}

// TransitionRecipients is the customer, the provider when assigned, and the
// admin group for transitions into a terminal state.
func TransitionRecipients(b entities.Booking) []entities.Recipient {
	out := []entities.Recipient{entities.SubjectRecipient(b.CustomerID, entities.RoleCustomer)}
	if b.HasProvider() && b.ProviderID != b.CustomerID {
		out = append(out, entities.SubjectRecipient(b.ProviderID, entities.RoleProvider))
	}
	if b.State.IsTerminal() {
		out = append(out, entities.GroupRecipient(entities.GroupAdmins))
	}
	return out
}

func transitionSummary(prev, next entities.Booking, actor entities.Identity) string {
	verb := strings.ToLower(strings.ReplaceAll(string(next.State), "_", " "))
	switch next.State {
	case entities.BookingStateInProgress:
		verb = "started"
	case entities.BookingStateDisputed:
		verb = "disputed"
	}
	return fmt.Sprintf("Booking %s %s by %s (was %s)", next.ID, verb, actor.Role, prev.State)
}
