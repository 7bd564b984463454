package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/retry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTransitionAttempts = 5
	defaultTransitionDelay    = 25 * time.Millisecond
)

// CreateBookingInput is what a customer supplies when requesting a service.
// ProviderID is optional: when set only that provider may accept.
type CreateBookingInput struct {
	ServiceID    string
	ProviderID   string
	Notes        string
	ScheduledFor time.Time
}

// ListBookingsFilter narrows an admin listing. Customers and providers always
// get their own bookings and may leave it empty.
type ListBookingsFilter struct {
	CustomerID string
	ProviderID string
}

// RetryPolicy bounds how long a transition keeps retrying when its write
// loses a race that did not change the booking version.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	Clock    clock.Clock
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = defaultTransitionAttempts
	}
	if p.Delay <= 0 {
		p.Delay = defaultTransitionDelay
	}
	if p.Clock == nil {
		p.Clock = clock.WallClock
	}
	return p
}

// IBookingUseCase is the booking transition engine.
//
//   - Create => new booking in REQUESTED, version 0
//   - Transition => validated, version-checked state change + notifications
//   - GetByID / List => reads restricted to the parties and admins

type IBookingUseCase interface {
	Create(ctx context.Context, actor entities.Identity, in CreateBookingInput) (entities.Booking, error)
	Transition(ctx context.Context, bookingID string, actor entities.Identity, target entities.BookingState, expectedVersion int64) (entities.Booking, error)
	GetByID(ctx context.Context, actor entities.Identity, id string) (entities.Booking, error)
	List(ctx context.Context, actor entities.Identity, filter ListBookingsFilter) ([]entities.Booking, error)
}

type BookingUseCase struct {
	repo       interfaces.IBookingRepository
	dispatcher INotificationDispatcher
	publisher  interfaces.IEventPublisher
	metrics    interfaces.IMetricsRecorder
	retry      RetryPolicy
}

var _ IBookingUseCase = (*BookingUseCase)(nil)

func NewBookingUseCase(repo interfaces.IBookingRepository, dispatcher INotificationDispatcher, publisher interfaces.IEventPublisher, metrics interfaces.IMetricsRecorder, policy RetryPolicy) *BookingUseCase {
	return &BookingUseCase{
		repo:       repo,
		dispatcher: dispatcher,
		publisher:  publisher,
		metrics:    metrics,
		retry:      policy.withDefaults(),
	}
}

func (u *BookingUseCase) Create(ctx context.Context, actor entities.Identity, in CreateBookingInput) (entities.Booking, error) {
	if err := validateActor(actor); err != nil {
		return entities.Booking{}, err
	}
	if actor.Role != entities.RoleCustomer {
		return entities.Booking{}, ErrForbidden
	}
	in.ServiceID = strings.TrimSpace(in.ServiceID)
	if in.ServiceID == "" {
		return entities.Booking{}, ErrInvalidServiceID
	}

	now := time.Now().UTC()
	b := entities.Booking{
		ID:               uuid.NewString(),
		CustomerID:       actor.SubjectID,
		ProviderID:       strings.TrimSpace(in.ProviderID),
		ServiceID:        in.ServiceID,
		Notes:            strings.TrimSpace(in.Notes),
		ScheduledFor:     in.ScheduledFor.UTC(),
		State:            entities.BookingStateRequested,
		Version:          0,
		CreatedAt:        now,
		LastTransitionAt: now,
	}

	created, err := u.dispatcher.DispatchCreation(ctx, b)
	if err != nil {
		log.Printf("[booking][usecase] create failed customer_id=%s err=%v", actor.SubjectID, err)
		return entities.Booking{}, storageFailure(err)
	}
	log.Printf("[booking][usecase] create success booking_id=%s customer_id=%s provider_id=%s", created.ID, created.CustomerID, created.ProviderID)
	u.publish(ctx, created, "")
	return created, nil
}

// Transition validates, in order: the booking exists, expectedVersion is the
// stored version, the edge exists in the matrix, the actor may take it. On
// success the new state and its notifications are durably committed before
// returning.
func (u *BookingUseCase) Transition(ctx context.Context, bookingID string, actor entities.Identity, target entities.BookingState, expectedVersion int64) (entities.Booking, error) {
	ctx, span := tracer.Start(ctx, "booking.transition", trace.WithAttributes(
		attribute.String("booking.id", bookingID),
		attribute.String("booking.target_state", string(target)),
		attribute.Int64("booking.expected_version", expectedVersion),
		attribute.String("actor.role", string(actor.Role)),
	))
	defer span.End()

	b, err := u.transition(ctx, bookingID, actor, target, expectedVersion)
	kind := KindOf(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
	}
	u.recordTransition(target, kind)
	return b, err
}

// transition checks in a fixed order: input shape, existence, version, then
// the matrix edge, and only then the actor's role and party membership. A
// closed booking therefore reports INVALID_TRANSITION to everyone, so a
// customer asking CANCELLED -> ACCEPTED learns the booking is closed rather
// than that customers may not accept.
func (u *BookingUseCase) transition(ctx context.Context, bookingID string, actor entities.Identity, target entities.BookingState, expectedVersion int64) (entities.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	log.Printf("[booking][usecase] transition start booking_id=%s actor_id=%s role=%s target=%s expected_version=%d", bookingID, actor.SubjectID, actor.Role, target, expectedVersion)
	if bookingID == "" {
		return entities.Booking{}, ErrInvalidBookingID
	}
	if _, ok := entities.ParseBookingState(string(target)); !ok {
		return entities.Booking{}, ErrInvalidTargetState
	}
	if expectedVersion < 0 {
		return entities.Booking{}, ErrInvalidVersion
	}
	if err := validateActor(actor); err != nil {
		return entities.Booking{}, err
	}

	current, err := u.repo.GetByID(ctx, bookingID)
	if err != nil {
		log.Printf("[booking][usecase] load failed booking_id=%s err=%v", bookingID, err)
		return entities.Booking{}, storageFailure(err)
	}
	if current.ID == "" {
		return entities.Booking{}, ErrBookingNotFound
	}
	if current.Version != expectedVersion {
		log.Printf("[booking][usecase] version conflict booking_id=%s stored=%d expected=%d", bookingID, current.Version, expectedVersion)
		return entities.Booking{}, ErrVersionConflict
	}

	next, err := applyTransition(current, actor, target)
	if err != nil {
		log.Printf("[booking][usecase] transition rejected booking_id=%s from=%s target=%s role=%s err=%v", bookingID, current.State, target, actor.Role, err)
		return entities.Booking{}, err
	}

	committed, err := u.commit(ctx, current, next, actor)
	if err != nil {
		return entities.Booking{}, err
	}
	log.Printf("[booking][usecase] transition success booking_id=%s from=%s to=%s version=%d", committed.ID, current.State, committed.State, committed.Version)
	u.publish(ctx, committed, current.State)
	return committed, nil
}

// commit retries only on write contention: the version still matched but a
// notification stream moved or the store reported a conflicting transaction.
// A version mismatch or exhausting the budget is a CONFLICT for the caller.
func (u *BookingUseCase) commit(ctx context.Context, current, next entities.Booking, actor entities.Identity) (entities.Booking, error) {
	var committed entities.Booking
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			var err error
			committed, err = u.dispatcher.DispatchTransition(ctx, current, next, actor)
			return err
		},
		IsFatalError: func(err error) bool {
			return !errors.Is(err, interfaces.ErrWriteContention)
		},
		NotifyFunc: func(err error, attempt int) {
			log.Printf("[booking][usecase] commit contention booking_id=%s attempt=%d err=%v", next.ID, attempt, err)
		},
		Attempts:    u.retry.Attempts,
		Delay:       u.retry.Delay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       u.retry.Clock,
		Stop:        ctx.Done(),
	})
	if err == nil {
		return committed, nil
	}

	if retry.IsAttemptsExceeded(err) || retry.IsRetryStopped(err) {
		err = retry.LastError(err)
	}
	switch {
	case errors.Is(err, interfaces.ErrVersionMismatch), errors.Is(err, interfaces.ErrWriteContention):
		log.Printf("[booking][usecase] commit conflict booking_id=%s err=%v", next.ID, err)
		return entities.Booking{}, ErrVersionConflict
	default:
		log.Printf("[booking][usecase] commit failed booking_id=%s err=%v", next.ID, err)
		return entities.Booking{}, storageFailure(err)
	}
}

// applyTransition checks the matrix and the actor's relation to the booking
// and returns the snapshot to commit.
func applyTransition(current entities.Booking, actor entities.Identity, target entities.BookingState) (entities.Booking, error) {
	rule, ok := entities.FindBookingTransition(current.State, target)
	if !ok {
		return entities.Booking{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.State, target)
	}
	if !rule.Allows(actor.Role) {
		return entities.Booking{}, ErrForbidden
	}

	next := current
	switch actor.Role {
	case entities.RoleCustomer:
		if current.CustomerID != actor.SubjectID {
			return entities.Booking{}, ErrForbidden
		}
	case entities.RoleProvider:
		if current.State == entities.BookingStateRequested && target == entities.BookingStateAccepted {
			// the accepting provider assigns itself, unless the customer
			// pre-selected someone else
			if current.HasProvider() && current.ProviderID != actor.SubjectID {
				return entities.Booking{}, ErrForbidden
			}
			next.ProviderID = actor.SubjectID
			break
		}
		if !current.HasProvider() {
			return entities.Booking{}, fmt.Errorf("%w: no provider assigned", ErrInvalidTransition)
		}
		if current.ProviderID != actor.SubjectID {
			return entities.Booking{}, ErrForbidden
		}
	}

	next.State = target
	next.Version = current.Version + 1
	next.LastTransitionAt = time.Now().UTC()
	return next, nil
}

func (u *BookingUseCase) GetByID(ctx context.Context, actor entities.Identity, id string) (entities.Booking, error) {
	if err := validateActor(actor); err != nil {
		return entities.Booking{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Booking{}, ErrInvalidBookingID
	}

	b, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Booking{}, storageFailure(err)
	}
	if b.ID == "" {
		return entities.Booking{}, ErrBookingNotFound
	}
	if actor.Role != entities.RoleAdmin && !b.IsParty(actor.SubjectID) {
		// do not leak existence to outsiders
		return entities.Booking{}, ErrBookingNotFound
	}
	return b, nil
}

func (u *BookingUseCase) List(ctx context.Context, actor entities.Identity, filter ListBookingsFilter) ([]entities.Booking, error) {
	if err := validateActor(actor); err != nil {
		return nil, err
	}
	filter.CustomerID = strings.TrimSpace(filter.CustomerID)
	filter.ProviderID = strings.TrimSpace(filter.ProviderID)

	var (
		items []entities.Booking
		err   error
	)
	switch actor.Role {
	case entities.RoleCustomer:
		items, err = u.repo.ListByCustomerID(ctx, actor.SubjectID)
	case entities.RoleProvider:
		items, err = u.repo.ListByProviderID(ctx, actor.SubjectID)
	case entities.RoleAdmin:
		switch {
		case filter.CustomerID != "":
			items, err = u.repo.ListByCustomerID(ctx, filter.CustomerID)
		case filter.ProviderID != "":
			items, err = u.repo.ListByProviderID(ctx, filter.ProviderID)
		default:
			return nil, ErrInvalidListFilter
		}
	}
	if err != nil {
		return nil, storageFailure(err)
	}
	return items, nil
}

// BookingEvent is the integration event published after every committed
// creation or transition.
type BookingEvent struct {
	BookingID  string                `json:"booking_id"`
	CustomerID string                `json:"customer_id"`
	ProviderID string                `json:"provider_id,omitempty"`
	From       entities.BookingState `json:"from,omitempty"`
	State      entities.BookingState `json:"state"`
	Version    int64                 `json:"version"`
	OccurredAt time.Time             `json:"occurred_at"`
}

// BookingEventKey is the routing key, e.g. "booking.accepted".
func BookingEventKey(state entities.BookingState) string {
	return "booking." + strings.ToLower(string(state))
}

func (u *BookingUseCase) publish(ctx context.Context, b entities.Booking, from entities.BookingState) {
	if u.publisher == nil {
		return
	}
	ev := BookingEvent{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		ProviderID: b.ProviderID,
		From:       from,
		State:      b.State,
		Version:    b.Version,
		OccurredAt: b.LastTransitionAt,
	}
	if err := u.publisher.PublishJSON(ctx, BookingEventKey(b.State), ev); err != nil {
		log.Printf("[booking][usecase] publish event failed booking_id=%s state=%s err=%v", b.ID, b.State, err)
	}
}

func (u *BookingUseCase) recordTransition(target entities.BookingState, kind ErrorKind) {
	if u.metrics == nil {
		return
	}
	outcome := "success"
	if kind != "" {
		outcome = strings.ToLower(string(kind))
	}
	u.metrics.RecordTransition(string(target), outcome)
}

func validateActor(actor entities.Identity) error {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return ErrInvalidActor
	}
	if actor.Role.Group() == "" {
		return ErrInvalidActor
	}
	return nil
}
