package routes

import (
	"context"
	"fmt"
	"log"
	"strings"

	"bookinghub/internal/adapter/http/handlers"
	"bookinghub/internal/adapter/persistence/memory"
	"bookinghub/internal/adapter/persistence/repository"
	"bookinghub/internal/adapter/realtime"
	"bookinghub/internal/config"
	"bookinghub/internal/infrastructure/auth"
	"bookinghub/internal/infrastructure/database"
	"bookinghub/internal/infrastructure/events"
	"bookinghub/internal/infrastructure/observability"
	"bookinghub/internal/infrastructure/relay"
	"bookinghub/internal/usecase"
	"bookinghub/internal/usecase/interfaces"

	"github.com/juju/clock"
)

// app holds everything the router needs, wired from the configuration.
type app struct {
	verifier   interfaces.IIdentityVerifier
	metrics    *observability.Collector
	registry   *realtime.Registry
	dispatcher *usecase.NotificationDispatcher

	bookingHandler      *handlers.BookingHandler
	notificationHandler *handlers.NotificationHandler
	realtimeHandler     *handlers.RealtimeHandler

	closers []func() error
}

type stores struct {
	bookings      interfaces.IBookingRepository
	transitions   interfaces.ITransitionStore
	notifications interfaces.INotificationRepository
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		verifier: auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer),
		metrics:  observability.NewMetricsCollector(),
	}
	a.registry = realtime.NewRegistry(a.verifier, clock.WallClock, a.metrics)

	var pusher interfaces.ILivePusher = a.registry
	if cfg.RedisURL != "" {
		r, err := relay.NewRedisRelay(ctx, cfg.RedisURL, cfg.RedisChannel, a.registry)
		if err != nil {
			return nil, fmt.Errorf("redis relay: %w", err)
		}
		go func() {
			if err := r.Run(ctx); err != nil && ctx.Err() == nil {
				log.Printf("[routes][app] redis relay stopped err=%v", err)
			}
		}()
		a.closers = append(a.closers, r.Close)
		pusher = r
	}

	var publisher interfaces.IEventPublisher
	if cfg.RabbitMQURL != "" {
		p, err := events.NewPublisher(cfg.RabbitMQURL, cfg.EventsExchange)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("rabbitmq publisher: %w", err)
		}
		a.closers = append(a.closers, p.Close)
		publisher = p
	}

	a.dispatcher = usecase.NewNotificationDispatcher(st.transitions, st.notifications, pusher, a.metrics)
	bookingUseCase := usecase.NewBookingUseCase(st.bookings, a.dispatcher, publisher, a.metrics, usecase.RetryPolicy{
		Attempts: cfg.TransitionMaxAttempts,
		Delay:    cfg.TransitionRetryDelay,
	})
	notificationUseCase := usecase.NewNotificationUseCase(st.notifications, a.dispatcher, cfg.BacklogPageLimit)

	a.bookingHandler = handlers.NewBookingHandler(bookingUseCase)
	a.notificationHandler = handlers.NewNotificationHandler(notificationUseCase)
	a.realtimeHandler = handlers.NewRealtimeHandler(ctx, a.registry, notificationUseCase)
	return a, nil
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if strings.EqualFold(cfg.StoreDriver, config.StoreDriverMemory) {
		log.Printf("[routes][app] using in-memory store")
		s := memory.NewStore()
		return stores{bookings: s, transitions: s, notifications: s}, nil
	}

	ddb, err := database.ConnectDynamoDB(ctx, cfg)
	if err != nil {
		return stores{}, fmt.Errorf("dynamodb: %w", err)
	}
	tables := repository.Tables{
		Bookings:            cfg.BookingsTable,
		Notifications:       cfg.NotificationsTable,
		NotificationStreams: cfg.NotificationStreamsTable,
	}
	if cfg.DynamoDBEndpoint != "" {
		if err := repository.EnsureTables(ctx, ddb, tables); err != nil {
			return stores{}, fmt.Errorf("dynamodb tables: %w", err)
		}
	}

	notifications := repository.NewNotificationDynamoRepository(ddb, tables.Notifications, tables.NotificationStreams)
	return stores{
		bookings:      repository.NewBookingDynamoRepository(ddb, tables.Bookings),
		transitions:   repository.NewTransitionDynamoStore(ddb, tables.Bookings, notifications),
		notifications: notifications,
	}, nil
}

// close waits for in-flight live pushes, then releases the brokers.
func (a *app) close() {
	if a.dispatcher != nil {
		a.dispatcher.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("[routes][app] close failed err=%v", err)
		}
	}
}
