// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StoreDriverDynamoDB = "dynamodb"
	StoreDriverMemory   = "memory"
)

type Config struct {
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"bookinghub"`
	StoreDriver string `envconfig:"STORE_DRIVER" default:"dynamodb"`

	AWSRegion          string `envconfig:"AWS_REGION" default:"us-east-1"`
	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID" default:"local"`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY" default:"local"`
	DynamoDBEndpoint   string `envconfig:"DYNAMODB_ENDPOINT"`

	BookingsTable            string `envconfig:"BOOKINGS_TABLE" default:"bookings"`
	NotificationsTable       string `envconfig:"NOTIFICATIONS_TABLE" default:"notifications"`
	NotificationStreamsTable string `envconfig:"NOTIFICATION_STREAMS_TABLE" default:"notification_streams"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer string `envconfig:"JWT_ISSUER" default:"bookinghub"`

	TransitionMaxAttempts int           `envconfig:"TRANSITION_MAX_ATTEMPTS" default:"5"`
	TransitionRetryDelay  time.Duration `envconfig:"TRANSITION_RETRY_DELAY" default:"25ms"`
	BacklogPageLimit      int           `envconfig:"BACKLOG_PAGE_LIMIT" default:"200"`

	RedisURL       string `envconfig:"REDIS_URL"`
	RedisChannel   string `envconfig:"REDIS_CHANNEL" default:"bookinghub.notifications"`
	RabbitMQURL    string `envconfig:"RABBITMQ_URL"`
	EventsExchange string `envconfig:"EVENTS_EXCHANGE" default:"bookinghub.events"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads the environment (after godotenv autoload) into a Config and
// checks the values that envconfig cannot.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch strings.ToLower(c.StoreDriver) {
	case StoreDriverDynamoDB, StoreDriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if c.TransitionMaxAttempts < 1 {
		return fmt.Errorf("config: TRANSITION_MAX_ATTEMPTS must be at least 1")
	}
	if c.TransitionRetryDelay <= 0 {
		return fmt.Errorf("config: TRANSITION_RETRY_DELAY must be positive")
	}
	if c.BacklogPageLimit < 1 {
		return fmt.Errorf("config: BACKLOG_PAGE_LIMIT must be at least 1")
	}
	return nil
}
