package repository

import (
	"context"
	"sort"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	DefaultBookingsTableName = "bookings"
	CustomerIndexName        = "customer_id-index"
	ProviderIndexName        = "provider_id-index"
)

type bookingItem struct {
	ID               string `dynamodbav:"id"`
	CustomerID       string `dynamodbav:"customer_id"`
	ProviderID       string `dynamodbav:"provider_id,omitempty"`
	ServiceID        string `dynamodbav:"service_id"`
	Notes            string `dynamodbav:"notes,omitempty"`
	ScheduledFor     string `dynamodbav:"scheduled_for,omitempty"`
	State            string `dynamodbav:"state"`
	Version          int64  `dynamodbav:"version"`
	CreatedAt        string `dynamodbav:"created_at"`
	LastTransitionAt string `dynamodbav:"last_transition_at"`
}

// BookingDynamoRepository reads Booking entities from DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI customer_id-index: customer_id (string)
//   - GSI provider_id-index: provider_id (string), sparse
//
// All writes go through TransitionDynamoStore so the version condition and
// the notification log stay in one transaction.

type BookingDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IBookingRepository = (*BookingDynamoRepository)(nil)

func NewBookingDynamoRepository(ddb *dynamodb.Client, tableName string) *BookingDynamoRepository {
	return &BookingDynamoRepository{
		ddb:       ddb,
		tableName: tableOrDefault(tableName, DefaultBookingsTableName),
	}
}

func (r *BookingDynamoRepository) GetByID(ctx context.Context, id string) (entities.Booking, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Booking{}, err
	}
	if len(out.Item) == 0 {
		return entities.Booking{}, nil
	}

	var it bookingItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Booking{}, err
	}
	return fromBookingItem(it), nil
}

func (r *BookingDynamoRepository) ListByCustomerID(ctx context.Context, customerID string) ([]entities.Booking, error) {
	return r.queryIndex(ctx, CustomerIndexName, "customer_id", customerID)
}

func (r *BookingDynamoRepository) ListByProviderID(ctx context.Context, providerID string) ([]entities.Booking, error) {
	return r.queryIndex(ctx, ProviderIndexName, "provider_id", providerID)
}

func (r *BookingDynamoRepository) queryIndex(ctx context.Context, index, attr, value string) ([]entities.Booking, error) {
	p := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{
			"#k": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
	})

	out := make([]entities.Booking, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var items []bookingItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			out = append(out, fromBookingItem(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func toBookingItem(b entities.Booking) bookingItem {
	return bookingItem{
		ID:               b.ID,
		CustomerID:       b.CustomerID,
		ProviderID:       b.ProviderID,
		ServiceID:        b.ServiceID,
		Notes:            b.Notes,
		ScheduledFor:     formatTime(b.ScheduledFor),
		State:            string(b.State),
		Version:          b.Version,
		CreatedAt:        formatTime(b.CreatedAt),
		LastTransitionAt: formatTime(b.LastTransitionAt),
	}
}

func fromBookingItem(it bookingItem) entities.Booking {
	return entities.Booking{
		ID:               it.ID,
		CustomerID:       it.CustomerID,
		ProviderID:       it.ProviderID,
		ServiceID:        it.ServiceID,
		Notes:            it.Notes,
		ScheduledFor:     parseTime(it.ScheduledFor),
		State:            entities.BookingState(it.State),
		Version:          it.Version,
		CreatedAt:        parseTime(it.CreatedAt),
		LastTransitionAt: parseTime(it.LastTransitionAt),
	}
}
