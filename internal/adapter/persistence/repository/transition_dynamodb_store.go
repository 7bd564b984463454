package repository

import (
	"context"
	"errors"
	"strconv"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TransitionDynamoStore writes a booking and the notifications it produces
// in one TransactWriteItems call. The booking write is always the first
// item so a failed version condition can be told apart from stream
// contention.

type TransitionDynamoStore struct {
	ddb           *dynamodb.Client
	bookingsTable string
	notifications *NotificationDynamoRepository
}

var _ interfaces.ITransitionStore = (*TransitionDynamoStore)(nil)

func NewTransitionDynamoStore(ddb *dynamodb.Client, bookingsTable string, notifications *NotificationDynamoRepository) *TransitionDynamoStore {
	return &TransitionDynamoStore{
		ddb:           ddb,
		bookingsTable: tableOrDefault(bookingsTable, DefaultBookingsTableName),
		notifications: notifications,
	}
}

func (s *TransitionDynamoStore) CommitCreation(ctx context.Context, b entities.Booking, drafts []entities.NotificationDraft) (entities.Booking, []entities.Notification, error) {
	av, err := attributevalue.MarshalMap(toBookingItem(b))
	if err != nil {
		return entities.Booking{}, nil, err
	}

	writes := []types.TransactWriteItem{{
		Put: &types.Put{
			TableName:           aws.String(s.bookingsTable),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: map[string]string{
				"#id": "id",
			},
		},
	}}

	var notes []entities.Notification
	if len(drafts) > 0 {
		var more []types.TransactWriteItem
		more, notes, err = s.notifications.prepareAppend(ctx, drafts, b.CreatedAt)
		if err != nil {
			return entities.Booking{}, nil, err
		}
		writes = append(writes, more...)
	}

	if _, err := s.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes}); err != nil {
		err = classifyTransactErr(err, 0)
		if errors.Is(err, interfaces.ErrVersionMismatch) {
			return entities.Booking{}, nil, interfaces.ErrBookingExists
		}
		return entities.Booking{}, nil, err
	}
	return b, notes, nil
}

func (s *TransitionDynamoStore) CommitTransition(ctx context.Context, c interfaces.TransitionCommit) (entities.Booking, []entities.Notification, error) {
	b := c.Booking
	set := "SET #state = :state, #version = :version, #last_transition_at = :last_transition_at"
	names := map[string]string{
		"#state":              "state",
		"#version":            "version",
		"#last_transition_at": "last_transition_at",
	}
	values := map[string]types.AttributeValue{
		":state":              &types.AttributeValueMemberS{Value: string(b.State)},
		":version":            &types.AttributeValueMemberN{Value: strconv.FormatInt(b.Version, 10)},
		":last_transition_at": &types.AttributeValueMemberS{Value: formatTime(b.LastTransitionAt)},
		":expected":           &types.AttributeValueMemberN{Value: strconv.FormatInt(c.ExpectedVersion, 10)},
	}
	if b.ProviderID != "" {
		set += ", #provider_id = :provider_id"
		names["#provider_id"] = "provider_id"
		values[":provider_id"] = &types.AttributeValueMemberS{Value: b.ProviderID}
	}

	writes := []types.TransactWriteItem{{
		Update: &types.Update{
			TableName: aws.String(s.bookingsTable),
			Key: map[string]types.AttributeValue{
				"id": &types.AttributeValueMemberS{Value: b.ID},
			},
			UpdateExpression:          aws.String(set),
			ConditionExpression:       aws.String("attribute_exists(#id) AND #version = :expected"),
			ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
			ExpressionAttributeValues: values,
		},
	}}

	more, notes, err := s.notifications.prepareAppend(ctx, c.Notifications, b.LastTransitionAt)
	if err != nil {
		return entities.Booking{}, nil, err
	}
	writes = append(writes, more...)

	if _, err := s.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes}); err != nil {
		return entities.Booking{}, nil, classifyTransactErr(err, 0)
	}
	return b, notes, nil
}
