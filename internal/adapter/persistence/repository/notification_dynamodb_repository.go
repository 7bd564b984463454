package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

const (
	DefaultNotificationsTableName       = "notifications"
	DefaultNotificationStreamsTableName = "notification_streams"
)

type notificationItem struct {
	Recipient        string `dynamodbav:"recipient"`
	Seq              int64  `dynamodbav:"seq"`
	ID               string `dynamodbav:"id"`
	RecipientSubject string `dynamodbav:"recipient_subject,omitempty"`
	RecipientGroup   string `dynamodbav:"recipient_group,omitempty"`
	RecipientRole    string `dynamodbav:"recipient_role"`
	Kind             string `dynamodbav:"kind"`
	BookingID        string `dynamodbav:"booking_id,omitempty"`
	State            string `dynamodbav:"state,omitempty"`
	Summary          string `dynamodbav:"summary"`
	CreatedAt        string `dynamodbav:"created_at"`
	Delivered        bool   `dynamodbav:"delivered"`
}

type streamItem struct {
	Recipient string `dynamodbav:"recipient"`
	Seq       int64  `dynamodbav:"seq"`
	Acked     int64  `dynamodbav:"acked"`
}

// NotificationDynamoRepository persists the per-recipient notification log.
//
// Table requirements:
//   - notifications: PK recipient (string), SK seq (number)
//   - notification_streams: PK recipient (string); holds the last assigned
//     seq and the acknowledged cursor of each stream
//
// Sequence numbers come from the stream counter, advanced in the same
// transaction that puts the notifications, conditioned on the value read
// just before. A concurrent append makes the transaction fail as a whole.

type NotificationDynamoRepository struct {
	ddb                *dynamodb.Client
	notificationsTable string
	streamsTable       string
}

var _ interfaces.INotificationRepository = (*NotificationDynamoRepository)(nil)

func NewNotificationDynamoRepository(ddb *dynamodb.Client, notificationsTable, streamsTable string) *NotificationDynamoRepository {
	return &NotificationDynamoRepository{
		ddb:                ddb,
		notificationsTable: tableOrDefault(notificationsTable, DefaultNotificationsTableName),
		streamsTable:       tableOrDefault(streamsTable, DefaultNotificationStreamsTableName),
	}
}

func (r *NotificationDynamoRepository) Append(ctx context.Context, drafts []entities.NotificationDraft) ([]entities.Notification, error) {
	if len(drafts) == 0 {
		return []entities.Notification{}, nil
	}
	writes, notes, err := r.prepareAppend(ctx, drafts, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	})
	if err != nil {
		return nil, classifyTransactErr(err, -1)
	}
	return notes, nil
}

// prepareAppend reads the current counter of every stream touched by drafts
// and returns the transaction items that advance them and put the
// notifications, plus the notifications as they will be stored.
func (r *NotificationDynamoRepository) prepareAppend(ctx context.Context, drafts []entities.NotificationDraft, at time.Time) ([]types.TransactWriteItem, []entities.Notification, error) {
	current := make(map[string]int64)
	for _, d := range drafts {
		key := d.Recipient.StreamKey()
		if _, ok := current[key]; ok {
			continue
		}
		st, err := r.getStream(ctx, key)
		if err != nil {
			return nil, nil, err
		}
		current[key] = st.Seq
	}

	plan := planSequences(current, drafts)
	notes := make([]entities.Notification, 0, len(drafts))
	writes := make([]types.TransactWriteItem, 0, len(plan.order)+len(drafts))

	for _, key := range plan.order {
		writes = append(writes, r.advanceStream(key, current[key], plan.next[key]))
	}
	for i, d := range drafts {
		n := entities.Notification{
			ID:        uuid.NewString(),
			Sequence:  plan.assigned[i],
			Recipient: d.Recipient,
			Kind:      d.Kind,
			BookingID: d.BookingID,
			State:     d.State,
			Summary:   d.Summary,
			CreatedAt: at,
		}
		av, err := attributevalue.MarshalMap(toNotificationItem(n))
		if err != nil {
			return nil, nil, err
		}
		writes = append(writes, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(r.notificationsTable),
				Item:                av,
				ConditionExpression: aws.String("attribute_not_exists(#recipient)"),
				ExpressionAttributeNames: map[string]string{
					"#recipient": "recipient",
				},
			},
		})
		notes = append(notes, n)
	}
	return writes, notes, nil
}

func (r *NotificationDynamoRepository) advanceStream(key string, prev, next int64) types.TransactWriteItem {
	names := map[string]string{"#seq": "seq"}
	values := map[string]types.AttributeValue{
		":next": &types.AttributeValueMemberN{Value: strconv.FormatInt(next, 10)},
	}
	cond := "#seq = :prev"
	if prev == 0 {
		cond = "attribute_not_exists(#seq) OR #seq = :prev"
	}
	values[":prev"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(prev, 10)}

	return types.TransactWriteItem{
		Update: &types.Update{
			TableName: aws.String(r.streamsTable),
			Key: map[string]types.AttributeValue{
				"recipient": &types.AttributeValueMemberS{Value: key},
			},
			UpdateExpression:          aws.String("SET #seq = :next"),
			ConditionExpression:       aws.String(cond),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		},
	}
}

type sequencePlan struct {
	order    []string
	next     map[string]int64
	assigned []int64
}

// planSequences hands out consecutive sequence numbers per stream, in draft
// order, starting after current[stream].
func planSequences(current map[string]int64, drafts []entities.NotificationDraft) sequencePlan {
	p := sequencePlan{
		next:     make(map[string]int64, len(current)),
		assigned: make([]int64, len(drafts)),
	}
	for i, d := range drafts {
		key := d.Recipient.StreamKey()
		last, ok := p.next[key]
		if !ok {
			last = current[key]
			p.order = append(p.order, key)
		}
		last++
		p.next[key] = last
		p.assigned[i] = last
	}
	return p
}

func (r *NotificationDynamoRepository) getStream(ctx context.Context, key string) (streamItem, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.streamsTable),
		Key: map[string]types.AttributeValue{
			"recipient": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return streamItem{}, err
	}
	var st streamItem
	if len(out.Item) == 0 {
		return st, nil
	}
	if err := attributevalue.UnmarshalMap(out.Item, &st); err != nil {
		return streamItem{}, err
	}
	return st, nil
}

func (r *NotificationDynamoRepository) ListSince(ctx context.Context, streamKey string, since int64, limit int) ([]entities.Notification, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.notificationsTable),
		KeyConditionExpression: aws.String("#recipient = :recipient AND #seq > :since"),
		ExpressionAttributeNames: map[string]string{
			"#recipient": "recipient",
			"#seq":       "seq",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":recipient": &types.AttributeValueMemberS{Value: streamKey},
			":since":     &types.AttributeValueMemberN{Value: strconv.FormatInt(since, 10)},
		},
		ScanIndexForward: aws.Bool(true),
		ConsistentRead:   aws.Bool(true),
	}

	out := make([]entities.Notification, 0)
	for {
		if limit > 0 {
			in.Limit = aws.Int32(int32(limit - len(out)))
		}
		page, err := r.ddb.Query(ctx, in)
		if err != nil {
			return nil, err
		}
		var items []notificationItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			out = append(out, fromNotificationItem(it))
		}
		if len(page.LastEvaluatedKey) == 0 || (limit > 0 && len(out) >= limit) {
			return out, nil
		}
		in.ExclusiveStartKey = page.LastEvaluatedKey
	}
}

// Ack moves the acknowledged cursor forward, never past the last assigned
// sequence and never backwards. It returns the cursor after the call.
func (r *NotificationDynamoRepository) Ack(ctx context.Context, streamKey string, sequence int64) (int64, error) {
	st, err := r.getStream(ctx, streamKey)
	if err != nil {
		return 0, err
	}
	if sequence > st.Seq {
		sequence = st.Seq
	}
	if sequence <= st.Acked {
		return st.Acked, nil
	}

	_, err = r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.streamsTable),
		Key: map[string]types.AttributeValue{
			"recipient": &types.AttributeValueMemberS{Value: streamKey},
		},
		UpdateExpression:    aws.String("SET #acked = :acked"),
		ConditionExpression: aws.String("attribute_not_exists(#acked) OR #acked < :acked"),
		ExpressionAttributeNames: map[string]string{
			"#acked": "acked",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":acked": &types.AttributeValueMemberN{Value: strconv.FormatInt(sequence, 10)},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			// someone acked further in the meantime
			return r.LastAcked(ctx, streamKey)
		}
		return 0, err
	}
	return sequence, nil
}

func (r *NotificationDynamoRepository) LastAcked(ctx context.Context, streamKey string) (int64, error) {
	st, err := r.getStream(ctx, streamKey)
	if err != nil {
		return 0, err
	}
	return st.Acked, nil
}

func (r *NotificationDynamoRepository) MarkDelivered(ctx context.Context, streamKey string, sequence int64) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.notificationsTable),
		Key: map[string]types.AttributeValue{
			"recipient": &types.AttributeValueMemberS{Value: streamKey},
			"seq":       &types.AttributeValueMemberN{Value: strconv.FormatInt(sequence, 10)},
		},
		UpdateExpression:    aws.String("SET #delivered = :true"),
		ConditionExpression: aws.String("attribute_exists(#recipient)"),
		ExpressionAttributeNames: map[string]string{
			"#delivered": "delivered",
			"#recipient": "recipient",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":true": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return nil
		}
		return err
	}
	return nil
}

func toNotificationItem(n entities.Notification) notificationItem {
	return notificationItem{
		Recipient:        n.Recipient.StreamKey(),
		Seq:              n.Sequence,
		ID:               n.ID,
		RecipientSubject: n.Recipient.SubjectID,
		RecipientGroup:   n.Recipient.Group,
		RecipientRole:    string(n.Recipient.Role),
		Kind:             string(n.Kind),
		BookingID:        n.BookingID,
		State:            string(n.State),
		Summary:          n.Summary,
		CreatedAt:        formatTime(n.CreatedAt),
		Delivered:        n.Delivered,
	}
}

func fromNotificationItem(it notificationItem) entities.Notification {
	return entities.Notification{
		ID:       it.ID,
		Sequence: it.Seq,
		Recipient: entities.Recipient{
			SubjectID: it.RecipientSubject,
			Group:     it.RecipientGroup,
			Role:      entities.Role(it.RecipientRole),
		},
		Kind:      entities.NotificationKind(it.Kind),
		BookingID: it.BookingID,
		State:     entities.BookingState(it.State),
		Summary:   it.Summary,
		CreatedAt: parseTime(it.CreatedAt),
		Delivered: it.Delivered,
	}
}
