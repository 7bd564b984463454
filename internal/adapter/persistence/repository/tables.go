package repository

import (
	"context"
	"errors"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Tables names the three tables the service needs.
type Tables struct {
	Bookings            string
	Notifications       string
	NotificationStreams string
}

// EnsureTables creates missing tables with on-demand billing. Meant for
// local DynamoDB; production tables are provisioned outside the service.
func EnsureTables(ctx context.Context, ddb *dynamodb.Client, t Tables) error {
	for _, in := range tableDefinitions(t) {
		_, err := ddb.CreateTable(ctx, in)
		if err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				continue
			}
			return err
		}
		log.Printf("[dynamodb] table created name=%s", aws.ToString(in.TableName))
	}
	return nil
}

func tableDefinitions(t Tables) []*dynamodb.CreateTableInput {
	str := types.ScalarAttributeTypeS
	num := types.ScalarAttributeTypeN
	all := &types.Projection{ProjectionType: types.ProjectionTypeAll}

	return []*dynamodb.CreateTableInput{
		{
			TableName:   aws.String(tableOrDefault(t.Bookings, DefaultBookingsTableName)),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: str},
				{AttributeName: aws.String("customer_id"), AttributeType: str},
				{AttributeName: aws.String("provider_id"), AttributeType: str},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
			GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
				{
					IndexName:  aws.String(CustomerIndexName),
					KeySchema:  []types.KeySchemaElement{{AttributeName: aws.String("customer_id"), KeyType: types.KeyTypeHash}},
					Projection: all,
				},
				{
					IndexName:  aws.String(ProviderIndexName),
					KeySchema:  []types.KeySchemaElement{{AttributeName: aws.String("provider_id"), KeyType: types.KeyTypeHash}},
					Projection: all,
				},
			},
		},
		{
			TableName:   aws.String(tableOrDefault(t.Notifications, DefaultNotificationsTableName)),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("recipient"), AttributeType: str},
				{AttributeName: aws.String("seq"), AttributeType: num},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("recipient"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("seq"), KeyType: types.KeyTypeRange},
			},
		},
		{
			TableName:   aws.String(tableOrDefault(t.NotificationStreams, DefaultNotificationStreamsTableName)),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("recipient"), AttributeType: str},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("recipient"), KeyType: types.KeyTypeHash},
			},
		},
	}
}
