package dynamo

import (
	"context"
	"fmt"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/domain"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/pkg/id"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Sink appends verification records to a DynamoDB table.
// PK: record_id (ULID, so items sort by creation time). Put-only: nothing
// in this system ever updates or deletes a row.
type Sink struct {
	client    *dynamodb.Client
	tableName string
}

func NewSink(client *dynamodb.Client, tableName string) *Sink {
	return &Sink{client: client, tableName: tableName}
}

// Append writes the record under a fresh ULID. A duplicate row from the
// documented gate race is acceptable; a lost row is not.
func (s *Sink) Append(ctx context.Context, rec *domain.VerificationRecord) error {
	rec.RecordID = id.New()
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}
