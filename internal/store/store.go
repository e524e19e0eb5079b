// Package store provides a partitioned DynamoDB table abstraction with
// optimistic concurrency. Every item carries the managed attributes
// partition_key, row_key, version, created_at and updated_at; entity structs
// never declare them, the store owns the version tag.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/abcretail/backoffice/internal/aws"
)

const (
	attrPartitionKey = "partition_key"
	attrRowKey       = "row_key"
	attrVersion      = "version"
	attrCreatedAt    = "created_at"
	attrUpdatedAt    = "updated_at"
)

// Entity is implemented by every storable type.
type Entity interface {
	// Keys returns the partition key and row key for this entity.
	Keys() (partition, row string)
}

// Record pairs a stored entity with its store-managed fields.
type Record[T Entity] struct {
	Entity    T
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ETag returns the opaque version tag exposed to API clients.
func (r *Record[T]) ETag() string {
	return FormatVersion(r.Version)
}

// FormatVersion renders a version as the opaque tag exposed on the wire.
func FormatVersion(v int64) string {
	return strconv.FormatInt(v, 10)
}

// ParseVersion parses a caller-supplied version tag.
func ParseVersion(tag string) (int64, error) {
	v, err := strconv.ParseInt(tag, 10, 64)
	if err != nil || v < 1 {
		return 0, ErrBadVersionTag
	}
	return v, nil
}

// Table is a typed view over one DynamoDB table. The backing table is created
// lazily before the first operation.
type Table[T Entity] struct {
	client  aws.DynamoDBAPI
	name    string
	nowFunc func() time.Time

	ensureOnce sync.Once
	ensureErr  error
}

// NewTable returns a Table bound to a DynamoDB table name.
func NewTable[T Entity](client aws.DynamoDBAPI, name string) *Table[T] {
	return &Table[T]{
		client:  client,
		name:    name,
		nowFunc: time.Now,
	}
}

// Create persists a new entity with version 1.
// Returns ErrAlreadyExists when (partition, row) is already taken.
func (t *Table[T]) Create(ctx context.Context, entity T) (*Record[T], error) {
	if err := t.ensure(ctx); err != nil {
		return nil, err
	}
	partition, row, err := entityKeys(entity)
	if err != nil {
		return nil, err
	}

	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return nil, fmt.Errorf("marshal entity: %w", err)
	}

	now := t.nowFunc().UTC()
	item[attrPartitionKey] = &types.AttributeValueMemberS{Value: partition}
	item[attrRowKey] = &types.AttributeValueMemberS{Value: row}
	item[attrVersion] = &types.AttributeValueMemberN{Value: "1"}
	item[attrCreatedAt] = &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)}
	item[attrUpdatedAt] = &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)}

	_, err = t.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &t.name,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(row_key)"),
	})
	if err != nil {
		if isConditionalFailure(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("put item: %w", err)
	}

	return &Record[T]{Entity: entity, Version: 1, CreatedAt: now, UpdatedAt: now}, nil
}

// Get fetches the entity at (partition, row). Returns ErrNotFound when absent.
func (t *Table[T]) Get(ctx context.Context, partition, row string) (*Record[T], error) {
	if err := t.ensure(ctx); err != nil {
		return nil, err
	}

	out, err := t.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &t.name,
		Key:       itemKey(partition, row),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	return unmarshalRecord[T](out.Item)
}

// List returns every entity in one partition. Pages are fetched lazily via
// the query paginator; items come back in the table's native row-key order.
func (t *Table[T]) List(ctx context.Context, partition string) ([]*Record[T], error) {
	if err := t.ensure(ctx); err != nil {
		return nil, err
	}

	paginator := dyn.NewQueryPaginator(t.client, &dyn.QueryInput{
		TableName:              &t.name,
		KeyConditionExpression: awsString("partition_key = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: partition},
		},
	})

	var records []*Record[T]
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query page: %w", err)
		}
		for _, raw := range page.Items {
			rec, err := unmarshalRecord[T](raw)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}

	return records, nil
}

// Update replaces the whole record, conditioned on the supplied version tag
// matching the stored one. Callers wanting patch semantics must merge fields
// from a fresh read before calling Update. Returns ErrVersionConflict on a
// stale tag and ErrNotFound when the row is gone; the two are never conflated.
func (t *Table[T]) Update(ctx context.Context, entity T, expectedVersion int64) (*Record[T], error) {
	if err := t.ensure(ctx); err != nil {
		return nil, err
	}
	partition, row, err := entityKeys(entity)
	if err != nil {
		return nil, err
	}

	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return nil, fmt.Errorf("marshal entity: %w", err)
	}

	// Deterministic clause order keeps the expression stable across calls.
	names := make([]string, 0, len(item))
	for k := range item {
		if managedAttribute(k) {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)

	exprNames := map[string]string{
		"#v":   attrVersion,
		"#uat": attrUpdatedAt,
	}
	exprValues := map[string]types.AttributeValue{
		":one":      &types.AttributeValueMemberN{Value: "1"},
		":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)},
		":uat":      &types.AttributeValueMemberS{Value: t.nowFunc().UTC().Format(time.RFC3339Nano)},
	}

	setExpr := "SET #v = #v + :one, #uat = :uat"
	for i, name := range names {
		nameKey := fmt.Sprintf("#a%d", i)
		valueKey := fmt.Sprintf(":a%d", i)
		exprNames[nameKey] = name
		exprValues[valueKey] = item[name]
		setExpr += fmt.Sprintf(", %s = %s", nameKey, valueKey)
	}

	out, err := t.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:                 &t.name,
		Key:                       itemKey(partition, row),
		UpdateExpression:          awsString(setExpr),
		ConditionExpression:       awsString("#v = :expected"),
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalFailure(err) {
			// The condition fails both for a missing row and a stale tag;
			// a follow-up read tells the two apart.
			if _, gerr := t.Get(ctx, partition, row); gerr != nil {
				if errors.Is(gerr, ErrNotFound) {
					return nil, ErrNotFound
				}
				return nil, gerr
			}
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("update item: %w", err)
	}

	return unmarshalRecord[T](out.Attributes)
}

// Delete removes the entity at (partition, row).
// Returns ErrNotFound when nothing was stored there.
func (t *Table[T]) Delete(ctx context.Context, partition, row string) error {
	if err := t.ensure(ctx); err != nil {
		return err
	}

	_, err := t.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:           &t.name,
		Key:                 itemKey(partition, row),
		ConditionExpression: awsString("attribute_exists(row_key)"),
	})
	if err != nil {
		if isConditionalFailure(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// ensure creates the backing table on first use. Safe to race: a concurrent
// CreateTable surfaces as ResourceInUse and is treated as success.
func (t *Table[T]) ensure(ctx context.Context) error {
	t.ensureOnce.Do(func() {
		_, err := t.client.DescribeTable(ctx, &dyn.DescribeTableInput{TableName: &t.name})
		if err == nil {
			return
		}
		var notFound *types.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			t.ensureErr = fmt.Errorf("describe table %s: %w", t.name, err)
			return
		}

		_, err = t.client.CreateTable(ctx, &dyn.CreateTableInput{
			TableName: &t.name,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: awsString(attrPartitionKey), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: awsString(attrRowKey), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: awsString(attrPartitionKey), KeyType: types.KeyTypeHash},
				{AttributeName: awsString(attrRowKey), KeyType: types.KeyTypeRange},
			},
			BillingMode: types.BillingModePayPerRequest,
		})
		var inUse *types.ResourceInUseException
		if err != nil && !errors.As(err, &inUse) {
			t.ensureErr = fmt.Errorf("create table %s: %w", t.name, err)
		}
	})
	return t.ensureErr
}

func entityKeys(e Entity) (string, string, error) {
	partition, row := e.Keys()
	if partition == "" || row == "" {
		return "", "", fmt.Errorf("store: entity has empty keys (partition=%q row=%q)", partition, row)
	}
	return partition, row, nil
}

func itemKey(partition, row string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPartitionKey: &types.AttributeValueMemberS{Value: partition},
		attrRowKey:       &types.AttributeValueMemberS{Value: row},
	}
}

func managedAttribute(name string) bool {
	switch name {
	case attrPartitionKey, attrRowKey, attrVersion, attrCreatedAt, attrUpdatedAt:
		return true
	}
	return false
}

func unmarshalRecord[T Entity](item map[string]types.AttributeValue) (*Record[T], error) {
	rec := &Record[T]{}
	if err := attributevalue.UnmarshalMap(item, &rec.Entity); err != nil {
		return nil, fmt.Errorf("unmarshal entity: %w", err)
	}
	if v, ok := item[attrVersion].(*types.AttributeValueMemberN); ok {
		rec.Version, _ = strconv.ParseInt(v.Value, 10, 64)
	}
	if v, ok := item[attrCreatedAt].(*types.AttributeValueMemberS); ok {
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, v.Value)
	}
	if v, ok := item[attrUpdatedAt].(*types.AttributeValueMemberS); ok {
		rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, v.Value)
	}
	return rec, nil
}

// isConditionalFailure detects a failed conditional write.
func isConditionalFailure(err error) bool {
	var cond *types.ConditionalCheckFailedException
	if errors.As(err, &cond) {
		return true
	}
	var api smithy.APIError
	return errors.As(err, &api) && api.ErrorCode() == "ConditionalCheckFailedException"
}

func awsString(s string) *string { return &s }
