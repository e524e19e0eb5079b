package handlers

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// --- DynamoDB double -------------------------------------------------------

// mockDynamo backs the store with an in-memory table set. It implements the
// exact condition and update expressions the store emits and nothing more.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]*mockTable
}

type mockTable struct {
	items map[string]map[string]types.AttributeValue
	order []string
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{tables: map[string]*mockTable{}}
}

func itemKeyOf(item map[string]types.AttributeValue) string {
	p, _ := item["partition_key"].(*types.AttributeValueMemberS)
	r, _ := item["row_key"].(*types.AttributeValueMemberS)
	if p == nil || r == nil {
		return ""
	}
	return p.Value + "\x00" + r.Value
}

func cloneItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (m *mockDynamo) DescribeTable(ctx context.Context, params *dyn.DescribeTableInput, optFns ...func(*dyn.Options)) (*dyn.DescribeTableOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[*params.TableName]; !ok {
		return nil, &types.ResourceNotFoundException{}
	}
	return &dyn.DescribeTableOutput{}, nil
}

func (m *mockDynamo) CreateTable(ctx context.Context, params *dyn.CreateTableInput, optFns ...func(*dyn.Options)) (*dyn.CreateTableOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[*params.TableName]; ok {
		return nil, &types.ResourceInUseException{}
	}
	m.tables[*params.TableName] = &mockTable{items: map[string]map[string]types.AttributeValue{}}
	return &dyn.CreateTableOutput{}, nil
}

func (m *mockDynamo) table(name string) (*mockTable, error) {
	t, ok := m.tables[name]
	if !ok {
		return nil, &types.ResourceNotFoundException{}
	}
	return t, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	key := itemKeyOf(params.Item)
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(row_key)" {
		if _, exists := t.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	if _, exists := t.items[key]; !exists {
		t.order = append(t.order, key)
	}
	t.items[key] = cloneItem(params.Item)
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	item, ok := t.items[itemKeyOf(params.Key)]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: cloneItem(item)}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	key := itemKeyOf(params.Key)
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_exists(row_key)" {
		if _, exists := t.items[key]; !exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	delete(t.items, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return &dyn.DeleteItemOutput{}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	p, ok := params.ExpressionAttributeValues[":p"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing :p in query")
	}
	var items []map[string]types.AttributeValue
	for _, key := range t.order {
		if strings.HasPrefix(key, p.Value+"\x00") {
			items = append(items, cloneItem(t.items[key]))
		}
	}
	return &dyn.QueryOutput{Items: items}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	key := itemKeyOf(params.Key)
	item, exists := t.items[key]

	if params.ConditionExpression != nil && *params.ConditionExpression == "#v = :expected" {
		if !exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
		current, _ := item["version"].(*types.AttributeValueMemberN)
		expected, _ := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN)
		if current == nil || expected == nil || current.Value != expected.Value {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	if !exists {
		return nil, errors.New("update on missing item")
	}

	expr := strings.TrimPrefix(*params.UpdateExpression, "SET ")
	for _, clause := range strings.Split(expr, ", ") {
		parts := strings.SplitN(clause, " = ", 2)
		name := params.ExpressionAttributeNames[parts[0]]
		if parts[1] == parts[0]+" + :one" {
			n, _ := item[name].(*types.AttributeValueMemberN)
			v, _ := strconv.ParseInt(n.Value, 10, 64)
			item[name] = &types.AttributeValueMemberN{Value: strconv.FormatInt(v+1, 10)}
			continue
		}
		item[name] = params.ExpressionAttributeValues[parts[1]]
	}

	t.items[key] = item
	return &dyn.UpdateItemOutput{Attributes: cloneItem(item)}, nil
}

// --- SQS double ------------------------------------------------------------

type sentMessage struct {
	QueueURL string
	Body     string
}

type mockSQS struct {
	mu      sync.Mutex
	sent    []sentMessage
	failAll bool
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errors.New("sqs unavailable")
	}
	m.sent = append(m.sent, sentMessage{QueueURL: *params.QueueUrl, Body: *params.MessageBody})
	return &sqs.SendMessageOutput{}, nil
}

func (m *mockSQS) sentTo(queueURL string) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMessage
	for _, s := range m.sent {
		if s.QueueURL == queueURL {
			out = append(out, s)
		}
	}
	return out
}

// --- S3 double -------------------------------------------------------------

type storedBlob struct {
	Bucket      string
	Key         string
	ContentType string
	Size        int64
	Body        []byte
}

type mockS3 struct {
	mu   sync.Mutex
	puts []storedBlob
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	blob := storedBlob{
		Bucket: *params.Bucket,
		Key:    *params.Key,
		Body:   body,
	}
	if params.ContentType != nil {
		blob.ContentType = *params.ContentType
	}
	if params.ContentLength != nil {
		blob.Size = *params.ContentLength
	}
	m.puts = append(m.puts, blob)
	return &s3.PutObjectOutput{}, nil
}
