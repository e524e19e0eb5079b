package store

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory double for the DynamoDB operations the
// store uses. It understands exactly the condition expressions the store
// emits. Not production-grade, just enough for unit tests.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]*mockTable

	describeCalls int
	createCalls   int
}

type mockTable struct {
	items map[string]map[string]types.AttributeValue
	order []string // composite keys in insertion order
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{tables: map[string]*mockTable{}}
}

func compositeKey(item map[string]types.AttributeValue) string {
	p, _ := item["partition_key"].(*types.AttributeValueMemberS)
	r, _ := item["row_key"].(*types.AttributeValueMemberS)
	if p == nil || r == nil {
		return ""
	}
	return p.Value + "\x00" + r.Value
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (m *mockDynamo) table(name string) (*mockTable, error) {
	t, ok := m.tables[name]
	if !ok {
		return nil, &types.ResourceNotFoundException{}
	}
	return t, nil
}

func (m *mockDynamo) DescribeTable(ctx context.Context, params *dyn.DescribeTableInput, optFns ...func(*dyn.Options)) (*dyn.DescribeTableOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.describeCalls++
	if _, ok := m.tables[*params.TableName]; !ok {
		return nil, &types.ResourceNotFoundException{}
	}
	return &dyn.DescribeTableOutput{}, nil
}

func (m *mockDynamo) CreateTable(ctx context.Context, params *dyn.CreateTableInput, optFns ...func(*dyn.Options)) (*dyn.CreateTableOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if _, ok := m.tables[*params.TableName]; ok {
		return nil, &types.ResourceInUseException{}
	}
	m.tables[*params.TableName] = &mockTable{items: map[string]map[string]types.AttributeValue{}}
	return &dyn.CreateTableOutput{}, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	key := compositeKey(params.Item)
	if key == "" {
		return nil, errors.New("missing key attributes in put")
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(row_key)" {
		if _, exists := t.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	if _, exists := t.items[key]; !exists {
		t.order = append(t.order, key)
	}
	t.items[key] = copyItem(params.Item)
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	item, ok := t.items[compositeKey(params.Key)]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: copyItem(item)}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	key := compositeKey(params.Key)
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
	// only key condition emitted by the store: partition_key = :p
	pAttr, ok := params.ExpressionAttributeValues[":p"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing :p in query")
	}
	var items []map[string]types.AttributeValue
	for _, key := range t.order {
		if strings.HasPrefix(key, pAttr.Value+"\x00") {
			items = append(items, copyItem(t.items[key]))
		}
	}
	return &dyn.QueryOutput{Items: items}, nil
}

// UpdateItem applies the store's "SET #v = #v + :one, #uat = :uat, #aN = :aN"
// expression after checking the "#v = :expected" condition.
func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(*params.TableName)
	if err != nil {
		return nil, err
	}
	key := compositeKey(params.Key)
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
		return nil, errors.New("update on missing item without condition")
	}

	expr := strings.TrimPrefix(*params.UpdateExpression, "SET ")
	for _, clause := range strings.Split(expr, ", ") {
		parts := strings.SplitN(clause, " = ", 2)
		if len(parts) != 2 {
			return nil, errors.New("unparseable clause: " + clause)
		}
		name := params.ExpressionAttributeNames[parts[0]]
		if name == "" {
			return nil, errors.New("unknown name placeholder: " + parts[0])
		}
		if parts[1] == parts[0]+" + :one" {
			n, _ := item[name].(*types.AttributeValueMemberN)
			v, _ := strconv.ParseInt(n.Value, 10, 64)
			item[name] = &types.AttributeValueMemberN{Value: strconv.FormatInt(v+1, 10)}
			continue
		}
		val, ok := params.ExpressionAttributeValues[parts[1]]
		if !ok {
			return nil, errors.New("unknown value placeholder: " + parts[1])
		}
		item[name] = val
	}

	t.items[key] = item
	return &dyn.UpdateItemOutput{Attributes: copyItem(item)}, nil
}
