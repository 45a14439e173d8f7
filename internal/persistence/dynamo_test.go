package persistence

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/resthub/internal/domain/users"
)

// mockDDBClient is an in-memory DynamoDB mock keyed by numeric id.
type mockDDBClient struct {
	mu       sync.Mutex
	items    map[int]map[string]types.AttributeValue
	pageSize int
	scans    int
	failScan error
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{
		items:    make(map[int]map[string]types.AttributeValue),
		pageSize: 2,
	}
}

func keyOf(key map[string]types.AttributeValue) int {
	id, _ := strconv.Atoi(key["id"].(*types.AttributeValueMemberN).Value)
	return id
}

func (m *mockDDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item, ok := m.items[keyOf(params.Key)]; ok {
		return &dynamodb.GetItemOutput{Item: item}, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[keyOf(params.Item)] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := keyOf(params.Key)
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_exists(id)" {
		if _, ok := m.items[id]; !ok {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}
	delete(m.items, id)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *mockDDBClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := keyOf(params.Key)
	item, ok := m.items[id]
	if !ok {
		item = map[string]types.AttributeValue{"id": params.Key["id"]}
		m.items[id] = item
	}

	current := 0
	if n, ok := item["next_id"].(*types.AttributeValueMemberN); ok {
		current, _ = strconv.Atoi(n.Value)
	}
	delta, _ := strconv.Atoi(params.ExpressionAttributeValues[":one"].(*types.AttributeValueMemberN).Value)
	next := &types.AttributeValueMemberN{Value: strconv.Itoa(current + delta)}
	item["next_id"] = next

	return &dynamodb.UpdateItemOutput{
		Attributes: map[string]types.AttributeValue{"next_id": next},
	}, nil
}

func (m *mockDDBClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scans++
	if m.failScan != nil {
		return nil, m.failScan
	}

	ids := make([]int, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	// Reverse order so the repository has to sort
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))

	start := 0
	if params.ExclusiveStartKey != nil {
		last := keyOf(params.ExclusiveStartKey)
		for i, id := range ids {
			if id == last {
				start = i + 1
				break
			}
		}
	}

	end := min(start+m.pageSize, len(ids))
	out := &dynamodb.ScanOutput{}
	for _, id := range ids[start:end] {
		out.Items = append(out.Items, m.items[id])
	}
	if end < len(ids) {
		out.LastEvaluatedKey = idKey(ids[end-1])
	}
	return out, nil
}

func TestDynamoRepository(t *testing.T) {
	exerciseRepository(t, NewDynamoRepository(newMockDDBClient(), "users"))
}

func TestDynamoRepositoryScanPages(t *testing.T) {
	ddb := newMockDDBClient()
	repo := NewDynamoRepository(ddb, "users")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Save(ctx, users.User{Name: "u" + strconv.Itoa(i)})
		require.NoError(t, err)
	}

	list, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, u := range list {
		assert.Equal(t, i+1, u.ID)
	}
	// 5 users plus the counter item in pages of 2
	assert.Equal(t, 3, ddb.scans)
}

func TestDynamoRepositoryCounterIsHidden(t *testing.T) {
	repo := NewDynamoRepository(newMockDDBClient(), "users")
	ctx := context.Background()

	_, err := repo.Save(ctx, users.User{Name: "ada"})
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, counterID)
	assert.ErrorIs(t, err, users.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, users.User{ID: counterID}), users.ErrNotFound)
}

func TestDynamoRepositoryScanFailure(t *testing.T) {
	ddb := newMockDDBClient()
	ddb.failScan = errors.New("throttled")

	_, err := NewDynamoRepository(ddb, "users").FindAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestDecodeUserRejectsBadID(t *testing.T) {
	_, err := decodeUser(map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: "1"},
	})
	assert.Error(t, err)
}
