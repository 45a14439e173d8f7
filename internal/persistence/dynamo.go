package persistence

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/GriffinCanCode/resthub/internal/domain/users"
)

// Item attributes
const (
	attrID     = "id"
	attrName   = "name"
	attrEmail  = "email"
	attrNextID = "next_id"
)

// counterID is the key of the item holding the id sequence. User ids start at 1.
const counterID = 0

// DDBClient is the subset of the DynamoDB API the repository uses.
type DDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoRepository stores one item per user.
//
// Table schema:
//   - Partition key: id (number)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name resthub-users \
//	  --attribute-definitions AttributeName=id,AttributeType=N \
//	  --key-schema AttributeName=id,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
type DynamoRepository struct {
	client DDBClient
	table  string
}

// NewDynamoRepository creates a repository over table
func NewDynamoRepository(client DDBClient, table string) *DynamoRepository {
	return &DynamoRepository{client: client, table: table}
}

// NewDynamoClient builds a client from the default AWS credential chain.
// A non-empty endpoint targets a local or compatible server.
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// FindAll scans the table and returns users ordered by id
func (r *DynamoRepository) FindAll(ctx context.Context) ([]users.User, error) {
	list := []users.User{}
	var start map[string]types.AttributeValue

	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.table),
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}

		for _, item := range out.Items {
			u, err := decodeUser(item)
			if err != nil {
				return nil, err
			}
			if u.ID == counterID {
				continue
			}
			list = append(list, u)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// FindByID returns the user with id
func (r *DynamoRepository) FindByID(ctx context.Context, id int) (users.User, error) {
	if id == counterID {
		return users.User{}, users.ErrNotFound
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return users.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	if len(out.Item) == 0 {
		return users.User{}, users.ErrNotFound
	}
	return decodeUser(out.Item)
}

// Save allocates an id when u has none, then writes the item
func (r *DynamoRepository) Save(ctx context.Context, u users.User) (users.User, error) {
	if u.ID == counterID {
		id, err := r.allocateID(ctx)
		if err != nil {
			return users.User{}, err
		}
		u.ID = id
	}

	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      encodeUser(u),
	})
	if err != nil {
		return users.User{}, fmt.Errorf("put user %d: %w", u.ID, err)
	}
	return u, nil
}

// Delete removes u. A missing item yields users.ErrNotFound.
func (r *DynamoRepository) Delete(ctx context.Context, u users.User) error {
	if u.ID == counterID {
		return users.ErrNotFound
	}

	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.table),
		Key:                 idKey(u.ID),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return users.ErrNotFound
		}
		return fmt.Errorf("delete user %d: %w", u.ID, err)
	}
	return nil
}

// allocateID atomically increments the counter item and returns the new value
func (r *DynamoRepository) allocateID(ctx context.Context) (int, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.table),
		Key:              idKey(counterID),
		UpdateExpression: aws.String("ADD next_id :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("allocate user id: %w", err)
	}

	next, ok := out.Attributes[attrNextID].(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.New("allocate user id: missing next_id attribute")
	}
	id, err := strconv.Atoi(next.Value)
	if err != nil {
		return 0, fmt.Errorf("allocate user id: %w", err)
	}
	return id, nil
}

func idKey(id int) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrID: &types.AttributeValueMemberN{Value: strconv.Itoa(id)},
	}
}

func encodeUser(u users.User) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrID:    &types.AttributeValueMemberN{Value: strconv.Itoa(u.ID)},
		attrName:  &types.AttributeValueMemberS{Value: u.Name},
		attrEmail: &types.AttributeValueMemberS{Value: u.Email},
	}
}

func decodeUser(item map[string]types.AttributeValue) (users.User, error) {
	idAttr, ok := item[attrID].(*types.AttributeValueMemberN)
	if !ok {
		return users.User{}, errors.New("invalid id attribute in DynamoDB")
	}
	id, err := strconv.Atoi(idAttr.Value)
	if err != nil {
		return users.User{}, fmt.Errorf("failed to parse id: %w", err)
	}

	u := users.User{ID: id}
	if name, ok := item[attrName].(*types.AttributeValueMemberS); ok {
		u.Name = name.Value
	}
	if email, ok := item[attrEmail].(*types.AttributeValueMemberS); ok {
		u.Email = email.Value
	}
	return u, nil
}
