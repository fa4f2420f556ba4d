package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DDBClient is the interface for the DynamoDB operations the catalog
// issues. *dynamodb.Client satisfies it; tests substitute a fake.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DDB implements Catalog on DynamoDB. Conditional writes on the revision
// attribute provide the compare-and-swap semantics that let multiple
// writers share one catalog safely.
//
// Table schema:
//   - Partition key: session_name (string)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name rhythmgo-sessions \
//	  --attribute-definitions AttributeName=session_name,AttributeType=S \
//	  --key-schema AttributeName=session_name,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
type DDB struct {
	client    DDBClient
	tableName string
}

// NewDDB creates a DynamoDB-backed catalog.
func NewDDB(client DDBClient, tableName string) *DDB {
	return &DDB{
		client:    client,
		tableName: tableName,
	}
}

// Put implements Catalog using a conditional write: the stored revision
// must equal the entry's revision (or the item must not exist for
// revision 0), otherwise ErrConcurrentModification.
func (d *DDB) Put(ctx context.Context, entry Entry) error {
	newRevision := entry.Revision + 1

	input := &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item: map[string]types.AttributeValue{
			"session_name": &types.AttributeValueMemberS{Value: entry.Name},
			"meter":        &types.AttributeValueMemberS{Value: entry.Meter},
			"subdivisions": &types.AttributeValueMemberN{Value: strconv.Itoa(entry.Subdivisions)},
			"vector_count": &types.AttributeValueMemberN{Value: strconv.FormatUint(entry.VectorCount, 10)},
			"filters":      &types.AttributeValueMemberN{Value: strconv.Itoa(entry.Filters)},
			"revision":     &types.AttributeValueMemberN{Value: strconv.FormatUint(newRevision, 10)},
			"updated_at":   &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
	}

	if entry.Revision == 0 {
		input.ConditionExpression = aws.String("attribute_not_exists(session_name)")
	} else {
		input.ConditionExpression = aws.String("revision = :rev")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":rev": &types.AttributeValueMemberN{Value: strconv.FormatUint(entry.Revision, 10)},
		}
	}

	if _, err := d.client.PutItem(ctx, input); err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("failed to put catalog entry: %w", err)
	}
	return nil
}

// Get implements Catalog.
func (d *DDB) Get(ctx context.Context, name string) (Entry, error) {
	resp, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"session_name": &types.AttributeValueMemberS{Value: name},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get catalog entry: %w", err)
	}
	if len(resp.Item) == 0 {
		return Entry{}, ErrNotFound
	}
	return entryFromItem(resp.Item)
}

// List implements Catalog.
func (d *DDB) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry

	paginator := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{
		TableName: aws.String(d.tableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list catalog entries: %w", err)
		}
		for _, item := range page.Items {
			entry, err := entryFromItem(item)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}

	sortEntries(entries)
	return entries, nil
}

// Delete implements Catalog.
func (d *DDB) Delete(ctx context.Context, name string) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"session_name": &types.AttributeValueMemberS{Value: name},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete catalog entry: %w", err)
	}
	return nil
}

func entryFromItem(item map[string]types.AttributeValue) (Entry, error) {
	var entry Entry

	nameAttr, ok := item["session_name"].(*types.AttributeValueMemberS)
	if !ok {
		return Entry{}, errors.New("invalid session_name attribute in DynamoDB")
	}
	entry.Name = nameAttr.Value

	if meterAttr, ok := item["meter"].(*types.AttributeValueMemberS); ok {
		entry.Meter = meterAttr.Value
	}
	var err error
	if entry.Subdivisions, err = intAttr(item, "subdivisions"); err != nil {
		return Entry{}, err
	}
	if entry.VectorCount, err = uintAttr(item, "vector_count"); err != nil {
		return Entry{}, err
	}
	if entry.Filters, err = intAttr(item, "filters"); err != nil {
		return Entry{}, err
	}
	if entry.Revision, err = uintAttr(item, "revision"); err != nil {
		return Entry{}, err
	}
	if tsAttr, ok := item["updated_at"].(*types.AttributeValueMemberS); ok {
		if ts, err := time.Parse(time.RFC3339Nano, tsAttr.Value); err == nil {
			entry.UpdatedAt = ts
		}
	}

	return entry, nil
}

func intAttr(item map[string]types.AttributeValue, name string) (int, error) {
	attr, ok := item[name].(*types.AttributeValueMemberN)
	if !ok {
		return 0, nil
	}
	v, err := strconv.Atoi(attr.Value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s attribute: %w", name, err)
	}
	return v, nil
}

func uintAttr(item map[string]types.AttributeValue, name string) (uint64, error) {
	attr, ok := item[name].(*types.AttributeValueMemberN)
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseUint(attr.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s attribute: %w", name, err)
	}
	return v, nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}
