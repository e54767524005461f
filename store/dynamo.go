package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"

	"github.com/jsphweid/keyquest/model"
)

const partitionKey = "id"

// DynamoBackend stores one item per progression, keyed by id. Scans are
// sorted client side since a table scan has no order.
type DynamoBackend struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewDynamoBackend(endpoint, region, table string) (*DynamoBackend, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, errors.Join(ErrUnavailable, fmt.Errorf("could not create a DynamoDB session: %w", err))
	}
	return &DynamoBackend{client: dynamodb.New(sess), table: table}, nil
}

func (d *DynamoBackend) key(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		partitionKey: {S: aws.String(id)},
	}
}

func (d *DynamoBackend) Put(ctx context.Context, p model.Progression) error {
	item, err := dynamodbattribute.MarshalMap(p)
	if err != nil {
		return err
	}
	_, err = d.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	return err
}

func (d *DynamoBackend) Get(ctx context.Context, id string) (model.Progression, error) {
	out, err := d.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            d.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return model.Progression{}, err
	}
	if len(out.Item) == 0 {
		return model.Progression{}, ErrNotFound
	}
	return unmarshalItem(out.Item)
}

func (d *DynamoBackend) Delete(ctx context.Context, id string) error {
	out, err := d.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(d.table),
		Key:          d.key(id),
		ReturnValues: aws.String(dynamodb.ReturnValueAllOld),
	})
	if err != nil {
		return err
	}
	if len(out.Attributes) == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DynamoBackend) ScanBy(ctx context.Context, index Index, dir Direction) ([]model.Progression, error) {
	var (
		res     []model.Progression
		decoded error
	)
	err := d.client.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName: aws.String(d.table),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		for _, item := range page.Items {
			p, err := unmarshalItem(item)
			if err != nil {
				decoded = err
				return false
			}
			res = append(res, p)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if decoded != nil {
		return nil, decoded
	}
	sortBy(res, index, dir)
	return res, nil
}

func unmarshalItem(item map[string]*dynamodb.AttributeValue) (model.Progression, error) {
	var p model.Progression
	if err := dynamodbattribute.UnmarshalMap(item, &p); err != nil {
		return model.Progression{}, errors.Join(ErrCorrupt, err)
	}
	return p, nil
}
