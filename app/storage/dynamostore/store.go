// Package dynamostore keeps products in a DynamoDB table keyed by "id".
package dynamostore

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/smartinventory/inventory-tracker/models"
)

// API is the subset of the DynamoDB client used by Store.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type Store struct {
	api   API
	table string
}

var _ models.Store = (*Store)(nil)

// NewClient builds a DynamoDB client from the default AWS credential chain.
// A non-empty endpoint overrides the service endpoint, e.g. for DynamoDB Local.
func NewClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func New(api API, table string) *Store {
	return &Store{api: api, table: table}
}

func (s *Store) Put(ctx context.Context, p *models.Product) error {
	_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      marshalItem(p),
	})
	if err != nil {
		return errors.Wrap(err, "put product")
	}
	return nil
}

func (s *Store) Scan(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	paginator := dynamodb.NewScanPaginator(s.api, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "scan products")
		}
		for _, item := range page.Items {
			p, err := unmarshalItem(item)
			if err != nil {
				return nil, err
			}
			products = append(products, p)
		}
	}
	return products, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Product, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, errors.Wrap(err, "get product")
	}
	if len(out.Item) == 0 {
		return nil, models.ErrProductNotFound
	}
	p, err := unmarshalItem(out.Item)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateFields issues a single UpdateItem, which creates the item when it is
// missing, and returns the item as stored afterwards.
func (s *Store) UpdateFields(ctx context.Context, id string, u models.ProductUpdate) (*models.Product, error) {
	if u.IsEmpty() {
		return s.Get(ctx, id)
	}
	expr, names, values := updateExpression(u)
	out, err := s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       key(id),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, errors.Wrap(err, "update product")
	}
	p, err := unmarshalItem(out.Attributes)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       key(id),
	})
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	return nil
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func updateExpression(u models.ProductUpdate) (string, map[string]string, map[string]types.AttributeValue) {
	expr := "SET "
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	add := func(placeholder, attr string, v types.AttributeValue) {
		if len(names) > 0 {
			expr += ", "
		}
		expr += "#" + placeholder + " = :" + placeholder
		names["#"+placeholder] = attr
		values[":"+placeholder] = v
	}
	if u.Name != nil {
		add("n", "name", &types.AttributeValueMemberS{Value: *u.Name})
	}
	if u.Quantity != nil {
		add("q", "quantity", &types.AttributeValueMemberN{Value: strconv.Itoa(*u.Quantity)})
	}
	if u.Price != nil {
		add("p", "price", &types.AttributeValueMemberN{Value: u.Price.String()})
	}
	return expr, names, values
}

func marshalItem(p *models.Product) map[string]types.AttributeValue {
	item := key(p.ID)
	item["name"] = &types.AttributeValueMemberS{Value: p.Name}
	item["price"] = &types.AttributeValueMemberN{Value: p.Price.String()}
	if p.Quantity != nil {
		item["quantity"] = &types.AttributeValueMemberN{Value: strconv.Itoa(*p.Quantity)}
	}
	// catalog metadata is omitted when empty
	for attr, v := range map[string]string{
		"category":    p.Category,
		"description": p.Description,
		"image":       p.Image,
	} {
		if v != "" {
			item[attr] = &types.AttributeValueMemberS{Value: v}
		}
	}
	return item
}

func unmarshalItem(item map[string]types.AttributeValue) (models.Product, error) {
	var p models.Product
	id, _ := scalar(item["id"])
	for attr, av := range item {
		raw, ok := scalar(av)
		if !ok {
			continue
		}
		switch attr {
		case "id":
			p.ID = raw
		case "name":
			p.Name = raw
		case "category":
			p.Category = raw
		case "description":
			p.Description = raw
		case "image":
			p.Image = raw
		case "price":
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return models.Product{}, errors.Wrapf(err, "item %q: price", id)
			}
			p.Price = d
		case "quantity":
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return models.Product{}, errors.Wrapf(err, "item %q: quantity", id)
			}
			if !d.IsInteger() {
				return models.Product{}, errors.Errorf("item %q: quantity %s is not an integer", id, raw)
			}
			q := int(d.IntPart())
			p.Quantity = &q
		}
	}
	return p, nil
}

// scalar returns the textual value of a string or number attribute.
func scalar(av types.AttributeValue) (string, bool) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value, true
	case *types.AttributeValueMemberN:
		return v.Value, true
	}
	return "", false
}
