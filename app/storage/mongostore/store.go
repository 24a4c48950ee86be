// Package mongostore keeps products in a MongoDB collection, one document per
// product with the product id as "_id".
package mongostore

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/smartinventory/inventory-tracker/models"
)

type document struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Quantity    *int                 `bson:"quantity,omitempty"`
	Price       primitive.Decimal128 `bson:"price"`
	Category    string               `bson:"category,omitempty"`
	Description string               `bson:"description,omitempty"`
	Image       string               `bson:"image,omitempty"`
}

type Store struct {
	coll *mongo.Collection
}

var _ models.Store = (*Store)(nil)

// Connect opens a client and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "ping mongodb")
	}
	return client, nil
}

func New(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

func (s *Store) Put(ctx context.Context, p *models.Product) error {
	doc, err := toDocument(p)
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(err, "put product")
	}
	return nil
}

func (s *Store) Scan(ctx context.Context) ([]models.Product, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "scan products")
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "scan products")
	}
	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Product, error) {
	var doc document
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrProductNotFound
		}
		return nil, errors.Wrap(err, "get product")
	}
	p, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) UpdateFields(ctx context.Context, id string, u models.ProductUpdate) (*models.Product, error) {
	if u.IsEmpty() {
		return s.Get(ctx, id)
	}
	set, err := setFields(u)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc document
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "update product")
	}
	p, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(err, "delete product")
	}
	return nil
}

func setFields(u models.ProductUpdate) (bson.M, error) {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Quantity != nil {
		set["quantity"] = *u.Quantity
	}
	if u.Price != nil {
		price, err := primitive.ParseDecimal128(u.Price.String())
		if err != nil {
			return nil, errors.Wrap(err, "encode price")
		}
		set["price"] = price
	}
	return set, nil
}

func toDocument(p *models.Product) (document, error) {
	price, err := primitive.ParseDecimal128(p.Price.String())
	if err != nil {
		return document{}, errors.Wrapf(err, "product %q: encode price", p.ID)
	}
	return document{
		ID:          p.ID,
		Name:        p.Name,
		Quantity:    p.Quantity,
		Price:       price,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
	}, nil
}

func fromDocument(doc document) (models.Product, error) {
	price, err := decimal.NewFromString(doc.Price.String())
	if err != nil {
		return models.Product{}, errors.Wrapf(err, "product %q: decode price", doc.ID)
	}
	return models.Product{
		ID:          doc.ID,
		Name:        doc.Name,
		Quantity:    doc.Quantity,
		Price:       price,
		Category:    doc.Category,
		Description: doc.Description,
		Image:       doc.Image,
	}, nil
}
