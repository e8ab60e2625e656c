// Package mongostore implements document.Store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BiharaCD/beverage-OS/internal/domain/document"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/bsonx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Connect opens a client that encodes documents with the shared bson registry and
// verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetRegistry(bsonx.Registry))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}
	return client, nil
}

type Collection[T any, P interface {
	*T
	document.Document
}] struct {
	coll   *mongo.Collection
	unique []string
}

// NewCollection binds a store to db.<name>. unique lists the fields EnsureIndexes
// backs with unique indexes.
func NewCollection[T any, P interface {
	*T
	document.Document
}](db *mongo.Database, name string, unique ...string) *Collection[T, P] {
	return &Collection[T, P]{coll: db.Collection(name), unique: unique}
}

// EnsureIndexes creates the unique indexes. Sparse so documents without the field
// do not collide.
func (c *Collection[T, P]) EnsureIndexes(ctx context.Context) error {
	for _, field := range c.unique {
		_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		})
		if err != nil {
			return fmt.Errorf("mongostore: index %s.%s: %w", c.coll.Name(), field, err)
		}
	}
	return nil
}

func (c *Collection[T, P]) Insert(ctx context.Context, doc *T) error {
	if P(doc).DocumentID() == "" {
		return fmt.Errorf("%s: insert: empty _id", c.coll.Name())
	}
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return c.wrap("insert", err)
	}
	return nil
}

func (c *Collection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	return c.FindOne(ctx, document.Filter{"_id": id})
}

func (c *Collection[T, P]) Find(ctx context.Context, filter document.Filter, opts document.FindOptions) ([]*T, error) {
	findOpts := options.Find()
	if opts.Sort != nil {
		dir := 1
		if opts.Sort.Desc {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.Sort.Field, Value: dir}})
	}

	cur, err := c.coll.Find(ctx, toBSON(filter), findOpts)
	if err != nil {
		return nil, c.wrap("find", err)
	}
	defer cur.Close(ctx)

	out := make([]*T, 0)
	for cur.Next(ctx) {
		doc := new(T)
		if err := cur.Decode(doc); err != nil {
			return nil, c.wrap("decode", err)
		}
		out = append(out, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, c.wrap("cursor", err)
	}
	return out, nil
}

func (c *Collection[T, P]) FindOne(ctx context.Context, filter document.Filter) (*T, error) {
	doc := new(T)
	if err := c.coll.FindOne(ctx, toBSON(filter)).Decode(doc); err != nil {
		return nil, c.wrap("find one", err)
	}
	return doc, nil
}

func (c *Collection[T, P]) Replace(ctx context.Context, doc *T) error {
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": P(doc).DocumentID()}, doc)
	if err != nil {
		return c.wrap("replace", err)
	}
	if res.MatchedCount == 0 {
		return document.ErrNotFound
	}
	return nil
}

func (c *Collection[T, P]) Patch(ctx context.Context, id string, fields document.Fields) (*T, error) {
	doc := new(T)
	err := c.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M(fields)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(doc)
	if err != nil {
		return nil, c.wrap("patch", err)
	}
	return doc, nil
}

func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return c.wrap("delete", err)
	}
	if res.DeletedCount == 0 {
		return document.ErrNotFound
	}
	return nil
}

func (c *Collection[T, P]) wrap(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return document.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %s: %w", c.coll.Name(), op, document.ErrDuplicate)
	default:
		return fmt.Errorf("%s: %s: %w", c.coll.Name(), op, err)
	}
}

func toBSON(filter document.Filter) bson.M {
	m := make(bson.M, len(filter))
	for k, v := range filter {
		m[k] = v
	}
	return m
}
