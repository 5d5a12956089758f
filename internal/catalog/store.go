// Package catalog provides the product store interface with MongoDB and in-memory implementations.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotFound = errors.New("product not found")
)

const callTimeout = 5 * time.Second

type Store interface {
	Find(ctx context.Context, q Query) ([]Product, error)
	Count(ctx context.Context, c Criteria) (int64, error)
	Get(ctx context.Context, id string) (*Product, error)
	Facets(ctx context.Context) (*Facets, error)
}

type MongoStore struct{ coll *mongo.Collection }

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection("products")}
}

// Connect dials uri and pings the server before returning the client.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func (s *MongoStore) Find(ctx context.Context, q Query) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	opts := options.Find().SetSort(q.Sort.BSON())
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cur, err := s.coll.Find(ctx, q.Criteria.BSON(), opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]Product, 0, q.Limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Count(ctx context.Context, c Criteria) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	n, err := s.coll.CountDocuments(ctx, c.BSON())
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	var p Product
	err := s.coll.FindOne(ctx, bson.D{{Key: FieldID, Value: id}}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &p, nil
}

// Facets runs the category, price and availability aggregations concurrently.
func (s *MongoStore) Facets(ctx context.Context) (*Facets, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	var f Facets
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cur, err := s.coll.Aggregate(ctx, mongo.Pipeline{
			{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$category"},
				{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			}}},
			{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		})
		if err != nil {
			return fmt.Errorf("category facet: %w", err)
		}
		defer cur.Close(ctx)
		f.Categories = []CategoryCount{}
		return cur.All(ctx, &f.Categories)
	})

	g.Go(func() error {
		cur, err := s.coll.Aggregate(ctx, mongo.Pipeline{
			{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: nil},
				{Key: "min", Value: bson.D{{Key: "$min", Value: "$price"}}},
				{Key: "max", Value: bson.D{{Key: "$max", Value: "$price"}}},
			}}},
		})
		if err != nil {
			return fmt.Errorf("price facet: %w", err)
		}
		defer cur.Close(ctx)
		var rows []PriceRange
		if err := cur.All(ctx, &rows); err != nil {
			return err
		}
		if len(rows) > 0 {
			f.PriceRange = rows[0]
		}
		return nil
	})

	g.Go(func() error {
		total, err := s.coll.CountDocuments(ctx, bson.D{})
		if err != nil {
			return fmt.Errorf("availability facet: %w", err)
		}
		in, err := s.coll.CountDocuments(ctx, Criteria{InStockOnly: true}.BSON())
		if err != nil {
			return fmt.Errorf("availability facet: %w", err)
		}
		f.Availability = Availability{InStock: in, OutOfStock: total - in}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &f, nil
}
