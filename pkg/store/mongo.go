package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// DefaultMongoDatabase is used when the URI names no database.
	DefaultMongoDatabase = "hextile"
	mongoCollection      = "patterns"
)

// MongoStore keeps records in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDoc is the collection layout of a record.
type mongoDoc struct {
	ID        string    `bson:"_id"`
	Seed      int64     `bson:"seed"`
	Variation int       `bson:"variation"`
	Body      []byte    `bson:"body"`
	PNG       []byte    `bson:"png,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

// OpenMongo connects to uri, verifies the connection and ensures the
// created_at index exists. An empty database uses [DefaultMongoDatabase].
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(mongoCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// Put inserts or replaces rec.
func (s *MongoStore) Put(ctx context.Context, rec *Record) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	data, err := encodeBody(rec)
	if err != nil {
		return err
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	doc := mongoDoc{
		ID:        rec.ID,
		Seed:      rec.Seed,
		Variation: rec.Variation,
		Body:      data,
		PNG:       rec.PNG,
		CreatedAt: created.UTC(),
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put %s: %w", rec.ID, err)
	}
	return nil
}

// Get returns the record with the given id.
func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return doc.record()
}

// List returns up to limit records, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]*Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(listLimit(limit)))
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	var docs []mongoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	out := make([]*Record, 0, len(docs))
	for _, doc := range docs {
		rec, err := doc.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Delete removes the record with the given id.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects from the server.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (doc mongoDoc) record() (*Record, error) {
	rec := &Record{
		ID:        doc.ID,
		Seed:      doc.Seed,
		Variation: doc.Variation,
		PNG:       doc.PNG,
		CreatedAt: doc.CreatedAt,
	}
	if err := decodeBody(doc.Body, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

var _ Store = (*MongoStore)(nil)
