package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mhaertel/inkboard/pkg/errors"
)

// MongoStore persists documents in a MongoDB collection. Used by the server
// deployment where generated infographics outlive the process.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and prepares the collection. The
// connection is verified with a ping, and a created_at index supports the
// newest-first listing.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "pinging mongodb")
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "creating index")
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// Put upserts a document, assigning an ID and timestamp when missing.
func (s *MongoStore) Put(ctx context.Context, info *Infographic) error {
	if info.ID == "" {
		info.ID = NewID()
	}
	if info.CreatedAt.IsZero() {
		info.CreatedAt = time.Now().UTC()
	}

	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": info.ID},
		info,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "storing infographic %s", info.ID)
	}
	return nil
}

// Get retrieves a document by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Infographic, error) {
	var doc Infographic
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeInfographicNotFound, "infographic %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "fetching infographic %s", id)
	}
	return &doc, nil
}

// List returns documents newest first, up to limit (0 means all).
func (s *MongoStore) List(ctx context.Context, limit int) ([]*Infographic, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing infographics")
	}
	defer cur.Close(ctx)

	var out []*Infographic
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decoding infographics")
	}
	return out, nil
}

// Delete removes a document. Unknown IDs are ignored.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "deleting infographic %s", id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
