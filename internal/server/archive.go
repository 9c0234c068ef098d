package server

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/borelog/borelog/pkg/errors"
)

const (
	archiveDatabase   = "borelog"
	archiveCollection = "renders"
)

// RenderRecord is one archived render: what was drawn, how big it came out
// and how long it took. It carries no drawing bytes, only bookkeeping.
type RenderRecord struct {
	Name          string    `json:"name,omitempty" bson:"name,omitempty"`
	Hash          string    `json:"hash" bson:"hash"`
	Format        string    `json:"format" bson:"format"`
	ByteSize      int       `json:"byte_size" bson:"byte_size"`
	LayerCount    int       `json:"layer_count" bson:"layer_count"`
	BoreholeCount int       `json:"borehole_count" bson:"borehole_count"`
	MaterialCount int       `json:"material_count" bson:"material_count"`
	Dropped       int       `json:"dropped" bson:"dropped"`
	DurationMS    int64     `json:"duration_ms" bson:"duration_ms"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// Archive stores render history for the service. Implementations must be
// safe for concurrent use.
type Archive interface {
	// Record appends one render entry.
	Record(ctx context.Context, rec RenderRecord) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]RenderRecord, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MongoArchive keeps render history in a MongoDB collection. It is the
// serve-mode backend; CLI runs never archive.
type MongoArchive struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoArchive connects to the given MongoDB URI and verifies the
// connection with a ping before returning.
func NewMongoArchive(ctx context.Context, uri string) (*MongoArchive, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "pinging mongodb")
	}
	return &MongoArchive{
		client: client,
		coll:   client.Database(archiveDatabase).Collection(archiveCollection),
	}, nil
}

// Record appends one render entry.
func (a *MongoArchive) Record(ctx context.Context, rec RenderRecord) error {
	_, err := a.coll.InsertOne(ctx, rec)
	return err
}

// Recent returns up to limit entries, newest first.
func (a *MongoArchive) Recent(ctx context.Context, limit int) ([]RenderRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := a.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []RenderRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (a *MongoArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}
