package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

const (
	defaultMongoTimeout = 5 * time.Second
	namespaceExistsCode = 48
)

// manyInserter is the part of *mongo.Collection the sink needs.
type manyInserter interface {
	InsertMany(ctx context.Context, documents interface{}, opts ...options.Lister[options.InsertManyOptions]) (*mongo.InsertManyResult, error)
}

// MongoSink stores readings in a MongoDB time-series collection.
type MongoSink struct {
	client  *mongo.Client
	coll    manyInserter
	timeout time.Duration
}

type readingMeta struct {
	EntityID   string `bson:"entity_id"`
	Station    string `bson:"station"`
	SensorType string `bson:"sensor_type"`
	Channel    int    `bson:"channel,omitempty"`
}

type readingDoc struct {
	Timestamp time.Time          `bson:"timestamp"`
	Meta      readingMeta        `bson:"meta"`
	Seq       uint64             `bson:"seq"`
	Values    map[string]float64 `bson:"values"`
}

// ConnectMongo dials uri and checks the primary is reachable.
func ConnectMongo(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// NewMongoSink prepares the time-series collection (creating it if missing) and returns
// a sink writing to it.
func NewMongoSink(client *mongo.Client, database, collection string) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultMongoTimeout)
	defer cancel()

	db := client.Database(database)
	tsOptions := options.CreateCollection().SetTimeSeriesOptions(
		options.TimeSeries().
			SetTimeField("timestamp").
			SetMetaField("meta").
			SetGranularity("minutes"),
	)
	if err := db.CreateCollection(ctx, collection, tsOptions); err != nil && !collectionExists(err) {
		return nil, fmt.Errorf("create collection %s: %w", collection, err)
	}

	coll := db.Collection(collection)
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "meta.entity_id", Value: 1}, {Key: "timestamp", Value: 1}}},
		{Keys: bson.D{{Key: "meta.station", Value: 1}, {Key: "timestamp", Value: 1}}},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}

	return &MongoSink{client: client, coll: coll, timeout: defaultMongoTimeout}, nil
}

// collectionExists reports the NamespaceExists server error returned on restart.
func collectionExists(err error) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(namespaceExistsCode)
}

func (m *MongoSink) Name() string { return "mongodb" }

func (m *MongoSink) WriteBatch(readings []*domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(readings))
	for _, r := range readings {
		docs = append(docs, toDocument(r))
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	_, err := m.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// Close disconnects the client the sink was built with.
func (m *MongoSink) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultMongoTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func toDocument(r *domain.Reading) readingDoc {
	return readingDoc{
		Timestamp: r.Timestamp,
		Meta: readingMeta{
			EntityID:   string(r.EntityID),
			Station:    r.Station,
			SensorType: string(r.SensorType),
			Channel:    r.Channel,
		},
		Seq:    r.Seq,
		Values: r.Values,
	}
}

var _ ports.Sink = (*MongoSink)(nil)
