package sink

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
)

type fakeInserter struct {
	docs []interface{}
	err  error
	ctx  context.Context
}

func (f *fakeInserter) InsertMany(ctx context.Context, documents interface{}, _ ...options.Lister[options.InsertManyOptions]) (*mongo.InsertManyResult, error) {
	f.ctx = ctx
	f.docs = documents.([]interface{})
	if f.err != nil {
		return nil, f.err
	}
	return &mongo.InsertManyResult{}, nil
}

func TestMongoSinkWriteBatch(t *testing.T) {
	ins := &fakeInserter{}
	sink := &MongoSink{coll: ins, timeout: time.Second}
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := sink.WriteBatch([]*domain.Reading{
		{EntityID: "id-1", Station: "AA:BB", SensorType: domain.SensorWH41, Channel: 3, Timestamp: ts, Seq: 7,
			Values: map[string]float64{"pm25_ugm3": 12}},
	})
	require.NoError(t, err)
	require.Len(t, ins.docs, 1)
	_, ok := ins.ctx.Deadline()
	assert.True(t, ok, "insert must run with a deadline")

	doc, ok := ins.docs[0].(readingDoc)
	require.True(t, ok, "unexpected document type %T", ins.docs[0])
	assert.True(t, doc.Timestamp.Equal(ts))
	assert.Equal(t, uint64(7), doc.Seq)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "id-1", bson.Raw(raw).Lookup("meta", "entity_id").StringValue())
	assert.Equal(t, "WH41", bson.Raw(raw).Lookup("meta", "sensor_type").StringValue())
	assert.Equal(t, 12.0, bson.Raw(raw).Lookup("values", "pm25_ugm3").Double())
}

func TestMongoSinkSurfacesErrors(t *testing.T) {
	sink := &MongoSink{coll: &fakeInserter{err: errors.New("not primary")}, timeout: time.Second}
	assert.Error(t, sink.WriteBatch([]*domain.Reading{{EntityID: "x"}}))
}

func TestMongoSinkEmptyBatch(t *testing.T) {
	ins := &fakeInserter{}
	sink := &MongoSink{coll: ins, timeout: time.Second}

	require.NoError(t, sink.WriteBatch(nil))
	assert.Nil(t, ins.docs, "no insert expected for empty batch")
	assert.Equal(t, "mongodb", sink.Name())
	assert.NoError(t, sink.Close())
}

func TestCollectionExistsOnlyMatchesNamespaceExists(t *testing.T) {
	exists := mongo.CommandError{Code: 48, Name: "NamespaceExists", Message: "Collection already exists"}
	assert.True(t, collectionExists(exists))
	assert.True(t, collectionExists(fmt.Errorf("create: %w", exists)))

	assert.False(t, collectionExists(mongo.CommandError{Code: 13, Name: "Unauthorized"}))
	assert.False(t, collectionExists(errors.New("connection reset")))
	assert.False(t, collectionExists(context.DeadlineExceeded))
}
