package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	nverrors "github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/observability"
)

const mongoCollection = "layouts"

// MongoStore keeps layouts as documents of the layouts collection. The
// layout is stored as a nested BSON document so it stays queryable.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRecord struct {
	ID        string    `bson:"_id"`
	Layout    bson.Raw  `bson:"layout,omitempty"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to uri and uses the layouts collection of
// database. Empty values mean mongodb://localhost:27017 and "nodevis".
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	if database == "" {
		database = "nodevis"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, persistence(err, "connect", uri)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, persistence(err, "connect", uri)
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(mongoCollection)}, nil
}

func (s *MongoStore) Save(ctx context.Context, id string, l *layout.Layout) (err error) {
	data, err := encode(id, l)
	defer func() { observability.Store().OnSave(ctx, BackendMongo, id, len(data), err) }()
	if err != nil {
		return err
	}
	var doc bson.Raw
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return persistence(err, "encode", id)
	}
	rec := mongoRecord{ID: id, Layout: doc, UpdatedAt: time.Now().UTC()}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": id}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return persistence(err, "write", id)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, id string) (l *layout.Layout, err error) {
	defer func() { observability.Store().OnLoad(ctx, BackendMongo, id, err) }()
	if err := nverrors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	var rec mongoRecord
	err = s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, persistence(err, "read", id)
	}
	data, err := bson.MarshalExtJSON(rec.Layout, false, false)
	if err != nil {
		return nil, persistence(err, "decode", id)
	}
	return decode(id, data)
}

func (s *MongoStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { observability.Store().OnDelete(ctx, BackendMongo, id, err) }()
	if err := nverrors.ValidateLayoutID(id); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return persistence(err, "remove", id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1, "updated_at": 1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, persistence(err, "list", mongoCollection)
	}
	var recs []mongoRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, persistence(err, "list", mongoCollection)
	}
	out := make([]Info, len(recs))
	for i, r := range recs {
		out[i] = Info{ID: r.ID, UpdatedAt: r.UpdatedAt}
	}
	return out, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
