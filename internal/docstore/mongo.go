package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore persists documents in MongoDB, one collection per logical
// collection name. Ids are hex-encoded ObjectIDs.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Store = (*MongoStore)(nil)

// OpenMongo connects and verifies the connection with a ping.
func OpenMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

// NewMongoStore wraps an already connected client.
func NewMongoStore(client *mongo.Client, dbName string) (*MongoStore, error) {
	if client == nil {
		return nil, ErrUnavailable
	}
	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

func (s *MongoStore) Create(ctx context.Context, collection string, doc Document) (Document, error) {
	now := time.Now().UTC()
	payload := doc.Clone()
	delete(payload, FieldID)
	payload[FieldCreatedAt] = now
	payload[FieldUpdatedAt] = now

	res, err := s.db.Collection(collection).InsertOne(ctx, bson.M(payload))
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", collection, err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert %s: unexpected id type %T", collection, res.InsertedID)
	}
	return s.fetch(ctx, collection, oid)
}

func (s *MongoStore) List(ctx context.Context, collection string, f Filter, limit int64) ([]Document, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	opts := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: FieldCreatedAt, Value: -1}, {Key: "_id", Value: -1}})

	cur, err := s.db.Collection(collection).Find(ctx, mongoFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var docs []Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		docs = append(docs, fromBSON(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return docs, nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, collection, oid)
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields Document) (Document, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	patch := fields.Clone()
	delete(patch, FieldID)
	delete(patch, FieldCreatedAt)
	patch[FieldUpdatedAt] = time.Now().UTC()

	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M(patch)})
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", collection, err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return s.fetch(ctx, collection, oid)
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete %s: %w", collection, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) fetch(ctx context.Context, collection string, oid primitive.ObjectID) (Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, oid.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	return fromBSON(raw), nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// mongoFilter translates the engine-independent filter into a bson query.
// Field names come from builders in code, never from user input; only the
// needle and values are user-supplied, and the needle is regex-escaped to
// keep substring semantics.
func mongoFilter(f Filter) bson.M {
	conds := make([]bson.M, 0, len(f.Clauses()))
	for _, c := range f.Clauses() {
		switch c.Kind {
		case KindContains:
			if len(c.Fields) == 0 {
				continue
			}
			pattern := regexp.QuoteMeta(c.Needle)
			ors := make([]bson.M, 0, len(c.Fields))
			for _, field := range c.Fields {
				ors = append(ors, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
			}
			if len(ors) == 1 {
				conds = append(conds, ors[0])
			} else {
				conds = append(conds, bson.M{"$or": ors})
			}
		case KindIn:
			conds = append(conds, bson.M{c.Field: bson.M{"$in": c.Values}})
		}
	}
	switch len(conds) {
	case 0:
		return bson.M{}
	case 1:
		return conds[0]
	default:
		return bson.M{"$and": conds}
	}
}

// fromBSON normalizes a decoded document: _id becomes a hex string under
// "id", datetimes become UTC time.Time, arrays become []any.
func fromBSON(raw bson.M) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			if oid, ok := v.(primitive.ObjectID); ok {
				doc[FieldID] = oid.Hex()
			} else {
				doc[FieldID] = fmt.Sprintf("%v", v)
			}
			continue
		}
		doc[k] = fromBSONValue(v)
	}
	return doc
}

func fromBSONValue(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromBSONValue(e)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = fromBSONValue(e)
		}
		return out
	case primitive.ObjectID:
		return t.Hex()
	default:
		return v
	}
}
