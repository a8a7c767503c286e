package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	apperr "github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

const (
	// DefaultMongoURI is used when no URI is configured.
	DefaultMongoURI = "mongodb://localhost:27017"
	// DefaultMongoDatabase is used when no database is configured.
	DefaultMongoDatabase = "familytree"
	// MongoCollection holds one document per family name.
	MongoCollection = "families"
)

// MongoStore keeps the family as one document keyed by family name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	name   string
}

// mongoFamily is the stored document. Field names follow the bson tags on
// the family types.
type mongoFamily struct {
	Name             string                   `bson:"_id"`
	People           []family.Person          `bson:"people"`
	ParentChildEdges []family.ParentChildEdge `bson:"parent_child_edges"`
	SpouseEdges      []family.SpouseEdge      `bson:"spouse_edges"`
	UpdatedAt        time.Time                `bson:"updated_at"`
}

// OpenMongo connects to uri and verifies the connection with a ping.
func OpenMongo(ctx context.Context, uri, database, name string) (*MongoStore, error) {
	if uri == "" {
		uri = DefaultMongoURI
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	if name == "" {
		name = DefaultName
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "ping mongo")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(MongoCollection),
		name:   name,
	}, nil
}

func (s *MongoStore) Load(ctx context.Context) (*family.FamilyData, error) {
	var doc mongoFamily
	err := s.coll.FindOne(ctx, bson.M{"_id": s.name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "load family %s", s.name)
	}
	return fromMongo(doc), nil
}

func (s *MongoStore) Save(ctx context.Context, d *family.FamilyData) error {
	doc := toMongo(s.name, d, time.Now().UTC())
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeStorage, err, "save family %s", s.name)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toMongo(name string, d *family.FamilyData, now time.Time) mongoFamily {
	d = d.Clone()
	return mongoFamily{
		Name:             name,
		People:           d.People,
		ParentChildEdges: d.ParentChildEdges,
		SpouseEdges:      d.SpouseEdges,
		UpdatedAt:        now,
	}
}

func fromMongo(doc mongoFamily) *family.FamilyData {
	return (&family.FamilyData{
		People:           doc.People,
		ParentChildEdges: doc.ParentChildEdges,
		SpouseEdges:      doc.SpouseEdges,
	}).Clone()
}

var _ Store = (*MongoStore)(nil)
