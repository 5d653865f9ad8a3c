package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	mcqsCollection = "mcqs"
	defaultDBName  = "rssfeed"
)

// Mongo is a storage that uses MongoDB as a backend.
// Documents get a driver-generated ObjectID, which also defines the
// insertion order.
type Mongo struct {
	client *mongodriver.Client
	mcqs   *mongodriver.Collection
}

// NewMongo connects to MongoDB and checks the connection.
// The database name is taken from the URI path, "rssfeed" by default.
func NewMongo(ctx context.Context, uri string) (*Mongo, error) {
	if uri == "" {
		return nil, fmt.Errorf("empty mongo uri")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Mongo{
		client: cli,
		mcqs:   cli.Database(databaseFromURI(uri)).Collection(mcqsCollection),
	}, nil
}

// InsertBatch inserts all questions with a single InsertMany call.
func (m *Mongo) InsertBatch(ctx context.Context, mcqs []MCQ) (int, error) {
	if len(mcqs) == 0 {
		return 0, nil
	}

	res, err := m.mcqs.InsertMany(ctx, lo.ToAnySlice(mcqs))
	if err != nil {
		return 0, fmt.Errorf("insert many: %w", err)
	}

	return len(res.InsertedIDs), nil
}

// List returns a page of questions, the most recently inserted first.
func (m *Mongo) List(ctx context.Context, req ListRequest) (Page, error) {
	req, err := req.normalize()
	if err != nil {
		return Page{}, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(int64(req.skip())).
		SetLimit(int64(req.PageSize)).
		SetProjection(bson.D{{Key: "_id", Value: 0}})

	cur, err := m.mcqs.Find(ctx, bson.D{}, opts)
	if err != nil {
		return Page{}, fmt.Errorf("find: %w", err)
	}

	var items []MCQ
	if err := cur.All(ctx, &items); err != nil {
		return Page{}, fmt.Errorf("decode: %w", err)
	}

	total, err := m.mcqs.CountDocuments(ctx, bson.D{})
	if err != nil {
		return Page{}, fmt.Errorf("count: %w", err)
	}

	return newPage(req, items, int(total)), nil
}

// Close disconnects from MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// databaseFromURI extracts the database name from the mongodb URI path.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}
