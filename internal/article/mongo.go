package article

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SergeyParamoshkin/wiki/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore implements Store on a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and checks the server is reachable within
// timeout. The caller owns the returned store and must Close it.
func NewMongoStore(ctx context.Context, uri, database, collection string, timeout time.Duration) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())

		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) List(ctx context.Context) ([]*model.Article, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	articles := []*model.Article{}
	if err := cur.All(ctx, &articles); err != nil {
		return nil, err
	}

	return articles, nil
}

func (s *MongoStore) Create(ctx context.Context, article *model.Article) error {
	res, err := s.coll.InsertOne(ctx, article)
	if err != nil {
		return err
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		article.ID = id
	}

	return nil
}

func (s *MongoStore) DeleteAll(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.D{})

	return err
}

func (s *MongoStore) FindByTitle(ctx context.Context, title string) (*model.Article, error) {
	article := &model.Article{}

	err := s.coll.FindOne(ctx, byTitle(title)).Decode(article)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return article, nil
}

func (s *MongoStore) Replace(ctx context.Context, title string, article *model.Article) error {
	replacement := *article
	replacement.ID = primitive.NilObjectID

	_, err := s.coll.ReplaceOne(ctx, byTitle(title), &replacement)

	return err
}

func (s *MongoStore) Update(ctx context.Context, title string, update model.ArticleUpdate) error {
	// mongo rejects an empty $set
	if update.IsEmpty() {
		return nil
	}

	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}

	if update.Content != nil {
		set["content"] = *update.Content
	}

	_, err := s.coll.UpdateOne(ctx, byTitle(title), bson.M{"$set": set})

	return err
}

func (s *MongoStore) Delete(ctx context.Context, title string) error {
	_, err := s.coll.DeleteOne(ctx, byTitle(title))

	return err
}

func byTitle(title string) bson.M {
	return bson.M{"title": title}
}
