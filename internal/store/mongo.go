package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/SL-MGx03/userbase/internal/model"
)

const (
	defaultMongoDatabase = "telegram_bot"
	mongoCollection      = "telegram_users"
)

type mongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func openMongo(ctx context.Context, uri string, log *zap.Logger) (Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("probe mongo: %w", err)
	}

	coll := client.Database(mongoDatabaseFromURI(uri)).Collection(mongoCollection)

	// Unique index backs the one-record-per-identity invariant even if a
	// misbehaving client bypasses the upsert path.
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "telegram_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure telegram_id index: %w", err)
	}

	return &mongoStore{client: client, coll: coll}, nil
}

// mongoDatabaseFromURI takes the database from the connection string path,
// falling back to a fixed name when the path is empty.
func mongoDatabaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultMongoDatabase
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return defaultMongoDatabase
	}
	return name
}

// UpsertUser issues one UpdateOne with upsert=true: $set overwrites the
// profile fields and updated_at, $setOnInsert seeds telegram_id and
// created_at only when the document is new.
func (s *mongoStore) UpsertUser(ctx context.Context, obs Observation) error {
	now := time.Now().UTC()
	filter := bson.M{"telegram_id": obs.TelegramID}
	update := bson.M{
		"$set": bson.M{
			"first_name": obs.FirstName,
			"last_name":  obs.LastName,
			"username":   obs.Username,
			"is_bot":     obs.IsBot,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"telegram_id": obs.TelegramID,
			"created_at":  now,
		},
	}

	_, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", obs.TelegramID, err)
	}
	return nil
}

func (s *mongoStore) ListUsers(ctx context.Context) ([]model.User, error) {
	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *mongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
