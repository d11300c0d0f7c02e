package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/snapboard/webclient/internal/core/ports"
)

const defaultTokenCollection = "session_tokens"

// TokenStore keeps bearer tokens in MongoDB, one document per session key.
type TokenStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewTokenStore uses collection in db, falling back to session_tokens.
func NewTokenStore(db *mongo.Database, collection string) *TokenStore {
	if collection == "" {
		collection = defaultTokenCollection
	}
	return &TokenStore{coll: db.Collection(collection), now: time.Now}
}

var _ ports.TokenStore = (*TokenStore)(nil)

type tokenDoc struct {
	Key       string    `bson:"_id"`
	Token     string    `bson:"token"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// EnsureIndexes adds a TTL index so abandoned tokens age out. A ttl of zero
// leaves documents in place until deleted.
func (s *TokenStore) EnsureIndexes(ctx context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
	})
	if err != nil {
		return fmt.Errorf("create token ttl index: %w", err)
	}
	return nil
}

func (s *TokenStore) Get(ctx context.Context, key string) (string, error) {
	var doc tokenDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ports.ErrNoToken
		}
		return "", fmt.Errorf("find token: %w", err)
	}
	return doc.Token, nil
}

func (s *TokenStore) Set(ctx context.Context, key, token string) error {
	doc := tokenDoc{Key: key, Token: token, UpdatedAt: s.now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

func (s *TokenStore) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
