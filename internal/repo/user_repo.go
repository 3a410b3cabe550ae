package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rakibhasan/elegant-server/internal/domain"
)

func (s *Store) EnsureUserIndexes(ctx context.Context) error {
	_, err := s.DB.Collection(domain.ColUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// FindUserByEmail returns the raw user document, or nil when absent.
// Registration payloads are stored verbatim, so the full document (including
// fields this service never interprets) must survive the round trip.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (bson.M, error) {
	var u bson.M
	err := s.DB.Collection(domain.ColUsers).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) InsertUser(ctx context.Context, doc bson.M) (interface{}, error) {
	res, err := s.DB.Collection(domain.ColUsers).InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

// SetUserField upserts a single field on the user's document, leaving every
// other field untouched.
func (s *Store) SetUserField(ctx context.Context, email, field string, value interface{}) (*mongo.UpdateResult, error) {
	return s.DB.Collection(domain.ColUsers).UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{field: value}},
		options.Update().SetUpsert(true),
	)
}

// UserRole returns the user's role, or "" when the user does not exist or
// carries no role.
func (s *Store) UserRole(ctx context.Context, email string) (string, error) {
	var u domain.User
	err := s.DB.Collection(domain.ColUsers).
		FindOne(ctx, bson.M{"email": email}, options.FindOne().SetProjection(bson.M{"role": 1, "email": 1})).
		Decode(&u)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return u.Role, nil
}
