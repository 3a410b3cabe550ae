package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rakibhasan/elegant-server/internal/domain"
)

func (s *Store) EnsureProductIndexes(ctx context.Context) error {
	_, err := s.DB.Collection(domain.ColProducts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}},
	})
	return err
}

// InsertProduct stores the submitted document verbatim. No shop-existence or
// ownership check is made; the payload is the only link to a shop.
func (s *Store) InsertProduct(ctx context.Context, doc bson.M) (interface{}, error) {
	res, err := s.DB.Collection(domain.ColProducts).InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

func (s *Store) ProductsByOwner(ctx context.Context, email string) ([]bson.M, error) {
	cur, err := s.DB.Collection(domain.ColProducts).Find(ctx, bson.M{"owner": email})
	if err != nil {
		return nil, err
	}
	out := []bson.M{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
