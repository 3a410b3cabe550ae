package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the single long-lived Mongo handle shared by all requests.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func NewStore(ctx context.Context, uri, dbname string) (*Store, error) {
	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	return &Store{Client: cli, DB: cli.Database(dbname)}, nil
}

// EnsureIndexes bootstraps all collection indexes at startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if err := s.EnsureUserIndexes(ctx); err != nil {
		return err
	}
	if err := s.EnsureShopIndexes(ctx); err != nil {
		return err
	}
	return s.EnsureProductIndexes(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
