package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rakibhasan/elegant-server/internal/domain"
)

func (s *Store) EnsureShopIndexes(ctx context.Context) error {
	// requestId is the idempotence key for approvals: re-approving a request
	// upserts the same Shop document instead of inserting a duplicate.
	if _, err := s.DB.Collection(domain.ColShops).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "requestId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := s.DB.Collection(domain.ColShops).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}},
	}); err != nil {
		return err
	}
	_, err := s.DB.Collection(domain.ColShopRequests).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "approved", Value: 1}},
	})
	return err
}

func (s *Store) CreateShopRequest(ctx context.Context, doc bson.M) (interface{}, error) {
	res, err := s.DB.Collection(domain.ColShopRequests).InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

// PendingShopRequests returns every request that has been neither approved
// nor rejected. Any authenticated caller may list them.
func (s *Store) PendingShopRequests(ctx context.Context) ([]bson.M, error) {
	cur, err := s.DB.Collection(domain.ColShopRequests).Find(ctx, bson.M{
		"approved": bson.M{"$ne": true},
		"rejected": bson.M{"$ne": true},
	})
	if err != nil {
		return nil, err
	}
	out := []bson.M{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveShopRequest copies the request into Shops and marks it approved.
// The copy is an upsert keyed by the request id, so a retry after a crash
// between the two writes converges instead of duplicating the shop.
// Returns false when no such request exists.
func (s *Store) ApproveShopRequest(ctx context.Context, id primitive.ObjectID) (bool, error) {
	var req bson.M
	err := s.DB.Collection(domain.ColShopRequests).FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	shop := bson.M{}
	for k, v := range req {
		switch k {
		case "_id", "approved", "rejected":
		default:
			shop[k] = v
		}
	}
	shop["requestId"] = id

	if _, err := s.DB.Collection(domain.ColShops).UpdateOne(ctx,
		bson.M{"requestId": id},
		bson.M{"$set": shop},
		options.Update().SetUpsert(true),
	); err != nil {
		return false, err
	}

	_, err = s.DB.Collection(domain.ColShopRequests).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"approved": true}},
	)
	return true, err
}

// RejectShopRequest marks a request rejected. Approved requests are never
// touched: the approved flag does not revert. Returns the number of matched
// documents (0 means not found or already approved).
func (s *Store) RejectShopRequest(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.DB.Collection(domain.ColShopRequests).UpdateOne(ctx,
		bson.M{"_id": id, "approved": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"rejected": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (s *Store) CountShopsByOwner(ctx context.Context, email string) (int64, error) {
	return s.DB.Collection(domain.ColShops).CountDocuments(ctx, bson.M{"owner": email})
}

// ShopByOwner returns the owner's shop document, or nil when they have none.
func (s *Store) ShopByOwner(ctx context.Context, email string) (bson.M, error) {
	var shop bson.M
	err := s.DB.Collection(domain.ColShops).FindOne(ctx, bson.M{"owner": email}).Decode(&shop)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return shop, nil
}
