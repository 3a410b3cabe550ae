package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Collection names match the original Elegant database.
const (
	ColUsers        = "Users"
	ColShopRequests = "ShopRequests"
	ColShops        = "Shops"
	ColProducts     = "Products"
)

const RoleAdmin = "admin"

// User is the canonical shape of a Users document. Registration payloads may
// carry additional profile fields; those are stored verbatim, so reads that
// must return the full document go through bson.M instead of this struct.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email    string             `bson:"email"              json:"email"`
	Name     string             `bson:"name,omitempty"     json:"name,omitempty"`
	PhotoURL string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Bio      string             `bson:"bio,omitempty"      json:"bio,omitempty"`
	CoverImg string             `bson:"coverImg,omitempty" json:"coverImg,omitempty"`
	Role     string             `bson:"role,omitempty"     json:"role,omitempty"`
}
