package queue

// Routing keys on the elegant.events exchange.
const (
	KeyUserRegistered = "user.registered"
	KeyShopRequested  = "shop.requested"
	KeyShopApproved   = "shop.approved"
	KeyShopRejected   = "shop.rejected"
	KeyProductAdded   = "product.added"
)

type UserRegistered struct {
	Email string `json:"email"`
}

type ShopRequested struct {
	Owner string `json:"owner"`
}

type ShopApproved struct {
	RequestID string `json:"request_id"`
	Admin     string `json:"admin"`
}

type ShopRejected struct {
	RequestID string `json:"request_id"`
	Admin     string `json:"admin"`
}

type ProductAdded struct {
	Owner string `json:"owner"`
}
