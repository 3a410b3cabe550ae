package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rakibhasan/elegant-server/internal/domain"
	"github.com/rakibhasan/elegant-server/internal/log"
	"github.com/rakibhasan/elegant-server/internal/queue"
	"github.com/rakibhasan/elegant-server/internal/repo"
	"github.com/rakibhasan/elegant-server/internal/security"
)

type Handler struct {
	Store     *repo.Store
	JWTSecret string
	AccessTTL time.Duration
	Events    queue.Publisher
}

func NewHandler(store *repo.Store, jwtSecret string, accessTTLHours int, pub queue.Publisher) *Handler {
	if pub == nil {
		pub = queue.NewNoop()
	}
	return &Handler{
		Store:     store,
		JWTSecret: jwtSecret,
		AccessTTL: time.Duration(accessTTLHours) * time.Hour,
		Events:    pub,
	}
}

// publish fires a domain event off the request path. Failures are logged and
// never surfaced to the client.
func (h *Handler) publish(c *gin.Context, key string, event any) {
	reqID := c.GetString(requestIDKey)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := h.Events.Publish(ctx, queue.Exchange, key, event, reqID); err != nil {
			log.Errorf("publish %s: %v", key, err)
		}
	}()
}

// RegisterUser godoc
// @Summary Register user (idempotent by email)
// @Tags user
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /user [post]
func (h *Handler) RegisterUser(c *gin.Context) {
	var doc bson.M
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	email, _ := doc["email"].(string)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
		return
	}

	existing, err := h.Store.FindUserByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	if existing != nil {
		// repeat registration is a no-op that still reports success
		c.JSON(http.StatusOK, gin.H{"acknowledged": true})
		return
	}

	id, err := h.Store.InsertUser(c.Request.Context(), doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	h.publish(c, queue.KeyUserRegistered, queue.UserRegistered{Email: email})
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "insertedId": id})
}

// Profile godoc
// @Summary Own user document, enriched with owned-shop count
// @Tags user
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /user [get]
func (h *Handler) Profile(c *gin.Context) {
	email := CurrentUser(c).Email

	u, err := h.Store.FindUserByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}

	n, err := h.Store.CountShopsByOwner(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	u["totalShop"] = n
	c.JSON(http.StatusOK, u)
}

// AdminCheck reports whether the given email has the admin role. Public: it
// leaks nothing beyond a boolean.
func (h *Handler) AdminCheck(c *gin.Context) {
	role, err := h.Store.UserRole(c.Request.Context(), c.Param("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": role == domain.RoleAdmin})
}

type jwtReq struct {
	Email string `json:"email"`
}

// IssueToken godoc
// @Summary Sign a token for the supplied email
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /jwt [post]
func (h *Handler) IssueToken(c *gin.Context) {
	var in jwtReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
		return
	}
	tok, err := security.MakeAccess(h.JWTSecret, in.Email, h.AccessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok})
}

// setOwnField upserts one field of the caller's own user document.
func (h *Handler) setOwnField(c *gin.Context, field string) {
	var body bson.M
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	value, ok := body[field]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": field + " is required"})
		return
	}

	res, err := h.Store.SetUserField(c.Request.Context(), CurrentUser(c).Email, field, value)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"matchedCount":  res.MatchedCount,
		"modifiedCount": res.ModifiedCount,
		"upsertedCount": res.UpsertedCount,
	})
}

func (h *Handler) UpdateProfilePhoto(c *gin.Context) { h.setOwnField(c, "photoURL") }
func (h *Handler) UpdateBio(c *gin.Context)          { h.setOwnField(c, "bio") }
func (h *Handler) UpdateCoverPhoto(c *gin.Context)   { h.setOwnField(c, "coverImg") }

// CreateShopRequest stores a pending shop. The owner is always the verified
// subject, whatever the payload says.
func (h *Handler) CreateShopRequest(c *gin.Context) {
	var doc bson.M
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	owner := CurrentUser(c).Email
	doc["owner"] = owner
	doc["approved"] = false
	delete(doc, "rejected")

	id, err := h.Store.CreateShopRequest(c.Request.Context(), doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	h.publish(c, queue.KeyShopRequested, queue.ShopRequested{Owner: owner})
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "insertedId": id})
}

func (h *Handler) ListShopRequests(c *gin.Context) {
	reqs, err := h.Store.PendingShopRequests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// ApproveShop godoc
// @Summary Approve a shop request
// @Tags shop
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /approveShop/{id} [put]
func (h *Handler) ApproveShop(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request id"})
		return
	}

	found, err := h.Store.ApproveShopRequest(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "shop request not found"})
		return
	}

	h.publish(c, queue.KeyShopApproved, queue.ShopApproved{
		RequestID: id.Hex(),
		Admin:     CurrentUser(c).Email,
	})
	c.JSON(http.StatusOK, gin.H{"approved": true})
}

// RejectShop marks a pending request rejected. Approved requests stay
// approved; rejecting one is a 404.
func (h *Handler) RejectShop(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request id"})
		return
	}

	matched, err := h.Store.RejectShopRequest(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	if matched == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "shop request not found or already approved"})
		return
	}

	h.publish(c, queue.KeyShopRejected, queue.ShopRejected{
		RequestID: id.Hex(),
		Admin:     CurrentUser(c).Email,
	})
	c.JSON(http.StatusOK, gin.H{"rejected": true})
}

// Warehouse returns the warehouse descriptor of the caller's shop, used when
// adding a product.
func (h *Handler) Warehouse(c *gin.Context) {
	shop, err := h.Store.ShopByOwner(c.Request.Context(), CurrentUser(c).Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	if shop == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "no shop for user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"warehouse": shop["warehouse"]})
}

// CreateProduct inserts the submitted product verbatim.
func (h *Handler) CreateProduct(c *gin.Context) {
	var doc bson.M
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}

	id, err := h.Store.InsertProduct(c.Request.Context(), doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	h.publish(c, queue.KeyProductAdded, queue.ProductAdded{Owner: CurrentUser(c).Email})
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "insertedId": id})
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.Store.ProductsByOwner(c.Request.Context(), CurrentUser(c).Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Elegant server work")
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
