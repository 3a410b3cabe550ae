package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog())
	r.Use(Metrics())

	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/user", h.RegisterUser)
	r.GET("/admin/:email", h.AdminCheck)
	r.POST("/jwt", h.IssueToken)

	// verified subject acting on their own resources
	own := r.Group("", AuthRequired(h.JWTSecret), SubjectMatch())
	own.GET("/user", h.Profile)
	own.PUT("/updateProfilePhoto", h.UpdateProfilePhoto)
	own.PUT("/updateBio", h.UpdateBio)
	own.PUT("/updateCoverPhoto", h.UpdateCoverPhoto)
	own.POST("/shop", h.CreateShopRequest)
	own.GET("/shopRequests", h.ListShopRequests)
	own.GET("/warehouse", h.Warehouse)
	own.POST("/product", h.CreateProduct)
	own.GET("/products", h.ListProducts)

	// admin gate runs before subject-match
	admin := r.Group("", AuthRequired(h.JWTSecret), AdminOnly(h.Store), SubjectMatch())
	admin.PUT("/approveShop/:id", h.ApproveShop)
	admin.PUT("/rejectShop/:id", h.RejectShop)

	return r
}
