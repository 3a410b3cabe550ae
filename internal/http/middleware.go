package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rakibhasan/elegant-server/internal/domain"
	"github.com/rakibhasan/elegant-server/internal/log"
	"github.com/rakibhasan/elegant-server/internal/metrics"
	"github.com/rakibhasan/elegant-server/internal/repo"
	"github.com/rakibhasan/elegant-server/internal/security"
)

const (
	authUserKey  = "authUser"
	requestIDKey = "X-Request-ID"
)

// AuthUser is the verified subject attached to the request context.
type AuthUser struct {
	Email string
}

// CurrentUser returns the subject set by AuthRequired. Zero value on
// ungated routes.
func CurrentUser(c *gin.Context) AuthUser {
	v, _ := c.Get(authUserKey)
	au, _ := v.(AuthUser)
	return au
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDKey, id)
		c.Next()
	}
}

func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.L.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.InFlight.Inc()
		c.Next()
		metrics.InFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// AuthRequired validates the bearer token and stores the verified subject in
// the context. Every failure mode gets the same 401 body.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}
		claims, err := security.ParseAccess(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}
		c.Set(authUserKey, AuthUser{Email: claims.Email})
		c.Next()
	}
}

// SubjectMatch requires the verified subject to equal the `user` query
// parameter, so a valid token cannot act on someone else's resources.
func SubjectMatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c).Email != c.Query("user") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}
		c.Next()
	}
}

// AdminOnly looks up the verified subject's role. One repository read per
// invocation.
func AdminOnly(store *repo.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := store.UserRole(c.Request.Context(), CurrentUser(c).Email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}
		if role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}
		c.Next()
	}
}
