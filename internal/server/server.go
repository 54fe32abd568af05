// Package server is the HTTP adapter: route registration, request binding
// and error translation around the core engine and reader.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bhavya257/fast-backend/internal/database"
	"github.com/bhavya257/fast-backend/internal/models"
	"github.com/bhavya257/fast-backend/internal/orders"
)

// Catalog is the product-facing slice of the store.
type Catalog interface {
	InsertProduct(ctx context.Context, p models.Product) (primitive.ObjectID, error)
	FindProducts(ctx context.Context, filter database.ProductFilter, limit, offset int64, sortKey string) (int64, []models.Product, error)
}

// Users checks referenced user ids against the user collaborator.
type Users interface {
	UserExists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// Pinger reports backing-store connectivity for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	catalog Catalog
	users   Users
	engine  *orders.Engine
	reader  *orders.Reader
	pinger  Pinger
	timeout time.Duration
}

func New(catalog Catalog, users Users, engine *orders.Engine, reader *orders.Reader, pinger Pinger, timeout time.Duration) *Server {
	return &Server{
		catalog: catalog,
		users:   users,
		engine:  engine,
		reader:  reader,
		pinger:  pinger,
		timeout: timeout,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/products", s.createProduct)
	r.GET("/products", s.listProducts)
	r.POST("/orders", s.createOrder)
	r.GET("/orders/:user_id", s.listOrders)
	r.GET("/healthz", s.health)
	return r
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.timeout)
}

// storeError translates core failures into HTTP responses.
func storeError(c *gin.Context, err error) {
	var notFound *orders.NotFoundError
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.Is(err, database.ErrTxnAborted):
		log.Warn().Err(err).Msg("Transaction aborted, request may be retried")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation aborted, please retry"})
	default:
		log.Error().Err(err).Msg("Store operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// pagingParams parses limit/offset query parameters, applying defaults and
// rejecting non-positive limits and negative offsets.
func pagingParams(c *gin.Context, defaultLimit int) (limit, offset int, err error) {
	limit = defaultLimit
	if v := c.Query("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return 0, 0, errors.New("limit must be a positive integer")
		}
	}
	if v := c.Query("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, errors.New("offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}
