package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bhavya257/fast-backend/internal/models"
	"github.com/bhavya257/fast-backend/internal/orders"
	"github.com/bhavya257/fast-backend/internal/pagination"
)

const defaultOrdersLimit = 15

type orderLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Qty       int    `json:"qty" binding:"required,gt=0"`
}

type createOrderRequest struct {
	UserID string             `json:"user_id" binding:"required"`
	Items  []orderLineRequest `json:"items" binding:"required,min=1,dive"`
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is not a valid id"})
		return
	}
	items := make([]models.OrderLine, 0, len(req.Items))
	for _, line := range req.Items {
		productID, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId is not a valid id"})
			return
		}
		items = append(items, models.OrderLine{ProductID: productID, Qty: line.Qty})
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	// The user check runs before any transaction is opened.
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		storeError(c, err)
		return
	}
	if !exists {
		storeError(c, &orders.NotFoundError{Entity: "User", ID: userID.Hex()})
		return
	}

	id, err := s.engine.CreateOrder(ctx, userID, items)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex()})
}

func (s *Server) listOrders(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is not a valid id"})
		return
	}
	limit, offset, err := pagingParams(c, defaultOrdersLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		storeError(c, err)
		return
	}
	if !exists {
		storeError(c, &orders.NotFoundError{Entity: "User", ID: userID.Hex()})
		return
	}

	total, views, err := s.reader.ListOrdersForUser(ctx, userID, int64(limit), int64(offset))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": views,
		"page": pagination.Paginate(offset, limit, int(total), len(views)),
	})
}
