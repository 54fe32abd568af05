package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bhavya257/fast-backend/internal/database"
	"github.com/bhavya257/fast-backend/internal/models"
	"github.com/bhavya257/fast-backend/internal/pagination"
)

const defaultProductsLimit = 10

// productSummary is the listing shape: sizes stay out of the response.
type productSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (s *Server) createProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	id, err := s.catalog.InsertProduct(ctx, product)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.Hex()})
}

func (s *Server) listProducts(c *gin.Context) {
	limit, offset, err := pagingParams(c, defaultProductsLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter := database.ProductFilter{
		Name: c.Query("name"),
		Size: c.Query("size"),
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	total, items, err := s.catalog.FindProducts(ctx, filter, int64(limit), int64(offset), "_id")
	if err != nil {
		storeError(c, err)
		return
	}

	data := make([]productSummary, 0, len(items))
	for _, p := range items {
		data = append(data, productSummary{ID: p.ID.Hex(), Name: p.Name, Price: p.Price})
	}
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"page": pagination.Paginate(offset, limit, int(total), len(data)),
	})
}
