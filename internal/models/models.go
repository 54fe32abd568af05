package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Catalog documents ---

// ItemSize is one size variant of a product.
type ItemSize struct {
	Size     string `bson:"size" json:"size" binding:"required"`
	Quantity int    `bson:"quantity" json:"quantity" binding:"required,gt=0"`
}

// Product is a catalog document. Products are immutable once created.
type Product struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name" binding:"required"`
	Price float64            `bson:"price" json:"price" binding:"gte=0"`
	Sizes []ItemSize         `bson:"sizes" json:"sizes" binding:"required,dive"`
}

// --- Order documents ---

// OrderLine is one {product, qty} entry within an order.
type OrderLine struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Qty       int                `bson:"qty" json:"qty"`
}

// Order is persisted atomically by the order engine. Total captures product
// prices at creation time and is never recomputed afterwards.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items     []OrderLine        `bson:"items" json:"items"`
	Total     float64            `bson:"total" json:"total"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// --- Denormalized read views ---

// ProductDetails is the current product identity joined into an order view.
type ProductDetails struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrderLineView is an order line carrying joined product details.
type OrderLineView struct {
	ProductDetails ProductDetails `json:"productDetails"`
	Qty            int            `json:"qty"`
}

// OrderView is one denormalized order as returned to clients.
type OrderView struct {
	ID    string          `json:"id"`
	Items []OrderLineView `json:"items"`
	Total float64         `json:"total"`
}

// --- Pagination ---

// Page describes the position of a result page. Limit reports the number of
// items actually selected, which may be short on the final page.
type Page struct {
	Next     *int `json:"next,omitempty"`
	Limit    int  `json:"limit"`
	Previous *int `json:"previous,omitempty"`
}

// --- Outgoing event ---

// EventOrderLine is one order line as carried on the event bus.
type EventOrderLine struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// OrderCreatedEvent is published after an order commits.
type OrderCreatedEvent struct {
	EventID   string           `json:"eventId"`
	OrderID   string           `json:"orderId"`
	UserID    string           `json:"userId"`
	Items     []EventOrderLine `json:"items"`
	Total     float64          `json:"total"`
	Timestamp time.Time        `json:"timestamp"`
}
