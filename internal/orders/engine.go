package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bhavya257/fast-backend/internal/models"
)

// Store is the slice of the backing store the engine needs. The context
// passed to GetProduct and InsertOrder inside a WithTransaction callback is
// session-scoped, so lookups see the transaction's read view.
type Store interface {
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	InsertOrder(ctx context.Context, o models.Order) (primitive.ObjectID, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher emits application events after state changes commit.
type Publisher interface {
	PublishMessage(ctx context.Context, routingKey string, payload interface{}) error
}

// Engine validates, prices and persists orders atomically.
type Engine struct {
	store Store
	bus   Publisher // nil disables event publishing
	topic string
	now   func() time.Time
}

// NewEngine wires the order engine. bus may be nil when no event bus is
// configured.
func NewEngine(store Store, bus Publisher, topic string) *Engine {
	return &Engine{store: store, bus: bus, topic: topic, now: time.Now}
}

// CreateOrder validates every line item against the catalog, computes the
// order total from current product prices and persists the order, all inside
// one transaction. Either the full order commits or nothing does.
//
// The caller is expected to have verified the user exists; a line item
// referencing a missing product aborts the transaction with *NotFoundError.
func (e *Engine) CreateOrder(ctx context.Context, userID primitive.ObjectID, items []models.OrderLine) (primitive.ObjectID, error) {
	var order models.Order

	err := e.store.WithTransaction(ctx, func(txCtx context.Context) error {
		priced, err := e.priceOrder(txCtx, userID, items)
		if err != nil {
			return err
		}
		id, err := e.store.InsertOrder(txCtx, priced)
		if err != nil {
			return err
		}
		priced.ID = id
		order = priced
		return nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}

	log.Info().
		Str("orderId", order.ID.Hex()).
		Str("userId", userID.Hex()).
		Float64("total", order.Total).
		Msg("Order created")

	e.publishCreated(ctx, order)
	return order.ID, nil
}

// priceOrder resolves every line item within the given (transaction-scoped)
// context and accumulates the total in input order. It never writes.
func (e *Engine) priceOrder(ctx context.Context, userID primitive.ObjectID, items []models.OrderLine) (models.Order, error) {
	var total float64
	for _, line := range items {
		product, err := e.store.GetProduct(ctx, line.ProductID)
		if err != nil {
			return models.Order{}, err
		}
		if product == nil {
			return models.Order{}, &NotFoundError{Entity: "Product", ID: line.ProductID.Hex()}
		}
		total += product.Price * float64(line.Qty)
	}

	return models.Order{
		UserID:    userID,
		Items:     items,
		Total:     total,
		CreatedAt: e.now().UTC(),
	}, nil
}

// publishCreated emits an order.created event. The order is already
// committed, so a publish failure is logged and swallowed.
func (e *Engine) publishCreated(ctx context.Context, order models.Order) {
	if e.bus == nil {
		return
	}

	lines := make([]models.EventOrderLine, 0, len(order.Items))
	for _, line := range order.Items {
		lines = append(lines, models.EventOrderLine{ProductID: line.ProductID.Hex(), Qty: line.Qty})
	}
	event := models.OrderCreatedEvent{
		EventID:   uuid.New().String(),
		OrderID:   order.ID.Hex(),
		UserID:    order.UserID.Hex(),
		Items:     lines,
		Total:     order.Total,
		Timestamp: e.now(),
	}

	if err := e.bus.PublishMessage(ctx, e.topic, event); err != nil {
		log.Warn().Err(err).Str("orderId", event.OrderID).Msg("Failed to publish order.created event")
	}
}
