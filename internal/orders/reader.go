package orders

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bhavya257/fast-backend/internal/models"
)

// ReadStore is the slice of the backing store the aggregation reader needs.
type ReadStore interface {
	CountOrdersByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	FindOrdersByUser(ctx context.Context, userID primitive.ObjectID, limit, offset int64) ([]models.Order, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// Reader reconstructs denormalized order views by joining stored line items
// with current product records.
type Reader struct {
	store ReadStore
}

func NewReader(store ReadStore) *Reader {
	return &Reader{store: store}
}

// ListOrdersForUser returns the total number of orders for the user and one
// page of denormalized views, most recent first. The stored order total is
// passed through unchanged; only product name/id are current. A line whose
// product no longer exists is omitted from its order's view.
//
// A user with zero orders short-circuits without touching the catalog.
func (r *Reader) ListOrdersForUser(ctx context.Context, userID primitive.ObjectID, limit, offset int64) (int64, []models.OrderView, error) {
	total, err := r.store.CountOrdersByUser(ctx, userID)
	if err != nil {
		return 0, nil, err
	}
	if total == 0 {
		return 0, []models.OrderView{}, nil
	}

	page, err := r.store.FindOrdersByUser(ctx, userID, limit, offset)
	if err != nil {
		return 0, nil, err
	}

	views := make([]models.OrderView, 0, len(page))
	for _, order := range page {
		view := models.OrderView{
			ID:    order.ID.Hex(),
			Items: make([]models.OrderLineView, 0, len(order.Items)),
			Total: order.Total,
		}
		for _, line := range order.Items {
			product, err := r.store.GetProduct(ctx, line.ProductID)
			if err != nil {
				return 0, nil, err
			}
			if product == nil {
				// Product deleted since the order was placed; the line
				// drops out of the view.
				continue
			}
			view.Items = append(view.Items, models.OrderLineView{
				ProductDetails: models.ProductDetails{ID: product.ID.Hex(), Name: product.Name},
				Qty:            line.Qty,
			})
		}
		views = append(views, view)
	}
	return total, views, nil
}
