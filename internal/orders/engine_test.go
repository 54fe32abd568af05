package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bhavya257/fast-backend/internal/database"
	"github.com/bhavya257/fast-backend/internal/models"
)

type fakeStore struct {
	products map[primitive.ObjectID]models.Product

	inserted  []models.Order
	insertErr error
	txnErr    error

	productCalls int
	inTxn        bool
	lookupsInTxn int
}

func (f *fakeStore) GetProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.productCalls++
	if f.inTxn {
		f.lookupsInTxn++
	}
	if p, ok := f.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeStore) InsertOrder(_ context.Context, o models.Order) (primitive.ObjectID, error) {
	if f.insertErr != nil {
		return primitive.NilObjectID, f.insertErr
	}
	o.ID = primitive.NewObjectID()
	f.inserted = append(f.inserted, o)
	return o.ID, nil
}

func (f *fakeStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.txnErr != nil {
		return f.txnErr
	}
	f.inTxn = true
	defer func() { f.inTxn = false }()
	return fn(ctx)
}

type fakePublisher struct {
	published []models.OrderCreatedEvent
	err       error
}

func (f *fakePublisher) PublishMessage(_ context.Context, _ string, payload interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, payload.(models.OrderCreatedEvent))
	return nil
}

func storeWithProducts(products ...models.Product) *fakeStore {
	store := &fakeStore{products: map[primitive.ObjectID]models.Product{}}
	for _, p := range products {
		store.products[p.ID] = p
	}
	return store
}

func TestCreateOrderComputesTotal(t *testing.T) {
	mug := models.Product{ID: primitive.NewObjectID(), Name: "Mug", Price: 2.5}
	sticker := models.Product{ID: primitive.NewObjectID(), Name: "Sticker", Price: 0.25}
	store := storeWithProducts(mug, sticker)
	engine := NewEngine(store, nil, "order.created")

	userID := primitive.NewObjectID()
	items := []models.OrderLine{
		{ProductID: mug.ID, Qty: 2},
		{ProductID: sticker.ID, Qty: 4},
	}

	id, err := engine.CreateOrder(context.Background(), userID, items)
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	require.Len(t, store.inserted, 1)
	order := store.inserted[0]
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, items, order.Items)
	assert.Equal(t, 6.0, order.Total)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestCreateOrderLooksUpProductsInsideTransaction(t *testing.T) {
	mug := models.Product{ID: primitive.NewObjectID(), Name: "Mug", Price: 2.5}
	store := storeWithProducts(mug)
	engine := NewEngine(store, nil, "order.created")

	_, err := engine.CreateOrder(context.Background(), primitive.NewObjectID(), []models.OrderLine{{ProductID: mug.ID, Qty: 1}})
	require.NoError(t, err)
	assert.Equal(t, 1, store.lookupsInTxn)
}

func TestCreateOrderMissingProduct(t *testing.T) {
	mug := models.Product{ID: primitive.NewObjectID(), Name: "Mug", Price: 2.5}
	store := storeWithProducts(mug)
	engine := NewEngine(store, nil, "order.created")

	missing := primitive.NewObjectID()
	items := []models.OrderLine{
		{ProductID: mug.ID, Qty: 1},
		{ProductID: missing, Qty: 1},
	}

	_, err := engine.CreateOrder(context.Background(), primitive.NewObjectID(), items)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Product", notFound.Entity)
	assert.Equal(t, missing.Hex(), notFound.ID)
	assert.Empty(t, store.inserted, "no order document may be created")
}

func TestCreateOrderTransactionAborted(t *testing.T) {
	store := storeWithProducts()
	store.txnErr = database.ErrTxnAborted
	engine := NewEngine(store, nil, "order.created")

	_, err := engine.CreateOrder(context.Background(), primitive.NewObjectID(), []models.OrderLine{{ProductID: primitive.NewObjectID(), Qty: 1}})

	require.ErrorIs(t, err, database.ErrTxnAborted)
	assert.Empty(t, store.inserted)
}

func TestCreateOrderInsertFailureAbortsWithoutEvent(t *testing.T) {
	mug := models.Product{ID: primitive.NewObjectID(), Name: "Mug", Price: 2.5}
	store := storeWithProducts(mug)
	store.insertErr = errors.New("write conflict")
	bus := &fakePublisher{}
	engine := NewEngine(store, bus, "order.created")

	_, err := engine.CreateOrder(context.Background(), primitive.NewObjectID(), []models.OrderLine{{ProductID: mug.ID, Qty: 1}})

	require.Error(t, err)
	assert.Empty(t, bus.published, "no event may be published for an aborted order")
}

func TestCreateOrderPublishesEvent(t *testing.T) {
	mug := models.Product{ID: primitive.NewObjectID(), Name: "Mug", Price: 2.5}
	store := storeWithProducts(mug)
	bus := &fakePublisher{}
	engine := NewEngine(store, bus, "order.created")
	engine.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	userID := primitive.NewObjectID()
	id, err := engine.CreateOrder(context.Background(), userID, []models.OrderLine{{ProductID: mug.ID, Qty: 3}})
	require.NoError(t, err)

	require.Len(t, bus.published, 1)
	event := bus.published[0]
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, id.Hex(), event.OrderID)
	assert.Equal(t, userID.Hex(), event.UserID)
	assert.Equal(t, 7.5, event.Total)
	require.Len(t, event.Items, 1)
	assert.Equal(t, mug.ID.Hex(), event.Items[0].ProductID)
	assert.Equal(t, 3, event.Items[0].Qty)
}

func TestCreateOrderPublishFailureDoesNotFailOrder(t *testing.T) {
	mug := models.Product{ID: primitive.NewObjectID(), Name: "Mug", Price: 2.5}
	store := storeWithProducts(mug)
	bus := &fakePublisher{err: errors.New("broker gone")}
	engine := NewEngine(store, bus, "order.created")

	id, err := engine.CreateOrder(context.Background(), primitive.NewObjectID(), []models.OrderLine{{ProductID: mug.ID, Qty: 1}})

	require.NoError(t, err)
	assert.False(t, id.IsZero())
	require.Len(t, store.inserted, 1)
}

func TestCreateOrderEmptyItems(t *testing.T) {
	// Empty orders are rejected at the HTTP boundary; the engine itself
	// prices them to zero without touching the catalog.
	store := storeWithProducts()
	engine := NewEngine(store, nil, "order.created")

	_, err := engine.CreateOrder(context.Background(), primitive.NewObjectID(), nil)

	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, 0.0, store.inserted[0].Total)
	assert.Zero(t, store.productCalls)
}
