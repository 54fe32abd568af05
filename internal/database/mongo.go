package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bhavya257/fast-backend/config"
	"github.com/bhavya257/fast-backend/internal/models"
)

var (
	// ErrUnavailable marks connectivity or infrastructure failures. Callers
	// may retry with backoff.
	ErrUnavailable = errors.New("store unavailable")

	// ErrTxnAborted marks a transaction that failed mid-flight without
	// persisting anything. The whole operation is safe to retry.
	ErrTxnAborted = errors.New("transaction aborted")
)

// DB represents the MongoDB connection pool and the application collections.
type DB struct {
	client   *mongo.Client
	products *mongo.Collection
	orders   *mongo.Collection
	users    *mongo.Collection
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg config.Config) (*DB, error) {
	log.Info().Msg("Connecting to MongoDB...")
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	log.Info().Str("database", cfg.MongoDatabase).Msg("MongoDB connection successful.")
	return &DB{
		client:   client,
		products: db.Collection(cfg.ProductsCollection),
		orders:   db.Collection(cfg.OrdersCollection),
		users:    db.Collection(cfg.UsersCollection),
	}, nil
}

// Close gracefully disconnects from MongoDB.
func (db *DB) Close(ctx context.Context) {
	log.Info().Msg("Closing MongoDB connection.")
	if err := db.client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("Error disconnecting from MongoDB")
	}
}

// Ping checks connectivity to the server.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping: %w: %v", ErrUnavailable, err)
	}
	return nil
}

// ProductFilter is a conjunction of optional catalog predicates.
type ProductFilter struct {
	Name string // case-insensitive substring match on the product name
	Size string // exact match against one entry of the sizes array
}

func (f ProductFilter) document() bson.M {
	query := bson.M{}
	if f.Name != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(f.Name), "$options": "i"}
	}
	if f.Size != "" {
		query["sizes"] = bson.M{"$elemMatch": bson.M{"size": f.Size}}
	}
	return query
}

// InsertProduct inserts a new catalog document and returns its generated id.
func (db *DB) InsertProduct(ctx context.Context, p models.Product) (primitive.ObjectID, error) {
	return db.insert(ctx, db.products, p)
}

// FindProducts returns the total number of products matching the filter and
// the requested page, sorted by sortKey ascending with _id as tiebreaker.
// When nothing matches, no second fetch is issued.
func (db *DB) FindProducts(ctx context.Context, filter ProductFilter, limit, offset int64, sortKey string) (int64, []models.Product, error) {
	query := filter.document()

	total, err := db.products.CountDocuments(ctx, query)
	if err != nil {
		return 0, nil, translate("count products", err)
	}
	if total == 0 {
		return 0, []models.Product{}, nil
	}

	sort := bson.D{{Key: sortKey, Value: 1}}
	if sortKey != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	opts := options.Find().SetSort(sort).SetSkip(offset).SetLimit(limit)

	cursor, err := db.products.Find(ctx, query, opts)
	if err != nil {
		return 0, nil, translate("find products", err)
	}
	var items []models.Product
	if err := cursor.All(ctx, &items); err != nil {
		return 0, nil, translate("decode products", err)
	}
	return total, items, nil
}

// GetProduct looks up a single product by id. It returns (nil, nil) when the
// product does not exist. Passing a session context scopes the read to that
// transaction's view.
func (db *DB) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := db.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, translate("find product", err)
	}
	return &p, nil
}

// UserExists reports whether a user document with the given id exists.
func (db *DB) UserExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return db.exists(ctx, db.users, id)
}

// InsertOrder inserts a new order document and returns its generated id.
func (db *DB) InsertOrder(ctx context.Context, o models.Order) (primitive.ObjectID, error) {
	return db.insert(ctx, db.orders, o)
}

// CountOrdersByUser counts all orders belonging to a user.
func (db *DB) CountOrdersByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	total, err := db.orders.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, translate("count orders", err)
	}
	return total, nil
}

// FindOrdersByUser returns one page of a user's orders, most recent first.
func (db *DB) FindOrdersByUser(ctx context.Context, userID primitive.ObjectID, limit, offset int64) ([]models.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := db.orders.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, translate("find orders", err)
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, translate("decode orders", err)
	}
	return orders, nil
}

// WithTransaction runs fn inside a single MongoDB transaction. The context
// passed to fn is session-scoped: reads issued through it see the
// transaction's snapshot, and every write commits atomically or not at all.
// fn returning an error aborts the transaction.
func (db *DB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := db.client.StartSession()
	if err != nil {
		return translate("start session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return translate("transaction", err)
}

func (db *DB) insert(ctx context.Context, coll *mongo.Collection, doc interface{}) (primitive.ObjectID, error) {
	result, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, translate("insert "+coll.Name(), err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert %s: unexpected inserted id type %T", coll.Name(), result.InsertedID)
	}
	return id, nil
}

// exists performs a point existence check, fetching only the _id.
func (db *DB) exists(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) (bool, error) {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := coll.FindOne(ctx, bson.M{"_id": id}, opts).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, translate("exists "+coll.Name(), err)
	}
	return true, nil
}

// translate maps driver failures onto the store error taxonomy. Errors that
// already carry a taxonomy sentinel pass through unchanged so transaction
// callbacks keep their original classification.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTxnAborted):
		return err
	case hasTransientTxnLabel(err):
		return fmt.Errorf("%s: %w: %v", op, ErrTxnAborted, err)
	case mongo.IsNetworkError(err) || mongo.IsTimeout(err):
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func hasTransientTxnLabel(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.HasErrorLabel("TransientTransactionError") ||
			cmdErr.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}
