package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"mongo-user-service/internal/domain/user"
	"mongo-user-service/internal/observability/metrics"
)

// userCollection is the slice of *mongo.Collection behavior the repository
// needs for the users collection.
type userCollection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
}

// counterCollection is the slice of *mongo.Collection behavior the repository
// needs for the counters collection.
type counterCollection interface {
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
}

// indexCreator matches mongo.IndexView's CreateMany.
type indexCreator interface {
	CreateMany(ctx context.Context, models []mongo.IndexModel, opts ...*options.CreateIndexesOptions) ([]string, error)
}

// UserRepoMongo implements the Repository interface using MongoDB.
type UserRepoMongo struct {
	users    userCollection    // users collection
	counters counterCollection // counters collection backing user_index
	indexes  indexCreator      // index view of the users collection
	log      *zap.Logger       // Structured logger for database operations

	indexesReady atomic.Bool // latched after the first successful EnsureIndexes
}

// NewUserRepoMongo creates a new instance of UserRepoMongo.
func NewUserRepoMongo(db *mongo.Database, log *zap.Logger) *UserRepoMongo {
	users := db.Collection(CollectionUsers)
	return &UserRepoMongo{
		users:    users,
		counters: db.Collection(CollectionCounters),
		indexes:  users.Indexes(),
		log:      log,
	}
}

// userDocument represents the stored shape of a user in the users collection.
type userDocument struct {
	ID        string    `bson:"id"`              // Short hex identifier (unique)
	UserIndex int64     `bson:"user_index"`      // Monotonic registration number (unique)
	Name      string    `bson:"name"`            // User's full name (required)
	Email     string    `bson:"email,omitempty"` // User's email address (optional)
	CreatedAt time.Time `bson:"created_at"`      // Creation timestamp in UTC
}

func (d *userDocument) toDomain() *user.User {
	return &user.User{
		ID:        d.ID,
		UserIndex: d.UserIndex,
		Name:      d.Name,
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
	}
}

// counterDocument represents a named sequence in the counters collection.
type counterDocument struct {
	ID  string `bson:"_id"` // Sequence name
	Seq int64  `bson:"seq"` // Last value handed out
}

// EnsureIndexes creates the unique indexes the repository relies on. After
// the first success it becomes a no-op; a failure leaves it retryable.
func (r *UserRepoMongo) EnsureIndexes(ctx context.Context) error {
	if r.indexesReady.Load() {
		return nil
	}

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("uniq_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_index", Value: 1}},
			Options: options.Index().SetName("uniq_user_index").SetUnique(true),
		},
	}

	names, err := r.indexes.CreateMany(ctx, models)
	if err != nil {
		r.log.Error("failed to create user indexes", zap.Error(err))
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	r.indexesReady.Store(true)
	r.log.Info("user indexes ensured", zap.Strings("indexes", names))
	return nil
}

// nextUserIndex atomically increments and returns the user_index sequence.
// The upsert creates the counter document on first use, so no seeding is
// required.
func (r *UserRepoMongo) nextUserIndex(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter counterDocument
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": userIndexCounter},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		r.log.Error("failed to increment user_index counter", zap.Error(err))
		return 0, fmt.Errorf("failed to increment user_index counter: %w", err)
	}

	return counter.Seq, nil
}

// Create inserts a new user, assigning its server-generated id, user_index
// and creation time. On a duplicate id the id is regenerated exactly once and
// the insert retried with the same user_index, so the sequence can skip a
// value for a request that collided. A second failure is returned as-is.
func (r *UserRepoMongo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	seq, err := r.nextUserIndex(ctx)
	if err != nil {
		return nil, err
	}

	id, err := user.NewID()
	if err != nil {
		return nil, err
	}

	doc := userDocument{
		ID:        id,
		UserIndex: seq,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: time.Now().UTC(),
	}

	if _, err = r.users.InsertOne(ctx, doc); err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			r.log.Error("failed to insert user", zap.Error(err), zap.String("id", doc.ID))
			return nil, fmt.Errorf("failed to insert user: %w", err)
		}

		metrics.UserIDCollisionsTotal.Inc()
		r.log.Warn("user id collision, regenerating",
			zap.String("id", doc.ID),
			zap.Int64("user_index", doc.UserIndex),
		)

		if doc.ID, err = user.NewID(); err != nil {
			return nil, err
		}
		if _, err = r.users.InsertOne(ctx, doc); err != nil {
			r.log.Error("failed to insert user after id regeneration", zap.Error(err), zap.String("id", doc.ID))
			return nil, fmt.Errorf("failed to insert user after id regeneration: %w", err)
		}
	}

	metrics.UsersCreatedTotal.Inc()
	r.log.Info("user created in db", zap.String("id", doc.ID), zap.Int64("user_index", doc.UserIndex))

	return doc.toDomain(), nil
}

// GetByID retrieves a user by its short hex id. The document's _id is
// projected away, so only the public fields come back. A missing user is not
// an error: it returns (nil, nil).
func (r *UserRepoMongo) GetByID(ctx context.Context, id string) (*user.User, error) {
	opts := options.FindOne().SetProjection(bson.M{"_id": 0})

	var doc userDocument
	err := r.users.FindOne(ctx, bson.M{"id": id}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			metrics.UserLookupMissesTotal.Inc()
			r.log.Debug("user not found", zap.String("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return doc.toDomain(), nil
}
