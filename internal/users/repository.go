package users

import (
	"context"
	"time"

	"github.com/taskhub/taskhub/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository defines persistence operations for users and their embedded
// sessions. Session mutations are single-document updates keyed by user id so
// concurrent logins never race-overwrite each other.
type Repository interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDAndToken(ctx context.Context, id, token string) (*models.User, error)
	AppendSession(ctx context.Context, id string, s models.Session) error
	RemoveSession(ctx context.Context, id, token string) error
	PruneSessions(ctx context.Context, id string, now time.Time) error
}

// MongoRepository implements Repository on a Mongo collection.
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a repository for the given collection.
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

// EnsureIndexes creates the unique email index. Idempotent; call at startup.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Sessions == nil {
		u.Sessions = []models.Session{}
	}
	oid := primitive.NewObjectID()
	doc := bson.M{
		"_id":       oid,
		"email":     u.Email,
		"password":  u.Password,
		"sessions":  u.Sessions,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	u.ID = oid.Hex()
	return u, nil
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// an unparseable id behaves like an unknown one
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoRepository) GetByIDAndToken(ctx context.Context, id, token string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid, "sessions.token": token})
}

// AppendSession adds one session with an atomic $push; the rest of the
// sessions array is never rewritten, so a concurrent append is never lost.
func (r *MongoRepository) AppendSession(ctx context.Context, id string, s models.Session) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"sessions": s}},
	)
	return err
}

func (r *MongoRepository) RemoveSession(ctx context.Context, id, token string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"sessions": bson.M{"token": token}}},
	)
	return err
}

// PruneSessions drops sessions that expired before now. The session array
// would otherwise grow without bound; this runs lazily on each login.
func (r *MongoRepository) PruneSessions(ctx context.Context, id string, now time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"sessions": bson.M{"expiresAt": bson.M{"$lte": now}}}},
	)
	return err
}

// decoded mirrors the stored document; _id needs an ObjectID to round-trip.
type decoded struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Sessions  []models.Session   `bson:"sessions"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var d decoded
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &models.User{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Password:  d.Password,
		Sessions:  d.Sessions,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}
