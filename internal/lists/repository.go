package lists

import (
	"context"

	"github.com/taskhub/taskhub/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository provides list persistence. Every operation takes the owning user
// id and filters by it; there is no way to reach another user's lists.
type Repository interface {
	Create(ctx context.Context, l *models.List) (*models.List, error)
	ListByOwner(ctx context.Context, userID string) ([]models.List, error)
	GetByIDAndOwner(ctx context.Context, id, userID string) (*models.List, error)
	UpdateTitle(ctx context.Context, id, userID, title string) (bool, error)
	Delete(ctx context.Context, id, userID string) (*models.List, error)
}

// MongoRepository implements Repository on a Mongo collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

type listDoc struct {
	ID     primitive.ObjectID `bson:"_id"`
	Title  string             `bson:"title"`
	UserID string             `bson:"_userId"`
}

func (d listDoc) model() models.List {
	return models.List{ID: d.ID.Hex(), Title: d.Title, UserID: d.UserID}
}

func (r *MongoRepository) Create(ctx context.Context, l *models.List) (*models.List, error) {
	oid := primitive.NewObjectID()
	doc := listDoc{ID: oid, Title: l.Title, UserID: l.UserID}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	out := doc.model()
	return &out, nil
}

func (r *MongoRepository) ListByOwner(ctx context.Context, userID string) ([]models.List, error) {
	cur, err := r.col.Find(ctx, bson.M{"_userId": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.List{}
	for cur.Next(ctx) {
		var d listDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.model())
	}
	return out, cur.Err()
}

func (r *MongoRepository) GetByIDAndOwner(ctx context.Context, id, userID string) (*models.List, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var d listDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid, "_userId": userID}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	out := d.model()
	return &out, nil
}

func (r *MongoRepository) UpdateTitle(ctx context.Context, id, userID, title string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "_userId": userID},
		bson.M{"$set": bson.M{"title": title}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id, userID string) (*models.List, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var d listDoc
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid, "_userId": userID}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	out := d.model()
	return &out, nil
}
