package tasks

import (
	"context"

	"github.com/taskhub/taskhub/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Update carries the PATCH fields for a task; nil means "leave unchanged".
type Update struct {
	Title     *string
	Completed *bool
}

// Repository provides task persistence. Tasks are scoped by their parent list;
// ownership of the list itself is checked by the handler layer.
type Repository interface {
	Create(ctx context.Context, t *models.Task) (*models.Task, error)
	ListByList(ctx context.Context, listID string) ([]models.Task, error)
	GetByIDAndList(ctx context.Context, id, listID string) (*models.Task, error)
	Patch(ctx context.Context, id, listID string, upd Update) (bool, error)
	Delete(ctx context.Context, id, listID string) (*models.Task, error)
	DeleteByList(ctx context.Context, listID string) (int64, error)
}

// MongoRepository implements Repository on a Mongo collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

type taskDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Title     string             `bson:"title"`
	Completed bool               `bson:"completed"`
	ListID    string             `bson:"_listId"`
}

func (d taskDoc) model() models.Task {
	return models.Task{ID: d.ID.Hex(), Title: d.Title, Completed: d.Completed, ListID: d.ListID}
}

func (r *MongoRepository) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	doc := taskDoc{ID: primitive.NewObjectID(), Title: t.Title, Completed: t.Completed, ListID: t.ListID}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	out := doc.model()
	return &out, nil
}

func (r *MongoRepository) ListByList(ctx context.Context, listID string) ([]models.Task, error) {
	cur, err := r.col.Find(ctx, bson.M{"_listId": listID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Task{}
	for cur.Next(ctx) {
		var d taskDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.model())
	}
	return out, cur.Err()
}

func (r *MongoRepository) GetByIDAndList(ctx context.Context, id, listID string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var d taskDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid, "_listId": listID}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	out := d.model()
	return &out, nil
}

func (r *MongoRepository) Patch(ctx context.Context, id, listID string, upd Update) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	set := bson.M{}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Completed != nil {
		set["completed"] = *upd.Completed
	}
	if len(set) == 0 {
		// nothing to change; report whether the task exists
		t, err := r.GetByIDAndList(ctx, id, listID)
		return t != nil, err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid, "_listId": listID}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id, listID string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var d taskDoc
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid, "_listId": listID}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	out := d.model()
	return &out, nil
}

// DeleteByList removes every task in the list; used when a list is deleted.
func (r *MongoRepository) DeleteByList(ctx context.Context, listID string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"_listId": listID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
