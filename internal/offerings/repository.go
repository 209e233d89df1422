package offerings

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Offering) error
	Replace(ctx context.Context, item Offering) error
	Delete(ctx context.Context, id string) (Offering, error)
	GetByID(ctx context.Context, id string) (Offering, error)
	GetBySlug(ctx context.Context, slug string) (Offering, error)
	List(ctx context.Context) ([]Offering, error)
	ListSummaries(ctx context.Context) ([]Summary, error)
	InsertIfMissing(ctx context.Context, item Offering) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Offering) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

// Replace overwrites the stored document. It returns mongo.ErrNoDocuments
// when the id does not exist.
func (r *MongoRepository) Replace(ctx context.Context, item Offering) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (Offering, error) {
	var deleted Offering
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted); err != nil {
		return Offering{}, err
	}
	return deleted, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Offering, error) {
	var item Offering
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Offering{}, err
	}
	return item, nil
}

func (r *MongoRepository) GetBySlug(ctx context.Context, slug string) (Offering, error) {
	var item Offering
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&item); err != nil {
		return Offering{}, err
	}
	return item, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]Offering, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Offering, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) ListSummaries(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.M{"name": 1, "slug": 1, "category": 1, "shortDescription": 1, "keyFeatures": 1})

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Summary, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// InsertIfMissing inserts item unless a document with the same slug exists.
func (r *MongoRepository) InsertIfMissing(ctx context.Context, item Offering) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"slug": item.Slug},
		bson.M{"$setOnInsert": item},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}
