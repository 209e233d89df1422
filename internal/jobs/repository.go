package jobs

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Job) error
	Replace(ctx context.Context, item Job) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (Job, error)
	List(ctx context.Context) ([]Job, error)
	UpsertByTitle(ctx context.Context, item Job) (bool, error)

	GetForm(ctx context.Context, jobID string) (ApplicationForm, error)
	UpsertForm(ctx context.Context, form ApplicationForm) (ApplicationForm, error)
	DeleteForm(ctx context.Context, jobID string) error
}

type MongoRepository struct {
	jobs  *mongo.Collection
	forms *mongo.Collection
}

func NewRepository(jobs, forms *mongo.Collection) *MongoRepository {
	return &MongoRepository{jobs: jobs, forms: forms}
}

func (r *MongoRepository) Create(ctx context.Context, item Job) error {
	_, err := r.jobs.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Replace(ctx context.Context, item Job) error {
	res, err := r.jobs.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.jobs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Job, error) {
	var item Job
	if err := r.jobs.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Job{}, err
	}
	return item, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.jobs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Job, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertByTitle refreshes the posting with the same title or inserts it.
// It reports whether a new document was created.
func (r *MongoRepository) UpsertByTitle(ctx context.Context, item Job) (bool, error) {
	update := bson.M{
		"$set": bson.M{
			"department":  item.Department,
			"location":    item.Location,
			"type":        item.Type,
			"experience":  item.Experience,
			"description": item.Description,
			"updatedAt":   item.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":       item.ID,
			"createdAt": item.CreatedAt,
		},
	}
	res, err := r.jobs.UpdateOne(ctx, bson.M{"title": item.Title}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *MongoRepository) GetForm(ctx context.Context, jobID string) (ApplicationForm, error) {
	var form ApplicationForm
	if err := r.forms.FindOne(ctx, bson.M{"jobId": jobID}).Decode(&form); err != nil {
		return ApplicationForm{}, err
	}
	return form, nil
}

func (r *MongoRepository) UpsertForm(ctx context.Context, form ApplicationForm) (ApplicationForm, error) {
	update := bson.M{
		"$set": bson.M{
			"fields":    form.Fields,
			"updatedAt": form.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id": form.ID,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved ApplicationForm
	if err := r.forms.FindOneAndUpdate(ctx, bson.M{"jobId": form.JobID}, update, opts).Decode(&saved); err != nil {
		return ApplicationForm{}, err
	}
	return saved, nil
}

func (r *MongoRepository) DeleteForm(ctx context.Context, jobID string) error {
	_, err := r.forms.DeleteOne(ctx, bson.M{"jobId": jobID})
	return err
}
