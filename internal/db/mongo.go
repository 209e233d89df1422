package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Solutions         *mongo.Collection
	Services          *mongo.Collection
	SolutionInquiries *mongo.Collection
	ServiceInquiries  *mongo.Collection
	Contacts          *mongo.Collection
	Jobs              *mongo.Collection
	ApplicationForms  *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	return client, Open(client.Database(dbName)), nil
}

// ClientPinger checks that the primary is reachable.
type ClientPinger struct {
	Client *mongo.Client
}

func (p ClientPinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx, nil)
}

func Open(db *mongo.Database) *Collections {
	return &Collections{
		Solutions:         db.Collection("solutions"),
		Services:          db.Collection("services"),
		SolutionInquiries: db.Collection("solution_inquiries"),
		ServiceInquiries:  db.Collection("service_inquiries"),
		Contacts:          db.Collection("contacts"),
		Jobs:              db.Collection("jobs"),
		ApplicationForms:  db.Collection("application_forms"),
	}
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, col := range []*mongo.Collection{cols.Solutions, cols.Services} {
		_, err := col.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "name", Value: 1}},
			},
		})
		if err != nil {
			return err
		}
	}

	for _, col := range []*mongo.Collection{cols.SolutionInquiries, cols.ServiceInquiries} {
		_, err := col.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
			{
				Keys: bson.D{{Key: "offeringId", Value: 1}, {Key: "createdAt", Value: -1}},
			},
			{
				Keys: bson.D{{Key: "createdAt", Value: -1}},
			},
		})
		if err != nil {
			return err
		}
	}

	_, err := cols.Contacts.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "source", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Jobs.Indexes().CreateOne(indexTimeout, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return err
	}

	_, err = cols.ApplicationForms.Indexes().CreateOne(indexTimeout, mongo.IndexModel{
		Keys:    bson.D{{Key: "jobId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
