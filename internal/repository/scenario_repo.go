package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"accord/internal/model"
)

// ScenarioRepo handles MongoDB operations for the scenario catalog
type ScenarioRepo interface {
	Upsert(ctx context.Context, scenario *model.Scenario) error
	GetAll(ctx context.Context) (model.ScenarioCatalog, error)
	Delete(ctx context.Context, id string) error
}

type scenarioRepo struct {
	collection *mongo.Collection
}

// NewScenarioRepo creates a new scenario repository
func NewScenarioRepo(db *mongo.Database) ScenarioRepo {
	return &scenarioRepo{
		collection: db.Collection("scenarios"),
	}
}

func (r *scenarioRepo) Upsert(ctx context.Context, scenario *model.Scenario) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": scenario.ID}, scenario, opts)
	return err
}

func (r *scenarioRepo) GetAll(ctx context.Context) (model.ScenarioCatalog, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	catalog := model.ScenarioCatalog{}
	for cursor.Next(ctx) {
		var s model.Scenario
		if err := cursor.Decode(&s); err != nil {
			return nil, err
		}
		catalog[s.ID] = s
	}
	return catalog, cursor.Err()
}

func (r *scenarioRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
