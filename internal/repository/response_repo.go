package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"accord/internal/model"
)

// ResponseRepo handles MongoDB operations for partner answer sets
type ResponseRepo interface {
	Upsert(ctx context.Context, pr *model.PartnerResponses) error
	Get(ctx context.Context, sessionCode string, role model.PartnerRole) (*model.PartnerResponses, error)
	MarkSubmitted(ctx context.Context, sessionCode string, role model.PartnerRole) error
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepo) filter(sessionCode string, role model.PartnerRole) bson.M {
	return bson.M{"sessionCode": sessionCode, "role": role}
}

func (r *responseRepo) Upsert(ctx context.Context, pr *model.PartnerResponses) error {
	pr.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, r.filter(pr.SessionCode, pr.Role), pr, opts)
	return err
}

func (r *responseRepo) Get(ctx context.Context, sessionCode string, role model.PartnerRole) (*model.PartnerResponses, error) {
	var pr model.PartnerResponses
	err := r.collection.FindOne(ctx, r.filter(sessionCode, role)).Decode(&pr)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

func (r *responseRepo) MarkSubmitted(ctx context.Context, sessionCode string, role model.PartnerRole) error {
	update := bson.M{"$set": bson.M{"submitted": true, "updatedAt": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, r.filter(sessionCode, role), update)
	return err
}
