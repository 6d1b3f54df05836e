package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"accord/internal/model"
)

// ReportRepo handles MongoDB operations for comparison reports
type ReportRepo interface {
	Save(ctx context.Context, report *model.StoredReport) error
	GetBySessionCode(ctx context.Context, sessionCode string) (*model.StoredReport, error)
	Delete(ctx context.Context, sessionCode string) error
}

type reportRepo struct {
	collection *mongo.Collection
}

// NewReportRepo creates a new report repository
func NewReportRepo(db *mongo.Database) ReportRepo {
	return &reportRepo{
		collection: db.Collection("reports"),
	}
}

func (r *reportRepo) Save(ctx context.Context, report *model.StoredReport) error {
	report.CreatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"sessionCode": report.SessionCode}, report, opts)
	return err
}

func (r *reportRepo) GetBySessionCode(ctx context.Context, sessionCode string) (*model.StoredReport, error) {
	var report model.StoredReport
	err := r.collection.FindOne(ctx, bson.M{"sessionCode": sessionCode}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) Delete(ctx context.Context, sessionCode string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"sessionCode": sessionCode})
	return err
}
