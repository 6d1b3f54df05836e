package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"accord/internal/model"
)

// SessionRepo handles MongoDB operations for pair sessions
type SessionRepo interface {
	Create(ctx context.Context, session *model.Session) error
	GetByCode(ctx context.Context, code string) (*model.Session, error)
	SetPartner(ctx context.Context, code string, role model.PartnerRole, partnerID string) error
	SetStatus(ctx context.Context, code string, status model.SessionStatus) error
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("sessions"),
	}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	session.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *sessionRepo) GetByCode(ctx context.Context, code string) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) SetPartner(ctx context.Context, code string, role model.PartnerRole, partnerID string) error {
	field := "partnerA"
	if role == model.RoleB {
		field = "partnerB"
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"code": code}, bson.M{"$set": bson.M{field: partnerID}})
	return err
}

func (r *sessionRepo) SetStatus(ctx context.Context, code string, status model.SessionStatus) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"code": code}, bson.M{"$set": bson.M{"status": status}})
	return err
}
