package repository

import (
	"context"
	"time"

	"seatwise/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SessionRepository defines session persistence.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) (*model.Session, error)
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	// FindActiveByUser returns the user's sessions whose expiresAt is still
	// in the future. Expired sessions are ignored, not deleted.
	FindActiveByUser(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]*model.Session, error)
	// DeleteStale removes the user's sessions last active before cutoff,
	// excluding the given token. Returns the number deleted.
	DeleteStale(ctx context.Context, userID primitive.ObjectID, excludeToken string, cutoff time.Time) (int64, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Touch(ctx context.Context, token string, at time.Time) error
}

type sessionRepository struct {
	collection *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) SessionRepository {
	return &sessionRepository{collection: db.Collection("session")}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) (*model.Session, error) {
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid
	}
	return session, nil
}

func (r *sessionRepository) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	var session *model.Session
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (r *sessionRepository) FindActiveByUser(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]*model.Session, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"userId":    userID,
		"expiresAt": bson.M{"$gt": now},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) DeleteStale(ctx context.Context, userID primitive.ObjectID, excludeToken string, cutoff time.Time) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{
		"userId":    userID,
		"token":     bson.M{"$ne": excludeToken},
		"updatedAt": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"token": token})
	return err
}

func (r *sessionRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *sessionRepository) Touch(ctx context.Context, token string, at time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"token": token}, bson.M{
		"$set": bson.M{"updatedAt": at},
	})
	return err
}
