package repository

import (
	"context"
	"time"

	"seatwise/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// OrganizationRepository defines organization persistence.
type OrganizationRepository interface {
	Create(ctx context.Context, org *model.Organization) (*model.Organization, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Organization, error)
	UpdateSessionSettings(ctx context.Context, id primitive.ObjectID, settings model.SessionSettings) error
	// ReserveSeat atomically increments seatsReserved if it is below limit.
	// A limit <= 0 means uncapped. Returns false when the organization is at
	// capacity (or missing).
	ReserveSeat(ctx context.Context, id primitive.ObjectID, limit int) (bool, error)
	// ReleaseSeat decrements seatsReserved, never below zero.
	ReleaseSeat(ctx context.Context, id primitive.ObjectID) error
	// SetSeatsReserved reconciles the counter to the recomputed value.
	SetSeatsReserved(ctx context.Context, id primitive.ObjectID, n int) error
}

type organizationRepository struct {
	collection *mongo.Collection
}

func NewOrganizationRepository(db *mongo.Database) OrganizationRepository {
	return &organizationRepository{collection: db.Collection("organization")}
}

func (r *organizationRepository) Create(ctx context.Context, org *model.Organization) (*model.Organization, error) {
	now := time.Now()
	org.CreatedAt = now
	org.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, org)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		org.ID = oid
	}
	return org, nil
}

func (r *organizationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Organization, error) {
	var org *model.Organization
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

func (r *organizationRepository) UpdateSessionSettings(ctx context.Context, id primitive.ObjectID, settings model.SessionSettings) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"sessionSettings": settings,
			"updatedAt":       time.Now(),
		},
	})
	return err
}

func (r *organizationRepository) ReserveSeat(ctx context.Context, id primitive.ObjectID, limit int) (bool, error) {
	filter := bson.M{"_id": id}
	if limit > 0 {
		filter["seatsReserved"] = bson.M{"$lt": limit}
	}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"seatsReserved": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *organizationRepository) ReleaseSeat(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{
		"_id":           id,
		"seatsReserved": bson.M{"$gt": 0},
	}, bson.M{
		"$inc": bson.M{"seatsReserved": -1},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	return err
}

func (r *organizationRepository) SetSeatsReserved(ctx context.Context, id primitive.ObjectID, n int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"seatsReserved": n,
			"updatedAt":     time.Now(),
		},
	})
	return err
}
