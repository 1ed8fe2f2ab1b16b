package repository

import (
	"context"
	"time"

	"seatwise/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SubscriptionRepository defines persistence for the local mirror of the
// external billing provider's subscription records.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *model.Subscription) (*model.Subscription, error)
	FindByReference(ctx context.Context, orgID primitive.ObjectID) (*model.Subscription, error)
	FindByStripeID(ctx context.Context, stripeSubscriptionID string) (*model.Subscription, error)
	UpdateSeatQuantity(ctx context.Context, id primitive.ObjectID, quantity int) error
	UpdatePlan(ctx context.Context, id primitive.ObjectID, plan string) error
	UpdateFromProvider(ctx context.Context, stripeSubscriptionID, status string, periodStart, periodEnd time.Time) error
}

type subscriptionRepository struct {
	collection *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) SubscriptionRepository {
	return &subscriptionRepository{collection: db.Collection("subscription")}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) (*model.Subscription, error) {
	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, sub)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		sub.ID = oid
	}
	return sub, nil
}

func (r *subscriptionRepository) FindByReference(ctx context.Context, orgID primitive.ObjectID) (*model.Subscription, error) {
	// referenceId was written as a hex string by the previous stack; some
	// rows carry an ObjectID. Match both.
	filter := bson.M{"$or": bson.A{
		bson.M{"referenceId": orgID.Hex()},
		bson.M{"referenceId": orgID},
	}}

	var sub *model.Subscription
	err := r.collection.FindOne(ctx, filter).Decode(&sub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

func (r *subscriptionRepository) FindByStripeID(ctx context.Context, stripeSubscriptionID string) (*model.Subscription, error) {
	var sub *model.Subscription
	err := r.collection.FindOne(ctx, bson.M{"stripeSubscriptionId": stripeSubscriptionID}).Decode(&sub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

func (r *subscriptionRepository) UpdateSeatQuantity(ctx context.Context, id primitive.ObjectID, quantity int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"seatQuantity": quantity,
			"updatedAt":    time.Now(),
		},
	})
	return err
}

func (r *subscriptionRepository) UpdatePlan(ctx context.Context, id primitive.ObjectID, plan string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"plan":      plan,
			"updatedAt": time.Now(),
		},
	})
	return err
}

func (r *subscriptionRepository) UpdateFromProvider(ctx context.Context, stripeSubscriptionID, status string, periodStart, periodEnd time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"stripeSubscriptionId": stripeSubscriptionID}, bson.M{
		"$set": bson.M{
			"status":             status,
			"currentPeriodStart": periodStart,
			"currentPeriodEnd":   periodEnd,
			"updatedAt":          time.Now(),
		},
	})
	return err
}
