package repository

import (
	"context"
	"time"

	"seatwise/internal/model"
	"seatwise/pkg/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// InvitationRepository defines invitation persistence.
type InvitationRepository interface {
	Create(ctx context.Context, inv *model.Invitation) (*model.Invitation, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Invitation, error)
	FindPendingByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Invitation, error)
	FindPendingByOrgAndEmail(ctx context.Context, orgID primitive.ObjectID, email string) (*model.Invitation, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

type invitationRepository struct {
	collection *mongo.Collection
}

func NewInvitationRepository(db *mongo.Database) InvitationRepository {
	return &invitationRepository{collection: db.Collection("invitation")}
}

func (r *invitationRepository) Create(ctx context.Context, inv *model.Invitation) (*model.Invitation, error) {
	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, inv)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		inv.ID = oid
	}
	return inv, nil
}

func (r *invitationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Invitation, error) {
	var inv *model.Invitation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) FindPendingByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Invitation, error) {
	filter := util.DualIDFilter("organizationId", orgID)
	filter["status"] = model.InvitationStatusPending

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var invitations []*model.Invitation
	if err := cursor.All(ctx, &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *invitationRepository) FindPendingByOrgAndEmail(ctx context.Context, orgID primitive.ObjectID, email string) (*model.Invitation, error) {
	filter := util.DualIDFilter("organizationId", orgID)
	filter["status"] = model.InvitationStatusPending
	filter["email"] = email

	var inv *model.Invitation
	err := r.collection.FindOne(ctx, filter).Decode(&inv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		},
	})
	return err
}
