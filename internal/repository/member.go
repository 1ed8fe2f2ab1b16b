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

// MemberRepository defines member persistence.
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) (*model.Member, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Member, error)
	FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Member, error)
	FindByOrgAndUser(ctx context.Context, orgID, userID primitive.ObjectID) (*model.Member, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Member, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, role string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type memberRepository struct {
	collection *mongo.Collection
}

func NewMemberRepository(db *mongo.Database) MemberRepository {
	return &memberRepository{collection: db.Collection("member")}
}

func (r *memberRepository) Create(ctx context.Context, member *model.Member) (*model.Member, error) {
	now := time.Now()
	member.CreatedAt = now
	member.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, member)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		member.ID = oid
	}
	return member, nil
}

func (r *memberRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Member, error) {
	var member *model.Member
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}

func (r *memberRepository) FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Member, error) {
	cursor, err := r.collection.Find(ctx, util.DualIDFilter("organizationId", orgID))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []*model.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *memberRepository) FindByOrgAndUser(ctx context.Context, orgID, userID primitive.ObjectID) (*model.Member, error) {
	filter := util.DualIDFilter("organizationId", orgID)
	filter["userId"] = userID

	var member *model.Member
	err := r.collection.FindOne(ctx, filter).Decode(&member)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}

func (r *memberRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Member, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []*model.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *memberRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"role":      role,
			"updatedAt": time.Now(),
		},
	})
	return err
}

func (r *memberRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *memberRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
