package util

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseObjectID converts a hex string to a MongoDB ObjectID.
// Returns primitive.NilObjectID and an error if the string is invalid.
func ParseObjectID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid object id format: %w", err)
	}
	return objID, nil
}

// IsValidObjectID returns true if the provided string is a valid ObjectID hex.
func IsValidObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// GenerateObjectID generates a new MongoDB ObjectID.
func GenerateObjectID() primitive.ObjectID {
	return primitive.NewObjectID()
}

// DualIDFilter matches a foreign-key field stored either as an ObjectID or
// as its hex string. New writes always store ObjectIDs; the $or covers rows
// written by the previous stack. Treat as migration debt, not an interface.
func DualIDFilter(field string, id primitive.ObjectID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{field: id},
		bson.M{field: id.Hex()},
	}}
}
