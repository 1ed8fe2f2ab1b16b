package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CleanupOutcome values for the batch test-user cleanup. One entry per
// requested email; a failure on one item never aborts the batch.
const (
	CleanupSuccess   = "success"
	CleanupNotFound  = "not_found"
	CleanupNotMember = "not_member"
	CleanupError     = "error"
)

type CleanupResult struct {
	Email   string `json:"email"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}
