// controllers/helpers.go
package controllers

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseObjectID converts a hex path/body parameter into an ObjectID.
func parseObjectID(raw string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(raw)
}

// parseObjectIDs converts a list of hex strings, skipping malformed entries.
func parseObjectIDs(raw []string) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		if id, err := primitive.ObjectIDFromHex(r); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
