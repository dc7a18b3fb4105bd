package database

import (
	"context"
	"errors"
	"slices"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// EnsureCollection creates the named collection when it does not exist.
// It reports whether the collection was created by this call.
func EnsureCollection(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return false, Classify(err)
	}
	if slices.Contains(names, name) {
		return false, nil
	}

	if err := db.CreateCollection(ctx, name); err != nil {
		// Lost a race with another creator.
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code == codeNamespaceExists {
			return false, nil
		}
		return false, Classify(err)
	}
	return true, nil
}
