// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/stratalaunch/internal/app/system/status"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// nonBlank matches strings with at least one non-space character.
const nonBlank = ".*\\S.*"

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions, Atlas shared tiers with restricted roles), we log and
// skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) || isUnauthorized(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll), zap.Error(err))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("waitlist_entries", waitlistSchema())
	ensure("newsletter_subscribers", newsletterSchema())
	ensure("feedback_responses", feedbackSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandErrorMatches(err error, code int32, fragments ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErrorMatches(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErrorMatches(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErrorMatches(err, 115, "not implemented", "not supported")
}

func isUnauthorized(err error) bool {
	return commandErrorMatches(err, 13, "not authorized")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func emailProperty() bson.M {
	// Stored emails are already lower-cased and trimmed.
	return bson.M{"bsonType": "string", "minLength": 3, "pattern": "^[^\\s@A-Z]+@[^\\s@A-Z]+\\.[^\\s@A-Z]+$"}
}

func waitlistSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "created_at"},
			"properties": bson.M{
				"email":      emailProperty(),
				"source":     bson.M{"bsonType": "string"},
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func newsletterSchema() bson.M {
	statuses := bson.A{}
	for _, s := range status.All() {
		statuses = append(statuses, s)
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "weekly_updates", "product_updates", "career_tips", "subscribed_at", "status"},
			"properties": bson.M{
				"email":           emailProperty(),
				"weekly_updates":  bson.M{"bsonType": "bool"},
				"product_updates": bson.M{"bsonType": "bool"},
				"career_tips":     bson.M{"bsonType": "bool"},
				"subscribed_at":   bson.M{"bsonType": "date"},
				"status":          bson.M{"enum": statuses},
			},
		},
	}
}

func feedbackSchema() bson.M {
	required := bson.M{"bsonType": "string", "minLength": 1, "pattern": nonBlank}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "frustration", "ai_coach_help", "confidence_area", "created_at"},
			"properties": bson.M{
				"email":               emailProperty(),
				"frustration":         required,
				"ai_coach_help":       required,
				"confidence_area":     required,
				"additional_features": bson.M{"bsonType": "string"},
				"source":              bson.M{"bsonType": "string"},
				"created_at":          bson.M{"bsonType": "date"},
			},
		},
	}
}
