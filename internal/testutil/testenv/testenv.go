// Package testenv resolves test settings from the environment. It imports
// nothing from this module, so any package's tests can use it.
package testenv

import (
	"os"
	"strings"
)

const (
	// MongoURIEnv overrides the MongoDB the tests dial.
	MongoURIEnv = "STRATALAUNCH_TEST_MONGO_URI"
	// DefaultMongoURI is used when MongoURIEnv is unset.
	DefaultMongoURI = "mongodb://localhost:27017"
)

// MongoURI returns the connection string tests dial.
func MongoURI() string {
	if v := strings.TrimSpace(os.Getenv(MongoURIEnv)); v != "" {
		return v
	}
	return DefaultMongoURI
}
