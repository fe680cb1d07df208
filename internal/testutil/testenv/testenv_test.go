package testenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMongoURI(t *testing.T) {
	t.Setenv(MongoURIEnv, "")
	assert.Equal(t, DefaultMongoURI, MongoURI())

	t.Setenv(MongoURIEnv, " mongodb://mongo.test:27017 ")
	assert.Equal(t, "mongodb://mongo.test:27017", MongoURI())
}
