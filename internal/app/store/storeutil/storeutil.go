// internal/app/store/storeutil/storeutil.go
package storeutil

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLatestLimit is used when Latest is asked for a non-positive count.
const DefaultLatestLimit = 3

// Latest returns *options.FindOptions for the newest n documents by
// timeField. Documents with the same timestamp come back in _id order,
// which for driver-generated ids is insertion order.
func Latest(timeField string, n int64) *options.FindOptions {
	if n <= 0 {
		n = DefaultLatestLimit
	}
	return options.Find().
		SetSort(bson.D{{Key: timeField, Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(n)
}
