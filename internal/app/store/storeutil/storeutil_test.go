package storeutil

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestLatest(t *testing.T) {
	opts := Latest("created_at", 5)

	if opts.Limit == nil || *opts.Limit != 5 {
		t.Errorf("Limit = %v, want 5", opts.Limit)
	}

	sort, ok := opts.Sort.(bson.D)
	if !ok {
		t.Fatalf("Sort type = %T, want bson.D", opts.Sort)
	}
	want := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}
	if len(sort) != len(want) {
		t.Fatalf("Sort = %v, want %v", sort, want)
	}
	for i := range want {
		if sort[i].Key != want[i].Key || sort[i].Value != want[i].Value {
			t.Errorf("Sort[%d] = %v, want %v", i, sort[i], want[i])
		}
	}
}

func TestLatest_DefaultLimit(t *testing.T) {
	for _, n := range []int64{0, -1} {
		opts := Latest("subscribed_at", n)
		if opts.Limit == nil || *opts.Limit != DefaultLatestLimit {
			t.Errorf("Latest(%d) Limit = %v, want %d", n, opts.Limit, DefaultLatestLimit)
		}
	}
}
