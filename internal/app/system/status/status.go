// Package status provides canonical status values for newsletter subscribers.
//
// The constants are plain strings (not a custom type) so they can be used
// directly in MongoDB queries and JSON-schema enums.
package status

// Subscriber status values.
const (
	Active       = "active"
	Unsubscribed = "unsubscribed"
)

// All returns every recognized status value.
func All() []string {
	return []string{Active, Unsubscribed}
}

// Default returns the status given to new subscribers.
func Default() string {
	return Active
}
