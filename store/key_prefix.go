package store

// Declare database key prefix for objects
const (
	PrefixFixture = "fixture:"
)
