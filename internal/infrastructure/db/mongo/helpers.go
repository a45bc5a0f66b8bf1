package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo/options"
)

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

func uniqueIndex() *options.IndexOptions {
	return options.Index().SetUnique(true)
}

// sparseUniqueIndex enforces uniqueness only on documents that carry the
// field, so optional identifiers (microchips, idempotency keys) stay unique
// without forbidding their absence.
func sparseUniqueIndex() *options.IndexOptions {
	return options.Index().SetUnique(true).SetSparse(true)
}
