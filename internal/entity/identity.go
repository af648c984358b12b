package entity

import (
	"encoding/hex"
	"hash/fnv"

	"github.com/google/uuid"
)

// HashURI derives the deterministic entity id for a backing location.
// The same URI always produces the same id, across instances and runs.
func HashURI(uri string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(uri))
	return hex.EncodeToString(h.Sum(nil))
}

// NewID generates a fresh unique id for a document with no location.
func NewID() string {
	return uuid.NewString()
}
