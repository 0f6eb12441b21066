package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeChunk is one FAQ or technical-guide passage, embedded for
// semantic lookup.
type KnowledgeChunk struct {
	Id        uuid.UUID
	Topic     string
	Question  string
	Answer    string
	CreatedAt time.Time
}
