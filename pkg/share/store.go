package share

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/brandqr/pkg/errors"
)

// DefaultTTL is how long stored share pages stay available.
const DefaultTTL = 30 * 24 * time.Hour

// ErrNotFound is returned for unknown or expired share IDs.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "share page not found")

// Store persists share documents under random IDs.
//
// Backends:
//   - [MemoryStore]: in-process, for tests and single-instance servers
//   - [FileStore]: JSON files, for the CLI and small deployments
//   - [CacheStore]: any [cache.Cache], typically Redis
//   - [MongoStore]: MongoDB collection with a TTL index
type Store interface {
	// Put stores doc and returns its ID. A ttl <= 0 uses DefaultTTL.
	Put(ctx context.Context, doc Document, ttl time.Duration) (string, error)
	// Get returns ErrNotFound for unknown or expired IDs.
	Get(ctx context.Context, id string) (Document, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Record is the stored form of a Document.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Document  Document  `json:"document" bson:"document"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// IsExpired reports whether r is past its expiry.
func (r Record) IsExpired() bool {
	return !r.ExpiresAt.IsZero() && time.Now().After(r.ExpiresAt)
}

// NewRecord assigns doc a fresh ID.
func NewRecord(doc Document, ttl time.Duration) Record {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now().UTC()
	return Record{
		ID:        GenerateID(),
		Document:  doc,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// GenerateID returns a random share ID.
func GenerateID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the GenerateID format. Stores reject
// anything else before touching the backend.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}
