// Package id generates request identifiers.
//
// Generated ids are prefixed ULIDs ("req_01J..."), sortable by creation time.
// Inbound ids from clients are accepted when they are either a prefixed ULID
// or a UUID, so callers can propagate their own correlation ids.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// RequestID identifies an API request
type RequestID string

// RequestPrefix marks generated request ids
const RequestPrefix = "req"

func (id RequestID) String() string { return string(id) }

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with cryptographically secure entropy
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// ParseRequestID accepts a client supplied id. Valid forms are a
// req-prefixed ULID or a UUID.
func ParseRequestID(s string) (RequestID, bool) {
	if rest, ok := strings.CutPrefix(s, RequestPrefix+"_"); ok {
		if _, err := ulid.Parse(rest); err == nil {
			return RequestID(s), true
		}
		return "", false
	}
	if u, err := uuid.Parse(s); err == nil {
		return RequestID(u.String()), true
	}
	return "", false
}

// Timestamp extracts the creation time from a generated request id
func Timestamp(id RequestID) (time.Time, error) {
	rest, ok := strings.CutPrefix(string(id), RequestPrefix+"_")
	if !ok {
		return time.Time{}, fmt.Errorf("request id %q has no %s prefix", id, RequestPrefix)
	}
	parsed, err := ulid.Parse(rest)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
