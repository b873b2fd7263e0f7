package layout

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// IDSource generates identifiers for the synthetic spacer entries.
// Implementations must be safe for concurrent use.
type IDSource interface {
	NewID() string
}

// uuidSource generates short random identifiers in the platform's widget
// name format (8 lowercase hex characters).
type uuidSource struct{}

// NewUUIDSource returns the production identifier source.
func NewUUIDSource() IDSource {
	return uuidSource{}
}

func (uuidSource) NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// SequenceSource generates deterministic identifiers ("prefix-0", "prefix-1",
// ...) so that tests can assert on complete plans.
type SequenceSource struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequenceSource creates a deterministic identifier source.
func NewSequenceSource(prefix string) *SequenceSource {
	return &SequenceSource{prefix: prefix}
}

// NewID returns the next identifier in the sequence.
func (s *SequenceSource) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("%s-%d", s.prefix, s.next)
	s.next++
	return id
}
