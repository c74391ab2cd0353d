package core

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Document prefixes.
const (
	PrefixPurchaseOrder = "PO"
	PrefixPayable       = "AP"
)

// IDGenerator produces document identifiers of the form {prefix}-{suffix}.
type IDGenerator interface {
	NewID(prefix string) string
}

// TimestampIDs generates {prefix}-{MMDDHHMMSS}-{seq}{entropy}. The per-process sequence keeps ids
// created within the same second distinct; the uuid fragment separates ids across restarts.
type TimestampIDs struct {
	mu  sync.Mutex
	now func() time.Time
	seq uint64
}

// NewTimestampIDs returns a generator reading the given clock. A nil clock uses time.Now.
func NewTimestampIDs(now func() time.Time) *TimestampIDs {
	if now == nil {
		now = time.Now
	}
	return &TimestampIDs{now: now}
}

func (g *TimestampIDs) NewID(prefix string) string {
	g.mu.Lock()
	g.seq++
	seq := g.seq
	g.mu.Unlock()

	entropy := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	return fmt.Sprintf("%s-%s-%s%s", prefix, g.now().Format("0102150405"), strconv.FormatUint(seq, 36), entropy)
}

// SequenceIDs yields {prefix}-0001, {prefix}-0002, ... counted per prefix.
type SequenceIDs struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewSequenceIDs() *SequenceIDs {
	return &SequenceIDs{counters: make(map[string]int)}
}

func (g *SequenceIDs) NewID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters[prefix]++
	return fmt.Sprintf("%s-%04d", prefix, g.counters[prefix])
}
