package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Persister loads and saves the ledger document.
// Load returns ErrNoDocument when nothing has been saved yet.
type Persister interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// Store owns the ledger document. All mutation goes through mutate, which applies the change
// to a copy, persists the copy, and only then publishes it. A failed operation, including a
// failed save, leaves the visible state exactly as it was.
type Store struct {
	mu        sync.RWMutex
	doc       *Document
	persister Persister
	now       func() time.Time
	ids       IDGenerator
	logger    *zap.Logger
}

type StoreOption func(*Store)

// WithClock sets the clock used for receipt dates, payment dates and identifiers.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(ids IDGenerator) StoreOption {
	return func(s *Store) { s.ids = ids }
}

func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// NewStore constructs a store holding the default document until Open is called.
// A nil persister keeps the ledger in memory only.
func NewStore(persister Persister, opts ...StoreOption) *Store {
	s := &Store{
		doc:       DefaultDocument(),
		persister: persister,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.ids == nil {
		s.ids = NewTimestampIDs(s.now)
	}
	return s
}

// Open loads the persisted document, backfilling missing fields. When nothing has been
// saved yet the default document is kept and written out.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persister == nil {
		return nil
	}

	doc, err := s.persister.Load(ctx)
	if errors.Is(err, ErrNoDocument) {
		s.logger.Info("no ledger document found, seeding defaults")
		seeded := DefaultDocument()
		if err := s.save(ctx, "seed", seeded); err != nil {
			return err
		}
		s.doc = seeded
		return nil
	}
	if err != nil {
		return &PersistenceError{Op: "load", Err: err}
	}

	doc.Normalize(s.today())
	s.doc = doc
	s.logger.Info("ledger document loaded",
		zap.Int("purchase_orders", len(doc.PurchaseOrders)),
		zap.Int("sales", len(doc.Sales)),
		zap.Int("payables", len(doc.Payables)))
	return nil
}

// Flush saves the current document. Used on shutdown and by the periodic flush job.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.save(ctx, "flush", s.doc)
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Memory returns the remembered vendors, items and recognised sources.
func (s *Store) Memory() MemoryLists {
	var m MemoryLists
	s.view(func(doc *Document) {
		c := doc.Clone()
		m = MemoryLists{Vendors: c.MemoryVendors, Items: c.MemoryItems, Sources: c.SourceTypes}
	})
	return m
}

// Now reads the store clock.
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) mutate(ctx context.Context, op string, fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	next := s.doc.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.save(ctx, op, next); err != nil {
		return err
	}
	s.doc = next
	s.logger.Debug("ledger mutation committed", zap.String("op", op))
	return nil
}

func (s *Store) view(fn func(doc *Document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.doc)
}

func (s *Store) save(ctx context.Context, op string, doc *Document) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(ctx, doc); err != nil {
		s.logger.Error("failed to save ledger document", zap.String("op", op), zap.Error(err))
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

// newID draws identifiers until one is not already used in doc.
func (s *Store) newID(doc *Document, prefix string) string {
	for {
		id := s.ids.NewID(prefix)
		if !doc.hasID(id) {
			return id
		}
		s.logger.Warn("generated identifier collides, retrying", zap.String("id", id))
	}
}

func (s *Store) today() string {
	return s.now().Format(dateLayout)
}

func parseDate(field, value string) error {
	if _, err := time.Parse(dateLayout, value); err != nil {
		return validationf("%s %q must be a YYYY-MM-DD date", field, value)
	}
	return nil
}

func parseMonth(value string) error {
	if _, err := time.Parse(monthLayout, value); err != nil {
		return validationf("month %q must be YYYY-MM", value)
	}
	return nil
}
