package session

import (
	"context"
	"sync"

	"github.com/kochabx/divina/log"
)

// DefaultPersistKey is the durable storage key of the session record.
const DefaultPersistKey = "divina-admin"

// Persister is durable key/value storage for the session record. Load
// returns nil, nil when key is absent.
type Persister interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Store keeps the current session in memory and mirrors it to a Persister.
// The in-memory record is authoritative. Durable storage is read only until
// the store settles, that is until the first Hydrate, Read, Write or Clear;
// after that it is written to but never read back.
type Store struct {
	mu      sync.RWMutex
	current Session
	settled bool
	version uint64

	// pmu serializes persister writes; flushed is the last version written.
	pmu     sync.Mutex
	flushed uint64

	persister Persister
	key       string
	logger    *log.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPersistKey sets the durable storage key.
func WithPersistKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithStoreLogger sets the logger used for persistence failures.
func WithStoreLogger(l *log.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store over p. A nil p keeps the session in memory only.
func NewStore(p Persister, opts ...StoreOption) *Store {
	if p == nil {
		p = NewMemoryPersister()
	}
	s := &Store{
		persister: p,
		key:       DefaultPersistKey,
		logger:    log.G,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the durable storage key.
func (s *Store) Key() string {
	return s.key
}

// Snapshot returns the in-memory session without touching durable storage.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Read returns the current session. Before the store has settled it loads
// the durable record once; a Write or Clear that lands meanwhile wins.
func (s *Store) Read(ctx context.Context) Session {
	s.mu.RLock()
	cur, settled := s.current, s.settled
	s.mu.RUnlock()
	if settled || cur.SignedIn {
		return cur
	}

	loaded := s.load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settled {
		s.current = loaded
		s.settled = true
	}
	return s.current
}

// Hydrate replaces the in-memory session with the durable record.
func (s *Store) Hydrate(ctx context.Context) Session {
	loaded := s.load(ctx)
	s.mu.Lock()
	s.current = loaded
	s.settled = true
	s.mu.Unlock()
	return loaded
}

// Write stores sess in memory and persists it. An invalid sess clears the
// store. Persistence failures are logged; memory stays authoritative.
func (s *Store) Write(ctx context.Context, sess Session) {
	s.stage(sess)
	s.flush(ctx)
}

// Clear resets memory to the signed-out session and removes the durable record.
func (s *Store) Clear(ctx context.Context) {
	s.stage(Session{})
	s.flush(ctx)
}

// stage replaces the in-memory session without any I/O.
func (s *Store) stage(sess Session) {
	if !sess.Valid() {
		sess = Session{}
	}
	s.mu.Lock()
	s.current = sess
	s.settled = true
	s.version++
	s.mu.Unlock()
}

// flush mirrors the latest staged session to the persister. Concurrent
// flushes run in order and each writes the newest record, so durable storage
// ends up matching memory.
func (s *Store) flush(ctx context.Context) {
	s.pmu.Lock()
	defer s.pmu.Unlock()

	s.mu.RLock()
	sess, version := s.current, s.version
	s.mu.RUnlock()
	if version <= s.flushed {
		return
	}
	s.flushed = version

	if !sess.SignedIn {
		if err := s.persister.Delete(ctx, s.key); err != nil {
			s.logger.Warn().Err(err).Str("key", s.key).Msg("session delete failed")
		}
		return
	}
	data, err := Marshal(sess)
	if err != nil {
		s.logger.Error().Err(err).Msg("session encode failed")
		return
	}
	if err := s.persister.Save(ctx, s.key, data); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("session persist failed")
	}
}

func (s *Store) load(ctx context.Context) Session {
	data, err := s.persister.Load(ctx, s.key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("session load failed")
		return Session{}
	}
	if len(data) == 0 {
		return Session{}
	}
	sess, err := Unmarshal(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("session record unreadable")
		return Session{}
	}
	return sess
}

// MemoryPersister is a Persister backed by a map.
type MemoryPersister struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{data: make(map[string][]byte)}
}

func (p *MemoryPersister) Load(_ context.Context, key string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (p *MemoryPersister) Save(_ context.Context, key string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] = append([]byte(nil), data...)
	return nil
}

func (p *MemoryPersister) Delete(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, key)
	return nil
}
