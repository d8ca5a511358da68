package store

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Pool owns the process-wide connection pool to one logical database.
// Create it once at startup and close it once at shutdown; hand out
// request-scoped handles with Acquire.
type Pool struct {
	client *mongo.Client
	dbName string

	provisionOnce sync.Once
	provisionErr  error
}

// NewPool connects to the deployment at uri and selects the logical
// database. The connection is verified with a ping before the pool is
// returned; failure surfaces as ErrUnavailable.
func NewPool(ctx context.Context, uri, dbName string) (*Pool, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", ErrUnavailable, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	return &Pool{client: client, dbName: dbName}, nil
}

// Acquire hands out a scope bound to the logical database for the duration
// of one request or one test fixture. The caller must release it with
// Scope.Close exactly once.
func (p *Pool) Acquire() *Scope {
	return &Scope{db: p.client.Database(p.dbName)}
}

// ProvisionFunc prepares a collection, typically Mapper.EnsureIndexes.
type ProvisionFunc func(context.Context, *Scope) error

// Provision runs the given functions at most once per pool, under a
// single-flight guard, so concurrent callers do not issue duplicate
// provisioning commands. Subsequent calls return the first outcome.
// Provisioning failure is a startup misconfiguration, not a per-request
// condition.
func (p *Pool) Provision(ctx context.Context, fns ...ProvisionFunc) error {
	p.provisionOnce.Do(func() {
		scope := p.Acquire()
		defer scope.Close()
		for _, fn := range fns {
			if err := fn(ctx, scope); err != nil {
				p.provisionErr = err
				return
			}
		}
	})
	return p.provisionErr
}

// Close tears down the pool. Call once at process stop.
func (p *Pool) Close(ctx context.Context) error {
	return p.client.Disconnect(ctx)
}

// Scope is a request-bound handle to the logical database. A scope moves
// from open to closed exactly once; every use after Close fails with
// ErrScopeClosed. Closing releases the underlying connection back to the
// pool, never the pool itself.
type Scope struct {
	mu     sync.Mutex
	db     *mongo.Database
	closed bool
}

// Close releases the scope. Safe to call more than once; only the first
// call transitions the state.
func (s *Scope) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db = nil
	s.closed = true
}

// database returns the live handle, or ErrScopeClosed after release.
func (s *Scope) database() (*mongo.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrScopeClosed
	}
	return s.db, nil
}
