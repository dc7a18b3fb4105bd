// Package database provides MongoDB connection management and utilities.
package database

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const disconnectTimeout = 5 * time.Second

// Dialer opens a client for a connection URI.
type Dialer func(ctx context.Context, uri string) (*mongo.Client, error)

// NewDialer returns a Dialer that bounds server selection and every operation by timeout.
// Construction does not touch the network; the first operation does.
func NewDialer(timeout time.Duration) Dialer {
	return func(ctx context.Context, uri string) (*mongo.Client, error) {
		opts := options.Client().ApplyURI(uri).SetAppName("blog")
		if timeout > 0 {
			opts.SetTimeout(timeout).
				SetServerSelectionTimeout(timeout).
				SetConnectTimeout(timeout)
		}
		client, err := mongo.Connect(opts)
		if err != nil {
			return nil, Classify(err)
		}
		return client, nil
	}
}

type pooledClient struct {
	client *mongo.Client
	refs   int
}

// Pool shares clients between requests that resolve the same descriptor.
//
// Clients are reference counted. When a different descriptor is checked out
// (credentials rotated) the previous client is superseded and is disconnected
// as soon as its last lease is returned.
type Pool struct {
	dial   Dialer
	logger *slog.Logger

	mu      sync.Mutex
	current string
	clients map[string]*pooledClient
	closed  bool
}

// NewPool creates an empty Pool.
func NewPool(dial Dialer, logger *slog.Logger) *Pool {
	return &Pool{
		dial:    dial,
		logger:  logger,
		clients: make(map[string]*pooledClient),
	}
}

// Lease is a checked-out client. Release must be called exactly once; extra calls are no-ops.
type Lease struct {
	pool   *Pool
	key    string
	client *mongo.Client
	once   sync.Once
}

// Client returns the leased client.
func (l *Lease) Client() *mongo.Client {
	return l.client
}

// Release returns the client to the pool.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.pool.release(l.key)
	})
}

// Acquire checks out a client for d, dialing one if none is pooled.
func (p *Pool) Acquire(ctx context.Context, d Descriptor) (*Lease, error) {
	key := d.URI()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}

	var stale []*mongo.Client
	if p.current != key {
		if p.current != "" {
			p.logger.Info("database descriptor changed", slog.String("descriptor", d.String()))
		}
		p.current = key
		stale = p.evictIdleLocked()
	}

	pc, ok := p.clients[key]
	if !ok {
		client, err := p.dial(ctx, key)
		if err != nil {
			p.mu.Unlock()
			p.disconnect(stale)
			return nil, err
		}
		pc = &pooledClient{client: client}
		p.clients[key] = pc
	}
	pc.refs++
	p.mu.Unlock()

	p.disconnect(stale)

	return &Lease{pool: p, key: key, client: pc.client}, nil
}

func (p *Pool) release(key string) {
	p.mu.Lock()
	pc, ok := p.clients[key]
	if !ok {
		p.mu.Unlock()
		return
	}
	pc.refs--

	var stale []*mongo.Client
	if pc.refs <= 0 && (p.closed || key != p.current) {
		delete(p.clients, key)
		stale = append(stale, pc.client)
	}
	p.mu.Unlock()

	p.disconnect(stale)
}

// evictIdleLocked removes idle clients that no longer match the current descriptor.
func (p *Pool) evictIdleLocked() []*mongo.Client {
	var stale []*mongo.Client
	for key, pc := range p.clients {
		if key != p.current && pc.refs <= 0 {
			delete(p.clients, key)
			stale = append(stale, pc.client)
		}
	}
	return stale
}

func (p *Pool) disconnect(clients []*mongo.Client) {
	for _, client := range clients {
		ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		if err := client.Disconnect(ctx); err != nil {
			p.logger.Warn("failed to disconnect database client", slog.Any("error", err))
		}
		cancel()
	}
}

// PoolStats describes the pool contents.
type PoolStats struct {
	Clients int
	InUse   int
}

// Stats returns the number of pooled clients and outstanding leases.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := PoolStats{Clients: len(p.clients)}
	for _, pc := range p.clients {
		stats.InUse += pc.refs
	}
	return stats
}

// Close disconnects every idle client and rejects new checkouts.
// Clients still leased are disconnected when returned.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	var idle []*mongo.Client
	for key, pc := range p.clients {
		if pc.refs <= 0 {
			delete(p.clients, key)
			idle = append(idle, pc.client)
		}
	}
	p.mu.Unlock()

	var errs []error
	for _, client := range idle {
		if err := client.Disconnect(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
