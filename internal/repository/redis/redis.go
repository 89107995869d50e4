package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/attend/internal/config"
	"github.com/alexanderramin/attend/internal/repository"
	"github.com/redis/go-redis/v9"
)

// Store implements the repository interfaces on Redis.
type Store struct {
	client    *redis.Client
	keys      keyspace
	sessions  *sessionStore
	schedules *scheduleStore
	breaks    *breakStore
	viewers   *viewerStore
}

// Open creates a new Redis-backed storage instance
func Open(cfg config.RedisConfig) (*Store, error) {
	dialTimeout, err := time.ParseDuration(cfg.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid dial_timeout: %w", err)
	}
	readTimeout, err := time.ParseDuration(cfg.ReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid read_timeout: %w", err)
	}
	writeTimeout, err := time.ParseDuration(cfg.WriteTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid write_timeout: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newStore(client, cfg.Prefix), nil
}

func newStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "attend"
	}
	keys := keyspace{prefix: prefix}
	return &Store{
		client:    client,
		keys:      keys,
		sessions:  &sessionStore{client: client, keys: keys},
		schedules: &scheduleStore{client: client, keys: keys},
		breaks:    &breakStore{client: client, keys: keys},
		viewers:   &viewerStore{client: client, keys: keys},
	}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Backend exposes the store through the repository interfaces.
func (s *Store) Backend() repository.Backend {
	return repository.Backend{
		Sessions:  s.sessions,
		Switcher:  s.sessions,
		Schedules: s.schedules,
		Breaks:    s.breaks,
		Viewers:   s.viewers,
		Close:     s.Close,
	}
}

// keyspace builds every key under one prefix.
type keyspace struct {
	prefix string
}

func (k keyspace) session(id string) string {
	return fmt.Sprintf("%s:session:%s", k.prefix, id)
}

func (k keyspace) sessionPrefix() string {
	return k.prefix + ":session:"
}

// groupSessions is a sorted set of session ids scored by start time.
func (k keyspace) groupSessions(groupID string) string {
	return fmt.Sprintf("%s:sessions:%s", k.prefix, groupID)
}

// open is a sorted set of the user's open session ids scored by start time.
func (k keyspace) open(groupID, userID string) string {
	return fmt.Sprintf("%s:open:%s:%s", k.prefix, groupID, userID)
}

func (k keyspace) openPrefix() string {
	return k.prefix + ":open:"
}

// seq is the insertion counter stamped on every session hash.
func (k keyspace) seq() string {
	return k.prefix + ":seq"
}

func (k keyspace) schedule(groupID, userID string) string {
	return fmt.Sprintf("%s:schedule:%s:%s", k.prefix, groupID, userID)
}

func (k keyspace) brk(groupID, userID string) string {
	return fmt.Sprintf("%s:break:%s:%s", k.prefix, groupID, userID)
}

func (k keyspace) viewers(groupID string) string {
	return fmt.Sprintf("%s:viewers:%s", k.prefix, groupID)
}
