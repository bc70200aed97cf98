// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces session keys in Valkey to avoid collisions.
const keyPrefix = "session:"

// ValkeyBackend keeps sessions in Valkey under the "session:" prefix.
type ValkeyBackend struct {
	client *redis.Client
}

// NewValkeyBackend creates a backend on the given Valkey client.
func NewValkeyBackend(client *redis.Client) *ValkeyBackend {
	return &ValkeyBackend{client: client}
}

func (b *ValkeyBackend) Get(ctx context.Context, id string) ([]byte, bool, error) {
	payload, err := b.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (b *ValkeyBackend) Set(ctx context.Context, id string, payload []byte, ttl time.Duration) error {
	return b.client.Set(ctx, keyPrefix+id, payload, ttl).Err()
}

func (b *ValkeyBackend) Delete(ctx context.Context, id string) error {
	return b.client.Del(ctx, keyPrefix+id).Err()
}

// Clear scans for the session prefix and deletes in batches.
func (b *ValkeyBackend) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := b.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan sessions: %w", err)
		}
		if len(keys) > 0 {
			if err := b.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete sessions: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

type memoryEntry struct {
	payload []byte
	expires time.Time
}

// MemoryBackend keeps sessions in process memory. Expired entries are
// dropped when read.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryBackend creates an empty in-process backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]memoryEntry), now: time.Now}
}

func (b *MemoryBackend) Get(_ context.Context, id string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[id]
	if !ok {
		return nil, false, nil
	}
	if !b.now().Before(e.expires) {
		delete(b.entries, id)
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (b *MemoryBackend) Set(_ context.Context, id string, payload []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[id] = memoryEntry{payload: append([]byte(nil), payload...), expires: b.now().Add(ttl)}
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, id)
	return nil
}

func (b *MemoryBackend) Clear(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.entries)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
