package storage

import (
	"context"
	"sync"
	"time"
)

type value struct {
	data     string
	expireAt time.Time
}

type hash struct {
	fields   map[string]string
	expireAt time.Time
}

// Memory implements game.Store in process, expiry included. It backs the
// tests; production uses Redis.
type Memory struct {
	mu     sync.Mutex
	values map[string]*value
	hashes map[string]*hash
}

func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]*value),
		hashes: make(map[string]*hash),
	}
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.liveValue(key)
	if v == nil {
		return "", nil
	}
	return v.data, nil
}

func (m *Memory) Set(ctx context.Context, key, data string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = &value{data: data}
	return nil
}

func (m *Memory) SetEx(ctx context.Context, key, data string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = &value{data: data, expireAt: time.Now().Add(ttl)}
	return nil
}

func (m *Memory) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
		delete(m.hashes, key)
	}
	return nil
}

func (m *Memory) HGet(ctx context.Context, key, field string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.liveHash(key)
	if h == nil {
		return "", nil
	}
	return h.fields[field], nil
}

func (m *Memory) HSet(ctx context.Context, key, field, data string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.liveHash(key)
	if h == nil {
		h = &hash{fields: make(map[string]string)}
		m.hashes[key] = h
	}
	h.fields[field] = data
	return nil
}

func (m *Memory) HDel(ctx context.Context, key string, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.liveHash(key)
	if h == nil {
		return nil
	}
	for _, field := range fields {
		delete(h.fields, field)
	}
	if len(h.fields) == 0 {
		delete(m.hashes, key)
	}
	return nil
}

func (m *Memory) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string)
	h := m.liveHash(key)
	if h == nil {
		return out, nil
	}
	for field, data := range h.fields {
		out[field] = data
	}
	return out, nil
}

func (m *Memory) HKeys(ctx context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.liveHash(key)
	if h == nil {
		return nil, nil
	}
	fields := make([]string, 0, len(h.fields))
	for field := range h.fields {
		fields = append(fields, field)
	}
	return fields, nil
}

func (m *Memory) HVals(ctx context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.liveHash(key)
	if h == nil {
		return nil, nil
	}
	values := make([]string, 0, len(h.fields))
	for _, data := range h.fields {
		values = append(values, data)
	}
	return values, nil
}

func (m *Memory) Expire(ctx context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v := m.liveValue(key); v != nil {
		v.expireAt = time.Now().Add(ttl)
	}
	if h := m.liveHash(key); h != nil {
		h.expireAt = time.Now().Add(ttl)
	}
	return nil
}

func (m *Memory) TTL(ctx context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v := m.liveValue(key); v != nil {
		if v.expireAt.IsZero() {
			return -1 * time.Second, nil
		}
		return time.Until(v.expireAt), nil
	}
	if h := m.liveHash(key); h != nil {
		if h.expireAt.IsZero() {
			return -1 * time.Second, nil
		}
		return time.Until(h.expireAt), nil
	}
	return -2 * time.Second, nil
}

// liveValue returns the entry for key, reaping it first if expired.
// Callers must hold mu.
func (m *Memory) liveValue(key string) *value {
	v, ok := m.values[key]
	if !ok {
		return nil
	}
	if !v.expireAt.IsZero() && time.Now().After(v.expireAt) {
		delete(m.values, key)
		return nil
	}
	return v
}

func (m *Memory) liveHash(key string) *hash {
	h, ok := m.hashes[key]
	if !ok {
		return nil
	}
	if !h.expireAt.IsZero() && time.Now().After(h.expireAt) {
		delete(m.hashes, key)
		return nil
	}
	return h
}
