package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMemoryCapacity bounds the in-memory cache at 60 MiB.
const DefaultMemoryCapacity = 60 * 1024 * 1024

type memoryItem struct {
	key     string
	data    []byte
	expires time.Time
}

// MemoryBackend is an in-process LRU cache bounded by total bytes.
type MemoryBackend struct {
	mu       sync.Mutex
	capacity int
	used     int
	order    *list.List // front = most recently used
	items    map[string]*list.Element
}

// NewMemoryBackend creates a memory backend holding at most capacity bytes.
// A non-positive capacity uses DefaultMemoryCapacity.
func NewMemoryBackend(capacity int) *MemoryBackend {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryBackend{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Name implements Backend.
func (b *MemoryBackend) Name() string { return "memory" }

// Get implements Backend.
func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	el, ok := b.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	item := el.Value.(*memoryItem)
	if time.Now().After(item.expires) {
		b.remove(el)
		return nil, ErrCacheMiss
	}
	b.order.MoveToFront(el)
	return item.data, nil
}

// Set implements Backend. Items larger than the capacity are not stored.
func (b *MemoryBackend) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if el, ok := b.items[key]; ok {
		b.remove(el)
	}
	if len(data) > b.capacity {
		return nil
	}

	for b.used+len(data) > b.capacity {
		b.remove(b.order.Back())
	}

	item := &memoryItem{key: key, data: data, expires: time.Now().Add(ttl)}
	b.items[key] = b.order.PushFront(item)
	b.used += len(data)
	return nil
}

// Delete implements Backend.
func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if el, ok := b.items[key]; ok {
		b.remove(el)
	}
	return nil
}

// Used returns the number of bytes currently stored.
func (b *MemoryBackend) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Len returns the number of stored entries.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func (b *MemoryBackend) remove(el *list.Element) {
	item := b.order.Remove(el).(*memoryItem)
	delete(b.items, item.key)
	b.used -= len(item.data)
}
