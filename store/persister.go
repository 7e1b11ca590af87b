package store

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Persister é o canal de persistência local do Store. A implementação de
// produção é o Redis; os testes usam a versão em memória.
type Persister interface {
	Set(ctx context.Context, key string, data []byte) error
	// Get retorna (nil, false, nil) quando a chave não existe.
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

type RedisPersister struct {
	rdb *redis.Client
}

func NewRedisPersister(rdb *redis.Client) *RedisPersister {
	return &RedisPersister{rdb: rdb}
}

func (p *RedisPersister) Set(ctx context.Context, key string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.rdb.Set(ctx, key, data, 0).Err()
}

func (p *RedisPersister) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	val, err := p.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// MemoryPersister guarda tudo num mapa. Serve de fallback quando o Redis
// não está disponível e de dublê nos testes.
type MemoryPersister struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{data: make(map[string][]byte)}
}

func (p *MemoryPersister) Set(ctx context.Context, key string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	p.data[key] = cp
	return nil
}

func (p *MemoryPersister) Get(ctx context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	val, ok := p.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(val))
	copy(cp, val)
	return cp, true, nil
}
