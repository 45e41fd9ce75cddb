package store

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	nverrors "github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/observability"
)

const (
	redisKeyPrefix = "nodevis:layout:"
	redisIndexKey  = "nodevis:layouts"
)

// RedisStore keeps each layout under nodevis:layout:<id> and an index of
// update times in the nodevis:layouts hash.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis server at addr. An empty addr means
// localhost:6379.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, persistence(err, "connect", addr)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, l *layout.Layout) (err error) {
	data, err := encode(id, l)
	defer func() { observability.Store().OnSave(ctx, BackendRedis, id, len(data), err) }()
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKeyPrefix+id, data, 0)
		pipe.HSet(ctx, redisIndexKey, id, time.Now().UnixMilli())
		return nil
	})
	if err != nil {
		return persistence(err, "write", id)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (l *layout.Layout, err error) {
	defer func() { observability.Store().OnLoad(ctx, BackendRedis, id, err) }()
	if err := nverrors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, persistence(err, "read", id)
	}
	return decode(id, data)
}

func (s *RedisStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { observability.Store().OnDelete(ctx, BackendRedis, id, err) }()
	if err := nverrors.ValidateLayoutID(id); err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisKeyPrefix+id)
		pipe.HDel(ctx, redisIndexKey, id)
		return nil
	})
	if err != nil {
		return persistence(err, "remove", id)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Info, error) {
	index, err := s.client.HGetAll(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, persistence(err, "list", redisIndexKey)
	}
	out := make([]Info, 0, len(index))
	for id, v := range index {
		ms, _ := strconv.ParseInt(v, 10, 64)
		out = append(out, Info{ID: id, UpdatedAt: time.UnixMilli(ms)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
