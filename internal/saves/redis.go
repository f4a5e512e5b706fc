package saves

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

const redisPrefix = "mines:save:"

type Redis struct {
	client *redis.Client
}

// OpenRedis connects and pings the server, giving up after five seconds.
func OpenRedis(ctx context.Context, cfg config.Redis) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping redis at %s: %w", cfg.Addr, err)
	}
	return NewRedis(client), nil
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Save(ctx context.Context, slot string, snap mines.Snapshot) error {
	if err := checkName(slot); err != nil {
		return err
	}
	data, err := snap.Bytes()
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisPrefix+slot, data, 0).Err()
}

func (r *Redis) Load(ctx context.Context, slot string) (mines.Snapshot, error) {
	if err := checkName(slot); err != nil {
		return mines.Snapshot{}, err
	}
	data, err := r.client.Get(ctx, redisPrefix+slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return mines.Snapshot{}, ErrNotFound
	} else if err != nil {
		return mines.Snapshot{}, err
	}
	return mines.DecodeSnapshot(data)
}

func (r *Redis) Delete(ctx context.Context, slot string) error {
	if err := checkName(slot); err != nil {
		return err
	}
	return r.client.Del(ctx, redisPrefix+slot).Err()
}

func (r *Redis) List(ctx context.Context) ([]string, error) {
	var slots []string
	iter := r.client.Scan(ctx, 0, redisPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		slots = append(slots, strings.TrimPrefix(iter.Val(), redisPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	slices.Sort(slots)
	return slices.Compact(slots), nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
