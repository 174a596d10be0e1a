package config

// Redis backs four optional features: the login user cache, the revoked
// session list, the cached taxes/net report and the per-date daily record
// locks. Without a client every helper below is a no-op (reads miss, writes
// succeed) and the app runs on MySQL alone.

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var (
	redisMu sync.RWMutex
	rdb     *redis.Client
	locker  *redislock.Client
)

func GetRedisDB() *redis.Client {
	redisMu.RLock()
	defer redisMu.RUnlock()
	return rdb
}

// GetRedisLock returns nil until Redis connects; callers skip locking then.
func GetRedisLock() *redislock.Client {
	redisMu.RLock()
	defer redisMu.RUnlock()
	return locker
}

// SetRedisDB swaps the client and its lock client. Passing nil disconnects
// the helpers without closing the previous client.
func SetRedisDB(client *redis.Client) {
	redisMu.Lock()
	defer redisMu.Unlock()
	rdb = client
	locker = nil
	if client != nil {
		locker = redislock.New(client)
	}
}

// GetRedisObject decodes the JSON stored under key into dest.
func GetRedisObject(key string, dest interface{}) (bool, error) {
	val, found, err := GetRedisValue(key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func GetRedisValue(key string) (string, bool, error) {
	client := GetRedisDB()
	if client == nil {
		return "", false, nil
	}
	val, err := client.Get(context.Background(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func SetRedisObject(key string, obj interface{}, exp time.Duration) error {
	encoded, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return SetRedisValue(key, string(encoded), exp)
}

func SetRedisValue(key string, value string, exp time.Duration) error {
	client := GetRedisDB()
	if client == nil {
		return nil
	}
	return client.Set(context.Background(), key, value, exp).Err()
}

func RemoveRedisKey(keys ...string) error {
	client := GetRedisDB()
	if client == nil {
		return nil
	}
	return client.Del(context.Background(), keys...).Err()
}

// ConnectRedisWithRetry pings REDIS_ADDRESS (default localhost:6379) until it
// answers or ctx ends. main runs it in the background, so requests served
// before it connects take the no-Redis path.
func ConnectRedisWithRetry(ctx context.Context) {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		addr = "localhost:6379"
		log.Printf("REDIS_ADDRESS not set; defaulting to %s", addr)
	}
	opts := &redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       intFromEnv("REDIS_DB", 0),
		PoolSize: intFromEnv("REDIS_POOL_SIZE", 10),
	}

	for attempt := 1; ; attempt++ {
		client := redis.NewClient(opts)
		err := client.Ping(ctx).Err()
		if err == nil {
			SetRedisDB(client)
			log.Printf("connected to redis (attempt=%d addr=%s)", attempt, addr)
			return
		}
		_ = client.Close()

		wait := retryDelay(attempt)
		log.Printf("redis unavailable (attempt=%d addr=%s): %v; next try in %s", attempt, addr, err, wait)
		select {
		case <-ctx.Done():
			log.Printf("giving up on redis: %v", ctx.Err())
			return
		case <-time.After(wait):
		}
	}
}

// retryDelay doubles from 2s and stops growing at 30s.
func retryDelay(attempt int) time.Duration {
	wait := time.Second * time.Duration(1<<min(attempt, 5))
	return min(wait, 30*time.Second)
}
