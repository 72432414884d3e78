package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache 基于Redis实现的缓存
// 所有键写入统一的命名空间前缀，Clear只清理该前缀下的键
type RedisCache struct {
	client *redis.Client
	prefix string
	ctx    context.Context
}

// NewRedisCache 创建一个新的Redis缓存
func NewRedisCache(config Config) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	// 测试连接
	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = "docuchat"
	}

	return &RedisCache{
		client: client,
		prefix: prefix,
		ctx:    ctx,
	}, nil
}

// namespaced 为键加上命名空间前缀
func (r *RedisCache) namespaced(key string) string {
	return r.prefix + ":" + key
}

// Get 获取缓存内容
func (r *RedisCache) Get(key string) (string, bool, error) {
	value, err := r.client.Get(r.ctx, r.namespaced(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}

	return value, true, nil
}

// Set 设置缓存内容
func (r *RedisCache) Set(key string, value string, ttl time.Duration) error {
	return r.client.Set(r.ctx, r.namespaced(key), value, ttl).Err()
}

// Delete 删除缓存项
func (r *RedisCache) Delete(key string) error {
	return r.client.Del(r.ctx, r.namespaced(key)).Err()
}

// Clear 清空命名空间下的所有缓存键
func (r *RedisCache) Clear() error {
	iter := r.client.Scan(r.ctx, 0, r.prefix+":*", 100).Iterator()
	for iter.Next(r.ctx) {
		if err := r.client.Del(r.ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func init() {
	RegisterCache("redis", NewRedisCache)
}
