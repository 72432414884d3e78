package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateCacheKey 测试缓存键生成
func TestGenerateCacheKey(t *testing.T) {
	// 无参数时直接返回前缀
	assert.Equal(t, "qa", GenerateCacheKey("qa"))

	// 相同参数生成相同的键
	key1 := GenerateCacheKey("qa", "gpt-4", "what is the sky color?")
	key2 := GenerateCacheKey("qa", "gpt-4", "what is the sky color?")
	assert.Equal(t, key1, key2)

	// 不同参数生成不同的键
	key3 := GenerateCacheKey("qa", "gpt-3.5-turbo", "what is the sky color?")
	assert.NotEqual(t, key1, key3)

	// 参数拼接有边界，不会因为分段位置不同而碰撞
	assert.NotEqual(t,
		GenerateCacheKey("qa", "ab", "c"),
		GenerateCacheKey("qa", "a", "bc"))

	// 长问题也能生成长度可控的键
	long := GenerateCacheKey("qa", "gpt-4", string(make([]byte, 10000)))
	assert.Less(t, len(long), 64)
}

// TestMemoryCache 测试内存缓存的基本功能
func TestMemoryCache(t *testing.T) {
	c, err := NewMemoryCache(Config{
		DefaultTTL:      time.Second * 2,
		CleanupInterval: time.Second,
	})
	require.NoError(t, err)

	// Set和Get
	require.NoError(t, c.Set("key1", "value1", 0))
	val, found, err := c.Get("key1")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value1", val)

	// 不存在的键
	_, found, err = c.Get("non-existent")
	assert.NoError(t, err)
	assert.False(t, found)

	// 过期
	require.NoError(t, c.Set("expire-soon", "temp", time.Millisecond*50))
	time.Sleep(time.Millisecond * 100)
	_, found, err = c.Get("expire-soon")
	assert.NoError(t, err)
	assert.False(t, found)

	// 删除
	require.NoError(t, c.Set("to-delete", "x", 0))
	require.NoError(t, c.Delete("to-delete"))
	_, found, _ = c.Get("to-delete")
	assert.False(t, found)

	// 清空
	require.NoError(t, c.Set("a", "1", 0))
	require.NoError(t, c.Set("b", "2", 0))
	require.NoError(t, c.Clear())
	_, found, _ = c.Get("a")
	assert.False(t, found)
	_, found, _ = c.Get("b")
	assert.False(t, found)
}

// TestRedisCache 测试Redis缓存的基本功能
func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(Config{
		RedisAddr: mr.Addr(),
		KeyPrefix: "docuchat",
	})
	require.NoError(t, err)

	// Set和Get
	require.NoError(t, c.Set("answer", "the sky is blue", time.Minute))
	val, found, err := c.Get("answer")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "the sky is blue", val)

	// 键写入了命名空间
	assert.True(t, mr.Exists("docuchat:answer"))

	// 不存在的键
	_, found, err = c.Get("missing")
	assert.NoError(t, err)
	assert.False(t, found)

	// 过期
	require.NoError(t, c.Set("short-lived", "x", time.Second))
	mr.FastForward(time.Second * 2)
	_, found, _ = c.Get("short-lived")
	assert.False(t, found)

	// 删除
	require.NoError(t, c.Set("gone", "x", time.Minute))
	require.NoError(t, c.Delete("gone"))
	_, found, _ = c.Get("gone")
	assert.False(t, found)
}

// TestRedisCacheClearScopedToPrefix 测试Clear只清理命名空间内的键
func TestRedisCacheClearScopedToPrefix(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(Config{
		RedisAddr: mr.Addr(),
		KeyPrefix: "docuchat",
	})
	require.NoError(t, err)

	require.NoError(t, c.Set("a", "1", time.Minute))
	require.NoError(t, c.Set("b", "2", time.Minute))

	// 同一Redis库中其他应用的键
	require.NoError(t, mr.Set("other-app:key", "keep-me"))

	require.NoError(t, c.Clear())

	_, found, _ := c.Get("a")
	assert.False(t, found)
	_, found, _ = c.Get("b")
	assert.False(t, found)
	assert.True(t, mr.Exists("other-app:key"), "命名空间外的键不应被清除")
}

// TestNewCacheFallsBackToMemory 测试未知类型回退到内存缓存
func TestNewCacheFallsBackToMemory(t *testing.T) {
	c, err := NewCache(Config{Type: "unknown"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)
}
