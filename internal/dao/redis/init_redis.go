// Package redis 提供 Redis 缓存操作的封装
// 本文件仅包含 Redis 连接初始化逻辑
// 使用 github.com/redis/go-redis/v9 作为底层客户端
package redis

import (
	"strconv"

	"guard_bot_server/internal/config"

	"github.com/redis/go-redis/v9"
)

// Init 初始化 Redis 连接并返回缓存服务实例
// 从配置文件读取连接参数并创建客户端实例
func Init() AsyncCacheService {
	conf := config.GetConfig()
	addr := conf.RedisConfig.Host + ":" + strconv.Itoa(conf.RedisConfig.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conf.RedisConfig.Password,
		DB:       conf.RedisConfig.Db,
		// 连接池配置
		PoolSize:     20, // 最大连接数
		MinIdleConns: 4,  // 最小空闲连接，与 Worker 数量匹配
	})

	// 启动 4 个 Worker，缓冲区 1000，守门场景写缓存频率不高
	return NewRedisCache(client, 4, 1000)
}
