// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
	Host    string `toml:"host"`    // 管理端服务器监听地址，如 "0.0.0.0"
	Port    int    `toml:"port"`    // 管理端服务器监听端口，如 8000
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`         // MySQL 服务器地址
	Port         int    `toml:"port"`         // MySQL 端口，默认 3306
	User         string `toml:"user"`         // 数据库用户名
	Password     string `toml:"password"`     // 数据库密码
	DatabaseName string `toml:"databaseName"` // 数据库名称
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`       // Redis 数据库编号，默认 0
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig 入站事件消息队列配置
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"` // 事件接入模式："channel" 或 "kafka"
	HostPort    string        `toml:"hostPort"`    // Kafka 服务器地址，如 "localhost:9092"
	EventTopic  string        `toml:"eventTopic"`  // 传输层事件主题（入群申请/私聊消息/管理员操作）
	GroupID     string        `toml:"groupId"`     // 消费者组 ID
	Timeout     time.Duration `toml:"timeout"`     // 超时时间
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret             string `toml:"secret"`             // JWT 签名密钥，建议 32 字符以上
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // Access Token 有效期（分钟）
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // Refresh Token 有效期（小时）
}

// BotConfig 守门机器人业务配置
// 管理员身份、申请过期窗口、清理任务节奏以及各类话术文本
// 全部作为 Engine 的静态输入，不参与业务逻辑本身
type BotConfig struct {
	ModeratorId      string `toml:"moderatorId"`      // 唯一有权处理申请的管理员身份
	ExpirationDays   int    `toml:"expirationDays"`   // 申请过期窗口（天）
	SweepSpec        string `toml:"sweepSpec"`        // 清理任务 cron 表达式（含秒），默认每小时
	ChallengeMessage string `toml:"challengeMessage"` // 人机验证话术，申请创建后发给申请人
	ApprovedMessage  string `toml:"approvedMessage"`  // 通过话术
	DeclinedMessage  string `toml:"declinedMessage"`  // 拒绝话术
	ExpiredMessage   string `toml:"expiredMessage"`   // 超时关闭话术
}

// ExpirationWindow 申请过期窗口对应的时长
func (b *BotConfig) ExpirationWindow() time.Duration {
	return time.Duration(b.ExpirationDays) * 24 * time.Hour
}

// AdminConfig 管理端认证配置
type AdminConfig struct {
	SecretHash string `toml:"secretHash"` // 管理端口令的 bcrypt 哈希，不存明文
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig  `toml:"mainConfig"`  // 主配置
	MysqlConfig `toml:"mysqlConfig"` // MySQL 配置
	RedisConfig `toml:"redisConfig"` // Redis 配置
	LogConfig   `toml:"logConfig"`   // 日志配置
	KafkaConfig `toml:"kafkaConfig"` // Kafka 配置
	JWTConfig   `toml:"jwtConfig"`   // JWT 配置
	BotConfig   `toml:"botConfig"`   // 机器人业务配置
	AdminConfig `toml:"adminConfig"` // 管理端认证配置
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() error {
	// 候选配置文件路径（优先加载本地配置）
	paths := []string{
		"configs/config_local.toml",       // 本地开发配置（优先）
		"configs/config.toml",             // 默认配置
		"../../configs/config_local.toml", // 从子目录运行时的路径
		"../../configs/config.toml",       // 从子目录运行时的路径
	}

	// 依次尝试加载配置文件
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig() // 忽略加载错误，使用默认值
	}
	return config
}
