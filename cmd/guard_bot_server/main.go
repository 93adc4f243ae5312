package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"guard_bot_server/internal/config"
	dao "guard_bot_server/internal/dao/mysql"
	myredis "guard_bot_server/internal/dao/redis"
	"guard_bot_server/internal/gateway"
	"guard_bot_server/internal/handler"
	"guard_bot_server/internal/https_server"
	"guard_bot_server/internal/infrastructure/logger"
	"guard_bot_server/internal/infrastructure/mq"
	"guard_bot_server/internal/service"
	"guard_bot_server/internal/service/dispatch"
	"guard_bot_server/internal/service/sweeper"
	"guard_bot_server/pkg/util/jwt"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化 validator 翻译器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("validator 翻译器初始化失败", zap.Error(err))
	}

	// 4. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 5. 初始化 Redis
	cache := myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 6. 初始化 JWT
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	zap.L().Info("JWT 初始化成功")

	// 7. 初始化传输层网关
	// 生产部署时替换为对接真实消息平台的 Gateway 实现
	gw := gateway.NewLoggingGateway()

	// 8. 初始化 Service 层（依赖注入）
	services := service.NewServices(repos, cache, gw, &conf.BotConfig)
	zap.L().Info("Service 层初始化成功")

	// 9. 初始化事件分发器和事件源
	dispatcher := dispatch.NewDispatcher(services.Lifecycle, gw, &conf.BotConfig)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var source mq.EventSource
	if conf.KafkaConfig.MessageMode == "kafka" {
		source = mq.NewKafkaEventSource(&conf.KafkaConfig, dispatcher)
	} else {
		source = mq.NewChannelEventSource(dispatcher)
	}
	source.Start(ctx)
	zap.L().Info("事件源已启动", zap.String("mode", conf.KafkaConfig.MessageMode))

	// 10. 启动过期清理任务
	sw, err := sweeper.New(services.Lifecycle, repos, &conf.BotConfig)
	if err != nil {
		zap.L().Fatal("清理任务初始化失败", zap.Error(err))
	}
	sw.Start()

	// 11. 初始化管理端 HTTP 服务器
	handlers := handler.NewHandlers(services, conf)
	engine := https_server.Init(handlers)
	zap.L().Info("HTTP 服务器初始化成功")

	go func() {
		addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
		if err := engine.Run(addr); err != nil {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 等待退出信号
	<-ctx.Done()
	zap.L().Info("关闭服务器...")

	sw.Stop()
	if err := source.Close(); err != nil {
		zap.L().Error("事件源关闭失败", zap.Error(err))
	}
	if err := repos.Close(); err != nil {
		zap.L().Error("数据库关闭失败", zap.Error(err))
	}

	zap.L().Info("服务器已关闭")
}
