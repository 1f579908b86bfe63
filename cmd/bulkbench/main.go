package main

import (
	"context"
	"database/sql"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rushairer/bulkbench"
	"github.com/rushairer/bulkbench/monitoring"
	"github.com/rushairer/bulkbench/web"
)

func main() {
	logrus.Info("🚀 启动 bulkbench 服务...")

	cfg := loadConfig()
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("❌ 打开数据库失败：%v", err)
	}
	defer db.Close()

	// 连接池设置
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		logrus.Fatalf("❌ Ping 数据库失败：%v", err)
	}
	if err := bulkbench.EnsureSchema(ctx, db); err != nil {
		logrus.Fatalf("❌ 初始化表结构失败：%v", err)
	}

	var flags bulkbench.FlagStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		flags = bulkbench.NewRedisFlagStore(client, "")
		logrus.Infof("完成标记存储：Redis（%s）", cfg.RedisAddr)
	} else {
		store := bulkbench.NewFileFlagStore(cfg.FlagFile)
		flags = store
		logrus.Infof("完成标记存储：哨兵文件（%s）", store.Path())
	}

	gen := bulkbench.NewGenerator()
	loader := bulkbench.NewDataLoader(db, gen, flags, bulkbench.LoaderConfig{
		NumUsers:    cfg.NumUsers,
		NumProducts: cfg.NumProducts,
		NumOrders:   cfg.NumOrders,
	})
	cache := bulkbench.NewKeyCache(db)

	// 初始化编排器后台运行一次，失败不退出进程，下次启动会从清理阶段重试
	go func() {
		if err := loader.Run(ctx); err != nil {
			logrus.Errorf("❌ 数据集生成失败：%v", err)
		}
	}()

	// 等编排器发出就绪信号后做一次性缓存预热；空基础表属于致命配置错误
	go func() {
		<-loader.Ready()
		if err := cache.Warm(ctx); err != nil {
			logrus.Fatalf("❌ 主键缓存预热失败：%v", err)
		}
		logrus.Infof("✅ 主键缓存预热完成：%d 个用户，%d 个商品", cache.UserCount(), cache.ProductCount())
	}()

	metrics := monitoring.NewPrometheusMetrics()
	runner := bulkbench.NewRunner(db, cache, gen, metrics)
	summaries := bulkbench.NewOrderSummaryService(db)

	gin.SetMode(gin.ReleaseMode)
	server := web.NewServer(runner, summaries, cache, metrics.Handler())
	router := server.Router()

	logrus.Infof("HTTP 服务监听 %s", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		logrus.Fatalf("❌ HTTP 服务退出：%v", err)
	}
}
