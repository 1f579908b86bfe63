// Package web 提供基准测试的 HTTP 接入层
package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rushairer/bulkbench"
)

// Server HTTP 服务
// 路由只做请求/响应编解码，策略选择和计时全部在 Runner 内完成
type Server struct {
	runner         *bulkbench.Runner
	summaries      *bulkbench.OrderSummaryService
	cache          *bulkbench.KeyCache
	metricsHandler http.Handler
}

// NewServer 创建 HTTP 服务
func NewServer(runner *bulkbench.Runner, summaries *bulkbench.OrderSummaryService, cache *bulkbench.KeyCache, metricsHandler http.Handler) *Server {
	return &Server{
		runner:         runner,
		summaries:      summaries,
		cache:          cache,
		metricsHandler: metricsHandler,
	}
}

// Router 组装 gin 路由
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/orders")
	bulk := api.Group("/bulk-inserts")
	for _, slug := range s.runner.Slugs() {
		bulk.POST("/"+slug, s.benchmarkHandler(slug))
	}
	api.GET("/user/:email", s.userOrdersHandler)

	router.GET("/health", s.healthHandler)
	if s.metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(s.metricsHandler))
	}
	return router
}

// benchmarkHandler 执行指定插入策略的基准测试
func (s *Server) benchmarkHandler(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkbench.BulkInsertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := s.runner.Run(c.Request.Context(), slug, req)
		if err != nil {
			// 缓存未就绪是前置条件错误，等数据集生成完即可重试
			if errors.Is(err, bulkbench.ErrKeyCacheNotReady) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				return
			}
			logrus.Errorf("基准测试 %s 失败：%v", slug, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// userOrdersHandler 按邮箱查询订单汇总，?joined=true 走单条 JOIN 聚合
func (s *Server) userOrdersHandler(c *gin.Context) {
	email := c.Param("email")

	var (
		summaries []bulkbench.OrderSummary
		err       error
	)
	if c.Query("joined") == "true" {
		summaries, err = s.summaries.OrderSummariesJoined(c.Request.Context(), email)
	} else {
		summaries, err = s.summaries.OrderSummaries(c.Request.Context(), email)
	}
	if err != nil {
		logrus.Errorf("订单汇总查询失败：%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if summaries == nil {
		summaries = []bulkbench.OrderSummary{}
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"cache_ready": s.cache.Ready(),
	})
}
