package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"Campus/config"
	"Campus/handler"
	"Campus/middleware"
	"Campus/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Handlers HTTP 层的全部处理器，wire 注入
type Handlers struct {
	Auth         *handler.AuthHandler
	Thread       *handler.ThreadHandler
	Message      *handler.MessageHandler
	Ticket       *handler.TicketHandler
	Notification *handler.NotificationHandler
	Order        *handler.OrderHandler
	Admin        *handler.AdminHandler
}

type HttpServer struct {
	Conf     *config.Config
	Handlers Handlers
}

func NewEngine(conf *config.Config, h Handlers) *gin.Engine {
	if !conf.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.GinZap(), middleware.Prometheus(), CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/api")
	authed := r.Group("/api", middleware.Auth(conf))
	admin := authed.Group("/admin", middleware.RequireAdmin())

	h.Auth.RegisterRouter(public, authed)
	h.Thread.RegisterRouter(authed)
	h.Message.RegisterRouter(authed)
	h.Ticket.RegisterRouter(authed)
	h.Notification.RegisterRouter(authed)
	h.Order.RegisterRouter(authed)
	h.Admin.RegisterRouter(admin)

	return r
}

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Run 起 HTTP 服务并挂信号，SIGINT/SIGTERM 后优雅退出
func (s *HttpServer) Run() error {
	engine := NewEngine(s.Conf, s.Handlers)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Conf.Server.Http),
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.L.Info("HTTP 服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		log.L.Info("收到退出信号，开始优雅关闭")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
