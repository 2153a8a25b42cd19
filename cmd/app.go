package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ddd-course/api"
	"ddd-course/config"
	"ddd-course/infrastructure/persistence/mysql"
	"ddd-course/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// App 应用程序：HTTP 服务 + 可选的内嵌 outbox worker
type App struct {
	config  *config.Config
	router  *api.Router
	server  *http.Server
	db      *gorm.DB
	worker  *mysql.OutboxWorker
	closers []func(context.Context) error
}

// Run 运行应用程序，ctx 取消后优雅关闭
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server starting",
			zap.String("addr", a.server.Addr),
			zap.String("health", "/api/v1/health"))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	if a.worker != nil {
		g.Go(func() error {
			return a.worker.Run(gctx)
		})
	}

	return g.Wait()
}

// Close 释放资源，按注册的逆序执行
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// GetServer 获取 gin 引擎（用于测试）
func (a *App) GetServer() *gin.Engine {
	return a.router.GetEngine()
}

// HasWorker 是否启用了内嵌 outbox worker
func (a *App) HasWorker() bool {
	return a.worker != nil
}

func (a *App) onClose(fn func(context.Context) error) {
	if fn != nil {
		a.closers = append(a.closers, fn)
	}
}

// abort 构建失败时释放已创建的资源
func (a *App) abort(ctx context.Context, err error) error {
	if closeErr := a.Close(ctx); closeErr != nil {
		logger.Warn("Failed to release resources", zap.Error(closeErr))
	}
	return err
}
