package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/BerniceZTT/sales_end/config"
	"github.com/BerniceZTT/sales_end/service"
	"github.com/BerniceZTT/sales_end/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}

	// 启动时加载失败不阻止服务，可稍后上传或重新加载
	if app.Loader.HasSource() {
		if _, err := app.Loader.Load(ctx); err != nil {
			utils.Logger.Error().Err(err).Str("uri", cfg.DatasetURI).Msg("初始数据加载失败")
		}
	}
	if cfg.DatasetReloadAt != "" && app.Loader.HasSource() {
		hour, min, sec, err := service.ParseDailyTime(cfg.DatasetReloadAt)
		if err != nil {
			return err
		}
		service.ScheduleDailyTaskAt(ctx, hour, min, sec, func(ctx context.Context) {
			if _, err := app.Loader.Load(ctx); err != nil {
				utils.Logger.Error().Err(err).Msg("定时重新加载失败")
			}
		})
	}
	if app.Watcher != nil {
		if err := app.Watcher.Start(ctx); err != nil {
			utils.Logger.Error().Err(err).Msg("启动文件监听失败")
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      app.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.LogInfo(map[string]interface{}{"port": cfg.Port, "dataset": cfg.DatasetURI}, "服务器启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("启动服务器失败: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.Logger.Info().Msg("正在关闭服务器...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("服务器关闭异常: %w", err)
		}
		if err := app.Close(shutdownCtx); err != nil {
			utils.Logger.Error().Err(err).Msg("释放资源失败")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		utils.Logger.Error().Err(err).Msg("服务异常退出")
		return err
	}
	utils.Logger.Info().Msg("服务器已优雅关闭")
	return nil
}

func openInput(path string) (*os.File, error) {
	if path == "" || path == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开文件失败: %w", err)
	}
	return f, nil
}
