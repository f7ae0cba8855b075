package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/config"
	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/guestbook"
)

func action(ctx context.Context, cmd *cli.Command) error {
	// 加载配置：默认值 → 配置文件 → 环境变量 → CLI flags
	cfg, err := config.LoadCmd(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := guestbook.Open(ctx, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("open guestbook: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Close guestbook failed", "error", err)
		}
	}()

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      NewHandler(cfg, store),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  cfg.Server.Idletime,
	}

	// 启动服务器（非阻塞）
	errChan := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", cfg.Server.Addr, "gzip", cfg.Server.Gzip, "drip", cfg.Server.Drip)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	// 等待中断信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err, ok := <-errChan:
		if ok {
			slog.Error("Server error", "error", err)
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-sigChan:
	case <-ctx.Done():
	}

	slog.Info("Shutting down")

	// 使用 WithoutCancel 保持 context 链，同时防止父 context 取消影响 shutdown
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.Timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)

		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("Server stopped gracefully")

	return nil
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
