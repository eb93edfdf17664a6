package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/filmboard/internal/config"
	"github.com/John-Robertt/filmboard/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务（页面 + 列表接口）",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	eff, err := loadConfig(cmd)
	if err != nil {
		slog.Error("failed to load config", "error_code", config.Code(err), "error", err)
		return &exitError{code: 1, err: err}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: eff.LogLevel})))

	svc, err := newService(eff)
	if err != nil {
		slog.Error("failed to build pipeline", "error", err)
		return &exitError{code: 1, err: err}
	}

	app := server.New(svc, server.Options{Source: eff.Source})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutting down filmboard...")
		_ = app.Shutdown()
	}()

	slog.Info("starting filmboard",
		"addr", eff.Addr(),
		"source", eff.Source,
		"base_url", eff.BaseURL,
		"timeout", eff.Timeout.String(),
		"proxy", eff.ProxyURL != "",
	)
	if err := app.Listen(eff.Addr(), fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		slog.Error("server error", "error", err)
		return &exitError{code: 1, err: err}
	}
	return nil
}
