package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kingwell47/blogfront/internal/config"
	"github.com/kingwell47/blogfront/internal/gateway"
	"github.com/kingwell47/blogfront/internal/handler"
	"github.com/kingwell47/blogfront/internal/service"
	"github.com/kingwell47/blogfront/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	gw := gateway.New(cfg.GatewayURL, cfg.GatewayAnonKey, cfg.RequestTimeout)
	blogs := service.NewBlogService(gw)
	auth := service.NewAuthService(gw)
	sessions := session.NewManager(gw, cfg.PageSize)

	// Root subscription: every session transition lands in the owning
	// store. Torn down exactly once, below.
	unsubscribe := session.BindStores(sessions)

	h := handler.New(blogs, auth, sessions, cfg.SessionCookie)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: h.Router(),
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "gateway", cfg.GatewayURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	unsubscribe()
	slog.Info("server stopped")
}
