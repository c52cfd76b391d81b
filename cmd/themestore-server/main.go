package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	themerpc "themestore/pkg/api/themerpc/v1"
	"themestore/pkg/app"
	"themestore/pkg/config"
	"themestore/pkg/metrics"
	"themestore/pkg/server"
	"themestore/pkg/service"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Config
	cfgFile := flag.String("config", "", "config file (default is $HOME/.themestore/config.yaml)")
	flag.Parse()

	if err := config.Load(*cfgFile); err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Init Core Application
	application, err := app.NewApp(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to initialize app: %v", err)
	}
	defer application.Close()
	logger := application.Logger
	fmt.Println("✅ ThemeStore core initialized.")

	// 3. Setup Network
	listenAddr := viper.GetString("server.listen")
	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", listenAddr), zap.Error(err))
	}

	// 4. Setup gRPC Server
	grpcServer := server.NewGRPCServer(logger)
	themerpc.RegisterThemeFilesServer(grpcServer, service.NewFileService(application))
	// grpcurl 调试用
	reflection.Register(grpcServer)

	// 5. Metrics endpoint
	metricsAddr := viper.GetString("server.metrics")
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	metricsServer := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("📊 metrics listening", zap.String("addr", metricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		fmt.Printf("🚀 gRPC Server listening on %s...\n", listenAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// 6. Graceful Shutdown
	<-ctx.Done()
	fmt.Println("\n⚠️  Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	fmt.Println("👋 Server stopped.")
}
