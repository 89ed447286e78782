package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/improbable-eng/grpc-web/go/grpcweb"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"

	v1 "github.com/arianpg/mikaboshi/api/gen/v1"
	"github.com/arianpg/mikaboshi/internal/config"
	"github.com/arianpg/mikaboshi/internal/logging"
	"github.com/arianpg/mikaboshi/internal/server"
	"github.com/arianpg/mikaboshi/internal/server/bus"
	"github.com/arianpg/mikaboshi/internal/server/geoip"
	"github.com/arianpg/mikaboshi/internal/server/httpapi"
)

func main() {
	defaults := config.DefaultServer()

	configPath := flag.String("config", "", "Path to an optional YAML config file.")
	grpcPort := flag.Int("grpc_port", defaults.GRPCPort, "Port for native gRPC and gRPC-Web.")
	httpPort := flag.Int("http_port", defaults.HTTPPort, "Port for the side-car HTTP API and static files.")
	channelCapacity := flag.Int("channel_capacity", defaults.ChannelCapacity, "Capacity of the broadcast bus.")
	peerTimeout := flag.String("peer_timeout", defaults.PeerTimeout, "Inactivity window surfaced to viewers.")
	geoipPath := flag.String("geoip_path", defaults.GeoIPPath, "Optional path to a MaxMind City database.")
	staticDir := flag.String("static_dir", defaults.StaticDir, "Directory holding the web bundle.")
	natsURL := flag.String("nats_url", defaults.NATSURL, "Optional NATS server to mirror the stream to.")
	logLevel := flag.String("log_level", defaults.Log.Level, "Log level: debug, info, warn or error.")
	logFile := flag.String("log_file", defaults.Log.File, "Optional rotating log file.")
	flag.Parse()

	cfg, err := config.LoadServer(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "grpc_port":
			cfg.GRPCPort = *grpcPort
		case "http_port":
			cfg.HTTPPort = *httpPort
		case "channel_capacity":
			cfg.ChannelCapacity = *channelCapacity
		case "peer_timeout":
			cfg.PeerTimeout = *peerTimeout
		case "geoip_path":
			cfg.GeoIPPath = *geoipPath
		case "static_dir":
			cfg.StaticDir = *staticDir
		case "nats_url":
			cfg.NATSURL = *natsURL
		case "log_level":
			cfg.Log.Level = *logLevel
		case "log_file":
			cfg.Log.File = *logFile
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	b := bus.New(cfg.ChannelCapacity)

	geo, err := geoip.Open(cfg.GeoIPPath)
	if err != nil {
		logger.Fatal("Failed to open GeoIP database", zap.Error(err))
	}
	if geo.Enabled() {
		defer geo.Close()
		logger.Info("GeoIP lookups enabled", zap.String("path", cfg.GeoIPPath))
	}

	var mirror *server.Mirror
	if cfg.NATSURL != "" {
		mirror, err = server.StartMirror(cfg.NATSURL, b, logger)
		if err != nil {
			logger.Fatal("Failed to start NATS mirror", zap.Error(err))
		}
	}

	// Native gRPC and gRPC-Web share grpc_port: the wrapper answers
	// browser requests and falls through to the gRPC server for HTTP/2
	// framing, and h2c accepts that framing without TLS.
	grpcServer := grpc.NewServer()
	v1.RegisterAgentServiceServer(grpcServer, server.NewService(b, logger))
	wrapped := grpcweb.WrapServer(grpcServer,
		grpcweb.WithOriginFunc(func(origin string) bool { return true }),
	)
	grpcHTTP := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.GRPCPort),
		Handler: h2c.NewHandler(wrapped, &http2.Server{}),
	}
	go func() {
		logger.Info("gRPC server starting", zap.Int("grpc_port", cfg.GRPCPort))
		if err := grpcHTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("gRPC server failed", zap.Error(err))
		}
	}()

	api, err := httpapi.New(cfg, geo, logger)
	if err != nil {
		logger.Fatal("Failed to build HTTP API", zap.Error(err))
	}
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: api.Router(),
	}
	go func() {
		logger.Info("HTTP server starting", zap.Int("http_port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("server shutting down")

	if mirror != nil {
		mirror.Close()
	}
	// Closing the bus ends every Subscribe stream, so the listeners can
	// drain within the grace period.
	b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	grpcHTTP.Shutdown(ctx)
	httpServer.Shutdown(ctx)
	// Cut any stream that outlived the grace period.
	grpcServer.Stop()

	logger.Info("server stopped")
}
