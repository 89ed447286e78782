package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/arianpg/mikaboshi/internal/agent"
	"github.com/arianpg/mikaboshi/internal/agent/capture"
	"github.com/arianpg/mikaboshi/internal/config"
	"github.com/arianpg/mikaboshi/internal/logging"
)

func main() {
	defaults := config.DefaultAgent()

	configPath := flag.String("config", "", "Path to an optional YAML config file.")
	server := flag.String("server", defaults.Server, "Address of the collection server.")
	device := flag.String("device", defaults.Device, "Device to capture on, or 'any'.")
	snapshot := flag.Int("snapshot", defaults.Snapshot, "Capture snapshot length in bytes.")
	promiscuous := flag.Bool("promiscuous", defaults.Promiscuous, "Put the capture device in promiscuous mode.")
	mock := flag.Bool("mock", defaults.Mock, "Emit synthetic traffic instead of capturing.")
	pcapFile := flag.String("pcap_file", defaults.PcapFile, "Replay a recorded capture instead of a device.")
	ipv6 := flag.Bool("ipv6", defaults.IPv6, "Report IPv6 flows as well.")
	listDevices := flag.Bool("list_devices", defaults.ListDevices, "Print the capture device inventory and exit.")
	batchSize := flag.Int("batch_size", defaults.BatchSize, "Records per uplink batch.")
	batchInterval := flag.String("batch_interval", defaults.BatchInterval, "Longest time records wait before a flush.")
	logLevel := flag.String("log_level", defaults.Log.Level, "Log level: debug, info, warn or error.")
	logFile := flag.String("log_file", defaults.Log.File, "Optional rotating log file.")
	flag.Parse()

	// Load configuration: defaults, then YAML, then environment.
	cfg, err := config.LoadAgent(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags set on the command line beat everything else.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			cfg.Server = *server
		case "device":
			cfg.Device = *device
		case "snapshot":
			cfg.Snapshot = *snapshot
		case "promiscuous":
			cfg.Promiscuous = *promiscuous
		case "mock":
			cfg.Mock = *mock
		case "pcap_file":
			cfg.PcapFile = *pcapFile
		case "ipv6":
			cfg.IPv6 = *ipv6
		case "list_devices":
			cfg.ListDevices = *listDevices
		case "batch_size":
			cfg.BatchSize = *batchSize
		case "batch_interval":
			cfg.BatchInterval = *batchInterval
		case "log_level":
			cfg.Log.Level = *logLevel
		case "log_file":
			cfg.Log.File = *logFile
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.ListDevices {
		if err := printDevices(); err != nil {
			log.Fatalf("Failed to list devices: %v", err)
		}
		return
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	a, err := agent.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build agent", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("agent starting",
		zap.String("server", cfg.Server),
		zap.String("device", cfg.Device),
		zap.Bool("mock", cfg.Mock))
	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("agent stopped", zap.Error(err))
	}
	logger.Info("agent stopped")
}

// printDevices dumps the capture inventory so operators can pick a -device
// value.
func printDevices() error {
	devices, err := capture.ListDevices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Println("No capture devices found. Are you missing capture permissions?")
		return nil
	}
	for _, d := range devices {
		if d.Description != "" {
			fmt.Printf("%s (%s)\n", d.Name, d.Description)
		} else {
			fmt.Println(d.Name)
		}
		for _, addr := range d.Addrs {
			fmt.Printf("    %s\n", addr)
		}
	}
	return nil
}
