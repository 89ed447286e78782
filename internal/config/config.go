package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultControlPort is assumed when the server address carries no usable
// port. The agent excludes this port from capture so its own uplink traffic
// is never reported.
const DefaultControlPort = 50051

// Log controls logger construction, shared by both binaries.
type Log struct {
	Level string `yaml:"level" env:"MIKA_LOG_LEVEL"`
	File  string `yaml:"file" env:"MIKA_LOG_FILE"`
}

// Agent holds the runtime options of the capture agent.
type Agent struct {
	Server        string `yaml:"server" env:"MIKA_SERVER"`
	Device        string `yaml:"device" env:"MIKA_DEVICE"`
	Snapshot      int    `yaml:"snapshot" env:"MIKA_SNAPSHOT"`
	Promiscuous   bool   `yaml:"promiscuous" env:"MIKA_PROMISCUOUS"`
	Mock          bool   `yaml:"mock" env:"MIKA_MOCK"`
	PcapFile      string `yaml:"pcap_file" env:"MIKA_PCAP_FILE"`
	IPv6          bool   `yaml:"ipv6" env:"MIKA_IPV6"`
	ListDevices   bool   `yaml:"list_devices" env:"MIKA_LIST_DEVICES"`
	BatchSize     int    `yaml:"batch_size" env:"MIKA_BATCH_SIZE"`
	BatchInterval string `yaml:"batch_interval" env:"MIKA_BATCH_INTERVAL"`
	Log           Log    `yaml:"log"`
}

// Server holds the runtime options of the collection server.
type Server struct {
	GRPCPort        int    `yaml:"grpc_port" env:"MIKA_GRPC_PORT"`
	HTTPPort        int    `yaml:"http_port" env:"MIKA_HTTP_PORT"`
	ChannelCapacity int    `yaml:"channel_capacity" env:"MIKA_CHANNEL_CAPACITY"`
	PeerTimeout     string `yaml:"peer_timeout" env:"MIKA_PEER_TIMEOUT"`
	GeoIPPath       string `yaml:"geoip_path" env:"MIKA_GEOIP_PATH"`
	StaticDir       string `yaml:"static_dir" env:"MIKA_STATIC_DIR"`
	NATSURL         string `yaml:"nats_url" env:"MIKA_NATS_URL"`
	Log             Log    `yaml:"log"`
}

// DefaultAgent returns the agent configuration with all defaults applied.
func DefaultAgent() *Agent {
	return &Agent{
		Server:        "localhost:50051",
		Device:        "any",
		Snapshot:      1024,
		BatchSize:     10000,
		BatchInterval: "100ms",
		Log:           Log{Level: "info"},
	}
}

// DefaultServer returns the server configuration with all defaults applied.
func DefaultServer() *Server {
	return &Server{
		GRPCPort:        50051,
		HTTPPort:        8080,
		ChannelCapacity: 4096,
		PeerTimeout:     "30s",
		StaticDir:       "web/dist",
		Log:             Log{Level: "info"},
	}
}

// LoadAgent builds the agent configuration from defaults, an optional YAML
// file and the environment, in that order of increasing precedence. The
// caller validates after layering in any command-line values.
func LoadAgent(path string) (*Agent, error) {
	cfg := DefaultAgent()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
		}
	}
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// LoadServer is the server-side counterpart of LoadAgent.
func LoadServer(path string) (*Server, error) {
	cfg := DefaultServer()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
		}
	}
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// ApplyEnvOverrides replaces option values with their MIKA_* environment
// counterparts when set.
func (c *Agent) ApplyEnvOverrides() {
	stringOverrides := map[string]*string{
		"MIKA_SERVER":         &c.Server,
		"MIKA_DEVICE":         &c.Device,
		"MIKA_PCAP_FILE":      &c.PcapFile,
		"MIKA_BATCH_INTERVAL": &c.BatchInterval,
		"MIKA_LOG_LEVEL":      &c.Log.Level,
		"MIKA_LOG_FILE":       &c.Log.File,
	}
	intOverrides := map[string]*int{
		"MIKA_SNAPSHOT":   &c.Snapshot,
		"MIKA_BATCH_SIZE": &c.BatchSize,
	}
	boolOverrides := map[string]*bool{
		"MIKA_PROMISCUOUS":  &c.Promiscuous,
		"MIKA_MOCK":         &c.Mock,
		"MIKA_IPV6":         &c.IPv6,
		"MIKA_LIST_DEVICES": &c.ListDevices,
	}
	applyOverrides(stringOverrides, intOverrides, boolOverrides)
}

// ApplyEnvOverrides replaces option values with their MIKA_* environment
// counterparts when set.
func (c *Server) ApplyEnvOverrides() {
	stringOverrides := map[string]*string{
		"MIKA_PEER_TIMEOUT": &c.PeerTimeout,
		"MIKA_GEOIP_PATH":   &c.GeoIPPath,
		"MIKA_STATIC_DIR":   &c.StaticDir,
		"MIKA_NATS_URL":     &c.NATSURL,
		"MIKA_LOG_LEVEL":    &c.Log.Level,
		"MIKA_LOG_FILE":     &c.Log.File,
	}
	intOverrides := map[string]*int{
		"MIKA_GRPC_PORT":        &c.GRPCPort,
		"MIKA_HTTP_PORT":        &c.HTTPPort,
		"MIKA_CHANNEL_CAPACITY": &c.ChannelCapacity,
	}
	applyOverrides(stringOverrides, intOverrides, nil)
}

func applyOverrides(strs map[string]*string, ints map[string]*int, bools map[string]*bool) {
	for key, target := range strs {
		if val := os.Getenv(key); val != "" {
			*target = val
		}
	}
	for key, target := range ints {
		if val := os.Getenv(key); val != "" {
			if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
				*target = n
			}
		}
	}
	for key, target := range bools {
		if val := os.Getenv(key); val != "" {
			*target = parseBool(val)
		}
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}

// Validate checks the configuration for errors.
func (c *Agent) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if c.Snapshot <= 0 {
		return fmt.Errorf("snapshot must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive")
	}
	d, err := time.ParseDuration(c.BatchInterval)
	if err != nil {
		return fmt.Errorf("invalid batch_interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("batch_interval must be positive")
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Server) Validate() error {
	if c.GRPCPort < 1 || c.GRPCPort > 65535 {
		return fmt.Errorf("grpc_port out of range: %d", c.GRPCPort)
	}
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port out of range: %d", c.HTTPPort)
	}
	if c.GRPCPort == c.HTTPPort {
		return fmt.Errorf("grpc_port and http_port must differ")
	}
	if c.ChannelCapacity <= 0 {
		return fmt.Errorf("channel_capacity must be positive")
	}
	d, err := ParseTimeout(c.PeerTimeout)
	if err != nil {
		return fmt.Errorf("invalid peer_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("peer_timeout must be positive")
	}
	return nil
}

// ControlPort extracts the port from the agent's server address so capture
// can exclude its own uplink traffic. A missing or unparsable port falls
// back to DefaultControlPort.
func (c *Agent) ControlPort() int {
	_, portStr, err := net.SplitHostPort(c.Server)
	if err != nil {
		return DefaultControlPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return DefaultControlPort
	}
	return port
}

// ParseTimeout reads a timeout that is either a duration string ("30s") or
// a bare second count ("30").
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}
