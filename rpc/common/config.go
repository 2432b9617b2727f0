package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

const (
	// DefaultEndpoint is the address the server binds to if no endpoint is configured
	DefaultEndpoint = "127.0.0.1:6379"
	// DefaultServerBufferSize bounds a single command read by the server
	DefaultServerBufferSize = 1024
	// DefaultClientBufferSize is the read buffer of client connections
	DefaultClientBufferSize = 64 * 1024
	// DefaultLogLevel is used if no log level is configured
	DefaultLogLevel = "info"
)

// TransportType selects the socket family of server and client
type TransportType string

const (
	TransportTCP  TransportType = "tcp"
	TransportUnix TransportType = "unix"
)

// ParseTransportType converts a string to a TransportType
func ParseTransportType(s string) (TransportType, error) {
	switch TransportType(strings.ToLower(s)) {
	case TransportTCP, "":
		return TransportTCP, nil
	case TransportUnix:
		return TransportUnix, nil
	default:
		return "", fmt.Errorf("invalid transport: %s. must be one of tcp, unix", s)
	}
}

// --------------------------------------------------------------------------
// Shared formatting helpers
// --------------------------------------------------------------------------

type configPrinter struct {
	sb strings.Builder
}

func (p *configPrinter) section(title string) {
	p.sb.WriteString("\n")
	p.sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
}

func (p *configPrinter) field(name, value string) {
	p.sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of the server.
type ServerConfig struct {
	// Network settings
	Endpoint       string
	Transport      TransportType
	ReadBufferSize int
	TimeoutSecond  int64

	// TCP socket options
	TCPNoDelay   bool
	TCPKeepAlive bool
	ReuseAddr    bool

	// Persistence (an empty SnapshotFile means the server is ephemeral)
	SnapshotFile   string
	SnapshotFormat string

	// Observability
	LogLevel        string
	MetricsEndpoint string
}

// DefaultServerConfig returns the configuration used by `sybd serve` without flags
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Endpoint:       DefaultEndpoint,
		Transport:      TransportTCP,
		ReadBufferSize: DefaultServerBufferSize,
		TCPNoDelay:     true,
		TCPKeepAlive:   true,
		ReuseAddr:      true,
		SnapshotFormat: "auto",
		LogLevel:       DefaultLogLevel,
	}
}

// Validate checks the configuration for values the server cannot run with
func (c *ServerConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if _, err := ParseTransportType(string(c.Transport)); err != nil {
		return err
	}
	if c.ReadBufferSize <= 0 {
		return fmt.Errorf("read buffer size must be positive, got %d", c.ReadBufferSize)
	}
	if c.TimeoutSecond < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", c.TimeoutSecond)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var p configPrinter

	// RPC settings
	p.section("RPC Server")
	p.field("Endpoint", c.Endpoint)
	p.field("Transport", string(c.Transport))
	p.field("Read Buffer", fmt.Sprintf("%d bytes", c.ReadBufferSize))
	if c.TimeoutSecond > 0 {
		p.field("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	} else {
		p.field("Timeout", "none")
	}

	if c.Transport == TransportTCP {
		p.section("TCP")
		p.field("No Delay", strconv.FormatBool(c.TCPNoDelay))
		p.field("Keep Alive", strconv.FormatBool(c.TCPKeepAlive))
		p.field("Reuse Address", strconv.FormatBool(c.ReuseAddr))
	}

	// Persistence
	p.section("Persistence")
	if c.SnapshotFile == "" {
		p.field("Snapshot File", "- (ephemeral)")
	} else {
		p.field("Snapshot File", c.SnapshotFile)
		p.field("Snapshot Format", c.SnapshotFormat)
	}

	// Logging and metrics
	p.section("Observability")
	p.field("Log Level", c.LogLevel)
	p.field("Metrics Endpoint", orNone(c.MetricsEndpoint))

	return p.sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	Endpoints              []string
	Transport              TransportType
	TimeoutSecond          int
	ConnectionsPerEndpoint int
	ReadBufferSize         int
	// MaxRequestSize is the longest encoded request the client sends (0 = DefaultServerBufferSize).
	// It must not exceed the read buffer of the server, a longer request would be split into two commands.
	MaxRequestSize int
}

// DefaultClientConfig returns a client configuration for a single local server
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Endpoints:              []string{DefaultEndpoint},
		Transport:              TransportTCP,
		TimeoutSecond:          5,
		ConnectionsPerEndpoint: 1,
		ReadBufferSize:         DefaultClientBufferSize,
		MaxRequestSize:         DefaultServerBufferSize,
	}
}

// RequestLimit returns the effective MaxRequestSize
func (c *ClientConfig) RequestLimit() int {
	if c.MaxRequestSize <= 0 {
		return DefaultServerBufferSize
	}
	return c.MaxRequestSize
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var p configPrinter

	// General Client Settings
	p.section("Client Configuration")
	p.field("Transport", string(c.Transport))
	p.field("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	p.field("Connections Per Endpoint", strconv.Itoa(max(1, c.ConnectionsPerEndpoint)))
	p.field("Read Buffer", fmt.Sprintf("%d bytes", c.ReadBufferSize))
	p.field("Max Request", fmt.Sprintf("%d bytes", c.RequestLimit()))

	// Endpoints
	p.section("Endpoints")
	for i, endpoint := range c.Endpoints {
		p.field(strconv.Itoa(i), endpoint)
	}

	return p.sb.String()
}
