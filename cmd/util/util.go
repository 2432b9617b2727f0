package util

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ValentinKolb/sybd/rpc/common"
	"github.com/ValentinKolb/sybd/rpc/transport"
	"github.com/ValentinKolb/sybd/rpc/transport/tcp"
	"github.com/ValentinKolb/sybd/rpc/transport/unix"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of all environment variables read by sybd (e.g. SYBD_LOG_LEVEL)
	EnvPrefix = "sybd"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

var initOnce sync.Once

// InitConfig loads the .env files and configures viper to read SYBD_* environment variables.
// Flags take precedence over environment variables once they are bound with BindCommandFlags.
func InitConfig() {
	initOnce.Do(func() {
		// load env files
		_ = godotenv.Load(".env")
		_ = godotenv.Load(".env.local")

		// initialize viper
		viper.SetEnvPrefix(EnvPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv() // read in environment variables that match
	})
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// InitLogging sets up the loggers with the level of the log-level flag
func InitLogging() error {
	return common.InitLoggers(viper.GetString("log-level"))
}

// --------------------------------------------------------------------------
// Client
// --------------------------------------------------------------------------

// SetupRPCClientFlags adds common RPC connection flags to a command
func SetupRPCClientFlags(cmd *cobra.Command) {
	key := "endpoints"
	cmd.PersistentFlags().String(key, common.DefaultEndpoint, WrapString("The address of the sybd server (host:port for tcp, socket path for unix). Multiple endpoints can be specified as a comma-separated list"))

	key = "transport"
	cmd.PersistentFlags().String(key, string(common.TransportTCP), WrapString("The transport to use (tcp, unix)"))

	key = "timeout"
	cmd.PersistentFlags().Int(key, 5, WrapString("The timeout in seconds of a request (0 = none)"))

	key = "conn-per-endpoint"
	cmd.PersistentFlags().Int(key, 1, WrapString("Simultaneous connections per endpoint"))

	key = "read-buffer"
	cmd.PersistentFlags().Int(key, common.DefaultClientBufferSize/1024, WrapString("The size of the read buffer of each connection (in KB)"))

	key = "max-request"
	cmd.PersistentFlags().Int(key, common.DefaultServerBufferSize, WrapString("The longest request in bytes the client sends. Must not exceed the read buffer of the server"))
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() (*common.ClientConfig, error) {
	t, err := common.ParseTransportType(viper.GetString("transport"))
	if err != nil {
		return nil, err
	}

	var endpoints []string
	for _, e := range strings.Split(viper.GetString("endpoints"), ",") {
		if e = strings.TrimSpace(e); e != "" {
			endpoints = append(endpoints, e)
		}
	}
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints configured")
	}

	return &common.ClientConfig{
		Endpoints:              endpoints,
		Transport:              t,
		TimeoutSecond:          viper.GetInt("timeout"),
		ConnectionsPerEndpoint: viper.GetInt("conn-per-endpoint"),
		ReadBufferSize:         viper.GetInt("read-buffer") * 1024,
		MaxRequestSize:         viper.GetInt("max-request"),
	}, nil
}

// GetClientTransport creates the client transport for t
func GetClientTransport(t common.TransportType) (transport.IRPCClientTransport, error) {
	switch t {
	case common.TransportTCP:
		return tcp.NewTCPClientTransport(), nil
	case common.TransportUnix:
		return unix.NewUnixClientTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", t)
	}
}

// GetServerTransport creates the server transport for t
func GetServerTransport(t common.TransportType) (transport.IRPCServerTransport, error) {
	switch t {
	case common.TransportTCP:
		return tcp.NewTCPServerTransport(), nil
	case common.TransportUnix:
		return unix.NewUnixServerTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", t)
	}
}
